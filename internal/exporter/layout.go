package exporter

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/seal"
	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/table"
)

const (
	colorRed   = "FF0000"
	colorBlue  = "0000FF"
	colorBlack = "000000"
	colorGrid  = "999999"
	fillOdd    = "DDDDDD"
	fillEven   = "FFFFFF"
)

var (
	fontPlain  = excelize.Font{Family: "Calibri", Size: 12}
	fontBold   = excelize.Font{Family: "Calibri", Size: 12, Bold: true}
	fontHead   = excelize.Font{Family: "Calibri", Size: 14, Bold: true}
	fontSum    = excelize.Font{Family: "Calibri", Size: 16, Color: colorRed}
	fontAlert  = excelize.Font{Bold: true, Color: colorRed}
	fontText   = excelize.Font{Family: "Calibri", Size: 12, Color: colorBlack}
	fontMarker = excelize.Font{Bold: true}
)

// layout drives one conversion over the working sheet.
type layout struct {
	*sheet
	cols  *ColumnAllocator
	tbl   *table.Table
	seals []seal.Descriptor
	log   *zerolog.Logger
}

// BreakName formats a seal name for the header cell: the first "_" becomes a
// line break; names without one are split in the middle when two lines are
// narrower than one.
func BreakName(name string) string {
	if i := strings.Index(name, "_"); i >= 0 {
		return name[:i] + "\n" + name[i+1:]
	}
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	half := int(math.Ceil(float64(n) / 2))
	oneLine := float64(n+1) * 1.1
	twoLines := float64(half+1) * 1.1
	if twoLines < oneLine {
		r := []rune(name)
		return string(r[:half]) + "\n" + string(r[half:])
	}
	return name
}

// roundCell rounds half to even, the way the sums were always rounded.
// Values beyond the int64 range stay floats.
func roundCell(v float64) any {
	return cellNumber(math.RoundToEven(v))
}

// placeSeals gives every seal its column, header and sum cell, then draws the
// line under the header row.
func (l *layout) placeSeals() error {
	for _, d := range l.seals {
		col, err := l.cols.Place(d.Name, l.insertSealColumn)
		if err != nil {
			return err
		}

		for row := 1; row <= l.maxRow; row++ {
			if err := l.patchCell(col, row, withBorder("left", borderThin, colorBlack)); err != nil {
				return err
			}
		}

		if err := l.f.SetCellStr(l.name, cellRef(col, headerRow), BreakName(d.Name)); err != nil {
			return err
		}
		if err := l.patchCell(col, headerRow, withFont(fontBold), withAlignment("center", "center")); err != nil {
			return err
		}

		sum, _ := seal.ParseNumber(l.tbl.Value(d.Name, table.SummaryRow))
		if err := l.f.SetCellValue(l.name, cellRef(col, sumRow), roundCell(sum)); err != nil {
			return err
		}
		if err := l.patchCell(col, sumRow, withNumFmt(numFmtInteger), withFont(fontSum), withAlignment("center", "top")); err != nil {
			return err
		}
		l.log.Debug().Str("seal", d.Name).Str("column", colName(col)).Msg("seal column placed")
	}
	return l.patchRow(headerRow, withBorder("bottom", borderThin, colorBlack))
}

// insertSealColumn inserts column col as a copy of the placeholder column.
func (l *layout) insertSealColumn(col int) error {
	if err := l.insertCol(col); err != nil {
		return err
	}
	return l.copyColumn(l.cols.Placeholder(), col)
}
