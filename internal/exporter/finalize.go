package exporter

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/model"
	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/seal"
)

// ExtraRowLabel labels the row for seals not tied to a job entry.
const ExtraRowLabel = "zusätzliche Dichtungen"

const (
	autoFitMin = 4
	autoFitMax = 30
)

// finalize appends the additional seals row at row and post-processes the
// whole sheet. widths holds template column widths by field name.
func (l *layout) finalize(row int, widths map[string]float64, autoFit bool) error {
	if err := l.writeExtraRow(row); err != nil {
		return err
	}
	if err := l.restoreWidths(widths); err != nil {
		return err
	}
	if err := l.hideEmptyFields(); err != nil {
		return err
	}
	if err := l.trimTrailingRows(row); err != nil {
		return err
	}
	if err := l.alternateSealFonts(); err != nil {
		return err
	}
	if autoFit {
		return l.autoFitSeals()
	}
	return nil
}

func (l *layout) writeExtraRow(row int) error {
	if row <= l.maxRow {
		if err := l.insertRow(row); err != nil {
			return err
		}
	} else {
		l.maxRow = row
	}
	if err := l.copyRowFormat(dataStartRow, row); err != nil {
		return err
	}
	if err := l.patchRow(row,
		withBorder("top", borderThin, colorBlack),
		withBorder("bottom", borderMedium, colorBlack),
		withFill(rowFill(l.tbl.Len()))); err != nil {
		return err
	}

	if err := l.f.SetCellStr(l.name, cellRef(labelCol, row), ExtraRowLabel); err != nil {
		return err
	}
	if err := l.patchCell(labelCol, row, withFont(fontMarker), withAlignment("left", "top")); err != nil {
		return err
	}

	for _, d := range l.seals {
		if !d.AlwaysShow {
			continue
		}
		col, ok := l.cols.Seal(d.Name)
		if !ok {
			continue
		}
		if err := l.f.SetCellValue(l.name, cellRef(col, row), cellNumber(d.DefaultValue)); err != nil {
			return err
		}
		if err := l.patchCell(col, row, withNumFmt(numFmtInteger), withAlignment("center", "top"), withFont(fontPlain)); err != nil {
			return err
		}

		old, _ := seal.ParseNumber(l.value(col, sumRow))
		if err := l.f.SetCellValue(l.name, cellRef(col, sumRow), cellNumber(old+d.DefaultValue)); err != nil {
			return err
		}
		if err := l.patchCell(col, sumRow, withNumFmt(numFmtInteger), withFont(fontSum), withAlignment("center", "top")); err != nil {
			return err
		}
	}
	return nil
}

// cellNumber keeps whole numbers integral in the sheet.
func cellNumber(v float64) any {
	if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return int64(v)
	}
	return v
}

// restoredWidthFields are the columns whose template width survives the
// column copies.
var restoredWidthFields = []string{model.ColPackingInfo, model.ColPartsTools}

func (l *layout) restoreWidths(widths map[string]float64) error {
	for _, field := range restoredWidthFields {
		col, ok := l.cols.Field(field)
		w := widths[field]
		if !ok || w <= 0 {
			continue
		}
		if err := l.f.SetColWidth(l.name, colName(col), colName(col), w); err != nil {
			return err
		}
	}
	return nil
}

// hideableFields are the fixed fields whose columns hold no header or label
// cells. Period (B) carries technician and range, Dealname (C) the extra row
// label.
var hideableFields = map[string]bool{
	model.ColMoreTechnicians: true,
	model.ColPackingInfo:     true,
	model.ColPartsTools:      true,
}

// hideEmptyFields hides hideable field columns that are blank in the whole
// table and shows all others.
func (l *layout) hideEmptyFields() error {
	for _, fc := range l.cols.Fields() {
		visible := !hideableFields[fc.Field] || !l.tbl.ColumnBlank(fc.Field)
		if err := l.f.SetColVisible(l.name, colName(fc.Column), visible); err != nil {
			return err
		}
		if !visible {
			l.log.Debug().Str("field", fc.Field).Str("column", colName(fc.Column)).Msg("empty column hidden")
		}
	}
	return nil
}

// trimTrailingRows removes blank rows below row, from the bottom up.
func (l *layout) trimTrailingRows(row int) error {
	for l.maxRow > row && l.rowBlank(l.maxRow) {
		if err := l.removeRow(l.maxRow); err != nil {
			return err
		}
	}
	return nil
}

// alternateSealFonts colors seal columns blue and black in turn, left to
// right. Only the font color changes.
func (l *layout) alternateSealFonts() error {
	for i, col := range l.cols.SealColumns() {
		color := colorBlue
		if i%2 == 1 {
			color = colorBlack
		}
		for row := 1; row <= l.maxRow; row++ {
			if err := l.patchCell(col, row, withFontColor(color)); err != nil {
				return err
			}
		}
	}
	return nil
}

// autoFitSeals sizes each seal column to its longest header line or value.
func (l *layout) autoFitSeals() error {
	for _, col := range l.cols.SealColumns() {
		longest := 0
		for row := 1; row <= l.maxRow; row++ {
			for _, line := range strings.Split(l.value(col, row), "\n") {
				longest = max(longest, utf8.RuneCountInString(line))
			}
		}
		if err := l.f.SetColWidth(l.name, colName(col), colName(col), autoFitWidth(longest)); err != nil {
			return err
		}
	}
	return nil
}

func autoFitWidth(runes int) float64 {
	w := float64(runes+1) * 1.1
	return math.Min(math.Max(w, autoFitMin), autoFitMax)
}
