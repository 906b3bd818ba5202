package exporter

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/model"
	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/period"
	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/seal"
	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/table"
)

// technicianRowIndex is the source row the technician name is taken from.
const technicianRowIndex = 3

// Technician returns the technician of an export: the value of the third
// data row, or the first non-blank one when that row has none.
func Technician(tbl *table.Table) string {
	if v := tbl.Value(model.ColTechnician, technicianRowIndex); strings.TrimSpace(v) != "" {
		return v
	}
	for i := table.FirstDataRow; i < tbl.Len(); i++ {
		if v := tbl.Value(model.ColTechnician, i); strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// PeriodRange returns the first and last date of the export's period column.
func PeriodRange(tbl *table.Table) string {
	return period.Range(tbl.Column(model.ColPeriod))
}

// writeHeader fills the technician and period range cells.
func (l *layout) writeHeader(technician, periodRange string) error {
	for _, c := range []struct {
		row   int
		value string
	}{
		{technicianRow, technician},
		{periodRow, periodRange},
	} {
		if err := l.f.SetCellStr(l.name, cellRef(2, c.row), c.value); err != nil {
			return err
		}
		if err := l.patchCell(2, c.row, withFont(fontHead)); err != nil {
			return err
		}
	}
	return nil
}

func rowFill(index int) string {
	if index%2 == 1 {
		return fillOdd
	}
	return fillEven
}

// renderRows writes one sheet row per data row and returns the first row
// after them.
func (l *layout) renderRows() (int, error) {
	row := dataStartRow
	for i := table.FirstDataRow; i < l.tbl.Len(); i++ {
		if row > l.maxRow {
			if err := l.insertRow(row); err != nil {
				return 0, err
			}
		}
		if err := l.copyRowFormat(dataStartRow, row); err != nil {
			return 0, err
		}
		if err := l.renderRow(i, row); err != nil {
			return 0, err
		}
		row++
	}
	return row, nil
}

func (l *layout) renderRow(index, row int) error {
	if err := l.f.SetCellValue(l.name, cellRef(numberingCol, row), index); err != nil {
		return err
	}
	if err := l.patchCell(numberingCol, row, withFont(fontBold), withAlignment("right", "top")); err != nil {
		return err
	}

	for _, fc := range l.cols.Fields() {
		if err := l.renderField(fc, index, row); err != nil {
			return err
		}
	}

	for _, d := range l.seals {
		col, ok := l.cols.Seal(d.Name)
		if !ok {
			continue
		}
		if err := l.writeNumber(col, row, l.tbl.Value(d.Name, index)); err != nil {
			return err
		}
		if err := l.patchCell(col, row, withAlignment("center", "top"), withFont(fontPlain)); err != nil {
			return err
		}
	}

	borders := []stylePatch{
		withBorder("top", borderDotted, colorGrid),
		withBorder("bottom", borderDotted, colorGrid),
	}
	if row == dataStartRow {
		borders[0] = withBorder("top", borderThin, colorBlack)
	}
	return l.patchRow(row, append(borders, withFill(rowFill(index)))...)
}

func (l *layout) renderField(fc model.FieldColumn, index, row int) error {
	val := l.tbl.Value(fc.Field, index)
	ref := cellRef(fc.Column, row)

	switch fc.Field {
	case model.ColPeriod:
		if val != "" {
			if err := l.f.SetCellRichText(l.name, ref, periodRuns(val)); err != nil {
				return err
			}
		}
		return l.patchCell(fc.Column, row, withAlignment("left", "top"))
	case model.ColPackingInfo, model.ColPartsTools, model.ColMoreTechnicians:
		if err := l.setText(ref, val); err != nil {
			return err
		}
		return l.patchCell(fc.Column, row, withFont(fontAlert), withAlignment("left", "top"))
	default:
		if err := l.setText(ref, val); err != nil {
			return err
		}
		return l.patchCell(fc.Column, row, withFont(fontText), withAlignment("left", "top"))
	}
}

// periodRuns renders a period value with the weekday and date in bold. A
// value without a leading date gets its first word in bold.
func periodRuns(val string) []excelize.RichTextRun {
	head, rest, ok := period.Transform(val)
	if !ok {
		head, rest = val, ""
		if i := strings.Index(val, " "); i >= 0 {
			head, rest = val[:i], val[i:]
		}
	}
	bold, plain := fontBold, fontPlain
	runs := []excelize.RichTextRun{{Font: &bold, Text: head}}
	if rest != "" {
		runs = append(runs, excelize.RichTextRun{Font: &plain, Text: rest})
	}
	return runs
}

func (l *layout) setText(ref, val string) error {
	if val == "" {
		return nil
	}
	return l.f.SetCellStr(l.name, ref, val)
}

// writeNumber writes a rounded integer with format "0" when raw is numeric
// and the raw text otherwise.
func (l *layout) writeNumber(col, row int, raw string) error {
	ref := cellRef(col, row)
	v, ok := seal.ParseNumber(raw)
	if !ok {
		return l.setText(ref, raw)
	}
	if err := l.f.SetCellValue(l.name, ref, roundCell(v)); err != nil {
		return err
	}
	return l.patchCell(col, row, withNumFmt(numFmtInteger))
}
