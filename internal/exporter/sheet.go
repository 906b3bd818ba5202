package exporter

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// sheet wraps one worksheet with its tracked extent and a style manager.
// excelize does not keep the dimension current while rows and columns are
// inserted, so maxRow and maxCol are maintained here.
type sheet struct {
	f      *excelize.File
	name   string
	styles *StyleManager
	maxRow int
	maxCol int
}

func newSheet(f *excelize.File, name string) (*sheet, error) {
	rows, cols, err := sheetExtent(f, name)
	if err != nil {
		return nil, err
	}
	return &sheet{f: f, name: name, styles: NewStyleManager(f), maxRow: rows, maxCol: cols}, nil
}

// sheetExtent returns the last used row and column, from the recorded
// dimension and the cells that hold values.
func sheetExtent(f *excelize.File, name string) (rows, cols int, err error) {
	if dim, err := f.GetSheetDimension(name); err == nil && dim != "" {
		parts := strings.Split(dim, ":")
		if c, r, err := excelize.CellNameToCoordinates(parts[len(parts)-1]); err == nil {
			rows, cols = r, c
		}
	}
	values, err := f.GetRows(name)
	if err != nil {
		return 0, 0, fmt.Errorf("read sheet %s: %w", name, err)
	}
	rows = max(rows, len(values))
	for _, r := range values {
		cols = max(cols, len(r))
	}
	return rows, cols, nil
}

func cellRef(col, row int) string {
	ref, _ := excelize.CoordinatesToCellName(col, row)
	return ref
}

func colName(col int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return name
}

func (s *sheet) styleOf(col, row int) int {
	id, err := s.f.GetCellStyle(s.name, cellRef(col, row))
	if err != nil {
		return 0
	}
	return id
}

// patchCell applies patches to the style of one cell.
func (s *sheet) patchCell(col, row int, patches ...stylePatch) error {
	id, err := s.styles.Apply(s.styleOf(col, row), patches...)
	if err != nil {
		return err
	}
	ref := cellRef(col, row)
	if err := s.f.SetCellStyle(s.name, ref, ref, id); err != nil {
		return fmt.Errorf("style %s: %w", ref, err)
	}
	return nil
}

// patchRow applies patches to every cell of row up to maxCol.
func (s *sheet) patchRow(row int, patches ...stylePatch) error {
	for col := 1; col <= s.maxCol; col++ {
		if err := s.patchCell(col, row, patches...); err != nil {
			return err
		}
	}
	return nil
}

// copyCellStyle gives dst the style of src with wrap text forced on.
func (s *sheet) copyCellStyle(srcCol, srcRow, dstCol, dstRow int) error {
	id, err := s.styles.Apply(s.styleOf(srcCol, srcRow), withWrap())
	if err != nil {
		return err
	}
	ref := cellRef(dstCol, dstRow)
	if err := s.f.SetCellStyle(s.name, ref, ref, id); err != nil {
		return fmt.Errorf("style %s: %w", ref, err)
	}
	return nil
}

// copyRowFormat copies the formatting of row src onto row dst and clears
// dst's values.
func (s *sheet) copyRowFormat(src, dst int) error {
	for col := 1; col <= s.maxCol; col++ {
		if err := s.copyCellStyle(col, src, col, dst); err != nil {
			return err
		}
		if err := s.clear(col, dst); err != nil {
			return err
		}
	}
	return nil
}

// copyColumn copies styles and values of every row, and the width, from
// column src to column dst.
func (s *sheet) copyColumn(src, dst int) error {
	for row := 1; row <= s.maxRow; row++ {
		if err := s.copyCellStyle(src, row, dst, row); err != nil {
			return err
		}
		v, err := s.f.GetCellValue(s.name, cellRef(src, row))
		if err != nil {
			return err
		}
		if v == "" {
			continue
		}
		if err := s.f.SetCellValue(s.name, cellRef(dst, row), v); err != nil {
			return err
		}
	}
	w, err := s.f.GetColWidth(s.name, colName(src))
	if err != nil {
		return err
	}
	return s.f.SetColWidth(s.name, colName(dst), colName(dst), w)
}

func (s *sheet) clear(col, row int) error {
	ref := cellRef(col, row)
	v, err := s.f.GetCellValue(s.name, ref)
	if err != nil || v == "" {
		return err
	}
	return s.f.SetCellDefault(s.name, ref, "")
}

func (s *sheet) value(col, row int) string {
	v, _ := s.f.GetCellValue(s.name, cellRef(col, row))
	return v
}

func (s *sheet) rowBlank(row int) bool {
	for col := 1; col <= s.maxCol; col++ {
		if strings.TrimSpace(s.value(col, row)) != "" {
			return false
		}
	}
	return true
}

func (s *sheet) insertCol(col int) error {
	if err := s.f.InsertCols(s.name, colName(col), 1); err != nil {
		return fmt.Errorf("insert column %s: %w", colName(col), err)
	}
	s.maxCol++
	return nil
}

func (s *sheet) insertRow(row int) error {
	if err := s.f.InsertRows(s.name, row, 1); err != nil {
		return fmt.Errorf("insert row %d: %w", row, err)
	}
	s.maxRow = max(s.maxRow+1, row)
	return nil
}

func (s *sheet) removeRow(row int) error {
	if err := s.f.RemoveRow(s.name, row); err != nil {
		return fmt.Errorf("remove row %d: %w", row, err)
	}
	if s.maxRow >= row {
		s.maxRow--
	}
	return nil
}
