package exporter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/model"
)

// ErrTemplateNotFound is returned when a configured template file is missing.
var ErrTemplateNotFound = errors.New("template not found")

// Template geometry. All rows but scaffoldRow refer to the sheet after the
// scaffold row is removed.
const (
	scaffoldRow      = 1
	sumRow           = 1
	technicianRow    = 1
	periodRow        = 2
	headerRow        = 2
	dataStartRow     = 3
	numberingCol     = 1
	placeholderCol   = 5
	labelCol         = 3
	defaultDataRows  = 20
	defaultSheetName = "Packliste"
)

// workbook is a private copy of the template opened for one conversion.
type workbook struct {
	file    *excelize.File
	tmpPath string
}

// Close closes the workbook and removes its on-disk copy.
func (w *workbook) Close() error {
	var err error
	if w.file != nil {
		err = w.file.Close()
	}
	if w.tmpPath != "" {
		if rmErr := os.Remove(w.tmpPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}
	return err
}

// openTemplate opens a working copy of the template at path, or a fresh
// built-in template when path is empty. widths maps each of fields to the
// width of its column in the untouched template.
func openTemplate(path, workDir string, fields []model.FieldColumn) (wb *workbook, widths map[string]float64, err error) {
	path = strings.TrimSpace(path)
	if path == "" {
		f, err := NewDefaultTemplate()
		if err != nil {
			return nil, nil, err
		}
		widths, err := columnWidths(f, fields)
		if err != nil {
			_ = f.Close()
			return nil, nil, err
		}
		return &workbook{file: f}, widths, nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, path, err)
	}

	widths, err = templateWidths(path, fields)
	if err != nil {
		return nil, nil, err
	}

	if workDir == "" {
		workDir = os.TempDir()
	}
	tmpPath := filepath.Join(workDir, uuid.NewString()+"_template.xlsx")
	if err := copyFile(path, tmpPath); err != nil {
		return nil, nil, err
	}
	f, err := excelize.OpenFile(tmpPath)
	if err != nil {
		_ = os.Remove(tmpPath)
		return nil, nil, fmt.Errorf("open template copy: %w", err)
	}
	return &workbook{file: f, tmpPath: tmpPath}, widths, nil
}

func templateWidths(path string, fields []model.FieldColumn) (map[string]float64, error) {
	orig, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	defer orig.Close()
	return columnWidths(orig, fields)
}

func columnWidths(f *excelize.File, fields []model.FieldColumn) (map[string]float64, error) {
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	widths := make(map[string]float64, len(fields))
	for _, fc := range fields {
		name, err := excelize.ColumnNumberToName(fc.Column)
		if err != nil {
			return nil, err
		}
		w, err := f.GetColWidth(sheet, name)
		if err != nil {
			return nil, fmt.Errorf("read width of column %s: %w", name, err)
		}
		widths[fc.Field] = w
	}
	return widths, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open template: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create template copy: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("copy template: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("close template copy: %w", err)
	}
	return nil
}

var defaultColumnWidths = []struct {
	col   string
	width float64
}{
	{"A", 5}, {"B", 16}, {"C", 28}, {"D", 16}, {"E", 8}, {"F", 40}, {"G", 32},
}

var defaultHeaders = map[string]string{
	"A": "Nr.",
	"C": "Dealname",
	"D": "Weitere Techniker",
	"E": "Dichtung",
	"F": "Informationen Packliste",
	"G": "Ersatzteil und Zubehör",
}

// NewDefaultTemplate builds the Packliste template: a scaffold first row,
// the sum and header rows, placeholder column E and pre-formatted data rows.
func NewDefaultTemplate() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := buildDefaultTemplate(f); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func buildDefaultTemplate(f *excelize.File) error {
	if err := f.SetSheetName(f.GetSheetName(0), defaultSheetName); err != nil {
		return err
	}
	sheet := defaultSheetName
	sm := NewStyleManager(f)

	for _, cw := range defaultColumnWidths {
		if err := f.SetColWidth(sheet, cw.col, cw.col, cw.width); err != nil {
			return err
		}
	}

	// Rows are numbered as in the file, i.e. before the scaffold row is removed.
	if err := f.SetCellStr(sheet, "A1", "Vorlage: diese Zeile wird beim Konvertieren entfernt"); err != nil {
		return err
	}

	title, err := sm.Apply(0, withFont(excelize.Font{Family: "Calibri", Size: 16, Bold: true}))
	if err != nil {
		return err
	}
	if err := f.SetCellStr(sheet, "C2", "Packliste"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "C2", "C2", title); err != nil {
		return err
	}
	sum, err := sm.Apply(0,
		withFont(excelize.Font{Family: "Calibri", Size: 16, Color: "FF0000"}),
		withAlignment("center", "top"),
		withNumFmt(numFmtInteger))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "E2", "E2", sum); err != nil {
		return err
	}

	header, err := sm.Apply(0,
		withFont(excelize.Font{Family: "Calibri", Size: 12, Bold: true}),
		withAlignment("center", "center"),
		withBorder("bottom", borderThin, "000000"))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A3", "G3", header); err != nil {
		return err
	}
	for col, text := range defaultHeaders {
		if err := f.SetCellStr(sheet, col+"3", text); err != nil {
			return err
		}
	}
	if err := f.SetRowHeight(sheet, 3, 32); err != nil {
		return err
	}

	data, err := sm.Apply(0,
		withFont(excelize.Font{Family: "Calibri", Size: 12}),
		withAlignment("left", "top"),
		withBorder("top", borderDotted, "999999"),
		withBorder("bottom", borderDotted, "999999"))
	if err != nil {
		return err
	}
	seal, err := sm.Apply(data, withAlignment("center", "top"))
	if err != nil {
		return err
	}
	first, last := dataStartRow+1, dataStartRow+defaultDataRows
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", first), fmt.Sprintf("G%d", last), data); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("E%d", first), fmt.Sprintf("E%d", last), seal); err != nil {
		return err
	}
	if err := f.SetSheetDimension(sheet, fmt.Sprintf("A1:G%d", last)); err != nil {
		return err
	}

	landscape := "landscape"
	if err := f.SetPageLayout(sheet, &excelize.PageLayoutOptions{Orientation: &landscape}); err != nil {
		return err
	}
	f.SetActiveSheet(0)
	return nil
}
