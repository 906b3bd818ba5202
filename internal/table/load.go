package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/thedatashed/xlsxreader"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

var (
	// ErrUnsupportedFormat is returned for file types other than csv, xls and xlsx.
	ErrUnsupportedFormat = errors.New("unsupported source format")
	// ErrUnreadable is returned when a source file cannot be parsed into a table.
	ErrUnreadable = errors.New("source table unreadable")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SupportedExtension reports whether ext (with leading dot) can be loaded.
func SupportedExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".csv", ".xlsx", ".xlsm", ".xls":
		return true
	}
	return false
}

// Load reads the table at path; the format is chosen by file extension.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()
	return LoadReader(filepath.Ext(path), f)
}

// LoadReader reads a table of the format named by ext from r.
func LoadReader(ext string, r io.Reader) (*Table, error) {
	if !SupportedExtension(ext) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	var records [][]string
	switch strings.ToLower(ext) {
	case ".csv":
		records, err = readCSV(data)
	case ".xls":
		records, err = readXLS(data)
	default:
		records, err = readXLSX(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrUnreadable)
	}
	return New(records[0], records[1:]), nil
}

// readCSV parses semicolon separated text. Input that is not valid UTF-8 is
// decoded as Windows-1252, the usual encoding of CRM exports opened in Excel.
func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decode csv: %w", err)
		}
		data = decoded
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = ';'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return records, nil
}

// readXLSX streams the first sheet. Rows missing from the sheet XML are kept
// as empty rows so data row positions match the spreadsheet.
func readXLSX(data []byte) ([][]string, error) {
	xl, err := xlsxreader.NewReader(data)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	if len(xl.Sheets) == 0 {
		return nil, errors.New("xlsx has no sheets")
	}

	var (
		records  [][]string
		firstRow = -1
		rowErr   error
	)
	for row := range xl.ReadRows(xl.Sheets[0]) {
		if row.Error != nil {
			if rowErr == nil {
				rowErr = row.Error
			}
			continue
		}
		if firstRow < 0 {
			firstRow = row.Index
		}
		pos := row.Index - firstRow
		for len(records) <= pos {
			records = append(records, nil)
		}
		records[pos] = xlsxCells(row.Cells)
	}
	if rowErr != nil {
		return nil, fmt.Errorf("read xlsx rows: %w", rowErr)
	}
	return records, nil
}

func xlsxCells(cells []xlsxreader.Cell) []string {
	var out []string
	for _, c := range cells {
		col, err := excelize.ColumnNameToNumber(c.Column)
		if err != nil {
			continue
		}
		for len(out) < col {
			out = append(out, "")
		}
		out[col-1] = c.Value
	}
	return out
}

// readXLS reads the first sheet of a legacy BIFF workbook.
func readXLS(data []byte) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("xls has no sheets")
	}

	records := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			records = append(records, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		records = append(records, cells)
	}
	return trimTrailingEmpty(records), nil
}

func trimTrailingEmpty(records [][]string) [][]string {
	for len(records) > 0 && rowEmpty(records[len(records)-1]) {
		records = records[:len(records)-1]
	}
	return records
}

func rowEmpty(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
