// Package table holds the row-oriented source table of a job export and the
// loaders that produce it from CSV, XLSX and XLS files.
package table

import (
	"fmt"
	"strings"
)

const (
	// SummaryRow is the row holding pre-aggregated totals.
	SummaryRow = 0
	// FirstDataRow is the first job entry row.
	FirstDataRow = 1
)

// Table is an ordered set of uniquely named columns over text rows.
// Accessors never fail: a missing column or row reads as "".
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// New builds a table from a header and rows. Empty header names become
// "Unnamed: <i>" and duplicates get ".1", ".2" suffixes so names stay unique.
// Rows are padded or truncated to the header width.
func New(header []string, rows [][]string) *Table {
	columns := uniqueColumns(header)
	t := &Table{
		columns: columns,
		index:   make(map[string]int, len(columns)),
		rows:    make([][]string, 0, len(rows)),
	}
	for i, c := range columns {
		t.index[c] = i
	}
	for _, r := range rows {
		row := make([]string, len(columns))
		copy(row, r)
		t.rows = append(t.rows, row)
	}
	return t
}

func uniqueColumns(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := h
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for n := seen[base]; ; n++ {
			if n > 0 {
				name = fmt.Sprintf("%s.%d", base, n)
			}
			if _, dup := seen[name]; !dup {
				seen[base] = n + 1
				break
			}
		}
		seen[name] = max(seen[name], 1)
		out[i] = name
	}
	return out
}

// Columns returns the column names in source order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows including the summary row.
func (t *Table) Len() int {
	return len(t.rows)
}

// DataLen returns the number of data rows.
func (t *Table) DataLen() int {
	if len(t.rows) <= FirstDataRow {
		return 0
	}
	return len(t.rows) - FirstDataRow
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Value returns the raw cell text at column name and row index.
func (t *Table) Value(name string, row int) string {
	idx, ok := t.index[name]
	if !ok || row < 0 || row >= len(t.rows) {
		return ""
	}
	return t.rows[row][idx]
}

// Column returns a copy of all values of the named column, nil when missing.
func (t *Table) Column(name string) []string {
	idx, ok := t.index[name]
	if !ok {
		return nil
	}
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[idx]
	}
	return out
}

// Row returns a copy of the row at index i, nil when out of range.
func (t *Table) Row(i int) []string {
	if i < 0 || i >= len(t.rows) {
		return nil
	}
	return append([]string(nil), t.rows[i]...)
}

// ColumnBlank reports whether the column is missing or blank in every row,
// summary row included.
func (t *Table) ColumnBlank(name string) bool {
	return t.blankFrom(name, 0)
}

// DataColumnBlank reports whether the column is missing or blank in every
// data row.
func (t *Table) DataColumnBlank(name string) bool {
	return t.blankFrom(name, FirstDataRow)
}

func (t *Table) blankFrom(name string, start int) bool {
	idx, ok := t.index[name]
	if !ok {
		return true
	}
	for i := start; i < len(t.rows); i++ {
		if strings.TrimSpace(t.rows[i][idx]) != "" {
			return false
		}
	}
	return true
}

// reorder returns a table sharing t's columns whose rows follow order.
func (t *Table) reorder(order []int) *Table {
	out := &Table{
		columns: t.columns,
		index:   t.index,
		rows:    make([][]string, len(order)),
	}
	for i, src := range order {
		out.rows[i] = t.rows[src]
	}
	return out
}
