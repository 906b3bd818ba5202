package exporter

import (
	"sort"

	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/model"
)

// ColumnAllocator owns the column geometry of the report sheet: where each
// seal is placed and where each fixed field currently lives. Column indexes
// are 1-based.
type ColumnAllocator struct {
	placeholder int
	current     int
	started     bool
	fields      []model.FieldColumn
	seals       map[string]int
	order       []string
}

// NewColumnAllocator starts a plan whose first seal reuses the placeholder
// column.
func NewColumnAllocator(placeholder int, fields []model.FieldColumn) *ColumnAllocator {
	return &ColumnAllocator{
		placeholder: placeholder,
		current:     placeholder,
		fields:      append([]model.FieldColumn(nil), fields...),
		seals:       make(map[string]int),
	}
}

// Place assigns the next column to seal name. The first seal takes the
// placeholder column. Every later seal needs a new column right after the
// previous one: insert is called with that index and, only if it succeeds,
// every fixed field at or beyond it moves one to the right.
func (a *ColumnAllocator) Place(name string, insert func(col int) error) (int, error) {
	if !a.started {
		a.started = true
		a.seals[name] = a.current
		a.order = append(a.order, name)
		return a.current, nil
	}

	col := a.current + 1
	if err := insert(col); err != nil {
		return 0, err
	}
	for i := range a.fields {
		if a.fields[i].Column >= col {
			a.fields[i].Column++
		}
	}
	a.current = col
	a.seals[name] = col
	a.order = append(a.order, name)
	return col, nil
}

// Placeholder returns the template column new seal columns copy from.
func (a *ColumnAllocator) Placeholder() int {
	return a.placeholder
}

// Field returns the current column of a fixed field.
func (a *ColumnAllocator) Field(name string) (int, bool) {
	for _, f := range a.fields {
		if f.Field == name {
			return f.Column, true
		}
	}
	return 0, false
}

// Fields returns a copy of the fixed field columns.
func (a *ColumnAllocator) Fields() []model.FieldColumn {
	return append([]model.FieldColumn(nil), a.fields...)
}

// Seal returns the column of a placed seal.
func (a *ColumnAllocator) Seal(name string) (int, bool) {
	col, ok := a.seals[name]
	return col, ok
}

// Seals returns the placed seal names in placement order.
func (a *ColumnAllocator) Seals() []string {
	return append([]string(nil), a.order...)
}

// SealColumns returns the placed seal columns ascending.
func (a *ColumnAllocator) SealColumns() []int {
	cols := make([]int, 0, len(a.seals))
	for _, c := range a.seals {
		cols = append(cols, c)
	}
	sort.Ints(cols)
	return cols
}
