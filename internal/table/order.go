package table

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/period"
)

// ErrNoData is returned when a table has no rows to order.
var ErrNoData = errors.New("table has no rows")

// SortByPeriod returns a copy of t whose data rows are ordered ascending by
// the instant parsed from column col. The summary row stays first. Rows
// whose period cannot be parsed keep their relative order after all
// parseable rows. On error t itself is returned unchanged.
func SortByPeriod(t *Table, col string) (*Table, error) {
	if t.Len() == 0 {
		return t, ErrNoData
	}
	if !t.HasColumn(col) {
		return t, fmt.Errorf("sort rows: column %q not found", col)
	}

	type key struct {
		row    int
		ok     bool
		sortAt int64
	}
	keys := make([]key, 0, t.DataLen())
	for i := FirstDataRow; i < t.Len(); i++ {
		at, ok := period.ParseInstant(t.Value(col, i))
		keys = append(keys, key{row: i, ok: ok, sortAt: at.Unix()})
	}
	sort.SliceStable(keys, func(a, b int) bool {
		ka, kb := keys[a], keys[b]
		if ka.ok != kb.ok {
			return ka.ok
		}
		return ka.ok && ka.sortAt < kb.sortAt
	})

	order := make([]int, 0, t.Len())
	order = append(order, SummaryRow)
	for _, k := range keys {
		order = append(order, k.row)
	}
	return t.reorder(order), nil
}
