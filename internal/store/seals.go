package store

import (
	"database/sql"
	"fmt"

	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/seal"
)

// ListSeals returns the stored seal list in its saved order.
func (s *Store) ListSeals() ([]seal.Descriptor, error) {
	rows, err := s.db.Query(`
		SELECT name, always_show, default_value, sort_order
		FROM seals ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list seals: %w", err)
	}
	defer rows.Close()

	list := []seal.Descriptor{}
	for rows.Next() {
		var (
			d     seal.Descriptor
			order sql.NullInt64
		)
		if err := rows.Scan(&d.Name, &d.AlwaysShow, &d.DefaultValue, &order); err != nil {
			return nil, fmt.Errorf("failed to scan seal: %w", err)
		}
		if order.Valid {
			n := int(order.Int64)
			d.Order = &n
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// ReplaceSeals replaces the stored seal list with list, keeping its order.
// Blank and reserved names are not stored.
func (s *Store) ReplaceSeals(list []seal.Descriptor) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM seals"); err != nil {
		return fmt.Errorf("failed to clear seals: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO seals (position, name, always_show, default_value, sort_order, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare seal insert: %w", err)
	}
	defer stmt.Close()

	now := s.timestamp()
	i := 0
	for _, d := range list {
		if seal.IsReserved(d.Name) {
			continue
		}
		var order sql.NullInt64
		if d.Order != nil {
			order = sql.NullInt64{Int64: int64(*d.Order), Valid: true}
		}
		if _, err := stmt.Exec(i, d.Name, d.AlwaysShow, d.DefaultValue, order, now); err != nil {
			return fmt.Errorf("failed to insert seal %q: %w", d.Name, err)
		}
		i++
	}
	return tx.Commit()
}

// CountSeals returns the number of stored seals.
func (s *Store) CountSeals() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM seals").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count seals: %w", err)
	}
	return n, nil
}
