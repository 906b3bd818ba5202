package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/model"
)

// CreateConversion logs a started conversion and returns its id.
func (s *Store) CreateConversion(sourceName string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO conversions (id, source_name, status, created_at)
		VALUES (?, ?, ?, ?)
	`, id, sourceName, model.ConversionRunning, s.timestamp())
	if err != nil {
		return "", fmt.Errorf("failed to create conversion log: %w", err)
	}
	return id, nil
}

// FinishConversion records the outcome of a conversion. A non-nil
// convErr marks it failed.
func (s *Store) FinishConversion(c model.Conversion, convErr error) error {
	status, msg := model.ConversionDone, ""
	if convErr != nil {
		status, msg = model.ConversionFailed, convErr.Error()
	}
	seals := c.SealColumns
	if seals == nil {
		seals = []string{}
	}
	sealJSON, err := json.Marshal(seals)
	if err != nil {
		return fmt.Errorf("failed to encode seal columns: %w", err)
	}

	res, err := s.db.Exec(`
		UPDATE conversions SET
			output_name = ?,
			technician = ?,
			period_range = ?,
			data_rows = ?,
			seal_columns = ?,
			status = ?,
			error_message = ?,
			completed_at = ?
		WHERE id = ?
	`, c.OutputName, c.Technician, c.PeriodRange, c.DataRows, string(sealJSON), status, msg, s.timestamp(), c.ID)
	if err != nil {
		return fmt.Errorf("failed to update conversion log: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("conversion %s not found", c.ID)
	}
	return nil
}

// ListConversions returns the newest conversions first.
func (s *Store) ListConversions(limit int) ([]model.Conversion, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, source_name, output_name, technician, period_range, data_rows,
		       seal_columns, status, error_message, created_at, completed_at
		FROM conversions
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversions: %w", err)
	}
	defer rows.Close()

	list := []model.Conversion{}
	for rows.Next() {
		var (
			c         model.Conversion
			sealJSON  string
			createdAt string
			completed sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.SourceName, &c.OutputName, &c.Technician, &c.PeriodRange,
			&c.DataRows, &sealJSON, &c.Status, &c.ErrorMessage, &createdAt, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan conversion: %w", err)
		}
		if err := json.Unmarshal([]byte(sealJSON), &c.SealColumns); err != nil {
			c.SealColumns = nil
		}
		c.CreatedAt = parseTimestamp(createdAt)
		if completed.Valid {
			t := parseTimestamp(completed.String)
			c.CompletedAt = &t
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
