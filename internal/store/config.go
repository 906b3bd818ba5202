package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// ErrConfigNotFound is returned for unknown config keys.
var ErrConfigNotFound = errors.New("config key not found")

// GetConfig returns one config value.
func (s *Store) GetConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, key)
		}
		return "", err
	}
	return value, nil
}

// GetConfigBool returns a boolean config value, or def when the key is unset.
func (s *Store) GetConfigBool(key string, def bool) (bool, error) {
	value, err := s.GetConfig(key)
	if errors.Is(err, ErrConfigNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return def, fmt.Errorf("config %s: %w", key, err)
	}
	return b, nil
}

// SetConfig stores one config value.
func (s *Store) SetConfig(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, key, value, value)
	return err
}

// SetConfigBool stores a boolean config value.
func (s *Store) SetConfigBool(key string, value bool) error {
	return s.SetConfig(key, strconv.FormatBool(value))
}

// GetAllConfig returns every config value.
func (s *Store) GetAllConfig() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM config")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	config := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		config[key] = value
	}
	return config, rows.Err()
}
