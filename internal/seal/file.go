package seal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// LoadFile reads a seal list from path. A missing file is created holding an
// empty list.
func LoadFile(path string) ([]Descriptor, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := SaveFile(path, nil); err != nil {
			return nil, err
		}
		return []Descriptor{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seal file: %w", err)
	}
	return DecodeList(data)
}

// SaveFile writes list to path atomically.
func SaveFile(path string, list []Descriptor) error {
	data, err := EncodeList(list)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create seal dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write seal file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace seal file: %w", err)
	}
	return nil
}
