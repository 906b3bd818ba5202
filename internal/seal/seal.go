// Package seal describes the configurable seal (Dichtung) columns of a
// Packliste and decides which of them are rendered and in which order.
package seal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Descriptor configures one seal column.
type Descriptor struct {
	Name         string  `json:"name" validate:"max=128"`
	AlwaysShow   bool    `json:"always_show"`
	DefaultValue float64 `json:"default_value"`
	// Order is the manual position among always-show seals; nil when unset or
	// not an integer.
	Order *int `json:"order,omitempty"`
}

type descriptorJSON struct {
	Name         json.RawMessage `json:"name"`
	AlwaysShow   json.RawMessage `json:"always_show"`
	DefaultValue json.RawMessage `json:"default_value"`
	Order        json.RawMessage `json:"order"`
}

// UnmarshalJSON accepts the loose shapes found in hand-edited config files:
// numbers given as strings, "order" as "3" or 3, and an unparseable order
// treated as unset.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var raw descriptorJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = Descriptor{
		Name:         scalarText(raw.Name),
		AlwaysShow:   truthy(raw.AlwaysShow),
		DefaultValue: number(raw.DefaultValue),
		Order:        parseOrder(raw.Order),
	}
	return nil
}

// DecodeList decodes a JSON array of descriptors. Legacy entries that are
// plain strings (or other scalars) become non-always-show seals with default
// value 0.
func DecodeList(data []byte) ([]Descriptor, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []Descriptor{}, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode seal list: %w", err)
	}
	out := make([]Descriptor, 0, len(items))
	for i, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '{' {
			var d Descriptor
			if err := json.Unmarshal(item, &d); err != nil {
				return nil, fmt.Errorf("decode seal %d: %w", i, err)
			}
			out = append(out, d)
			continue
		}
		out = append(out, Descriptor{Name: scalarText(item)})
	}
	return out, nil
}

// EncodeList renders descriptors as an indented JSON array.
func EncodeList(list []Descriptor) ([]byte, error) {
	if list == nil {
		list = []Descriptor{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode seal list: %w", err)
	}
	return append(data, '\n'), nil
}

// IsReserved reports whether name is never displayed as a seal column.
func IsReserved(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || strings.EqualFold(name, "tag")
}

func scalarText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

func truthy(raw json.RawMessage) bool {
	switch strings.ToLower(strings.TrimSpace(scalarText(raw))) {
	case "true", "1", "yes", "ja":
		return true
	}
	return false
}

func number(raw json.RawMessage) float64 {
	v, ok := ParseNumber(scalarText(raw))
	if !ok {
		return 0
	}
	return v
}

func parseOrder(raw json.RawMessage) *int {
	n, err := strconv.Atoi(strings.TrimSpace(scalarText(raw)))
	if err != nil {
		return nil
	}
	return &n
}

// ParseNumber parses a decimal number, accepting a comma as the decimal
// separator. NaN and infinities are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
