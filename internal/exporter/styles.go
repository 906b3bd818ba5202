package exporter

import (
	"fmt"
	"strconv"

	"github.com/tiendc/go-deepcopy"
	"github.com/xuri/excelize/v2"
)

// Border style indexes of excelize.
const (
	borderThin   = 1
	borderMedium = 2
	borderDotted = 4
)

const numFmtInteger = 1 // "0"

// StyleManager derives and caches cell styles. excelize styles are immutable
// ids, so every change produces a new style built from a deep copy of the
// base style; the base is never touched.
type StyleManager struct {
	file  *excelize.File
	cache map[string]int
}

// NewStyleManager creates a style manager bound to the given file.
func NewStyleManager(f *excelize.File) *StyleManager {
	return &StyleManager{file: f, cache: make(map[string]int)}
}

// stylePatch is one named change to a style. The key must identify the
// change completely since it is part of the cache key.
type stylePatch struct {
	key   string
	apply func(*excelize.Style)
}

// Apply derives the style that results from applying patches to base, in
// order.
func (sm *StyleManager) Apply(base int, patches ...stylePatch) (int, error) {
	id := base
	for _, p := range patches {
		next, err := sm.derive(id, p)
		if err != nil {
			return base, err
		}
		id = next
	}
	return id, nil
}

func (sm *StyleManager) derive(base int, p stylePatch) (int, error) {
	cacheKey := strconv.Itoa(base) + "|" + p.key
	if id, ok := sm.cache[cacheKey]; ok {
		return id, nil
	}

	style := sm.copyOf(base)
	p.apply(style)
	id, err := sm.file.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("create style %s: %w", p.key, err)
	}
	sm.cache[cacheKey] = id
	return id, nil
}

// copyOf returns an independent copy of style id. Unknown ids yield the
// default style.
func (sm *StyleManager) copyOf(id int) *excelize.Style {
	src, err := sm.file.GetStyle(id)
	if err != nil || src == nil {
		return &excelize.Style{}
	}
	var dst excelize.Style
	if err := deepcopy.Copy(&dst, *src); err != nil {
		return &excelize.Style{}
	}
	return &dst
}

func withFont(font excelize.Font) stylePatch {
	return stylePatch{
		key: fmt.Sprintf("font:%s/%g/%t/%s", font.Family, font.Size, font.Bold, font.Color),
		apply: func(s *excelize.Style) {
			f := font
			s.Font = &f
		},
	}
}

func withFontColor(color string) stylePatch {
	return stylePatch{
		key: "color:" + color,
		apply: func(s *excelize.Style) {
			if s.Font == nil {
				s.Font = &excelize.Font{}
			}
			s.Font.Color = color
			s.Font.ColorTheme = nil
			s.Font.ColorIndexed = 0
			s.Font.ColorTint = 0
		},
	}
}

func withAlignment(horizontal, vertical string) stylePatch {
	return stylePatch{
		key: "align:" + horizontal + "/" + vertical,
		apply: func(s *excelize.Style) {
			s.Alignment = &excelize.Alignment{Horizontal: horizontal, Vertical: vertical, WrapText: true}
		},
	}
}

func withWrap() stylePatch {
	return stylePatch{
		key: "wrap",
		apply: func(s *excelize.Style) {
			if s.Alignment == nil {
				s.Alignment = &excelize.Alignment{}
			}
			s.Alignment.WrapText = true
		},
	}
}

func withNumFmt(id int) stylePatch {
	return stylePatch{
		key: "numfmt:" + strconv.Itoa(id),
		apply: func(s *excelize.Style) {
			s.NumFmt = id
			s.CustomNumFmt = nil
			s.DecimalPlaces = nil
		},
	}
}

func withFill(color string) stylePatch {
	return stylePatch{
		key: "fill:" + color,
		apply: func(s *excelize.Style) {
			s.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
		},
	}
}

// withBorder replaces one border side.
func withBorder(side string, style int, color string) stylePatch {
	return stylePatch{
		key: fmt.Sprintf("border:%s/%d/%s", side, style, color),
		apply: func(s *excelize.Style) {
			b := excelize.Border{Type: side, Style: style, Color: color}
			for i := range s.Border {
				if s.Border[i].Type == side {
					s.Border[i] = b
					return
				}
			}
			s.Border = append(s.Border, b)
		},
	}
}
