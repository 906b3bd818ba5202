package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// DownloadName returns the output name offered for a converted source file.
func DownloadName(source string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "packliste"
	}
	return base + "_konvertiert.xlsx"
}

// AutoFilename returns a free path in dir named after the technician and the
// period range, e.g. "MaxMuster_03-11-2025-28-11-2025.xlsx". A counter
// suffix is added while the name is taken.
func AutoFilename(dir, technician, periodRange string) string {
	base := sanitizeName(technician) + "_" + strings.ReplaceAll(strings.ReplaceAll(periodRange, ".", "-"), " ", "")
	path := filepath.Join(dir, base+".xlsx")
	for n := 1; exists(path); n++ {
		path = filepath.Join(dir, fmt.Sprintf("%s_%d.xlsx", base, n))
	}
	return path
}

func sanitizeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
