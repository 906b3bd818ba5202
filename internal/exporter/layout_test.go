package exporter

import (
	"path/filepath"
	"testing"

	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/model"
	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/table"
)

func TestBreakName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"10_S":    "10\nS",
		"a_b_c":   "a\nb_c",
		"X":       "X",
		"8/4":     "8/\n4",
		"O-Ring":  "O-R\ning",
		" Ölring": "Ölr\ning",
	}
	for in, want := range cases {
		if got := BreakName(in); got != want {
			t.Fatalf("BreakName(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestAutoFitWidth(t *testing.T) {
	t.Parallel()

	if got := autoFitWidth(0); got != autoFitMin {
		t.Fatalf("autoFitWidth(0)=%v, want %v", got, float64(autoFitMin))
	}
	if got := autoFitWidth(100); got != autoFitMax {
		t.Fatalf("autoFitWidth(100)=%v, want %v", got, float64(autoFitMax))
	}
	if got := autoFitWidth(4); got != 5.5 {
		t.Fatalf("autoFitWidth(4)=%v, want 5.5", got)
	}
}

func TestTechnician(t *testing.T) {
	t.Parallel()

	tbl := table.New([]string{model.ColTechnician}, [][]string{{""}, {""}, {"Anna"}, {"Ben"}})
	if got := Technician(tbl); got != "Ben" {
		t.Fatalf("Technician=%q, want Ben", got)
	}
	tbl = table.New([]string{model.ColTechnician}, [][]string{{""}, {""}, {"Anna"}})
	if got := Technician(tbl); got != "Anna" {
		t.Fatalf("Technician=%q, want Anna", got)
	}
	if got := Technician(table.New([]string{"x"}, nil)); got != "" {
		t.Fatalf("Technician=%q, want empty", got)
	}
}

func TestStyleManager_DeriveKeepsBase(t *testing.T) {
	t.Parallel()

	f, err := NewDefaultTemplate()
	if err != nil {
		t.Fatalf("NewDefaultTemplate: %v", err)
	}
	defer f.Close()

	sm := NewStyleManager(f)
	base, err := sm.Apply(0, withFill(fillOdd), withFont(fontBold))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	derived, err := sm.Apply(base, withFontColor(colorBlue))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	again, err := sm.Apply(base, withFontColor(colorBlue))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if derived == base || again != derived {
		t.Fatalf("base=%d derived=%d again=%d", base, derived, again)
	}

	st, err := f.GetStyle(base)
	if err != nil {
		t.Fatalf("GetStyle: %v", err)
	}
	if st.Font == nil || sameColor(st.Font.Color, colorBlue) {
		t.Fatalf("base font changed: %+v", st.Font)
	}
	st, err = f.GetStyle(derived)
	if err != nil {
		t.Fatalf("GetStyle: %v", err)
	}
	if !sameColor(fontColor(st), colorBlue) || !st.Font.Bold || !sameColor(fillColor(st), fillOdd) {
		t.Fatalf("derived style=%+v font=%+v", st, st.Font)
	}
}

func TestNewDefaultTemplate_Shape(t *testing.T) {
	t.Parallel()

	f, err := NewDefaultTemplate()
	if err != nil {
		t.Fatalf("NewDefaultTemplate: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetName(f.GetActiveSheetIndex()); got != defaultSheetName {
		t.Fatalf("sheet=%q", got)
	}
	rows, cols, err := sheetExtent(f, defaultSheetName)
	if err != nil {
		t.Fatalf("sheetExtent: %v", err)
	}
	if rows != 1+headerRow+defaultDataRows || cols != 7 {
		t.Fatalf("extent=%dx%d", rows, cols)
	}
	if v, _ := f.GetCellValue(defaultSheetName, "E3"); v != "Dichtung" {
		t.Fatalf("placeholder header=%q", v)
	}
}

func TestAutoFilename(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := AutoFilename(dir, "Max Müller!", "03.11.2025 - 28.11.2025")
	if filepath.Base(first) != "MaxMüller_03-11-2025-28-11-2025.xlsx" {
		t.Fatalf("name=%q", filepath.Base(first))
	}
	if err := writeEmpty(first); err != nil {
		t.Fatalf("write: %v", err)
	}
	second := AutoFilename(dir, "Max Müller!", "03.11.2025 - 28.11.2025")
	if filepath.Base(second) != "MaxMüller_03-11-2025-28-11-2025_1.xlsx" {
		t.Fatalf("name=%q", filepath.Base(second))
	}
}

func TestDownloadName(t *testing.T) {
	t.Parallel()

	if got := DownloadName("/tmp/Export Nov.csv"); got != "Export Nov_konvertiert.xlsx" {
		t.Fatalf("DownloadName=%q", got)
	}
}
