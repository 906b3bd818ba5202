package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile_MissingUsesDefaults(t *testing.T) {
	t.Setenv("PACKLISTE_TEMPLATE_PATH", "")
	t.Setenv("PACKLISTE_DATA_DIR", "")
	t.Setenv("PORT", "")

	cfg, info, err := LoadFile(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.Port != 5000 || !cfg.Excel.AutoFitColumns || cfg.Data.DBFile != "packliste.db" {
		t.Fatalf("defaults=%+v", cfg)
	}
	if info.PortSpecified {
		t.Fatalf("port must not be reported as specified")
	}
}

func TestLoadFile_FileAndEnv(t *testing.T) {
	t.Setenv("PACKLISTE_TEMPLATE_PATH", "/srv/vorlage.xlsx")
	t.Setenv("PACKLISTE_DATA_DIR", "")
	t.Setenv("PORT", "")

	path := filepath.Join(t.TempDir(), FileName)
	data := "[server]\nport = 8081\n\n[excel]\nauto_fit_columns = false\nauto_filename = true\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, info, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !info.PortSpecified || cfg.Server.Port != 8081 {
		t.Fatalf("port=%d specified=%v", cfg.Server.Port, info.PortSpecified)
	}
	if cfg.Excel.AutoFitColumns || !cfg.Excel.AutoFilename {
		t.Fatalf("excel=%+v", cfg.Excel)
	}
	if cfg.Excel.TemplatePath != "/srv/vorlage.xlsx" {
		t.Fatalf("template=%q, want env override", cfg.Excel.TemplatePath)
	}
	if cfg.Data.DataDir != "data" {
		t.Fatalf("unset keys must keep defaults, data_dir=%q", cfg.Data.DataDir)
	}
}

func TestLoadFile_PortEnv(t *testing.T) {
	t.Setenv("PACKLISTE_TEMPLATE_PATH", "")
	t.Setenv("PACKLISTE_DATA_DIR", "")
	t.Setenv("PORT", "9000")

	cfg, info, err := LoadFile(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.Port != 9000 || !info.PortSpecified {
		t.Fatalf("port=%d specified=%v", cfg.Server.Port, info.PortSpecified)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	t.Setenv("PACKLISTE_TEMPLATE_PATH", "")
	t.Setenv("PACKLISTE_DATA_DIR", "")
	t.Setenv("PORT", "")

	path := filepath.Join(t.TempDir(), FileName)
	cfg := DefaultConfig()
	cfg.Excel.SaveFolder = "/tmp/out"
	cfg.Seals.ConfigPath = "legacy.json"
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, _, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got.Excel.SaveFolder != "/tmp/out" || got.Seals.ConfigPath != "legacy.json" {
		t.Fatalf("got=%+v", got)
	}
}

func TestEnsureDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "packliste-data")
	cfg := DefaultConfig()
	cfg.Data.DataDir = dir

	got, err := EnsureDataDir(cfg)
	if err != nil {
		t.Fatalf("EnsureDataDir: %v", err)
	}
	if got != dir {
		t.Fatalf("dir=%q, want %q", got, dir)
	}
	for _, sub := range []string{"uploads", "exports", "work"} {
		if st, err := os.Stat(filepath.Join(dir, sub)); err != nil || !st.IsDir() {
			t.Fatalf("subdir %s missing: %v", sub, err)
		}
	}
	if cfg.DBPath(got) != filepath.Join(dir, "packliste.db") {
		t.Fatalf("DBPath=%q", cfg.DBPath(got))
	}
}
