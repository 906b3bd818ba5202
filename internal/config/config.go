package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the config file looked up next to the executable.
const FileName = "config.toml"

// AppConfig is the application configuration.
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Excel  ExcelConfig  `toml:"excel"`
	Seals  SealsConfig  `toml:"seals"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Port        int  `toml:"port"`
	DevMode     bool `toml:"dev_mode"`
	OpenBrowser bool `toml:"open_browser"`
}

// DataConfig configures where data lives.
type DataConfig struct {
	DataDir string `toml:"data_dir"`
	DBFile  string `toml:"db_file"`
}

// ExcelConfig configures the conversion.
type ExcelConfig struct {
	// TemplatePath empty means the built-in template.
	TemplatePath   string `toml:"template_path"`
	AutoFitColumns bool   `toml:"auto_fit_columns"`
	SaveFolder     string `toml:"save_folder"`
	AutoFilename   bool   `toml:"auto_filename"`
}

// SealsConfig points at the legacy JSON seal list.
type SealsConfig struct {
	ConfigPath string `toml:"config_path"`
}

// LoadConfigInfo carries facts about how the config was loaded.
type LoadConfigInfo struct {
	Path          string
	PortSpecified bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        5000,
			DevMode:     false,
			OpenBrowser: false,
		},
		Data: DataConfig{
			DataDir: "data",
			DBFile:  "packliste.db",
		},
		Excel: ExcelConfig{
			TemplatePath:   "",
			AutoFitColumns: true,
		},
		Seals: SealsConfig{
			ConfigPath: "dichtungen.json",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir returns the directory of the running executable.
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

func exeDirOrDot() string {
	dir, err := GetExeDir()
	if err != nil || dir == "" {
		return "."
	}
	return dir
}

// DefaultPath returns config.toml next to the executable.
func DefaultPath() string {
	return filepath.Join(exeDirOrDot(), FileName)
}

// LoadConfigWithInfo loads config.toml next to the executable.
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	return LoadFile(DefaultPath())
}

// LoadFile loads the config at path. A missing file yields the defaults.
// Environment variables override file values.
func LoadFile(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, info, err
	default:
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, err
		}
	}

	applyEnv(config, &info)
	return config, info, nil
}

func applyEnv(config *AppConfig, info *LoadConfigInfo) {
	if v := os.Getenv("PACKLISTE_TEMPLATE_PATH"); v != "" {
		config.Excel.TemplatePath = v
	}
	if v := os.Getenv("PACKLISTE_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			config.Server.Port = port
			info.PortSpecified = true
		}
	}
}

// LoadConfig loads config.toml next to the executable.
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig writes config to path.
func SaveConfig(config *AppConfig, path string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolvePath anchors a relative path at the executable directory.
func ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(exeDirOrDot(), p)
}

// EnsureDataDir creates the data directory and its subdirectories and
// returns its path.
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolvePath(config.Data.DataDir)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	subdirs := []string{"uploads", "exports", "work"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}
	return dataDir, nil
}

// DBPath returns the database file inside dataDir.
func (c *AppConfig) DBPath(dataDir string) string {
	return filepath.Join(dataDir, c.Data.DBFile)
}
