package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/config"
	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/seal"
	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/store"
)

type rootOptions struct {
	configPath string
	verbose    bool
	dataDir    string
}

// app is the loaded configuration plus the opened store.
type app struct {
	cfg     *config.AppConfig
	info    config.LoadConfigInfo
	dataDir string
	store   *store.Store
	log     *zerolog.Logger
}

func newLogger(w io.Writer, verbose bool) *zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(level).
		With().Timestamp().Logger()
	return &log
}

func loadConfig(opts *rootOptions) (*config.AppConfig, config.LoadConfigInfo, error) {
	path := opts.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, info, err := config.LoadFile(path)
	if err != nil {
		return nil, info, fmt.Errorf("load config %s: %w", path, err)
	}
	if opts.dataDir != "" {
		cfg.Data.DataDir = opts.dataDir
	}
	return cfg, info, nil
}

// openApp loads the config, prepares the data dir and opens the store. On
// first start the legacy seal file is imported into an empty store.
func openApp(opts *rootOptions) (*app, error) {
	log := newLogger(os.Stderr, opts.verbose)

	cfg, info, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	st, err := store.New(cfg.DBPath(dataDir))
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, info: info, dataDir: dataDir, store: st, log: log}
	if n, err := importLegacySeals(st, config.ResolvePath(cfg.Seals.ConfigPath)); err != nil {
		log.Warn().Err(err).Str("path", cfg.Seals.ConfigPath).Msg("legacy seal file not imported")
	} else if n > 0 {
		log.Info().Int("count", n).Str("path", cfg.Seals.ConfigPath).Msg("legacy seal file imported")
	}
	return a, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// importLegacySeals fills an empty store from the JSON seal file at path and
// returns the number of imported seals. A missing file imports nothing.
func importLegacySeals(st *store.Store, path string) (int, error) {
	if path == "" {
		return 0, nil
	}
	n, err := st.CountSeals()
	if err != nil || n > 0 {
		return 0, err
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	list, err := seal.LoadFile(path)
	if err != nil {
		return 0, err
	}
	if err := seal.Validate(list); err != nil {
		return 0, err
	}
	if err := st.ReplaceSeals(list); err != nil {
		return 0, err
	}
	return len(list), nil
}

// readSealFile reads and validates a JSON seal list.
func readSealFile(path string) ([]seal.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seal file: %w", err)
	}
	list, err := seal.DecodeList(data)
	if err != nil {
		return nil, err
	}
	if err := seal.Validate(list); err != nil {
		return nil, err
	}
	return list, nil
}
