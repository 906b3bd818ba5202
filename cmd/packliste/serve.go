package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/server"
	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/util"
)

type serveOptions struct {
	port int
	dev  bool
	open bool
}

func newServeCmd(root *rootOptions) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the upload web service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), root, opts)
		},
	}
	cmd.Flags().IntVar(&opts.port, "port", 0, "port (config.toml wins when it sets server.port)")
	cmd.Flags().BoolVar(&opts.dev, "dev", false, "development mode with request logging")
	cmd.Flags().BoolVar(&opts.open, "open", false, "open the browser after start")
	return cmd
}

func runServe(ctx context.Context, root *rootOptions, opts serveOptions) error {
	a, err := openApp(root)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg
	if opts.port > 0 && !a.info.PortSpecified {
		cfg.Server.Port = opts.port
	}
	if opts.dev {
		cfg.Server.DevMode = true
	}
	if opts.open {
		cfg.Server.OpenBrowser = true
	}

	srv, err := server.NewServer(cfg, a.store, a.dataDir, a.log)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	url := util.LocalURL(cfg.Server.Port)
	a.log.Info().Str("url", url).Str("data_dir", a.dataDir).Msg("Packlisten-Konverter gestartet")
	if cfg.Server.OpenBrowser && !cfg.Server.DevMode {
		if err := util.OpenBrowserWithFallback(url); err != nil {
			a.log.Warn().Err(err).Msgf("Browser konnte nicht geöffnet werden, bitte %s manuell aufrufen", url)
		}
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
