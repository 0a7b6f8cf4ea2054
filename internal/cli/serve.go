package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haskel/cancerform/internal/history"
	"github.com/haskel/cancerform/internal/server"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the measurement form in a browser",
	Long: `Start a web server that renders the form as a plain HTML page.

The feature names and model description are fetched once at startup;
the server refuses to start if the feature names cannot be loaded.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (overrides config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveHost
	}

	log, closer := newLogger(cfg, os.Stdout)
	defer closer.Close()

	log.Info("cancerform starting",
		"version", Version,
		"config", cfgFile,
		"api", cfg.API.BaseURL,
	)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	store := openHistory(cfg, log)

	svc := newPredictor(cfg)

	initCtx, initCancel := context.WithTimeout(ctx, cfg.APITimeout())
	base, err := initForm(initCtx, svc, store, log)
	initCancel()
	if err != nil {
		return fmt.Errorf("failed to prepare form: %w", err)
	}

	var hist server.HistoryLister
	if store != nil {
		store.Start(ctx)
		hist = store
	}

	srv := server.New(cfg, base, svc, hist, log, Version)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	shutdownDone := make(chan struct{})

	// Handle shutdown signals
	go func() {
		defer close(shutdownDone)

		select {
		case <-sigCh:
			log.Info("shutdown signal received")
		case <-ctx.Done():
		}
		signal.Stop(sigCh)

		shutdown(srv, store, log, 30*time.Second)
	}()

	log.Info("cancerform ready", "addr", srv.Addr(), "features", len(base.Names()))

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		cancel()
		<-shutdownDone
		return fmt.Errorf("server error: %w", err)
	}

	// Start returns as soon as Shutdown begins; wait for the drain and the
	// final history save.
	<-shutdownDone

	log.Info("cancerform stopped")
	return nil
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// shutdown drains in-flight requests, then saves history. Submissions
// that complete while draining are recorded before the save.
func shutdown(srv shutdowner, store *history.Store, log *slog.Logger, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown error", "error", err)
	}

	if store != nil {
		if err := store.Stop(); err != nil {
			log.Error("history shutdown error", "error", err)
		}
	}
}
