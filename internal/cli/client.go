package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/haskel/cancerform/internal/config"
	"github.com/haskel/cancerform/internal/form"
	"github.com/haskel/cancerform/internal/history"
	"github.com/haskel/cancerform/internal/logger"
	"github.com/haskel/cancerform/internal/predictor"
)

// loadConfig resolves the configuration: file (or defaults), then the
// environment, then command line flags.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
		cfg.ApplyEnv()
	}

	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// newLogger returns the configured logger. Output goes to w unless a log
// file is configured. The returned closer is never nil.
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, io.Closer) {
	if cfg.Logging.File != "" {
		return logger.NewFile(logger.FileOptions{
			Path:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
		}, cfg.Logging.Level, cfg.Logging.Format)
	}
	return logger.NewWithWriter(w, cfg.Logging.Level, cfg.Logging.Format), nopCloser{}
}

// commandLogger is used by one-shot commands: stdout carries their
// output, so logs go to stderr and stay quiet unless --verbose.
func commandLogger(cfg *config.Config) (*slog.Logger, io.Closer) {
	if !verbose && cfg.Logging.File == "" {
		return logger.Discard(), nopCloser{}
	}
	return newLogger(cfg, os.Stderr)
}

func newPredictor(cfg *config.Config) *predictor.Client {
	return predictor.New(cfg.API.BaseURL, cfg.APITimeout())
}

// openHistory loads the submission history, or returns nil when history
// is disabled.
func openHistory(cfg *config.Config, log *slog.Logger) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}

	store := history.New(cfg.History.DataDir, cfg.FlushInterval(), cfg.History.MaxEntries, log)
	if err := store.Load(); err != nil {
		log.Warn("failed to load history", "error", err)
	}
	return store
}

// newForm builds a form controller, recording to store when non-nil.
func newForm(svc form.Service, store *history.Store, log *slog.Logger) *form.Controller {
	var opts []form.Option
	if store != nil {
		opts = append(opts, form.WithRecorder(store))
	}
	return form.New(svc, log, opts...)
}

// initForm builds a form and fetches its feature names.
func initForm(ctx context.Context, svc form.Service, store *history.Store, log *slog.Logger) (*form.Controller, error) {
	f := newForm(svc, store, log)
	if err := f.Init(ctx); err != nil {
		return nil, err
	}
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
