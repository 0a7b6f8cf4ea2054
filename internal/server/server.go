package server

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/haskel/cancerform/internal/config"
	"github.com/haskel/cancerform/internal/form"
	"github.com/haskel/cancerform/internal/history"
	"github.com/haskel/cancerform/internal/monitor"
	"github.com/haskel/cancerform/internal/predictor"
	"github.com/haskel/cancerform/internal/server/middleware"
)

// HealthChecker reports on the classification service.
type HealthChecker interface {
	Health(ctx context.Context) (*predictor.HealthResponse, error)
}

// HistoryLister exposes past submissions.
type HistoryLister interface {
	List(limit int) []*history.Entry
}

type Server struct {
	httpServer *http.Server
	form       *form.Controller
	service    HealthChecker
	history    HistoryLister
	process    *monitor.ProcessMonitor
	tmpl       *template.Template
	config     *config.Config
	logger     *slog.Logger
	version    string
}

// New builds the browser form server. base must already be initialized;
// every request works on a fork of it. hist may be nil.
func New(cfg *config.Config, base *form.Controller, svc HealthChecker, hist HistoryLister, logger *slog.Logger, version string) *Server {
	s := &Server{
		form:    base,
		service: svc,
		history: hist,
		tmpl:    mustParseTemplates(),
		config:  cfg,
		logger:  logger,
		version: version,
	}

	if pm, err := monitor.NewProcessMonitor(); err != nil {
		logger.Warn("process metrics unavailable", "error", err)
	} else {
		s.process = pm
	}

	mux := s.setupRoutes()

	chain := []middleware.Middleware{middleware.Recovery(logger)}
	if cfg.Server.TrustProxy {
		chain = append(chain, middleware.ProxyHeaders())
	}
	chain = append(chain,
		middleware.Logging(logger),
		middleware.SecurityHeaders(),
		middleware.MaxBody(cfg.Server.MaxBodyBytes),
		middleware.RateLimit(&middleware.RateLimitConfig{
			Enabled:           cfg.Server.RateLimit.Enabled,
			RequestsPerSecond: cfg.Server.RateLimit.RequestsPerSecond,
			Burst:             cfg.Server.RateLimit.Burst,
		}, "/health"),
		middleware.Auth(middleware.AuthConfig{
			Enabled:  cfg.Auth.Enabled,
			User:     cfg.Auth.User,
			Password: cfg.Auth.Password,
		}, logger, "/health"),
	)

	handler := middleware.Chain(mux, chain...)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.APITimeout() + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	s.logger.Info("server starting",
		"addr", s.httpServer.Addr,
	)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}
