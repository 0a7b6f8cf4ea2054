package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/haskel/cancerform/internal/form"
	"github.com/haskel/cancerform/internal/monitor"
)

type ServiceStatus struct {
	Reachable   bool   `json:"reachable"`
	Status      string `json:"status,omitempty"`
	ModelLoaded bool   `json:"model_loaded"`
	Error       string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status         string                `json:"status"`
	Version        string                `json:"version"`
	FeaturesLoaded int                   `json:"features_loaded"`
	Service        ServiceStatus         `json:"service"`
	Process        *monitor.ProcessState `json:"process,omitempty"`
}

const defaultHistoryLimit = 50

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, s.form.Fork().State())
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctl, err := s.formFromRequest(r)
	if err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	status := http.StatusOK
	if _, err := ctl.Submit(r.Context()); err != nil {
		switch {
		case errors.Is(err, form.ErrNotReady):
			status = http.StatusUnprocessableEntity
		default:
			status = http.StatusBadGateway
		}
	}

	s.render(w, status, ctl.State())
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	ctl := s.form.Fork()
	ctl.LoadSample()
	s.render(w, http.StatusOK, ctl.State())
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	ctl := s.form.Fork()
	ctl.Clear()
	s.render(w, http.StatusOK, ctl.State())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctl, err := s.formFromRequest(r)
	if err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", form.ExportFileName))
	if err := ctl.Export(w); err != nil {
		s.logger.Error("failed to export feature data", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:         "ok",
		Version:        s.version,
		FeaturesLoaded: len(s.form.Names()),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if h, err := s.service.Health(ctx); err != nil {
		resp.Status = "degraded"
		resp.Service.Error = err.Error()
	} else {
		resp.Service.Reachable = true
		resp.Service.Status = h.Status
		resp.Service.ModelLoaded = h.ModelLoaded
	}

	if resp.FeaturesLoaded == 0 {
		resp.Status = "degraded"
	}

	if s.process != nil {
		if ps, err := s.process.Collect(); err == nil {
			resp.Process = ps
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.Error(w, "history is disabled", http.StatusNotFound)
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	s.writeJSON(w, http.StatusOK, s.history.List(limit))
}

// formFromRequest forks the base form and replays the posted values onto
// it. Posted names the service does not know are ignored.
func (s *Server) formFromRequest(r *http.Request) (*form.Controller, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}

	ctl := s.form.Fork()
	for _, name := range ctl.Names() {
		vals, ok := r.PostForm[name]
		if !ok || len(vals) == 0 {
			continue
		}
		if err := ctl.SetField(name, vals[0]); err != nil {
			return nil, fmt.Errorf("set %q: %w", name, err)
		}
	}
	return ctl, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response",
			"error", err,
			"status", status,
		)
	}
}
