package server

import (
	"net/http"
)

func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Form
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /submit", s.handleSubmit)
	mux.HandleFunc("POST /sample", s.handleSample)
	mux.HandleFunc("POST /clear", s.handleClear)
	mux.HandleFunc("POST /export", s.handleExport)

	// JSON
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /history", s.handleHistory)

	return mux
}
