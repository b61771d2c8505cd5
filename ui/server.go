// Package ui serves rendered equity reports over HTTP.
package ui

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"goequity/app"
	"goequity/domain/core"
	"goequity/domain/equity"
	"goequity/internal"
	"goequity/internal/render"
)

// Server exposes the sweep results as HTML and JSON.
type Server struct {
	router *chi.Mux
	sweeps *app.SweepService
	log    *internal.Logger
}

// NewServer creates the report server.
func NewServer(sweeps *app.SweepService, log *internal.Logger) *Server {
	if log == nil {
		log = internal.DefaultLogger
	}
	s := &Server{
		router: chi.NewRouter(),
		sweeps: sweeps,
		log:    log,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/reports", s.handleReportsHTML)
	s.router.Get("/api/reports", s.handleReportsJSON)
	s.router.Get("/api/reports/{category}/{measure}", s.handleSingleReport)
}

// Run starts the HTTP server on the given port.
func (s *Server) Run(port string) error {
	addr := ":" + port
	s.log.Info("report server listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReportsHTML(w http.ResponseWriter, r *http.Request) {
	level, err := levelParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	reports, err := s.sweeps.Run(r.Context(), level)
	if err != nil {
		s.log.Error("sweep failed: %v", err)
		http.Error(w, "analysis failed", http.StatusInternalServerError)
		return
	}

	md := render.SweepMarkdown(level, reports)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(render.ToHTML(md))
}

func (s *Server) handleReportsJSON(w http.ResponseWriter, r *http.Request) {
	level, err := levelParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	reports, err := s.sweeps.Run(r.Context(), level)
	if err != nil {
		s.log.Error("sweep failed: %v", err)
		http.Error(w, "analysis failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, reports)
}

func (s *Server) handleSingleReport(w http.ResponseWriter, r *http.Request) {
	level, err := levelParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	category, err := core.ParseCategoryKey(chi.URLParam(r, "category"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	measure, err := core.ParseMeasureKey(chi.URLParam(r, "measure"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := s.sweeps.Analyze(r.Context(), level, category, measure)
	if err != nil {
		if core.IsStructural(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.log.Error("analysis failed: %v", err)
		http.Error(w, "analysis failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, report)
}

func levelParam(r *http.Request) (equity.OrgLevel, error) {
	switch r.URL.Query().Get("level") {
	case "", string(equity.OrgSchool):
		return equity.OrgSchool, nil
	case string(equity.OrgLEA):
		return equity.OrgLEA, nil
	default:
		return "", fmt.Errorf("level must be %q or %q", equity.OrgSchool, equity.OrgLEA)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
