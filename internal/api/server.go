package api

import (
	"log/slog"
	"net/http"

	"github.com/TuftsBCB/pdbmissing/internal/config"
	"github.com/TuftsBCB/pdbmissing/source"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for pdbmissing.
type Server struct {
	router chi.Router
	src    source.Source
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server. Structures requested by
// accession code are read from src.
func NewServer(src source.Source, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		src: src,
		log: log,
		cfg: cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Get("/api/structures/{id}", s.handleStructure)
	r.Post("/api/reconcile", s.handleReconcile)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
