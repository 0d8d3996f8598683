package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mkarlik/retention/internal/engine"
	"github.com/mkarlik/retention/internal/store"
)

// Server is the retention HTTP API server.
type Server struct {
	db      *store.DB
	eng     *engine.Engine
	router  chi.Router
	version string
	started time.Time
}

// New creates a new Server over the given store and engine.
func New(db *store.DB, eng *engine.Engine, version string) *Server {
	s := &Server{
		db:      db,
		eng:     eng,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/concepts", s.handleListConcepts)
		r.Post("/concepts", s.handleAddConcept)
		r.Get("/stats", s.handleStats)
		r.Get("/revision-queue", s.handleRevisionQueue)
		r.Post("/revise/{conceptID}", s.handleRevise)
		r.Post("/simulate", s.handleSimulate)
		r.Post("/decay-rate", s.handleDecayRate)
	})

	// Dashboard
	r.Get("/*", spaHandler())

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
	})
}
