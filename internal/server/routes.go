package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mkarlik/retention/internal/engine"
	"github.com/mkarlik/retention/internal/source"
	"github.com/mkarlik/retention/internal/store"
)

// conceptJSON is the wire shape of a concept, matching the legacy
// backend's field names.
type conceptJSON struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	InitialWeight  float64  `json:"initial_weight"`
	MemoryStrength float64  `json:"memory_strength"`
	LastRevisedDay int      `json:"last_revised_day"`
	Prerequisites  []string `json:"prerequisites"`
}

func toConceptJSON(c store.Concept) conceptJSON {
	prereqs := c.Prerequisites
	if prereqs == nil {
		prereqs = []string{}
	}
	return conceptJSON{
		ID:             c.ID,
		Name:           c.Name,
		Category:       c.Category,
		InitialWeight:  c.InitialWeight,
		MemoryStrength: c.MemoryStrength,
		LastRevisedDay: c.LastRevisedDay,
		Prerequisites:  prereqs,
	}
}

func toConceptList(concepts []store.Concept) []conceptJSON {
	out := make([]conceptJSON, len(concepts))
	for i, c := range concepts {
		out[i] = toConceptJSON(c)
	}
	return out
}

// writeError maps engine/source errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrDuplicateID):
		status = http.StatusConflict
	case errors.Is(err, engine.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, source.ErrUnavailable):
		status = http.StatusBadGateway
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleListConcepts(w http.ResponseWriter, r *http.Request) {
	concepts, err := s.eng.Concepts()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toConceptList(concepts))
}

func (s *Server) handleAddConcept(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID            string   `json:"id"`
		Name          string   `json:"name"`
		Category      string   `json:"category"`
		Prerequisites []string `json:"prerequisites"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}

	c, err := s.eng.AddConcept(req.ID, req.Name, req.Category, req.Prerequisites)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":  "success",
		"message": "Concept added",
		"concept": toConceptJSON(*c),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.eng.Stats()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totalConcepts":  stats.TotalConcepts,
		"avgMemory":      stats.AvgMemory,
		"urgentCount":    stats.UrgentCount,
		"totalRevisions": stats.TotalRevisions,
		"currentDay":     stats.CurrentDay,
	})
}

func (s *Server) handleRevisionQueue(w http.ResponseWriter, r *http.Request) {
	limit := 0 // full queue
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	queue, err := s.eng.RevisionQueue(limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toConceptList(queue))
}

func (s *Server) handleRevise(w http.ResponseWriter, r *http.Request) {
	conceptID := chi.URLParam(r, "conceptID")

	c, err := s.eng.Revise(conceptID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Concept revised",
		"concept": toConceptJSON(*c),
	})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Days *int `json:"days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if req.Days == nil {
		writeError(w, fmt.Errorf("%w: days is required", engine.ErrInvalidInput))
		return
	}

	day, updated, err := s.eng.Advance(*req.Days)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "success",
		"days":       *req.Days,
		"currentDay": day,
		"updated":    updated,
	})
}

func (s *Server) handleDecayRate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rate *float64 `json:"rate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if req.Rate == nil {
		writeError(w, fmt.Errorf("%w: rate is required", engine.ErrInvalidInput))
		return
	}

	if err := s.eng.SetDecayRate(r.Context(), *req.Rate); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"rate":   *req.Rate,
	})
}
