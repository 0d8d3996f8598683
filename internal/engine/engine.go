// Package engine owns the simulation: the decay math and the four
// transitions over the concept collection (seed, add, revise, advance)
// plus the decay-rate control. All state access is serialized behind a
// single mutex; transitions that fail leave state unchanged.
package engine

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/mkarlik/retention/internal/source"
	"github.com/mkarlik/retention/internal/store"
)

// Engine is the single owner of simulation state.
type Engine struct {
	mu  sync.Mutex
	db  *store.DB
	src source.Source
}

// New creates an Engine over the given store and collaborator source.
func New(db *store.DB, src source.Source) *Engine {
	return &Engine{db: db, src: src}
}

// Seed populates the collection from the import source, reconstructing
// a coherent revision history for records that carry none: fabricate an
// initial weight where missing or stale, fix the clock at a baseline,
// and back-compute each concept's last revision day via the inverse
// decay function. Runs once; a no-op thereafter. Returns the number of
// concepts inserted.
func (e *Engine) Seed(ctx context.Context) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.db.GetSimState()
	if err != nil {
		return 0, err
	}
	if state.Seeded {
		return 0, nil
	}

	records, err := e.src.Concepts(ctx)
	if err != nil {
		return 0, fmt.Errorf("import concepts: %w", err)
	}

	inserted := 0
	for _, r := range records {
		if strings.TrimSpace(r.ID) == "" {
			log.Printf("seed: skipping record with empty id (name=%q)", r.Name)
			continue
		}

		initial := r.InitialWeight
		if initial <= 0 || initial == r.MemoryStrength {
			initial = InferInitialWeight(r.MemoryStrength)
		}

		lastRevised := seedBaselineDay - InferElapsedDays(r.MemoryStrength, initial, state.Lambda)
		if lastRevised < 0 {
			lastRevised = 0
		}

		c := &store.Concept{
			ID:             r.ID,
			Name:           r.Name,
			Category:       r.Category,
			Prerequisites:  r.Prerequisites,
			InitialWeight:  initial,
			MemoryStrength: r.MemoryStrength,
			LastRevisedDay: lastRevised,
		}
		if err := e.db.InsertConcept(c); err != nil {
			log.Printf("seed: insert %s: %v", r.ID, err)
			continue
		}
		inserted++
	}

	if err := e.db.SetCurrentDay(seedBaselineDay); err != nil {
		return inserted, err
	}
	if err := e.db.MarkSeeded(); err != nil {
		return inserted, err
	}
	if err := e.refreshStats(); err != nil {
		return inserted, err
	}
	return inserted, nil
}

// AddConcept inserts a freshly learned concept: full strength, revised
// today. The id must be unique; duplicates are rejected and leave the
// collection unchanged.
func (e *Engine) AddConcept(id, name, category string, prerequisites []string) (*store.Concept, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	existing, err := e.db.GetConcept(id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}

	state, err := e.db.GetSimState()
	if err != nil {
		return nil, err
	}

	c := &store.Concept{
		ID:             id,
		Name:           name,
		Category:       category,
		Prerequisites:  prerequisites,
		InitialWeight:  1.0,
		MemoryStrength: 1.0,
		LastRevisedDay: state.CurrentDay,
	}
	if err := e.db.InsertConcept(c); err != nil {
		return nil, err
	}
	if err := e.refreshStats(); err != nil {
		return nil, err
	}
	return c, nil
}

// Revise reinforces a concept: strength gains ReviseBoost capped at
// 1.0, the decay anchor resets to today, and the revision counter
// increments.
func (e *Engine) Revise(id string) (*store.Concept, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.db.GetConcept(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	state, err := e.db.GetSimState()
	if err != nil {
		return nil, err
	}

	boosted := c.MemoryStrength + ReviseBoost
	if boosted > 1.0 {
		boosted = 1.0
	}

	if err := e.db.SetRevision(id, boosted, state.CurrentDay); err != nil {
		return nil, err
	}
	if err := e.db.IncrementRevisions(); err != nil {
		return nil, err
	}

	c.MemoryStrength = boosted
	c.InitialWeight = boosted
	c.LastRevisedDay = state.CurrentDay
	return c, nil
}

// Advance moves the clock by days (negative accepted; strength then
// "undecays" toward its anchor, clamped at 1.0) and recomputes every
// concept's strength from its fixed revision anchor. Because decay is
// never incremental, repeated advances to the same day are idempotent.
// Returns the new current day and the number of concepts whose
// strength changed.
func (e *Engine) Advance(days int) (int, int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.db.GetSimState()
	if err != nil {
		return 0, 0, err
	}

	day := state.CurrentDay + days
	if err := e.db.SetCurrentDay(day); err != nil {
		return 0, 0, err
	}

	concepts, err := e.db.ListConcepts()
	if err != nil {
		return day, 0, err
	}

	updated := 0
	for _, c := range concepts {
		s := Strength(c.InitialWeight, day-c.LastRevisedDay, state.Lambda)
		if s == c.MemoryStrength {
			continue
		}
		if err := e.db.UpdateStrength(c.ID, s); err != nil {
			return day, updated, err
		}
		updated++
	}

	return day, updated, nil
}

// SetDecayRate updates the global lambda and forwards it to the
// decay-rate sink. The local update stands even when forwarding fails;
// the caller sees the collaborator error. Already-anchored revision
// days are untouched; the new rate applies to future computations.
func (e *Engine) SetDecayRate(ctx context.Context, rate float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if rate <= 0 {
		return fmt.Errorf("%w: decay rate must be positive", ErrInvalidInput)
	}

	if err := e.db.SetLambda(rate); err != nil {
		return err
	}

	if err := e.src.PushDecayRate(ctx, rate); err != nil {
		return fmt.Errorf("forward decay rate: %w", err)
	}
	return nil
}

// Concepts returns the collection in insertion order.
func (e *Engine) Concepts() ([]store.Concept, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.db.ListConcepts()
}

// RevisionQueue returns concepts weakest first, ties broken by
// insertion order. limit <= 0 returns the full queue.
func (e *Engine) RevisionQueue(limit int) ([]store.Concept, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.db.ListByStrength(limit)
}

// Stats recomputes the derived aggregates, persists them in place on
// the sim state row, and returns the refreshed state. Note the side
// effect: this read updates stored state.
func (e *Engine) Stats() (*store.SimState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.refreshStats(); err != nil {
		return nil, err
	}
	return e.db.GetSimState()
}

// refreshStats recomputes totalConcepts, avgMemory (as a percentage)
// and urgentCount from the collection and writes them back.
func (e *Engine) refreshStats() error {
	total, err := e.db.CountConcepts()
	if err != nil {
		return err
	}
	avg, err := e.db.AvgStrength()
	if err != nil {
		return err
	}
	urgent, err := e.db.UrgentCount(UrgentThreshold)
	if err != nil {
		return err
	}
	return e.db.UpdateAggregates(total, avg*100, urgent)
}
