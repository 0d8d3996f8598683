// Package source talks to the external collaborators: the bulk import
// provider that supplies raw concept records for seeding, and the
// decay-rate sink that mirrors the global rate. Failures here are
// reported, never retried, and never crash the simulation core.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkarlik/retention/internal/config"
)

// ErrUnavailable wraps any collaborator failure: unreachable, timed
// out, or returning unparsable data.
var ErrUnavailable = errors.New("source unavailable")

// RawConcept is a concept record as delivered by an import source.
// Records typically carry only a current strength; the seed transition
// reconstructs the missing revision history.
type RawConcept struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	MemoryStrength float64  `json:"memory_strength"`
	InitialWeight  float64  `json:"initial_weight"`
	Prerequisites  []string `json:"prerequisites"`
}

// Source is the interface to the import provider / decay-rate sink.
type Source interface {
	// Concepts returns the ordered raw records for seeding.
	Concepts(ctx context.Context) ([]RawConcept, error)

	// PushDecayRate forwards a new decay rate for the collaborator to
	// acknowledge. The ack is pass-through only.
	PushDecayRate(ctx context.Context, rate float64) error
}

// New creates a source based on the config provider setting.
func New(cfg config.SourceConfig) (Source, error) {
	switch cfg.Provider {
	case "builtin", "":
		return NewBuiltin(), nil
	case "exec":
		if cfg.Command == "" {
			return nil, fmt.Errorf("exec source requires a command")
		}
		return NewExec(cfg.Command, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown source provider: %q", cfg.Provider)
	}
}
