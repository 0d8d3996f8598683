package store

import "fmt"

// SimState is the single-row simulation state: clock, decay rate,
// revision counter, seed guard, and the persisted derived aggregates.
type SimState struct {
	CurrentDay     int
	Lambda         float64
	TotalRevisions int
	Seeded         bool

	TotalConcepts int
	AvgMemory     float64 // percentage
	UrgentCount   int
}

// GetSimState returns the simulation state row.
func (db *DB) GetSimState() (*SimState, error) {
	var s SimState
	var seeded int
	err := db.QueryRow(`
		SELECT current_day, lambda, total_revisions, seeded,
			total_concepts, avg_memory, urgent_count
		FROM sim_state WHERE id = 1
	`).Scan(&s.CurrentDay, &s.Lambda, &s.TotalRevisions, &seeded,
		&s.TotalConcepts, &s.AvgMemory, &s.UrgentCount)
	if err != nil {
		return nil, fmt.Errorf("get sim state: %w", err)
	}
	s.Seeded = seeded != 0
	return &s, nil
}

// SetCurrentDay moves the simulation clock.
func (db *DB) SetCurrentDay(day int) error {
	if _, err := db.Exec("UPDATE sim_state SET current_day = ? WHERE id = 1", day); err != nil {
		return fmt.Errorf("set current day: %w", err)
	}
	return nil
}

// SetLambda updates the global decay rate.
func (db *DB) SetLambda(lambda float64) error {
	if _, err := db.Exec("UPDATE sim_state SET lambda = ? WHERE id = 1", lambda); err != nil {
		return fmt.Errorf("set lambda: %w", err)
	}
	return nil
}

// IncrementRevisions bumps the monotonic revision counter.
func (db *DB) IncrementRevisions() error {
	if _, err := db.Exec("UPDATE sim_state SET total_revisions = total_revisions + 1 WHERE id = 1"); err != nil {
		return fmt.Errorf("increment revisions: %w", err)
	}
	return nil
}

// MarkSeeded sets the one-shot seed guard.
func (db *DB) MarkSeeded() error {
	if _, err := db.Exec("UPDATE sim_state SET seeded = 1 WHERE id = 1"); err != nil {
		return fmt.Errorf("mark seeded: %w", err)
	}
	return nil
}

// UpdateAggregates persists the derived stats fields in place.
func (db *DB) UpdateAggregates(total int, avgMemory float64, urgent int) error {
	if _, err := db.Exec(`
		UPDATE sim_state SET total_concepts = ?, avg_memory = ?, urgent_count = ?
		WHERE id = 1
	`, total, avgMemory, urgent); err != nil {
		return fmt.Errorf("update aggregates: %w", err)
	}
	return nil
}
