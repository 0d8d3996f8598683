package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "concepts: learnable units with decay anchors",
		SQL: `
CREATE TABLE concepts (
    seq              INTEGER PRIMARY KEY,
    concept_id       TEXT NOT NULL UNIQUE,
    name             TEXT NOT NULL,
    category         TEXT,
    prerequisites    TEXT,

    -- Decay anchor: strength is always recomputed from these two
    initial_weight   REAL NOT NULL,
    memory_strength  REAL NOT NULL,
    last_revised_day INTEGER NOT NULL,

    created_at       INTEGER NOT NULL
);

CREATE INDEX idx_concepts_strength ON concepts(memory_strength);
`,
	},
	{
		Version:     2,
		Description: "sim_state: single-row simulation clock, rate and counters",
		SQL: `
CREATE TABLE sim_state (
    id              INTEGER PRIMARY KEY CHECK (id = 1),
    current_day     INTEGER NOT NULL DEFAULT 0,
    lambda          REAL NOT NULL DEFAULT 0.15,
    total_revisions INTEGER NOT NULL DEFAULT 0,
    seeded          INTEGER NOT NULL DEFAULT 0,

    -- Derived aggregates, refreshed in place by stats reads
    total_concepts  INTEGER NOT NULL DEFAULT 0,
    avg_memory      REAL NOT NULL DEFAULT 0,
    urgent_count    INTEGER NOT NULL DEFAULT 0
);

INSERT INTO sim_state (id) VALUES (1);
`,
	},
}

func (db *DB) migrate() error {
	// Create schema_versions table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
