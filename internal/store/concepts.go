package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Concept is a single learnable unit. Strength always decays from the
// (initial_weight, last_revised_day) anchor, never incrementally.
type Concept struct {
	Seq            int64 // insertion order, used for stable tie-breaks
	ID             string
	Name           string
	Category       string
	Prerequisites  []string
	InitialWeight  float64
	MemoryStrength float64
	LastRevisedDay int
	CreatedAt      int64
}

// InsertConcept inserts a new concept. The concept_id UNIQUE constraint
// is the duplicate-identity guard; callers translate the violation.
func (db *DB) InsertConcept(c *Concept) error {
	now := time.Now().UnixMilli()

	prereqs, err := json.Marshal(c.Prerequisites)
	if err != nil {
		return fmt.Errorf("marshal prerequisites: %w", err)
	}

	result, err := db.Exec(`
		INSERT INTO concepts (concept_id, name, category, prerequisites,
			initial_weight, memory_strength, last_revised_day, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Category, string(prereqs),
		c.InitialWeight, c.MemoryStrength, c.LastRevisedDay, now)
	if err != nil {
		return fmt.Errorf("insert concept: %w", err)
	}

	seq, _ := result.LastInsertId()
	c.Seq = seq
	c.CreatedAt = now
	return nil
}

// GetConcept returns a concept by its id, or nil if not found.
func (db *DB) GetConcept(conceptID string) (*Concept, error) {
	row := db.QueryRow(`
		SELECT seq, concept_id, name, category, prerequisites,
			initial_weight, memory_strength, last_revised_day, created_at
		FROM concepts WHERE concept_id = ?
	`, conceptID)

	c, err := scanConcept(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get concept: %w", err)
	}
	return c, nil
}

// ListConcepts returns all concepts in insertion order.
func (db *DB) ListConcepts() ([]Concept, error) {
	rows, err := db.Query(`
		SELECT seq, concept_id, name, category, prerequisites,
			initial_weight, memory_strength, last_revised_day, created_at
		FROM concepts ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("list concepts: %w", err)
	}
	defer rows.Close()

	return scanConcepts(rows)
}

// ListByStrength returns concepts ordered weakest memory first, ties
// broken by insertion order. limit <= 0 returns all.
func (db *DB) ListByStrength(limit int) ([]Concept, error) {
	q := `
		SELECT seq, concept_id, name, category, prerequisites,
			initial_weight, memory_strength, last_revised_day, created_at
		FROM concepts ORDER BY memory_strength ASC, seq ASC
	`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = db.Query(q+" LIMIT ?", limit)
	} else {
		rows, err = db.Query(q)
	}
	if err != nil {
		return nil, fmt.Errorf("list by strength: %w", err)
	}
	defer rows.Close()

	return scanConcepts(rows)
}

// UpdateStrength overwrites a concept's memory strength. The decay
// anchor (initial_weight, last_revised_day) is untouched.
func (db *DB) UpdateStrength(conceptID string, strength float64) error {
	_, err := db.Exec(`
		UPDATE concepts SET memory_strength = ? WHERE concept_id = ?
	`, strength, conceptID)
	if err != nil {
		return fmt.Errorf("update strength: %w", err)
	}
	return nil
}

// SetRevision records a revision: strength and initial weight move
// together and the anchor day is reset.
func (db *DB) SetRevision(conceptID string, strength float64, day int) error {
	_, err := db.Exec(`
		UPDATE concepts
		SET memory_strength = ?, initial_weight = ?, last_revised_day = ?
		WHERE concept_id = ?
	`, strength, strength, day, conceptID)
	if err != nil {
		return fmt.Errorf("set revision: %w", err)
	}
	return nil
}

// CountConcepts returns the number of concepts.
func (db *DB) CountConcepts() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM concepts").Scan(&count)
	return count, err
}

// AvgStrength returns the mean memory strength, 0 when empty.
func (db *DB) AvgStrength() (float64, error) {
	var avg float64
	err := db.QueryRow("SELECT COALESCE(AVG(memory_strength), 0) FROM concepts").Scan(&avg)
	return avg, err
}

// UrgentCount returns the number of concepts below the given strength.
func (db *DB) UrgentCount(threshold float64) (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM concepts WHERE memory_strength < ?", threshold).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConcept(row rowScanner) (*Concept, error) {
	var c Concept
	var category, prereqs sql.NullString
	if err := row.Scan(&c.Seq, &c.ID, &c.Name, &category, &prereqs,
		&c.InitialWeight, &c.MemoryStrength, &c.LastRevisedDay, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Category = category.String
	if prereqs.String != "" {
		if err := json.Unmarshal([]byte(prereqs.String), &c.Prerequisites); err != nil {
			return nil, fmt.Errorf("unmarshal prerequisites for %s: %w", c.ID, err)
		}
	}
	return &c, nil
}

func scanConcepts(rows *sql.Rows) ([]Concept, error) {
	var concepts []Concept
	for rows.Next() {
		c, err := scanConcept(rows)
		if err != nil {
			return nil, fmt.Errorf("scan concept: %w", err)
		}
		concepts = append(concepts, *c)
	}
	return concepts, rows.Err()
}
