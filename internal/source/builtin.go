package source

import "context"

// Builtin serves the bundled sample curriculum. Initial weight equals
// current strength in every record, the shape a backend that never
// tracked revision history produces; seeding reconstructs the rest.
type Builtin struct{}

// NewBuiltin creates the builtin sample source.
func NewBuiltin() *Builtin {
	return &Builtin{}
}

var sampleConcepts = []RawConcept{
	{ID: "binary_search", Name: "Binary Search", Category: "Algorithms", MemoryStrength: 0.85, InitialWeight: 0.85, Prerequisites: []string{"arrays"}},
	{ID: "arrays", Name: "Arrays", Category: "Data Structures", MemoryStrength: 0.45, InitialWeight: 0.45},
	{ID: "sorting", Name: "Sorting Algorithms", Category: "Algorithms", MemoryStrength: 0.62, InitialWeight: 0.62, Prerequisites: []string{"arrays"}},
	{ID: "linked_lists", Name: "Linked Lists", Category: "Data Structures", MemoryStrength: 0.28, InitialWeight: 0.28},
	{ID: "trees", Name: "Binary Trees", Category: "Data Structures", MemoryStrength: 0.75, InitialWeight: 0.75, Prerequisites: []string{"linked_lists"}},
	{ID: "hash_tables", Name: "Hash Tables", Category: "Data Structures", MemoryStrength: 0.55, InitialWeight: 0.55, Prerequisites: []string{"arrays"}},
	{ID: "graphs", Name: "Graph Traversal", Category: "Algorithms", MemoryStrength: 0.35, InitialWeight: 0.35, Prerequisites: []string{"trees"}},
	{ID: "dp", Name: "Dynamic Programming", Category: "Algorithms", MemoryStrength: 0.90, InitialWeight: 0.90, Prerequisites: []string{"sorting"}},
}

// Concepts returns a copy of the sample curriculum.
func (b *Builtin) Concepts(ctx context.Context) ([]RawConcept, error) {
	out := make([]RawConcept, len(sampleConcepts))
	copy(out, sampleConcepts)
	return out, nil
}

// PushDecayRate acknowledges unconditionally; the builtin source has no
// downstream copy of the rate.
func (b *Builtin) PushDecayRate(ctx context.Context, rate float64) error {
	return nil
}
