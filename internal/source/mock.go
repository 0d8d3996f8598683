package source

import "context"

// Mock is a test double for the Source interface.
type Mock struct {
	Records   []RawConcept
	Err       error
	RateErr   error
	RatesSent []float64
}

// Concepts returns the canned records.
func (m *Mock) Concepts(ctx context.Context) ([]RawConcept, error) {
	return m.Records, m.Err
}

// PushDecayRate records the forwarded rate.
func (m *Mock) PushDecayRate(ctx context.Context, rate float64) error {
	m.RatesSent = append(m.RatesSent, rate)
	return m.RateErr
}
