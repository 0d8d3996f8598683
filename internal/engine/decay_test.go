package engine

import (
	"math"
	"testing"
)

func TestStrengthBounds(t *testing.T) {
	initials := []float64{0.1, 0.45, 0.85, 1.0}
	lambdas := []float64{0.05, 0.15, 0.5}

	for _, initial := range initials {
		for _, lambda := range lambdas {
			prev := math.Inf(1)
			for elapsed := 0; elapsed <= 60; elapsed++ {
				s := Strength(initial, elapsed, lambda)
				if s < StrengthFloor || s > 1.0 {
					t.Fatalf("Strength(%v, %d, %v) = %v, out of [0.1, 1.0]", initial, elapsed, lambda, s)
				}
				if s > prev {
					t.Fatalf("Strength(%v, %d, %v) = %v increased from %v", initial, elapsed, lambda, s, prev)
				}
				prev = s
			}
		}
	}
}

func TestStrengthDecayTenDays(t *testing.T) {
	// e^(-0.15*10) = e^-1.5 ≈ 0.2231
	got := Strength(1.0, 10, 0.15)
	if math.Abs(got-0.2231) > 0.001 {
		t.Errorf("Strength(1.0, 10, 0.15) = %v, want ≈0.2231", got)
	}
}

func TestStrengthFloor(t *testing.T) {
	if got := Strength(0.85, 365, 0.15); got != StrengthFloor {
		t.Errorf("Strength after a year = %v, want floor %v", got, StrengthFloor)
	}
}

func TestStrengthNegativeElapsedClampsAtOne(t *testing.T) {
	// Negative elapsed means the clock moved backward past the anchor;
	// strength "undecays" but never exceeds full.
	if got := Strength(0.8, -5, 0.15); got != 1.0 {
		t.Errorf("Strength(0.8, -5, 0.15) = %v, want 1.0", got)
	}
}

func TestInferElapsedDaysRoundTrip(t *testing.T) {
	initials := []float64{0.85, 0.95, 1.0}
	lambdas := []float64{0.1, 0.15, 0.3}

	for _, initial := range initials {
		for _, lambda := range lambdas {
			for elapsed := 0; elapsed <= 20; elapsed++ {
				raw := initial * math.Exp(-lambda*float64(elapsed))
				// Round-trip only holds strictly between the floor and
				// the initial weight.
				if raw <= StrengthFloor+0.01 || raw >= initial {
					continue
				}

				s := Strength(initial, elapsed, lambda)
				got := InferElapsedDays(s, initial, lambda)
				if got < elapsed-1 || got > elapsed+1 {
					t.Errorf("round trip initial=%v lambda=%v elapsed=%d: got %d", initial, lambda, elapsed, got)
				}
			}
		}
	}
}

func TestInferElapsedDaysContract(t *testing.T) {
	tests := []struct {
		name     string
		strength float64
		initial  float64
		lambda   float64
		want     int
	}{
		{"zero initial", 0.5, 0, 0.15, 0},
		{"negative initial", 0.5, -1, 0.15, 0},
		{"high strength is fresh", 0.95, 0.9, 0.15, 0},
		{"exactly at initial and high", 0.9, 0.9, 0.15, 0},
		// strength >= initial but not near-maximal: re-derive with
		// an assumed initial of 1.0, round(-ln(0.6)/0.15) = 3
		{"unreliable initial re-derived", 0.6, 0.5, 0.15, 3},
		{"fully decayed", 0, 0.85, 0.15, staleAge},
		{"negative strength", -0.1, 0.85, 0.15, staleAge},
		{"zero rate degrades to zero", 0.4, 0.85, 0, 0},
		// seed scenario: round(-ln(0.4/0.85)/0.15) = 5
		{"seed scenario", 0.4, 0.85, 0.15, 5},
	}

	for _, tt := range tests {
		if got := InferElapsedDays(tt.strength, tt.initial, tt.lambda); got != tt.want {
			t.Errorf("%s: InferElapsedDays(%v, %v, %v) = %d, want %d",
				tt.name, tt.strength, tt.initial, tt.lambda, got, tt.want)
		}
	}
}

func TestInferInitialWeight(t *testing.T) {
	tests := []struct {
		strength float64
		want     float64
	}{
		{0.0, 0.85},
		{0.28, 0.85},
		{0.49, 0.85},
		{0.5, 0.90},
		{0.62, 0.90},
		{0.69, 0.90},
		{0.7, 0.95},
		{0.85, 0.95},
		{0.96, 0.96},
		{1.0, 1.0},
	}

	for _, tt := range tests {
		if got := InferInitialWeight(tt.strength); got != tt.want {
			t.Errorf("InferInitialWeight(%v) = %v, want %v", tt.strength, got, tt.want)
		}
	}
}
