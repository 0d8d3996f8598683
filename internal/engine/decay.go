package engine

import "math"

// Memory model constants.
const (
	// DefaultLambda is the exponential decay constant applied to all
	// concepts unless overridden via SetDecayRate.
	DefaultLambda = 0.15

	// StrengthFloor is the asymptotic residual. Memories are never
	// forgotten entirely, they bottom out here.
	StrengthFloor = 0.1

	// ReviseBoost is the additive reinforcement applied by a revision.
	// Not a reset to 1.0: a near-zero concept climbs back over several
	// revisions instead of saturating immediately.
	ReviseBoost = 0.4

	// UrgentThreshold marks a concept as urgently due for review.
	UrgentThreshold = 0.3

	// seedBaselineDay is where the clock starts after seeding, leaving
	// headroom so back-computed revision days stay non-negative.
	seedBaselineDay = 30

	// staleAge is the sentinel elapsed-days value for a concept whose
	// strength has decayed to the point where its age is unknowable.
	staleAge = 999
)

// Strength computes memory strength after elapsedDays of exponential
// decay from the given initial weight, clamped to [StrengthFloor, 1.0].
// The ceiling guards against overshoot when elapsedDays is negative.
func Strength(initial float64, elapsedDays int, lambda float64) float64 {
	s := initial * math.Exp(-lambda*float64(elapsedDays))
	if s < StrengthFloor {
		return StrengthFloor
	}
	if s > 1.0 {
		return 1.0
	}
	return s
}

// InferElapsedDays recovers how many days must have elapsed for a
// concept to decay from initial to strength under lambda. It exists to
// retrofit a plausible revision day onto concepts imported from sources
// that never tracked revision history.
//
// Total over its whole domain: numeric edge cases degrade to 0 (treated
// as freshly revised) or staleAge (fully decayed), never an error.
func InferElapsedDays(strength, initial, lambda float64) int {
	if initial <= 0 {
		return 0
	}
	if strength >= initial {
		// High strength is fresh, not an overshoot artifact.
		if strength >= 0.9 {
			return 0
		}
		// The claimed initial is unreliable once observed strength
		// meets it; re-derive assuming it started at full strength.
		initial = 1.0
	}

	ratio := strength / initial
	if ratio <= 0 {
		return staleAge
	}
	if lambda <= 0 {
		return 0
	}

	days := -math.Log(ratio) / lambda
	if math.IsNaN(days) || math.IsInf(days, 0) || days < 0 {
		return 0
	}
	return int(math.Round(days))
}

// InferInitialWeight fabricates a plausible initial weight for a concept
// whose import record carries only a current strength. Low strength
// implies the concept started high and decayed; the bands are fixed.
func InferInitialWeight(strength float64) float64 {
	switch {
	case strength < 0.5:
		return 0.85
	case strength < 0.7:
		return 0.90
	default:
		return math.Max(strength, 0.95)
	}
}
