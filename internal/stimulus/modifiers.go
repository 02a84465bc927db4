package stimulus

import (
	"fmt"
	"math"
)

// InterferenceKind selects the crowding-penalty model. Only the linear model
// has behavior today; the remaining kinds are accepted by configuration and
// return 0, reserved as extension points.
type InterferenceKind string

const (
	InterferenceLinear      InterferenceKind = "linear"
	InterferenceTrapezoidal InterferenceKind = "trapezoidal"
	InterferenceGaussian    InterferenceKind = "gaussian"
	InterferenceExponential InterferenceKind = "exponential"
)

// ValidateInterferenceKind rejects kinds outside the closed set.
func ValidateInterferenceKind(kind InterferenceKind) error {
	switch kind {
	case InterferenceLinear, InterferenceTrapezoidal, InterferenceGaussian, InterferenceExponential:
		return nil
	default:
		return fmt.Errorf("unknown interference kind %q", kind)
	}
}

// Interference returns the crowding component of the stimulus for a task with
// occupancy agents committed to it out of a capacity of capacity. The linear
// model interpolates from beta at zero occupancy toward gamma at full
// capacity, clamped at 0.
func Interference(kind InterferenceKind, occupancy, capacity int, gamma, beta float64) float64 {
	switch kind {
	case InterferenceLinear:
		return math.Max(((gamma-beta)/float64(capacity))*float64(occupancy)+beta, 0)
	default:
		return 0
	}
}

// Inertia returns the stay-put bonus k when the candidate task is the one the
// agent currently occupies, and 0 otherwise. hasCurrent is false while the
// agent is travelling, so a moving agent gets no bonus anywhere.
func Inertia(hasCurrent bool, currentTask, candidateTask int, k float64) float64 {
	if hasCurrent && currentTask == candidateTask {
		return k
	}
	return 0
}
