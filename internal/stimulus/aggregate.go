// Package stimulus holds the pure numeric functions of the decision engine:
// the aggregation operator library, the interference and inertia modifiers,
// and the deadline urgency/utility function. Nothing here carries state; the
// simulation threads parameters through explicitly.
package stimulus

import (
	"fmt"
	"math"
)

// Kind identifies an aggregation operator. The set is closed and dispatched
// through Combine so numeric behavior stays centrally testable.
type Kind string

const (
	KindNone         Kind = ""
	KindMin          Kind = "min"
	KindMax          Kind = "max"
	KindProduct      Kind = "product"
	KindYager        Kind = "yager"
	KindHarmonicMean Kind = "harmonic_mean"
	KindOWA          Kind = "owa"
)

// Operator pairs a kind with its parameter set. Yager takes one parameter
// (lambda > 0), OWA takes one (0 <= wmax <= 1); the others take none.
type Operator struct {
	Kind   Kind
	Params []float64
}

// Apply combines x and y with this operator.
func (op Operator) Apply(x, y float64) float64 {
	return Combine(op.Kind, op.Params, x, y)
}

// Validate rejects unknown kinds and parameters outside their documented
// ranges. Parameter errors are configuration errors and surface at setup,
// never mid-run.
func (op Operator) Validate() error {
	switch op.Kind {
	case KindMin, KindMax, KindProduct, KindHarmonicMean:
		return nil
	case KindYager:
		if len(op.Params) < 1 {
			return fmt.Errorf("yager operator requires a lambda parameter")
		}
		if op.Params[0] <= 0 {
			return fmt.Errorf("yager lambda must be > 0, got %v", op.Params[0])
		}
		return nil
	case KindOWA:
		if len(op.Params) < 1 {
			return fmt.Errorf("owa operator requires a wmax parameter")
		}
		if op.Params[0] < 0 || op.Params[0] > 1 {
			return fmt.Errorf("owa wmax must be in [0,1], got %v", op.Params[0])
		}
		return nil
	default:
		return fmt.Errorf("unknown aggregation operator %q", op.Kind)
	}
}

// Combine merges two stimulus-like values in [0,1] into one. A NaN input
// yields NaN (undefined in, undefined out). The harmonic mean and OWA treat
// an exactly-zero input as disqualifying and return 0, which also keeps both
// total: no division by zero is reachable.
func Combine(kind Kind, params []float64, x, y float64) float64 {
	if math.IsNaN(x) || math.IsNaN(y) {
		return math.NaN()
	}

	switch kind {
	case KindMin:
		return math.Min(x, y)
	case KindMax:
		return math.Max(x, y)
	case KindProduct:
		return x * y
	case KindYager:
		// lambda = params[0]; lambda == 1 reduces to the Lukasiewicz t-norm.
		lambda := params[0]
		return math.Max(0, 1-math.Pow(math.Pow(1-x, lambda)+math.Pow(1-y, lambda), 1/lambda))
	case KindHarmonicMean:
		if x == 0 || y == 0 {
			return 0
		}
		return 2 / (1/x + 1/y)
	case KindOWA:
		// wmax = params[0]; the effective weight is max(wmax, 1-wmax) so the
		// larger input always dominates.
		if x == 0 || y == 0 {
			return 0
		}
		w := math.Max(params[0], 1-params[0])
		return w*math.Max(x, y) + (1-w)*math.Min(x, y)
	default:
		return math.NaN()
	}
}
