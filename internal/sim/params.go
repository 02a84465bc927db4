package sim

import (
	"fmt"

	"github.com/BielJM1/MRTAOptima/internal/geom"
	"github.com/BielJM1/MRTAOptima/internal/stimulus"
)

// InertiaParams enables the stay-put bonus with coefficient K in [0,1].
type InertiaParams struct {
	K float64
}

// InterferenceParams enables the crowding penalty. Gamma and Beta parameterize
// the linear model; the other kinds ignore them.
type InterferenceParams struct {
	Kind  stimulus.InterferenceKind
	Gamma float64
	Beta  float64
}

// OperatorPair names the two aggregation steps of the decision pipeline:
// Primary combines the deadline urgency with the interference value, and
// Secondary combines that result with the inertia bonus. Secondary is always
// applied without parameters.
type OperatorPair struct {
	Primary   stimulus.Operator
	Secondary stimulus.Operator
}

// DecisionPolicy is the slice of Params the per-agent decision consults.
type DecisionPolicy struct {
	Inertia       *InertiaParams
	Interference  *InterferenceParams
	Operators     OperatorPair
	AllowRedirect bool
	FixedOrder    bool
}

// Params is the complete, read-only configuration of a single run. It is
// threaded explicitly through setup and the controller; nothing reads ambient
// state.
type Params struct {
	EnvWidth  int
	EnvHeight int

	TaskCount         int
	MinTaskSeparation float64
	MinUtility        float64
	MaxUtility        float64
	MinEffort         int
	MaxEffort         int
	// Deadlines are drawn as round(effort * factor) with the factor uniform
	// in [MinDeadlineFactor, MaxDeadlineFactor].
	MinDeadlineFactor float64
	MaxDeadlineFactor float64
	MaxAgentsPerTask  int

	AgentCount        int
	MinVelocityFactor float64
	MinWorkCapacity   int
	MaxWorkCapacity   int
	// Start, when non-nil, places every agent at this coordinate instead of
	// on its randomly assigned first task.
	Start *geom.Point

	InstantTravel bool
	AllowRedirect bool
	// FixedOrder switches both phase iteration orders from
	// randomized-per-tick to a deterministic rotation.
	FixedOrder bool
	// TerminationFactor multiplies the farthest outstanding deadline to form
	// the unreasonable-time horizon.
	TerminationFactor float64
	Seed              int64
	Verbose           bool

	Inertia      *InertiaParams
	Interference *InterferenceParams
	Operators    OperatorPair
}

func (p Params) withDefaults() Params {
	if p.TerminationFactor <= 0 {
		p.TerminationFactor = 10
	}
	if p.MaxAgentsPerTask <= 0 {
		p.MaxAgentsPerTask = 1
	}
	if p.Inertia != nil && p.Operators.Secondary.Kind == stimulus.KindNone {
		p.Operators.Secondary = stimulus.Operator{Kind: stimulus.KindMax}
	}
	return p
}

// Policy extracts the decision-relevant subset of the parameters.
func (p Params) Policy() DecisionPolicy {
	return DecisionPolicy{
		Inertia:       p.Inertia,
		Interference:  p.Interference,
		Operators:     p.Operators,
		AllowRedirect: p.AllowRedirect,
		FixedOrder:    p.FixedOrder,
	}
}

// Validate rejects configuration violations before any task or agent exists.
// Setup fails fast rather than producing undefined mid-run states.
func (p Params) Validate() error {
	if p.EnvWidth <= 2*placementMargin || p.EnvHeight <= 2*placementMargin {
		return fmt.Errorf("environment %dx%d is too small for the %d pixel placement margin", p.EnvWidth, p.EnvHeight, placementMargin)
	}
	if p.TaskCount < 1 {
		return fmt.Errorf("task count must be >= 1, got %d", p.TaskCount)
	}
	if p.MinTaskSeparation <= 0 {
		return fmt.Errorf("minimum task separation must be > 0, got %v", p.MinTaskSeparation)
	}
	if p.MinUtility <= 0 || p.MinUtility > p.MaxUtility {
		return fmt.Errorf("utility range [%v, %v] must satisfy 0 < min <= max", p.MinUtility, p.MaxUtility)
	}
	if p.MinEffort < 1 || p.MinEffort > p.MaxEffort {
		return fmt.Errorf("effort range [%d, %d] must satisfy 1 <= min <= max", p.MinEffort, p.MaxEffort)
	}
	if p.MinDeadlineFactor < 1 || p.MinDeadlineFactor > p.MaxDeadlineFactor {
		return fmt.Errorf("deadline factor range [%v, %v] must satisfy 1 <= min <= max so deadlines never undercut efforts", p.MinDeadlineFactor, p.MaxDeadlineFactor)
	}
	if p.MaxAgentsPerTask < 1 {
		return fmt.Errorf("max agents per task must be >= 1, got %d", p.MaxAgentsPerTask)
	}
	if p.AgentCount < 1 {
		return fmt.Errorf("agent count must be >= 1, got %d", p.AgentCount)
	}
	if p.AgentCount > p.TaskCount {
		return fmt.Errorf("agent count %d exceeds task count %d; agents start on distinct tasks", p.AgentCount, p.TaskCount)
	}
	if p.MinVelocityFactor <= 0 || p.MinVelocityFactor > 1 {
		return fmt.Errorf("minimum velocity factor must be in (0, 1], got %v", p.MinVelocityFactor)
	}
	if p.MinWorkCapacity < 1 || p.MinWorkCapacity > p.MaxWorkCapacity {
		return fmt.Errorf("work capacity range [%d, %d] must satisfy 1 <= min <= max", p.MinWorkCapacity, p.MaxWorkCapacity)
	}
	if p.Start != nil {
		if p.Start.X < 0 || p.Start.X >= float64(p.EnvWidth) || p.Start.Y < 0 || p.Start.Y >= float64(p.EnvHeight) {
			return fmt.Errorf("fixed start position %v is outside the %dx%d environment", *p.Start, p.EnvWidth, p.EnvHeight)
		}
	}
	if p.TerminationFactor <= 0 {
		return fmt.Errorf("termination factor must be > 0, got %v", p.TerminationFactor)
	}
	if p.Inertia != nil {
		if p.Inertia.K < 0 || p.Inertia.K > 1 {
			return fmt.Errorf("inertia coefficient must be in [0, 1], got %v", p.Inertia.K)
		}
		if err := p.Operators.Secondary.Validate(); err != nil {
			return fmt.Errorf("secondary aggregation operator: %w", err)
		}
	}
	if p.Interference != nil {
		if err := stimulus.ValidateInterferenceKind(p.Interference.Kind); err != nil {
			return err
		}
		if err := p.Operators.Primary.Validate(); err != nil {
			return fmt.Errorf("primary aggregation operator: %w", err)
		}
	}
	return nil
}
