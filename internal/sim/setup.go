package sim

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/BielJM1/MRTAOptima/internal/geom"
)

// placementMargin keeps task positions away from the environment edges.
const placementMargin = 15

// maxPlacementAttempts bounds rejection sampling; a separation the area
// cannot accommodate fails setup instead of looping forever.
const maxPlacementAttempts = 10000

// ErrPlacementExhausted reports a degenerate environment: the required number
// of tasks does not fit with the configured minimum separation.
var ErrPlacementExhausted = errors.New("task placement attempts exhausted")

func randIntInclusive(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

func randUniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// buildTasks creates the run's tasks with rejection-sampled positions and
// random effort, deadline and utility.
func buildTasks(p Params, rng *rand.Rand) (*TaskSet, error) {
	positions, err := placeTasks(p, rng)
	if err != nil {
		return nil, err
	}

	tasks := make([]*Task, p.TaskCount)
	for i := range tasks {
		effort := randIntInclusive(rng, p.MinEffort, p.MaxEffort)
		deadline := int(math.Round(float64(effort) * randUniform(rng, p.MinDeadlineFactor, p.MaxDeadlineFactor)))
		tasks[i] = &Task{
			ID:              i,
			Pos:             positions[i],
			MaxUtility:      randUniform(rng, p.MinUtility, p.MaxUtility),
			TotalEffort:     effort,
			RemainingEffort: effort,
			Deadline:        deadline,
			CompletedAt:     NotCompleted,
			MaxAgents:       p.MaxAgentsPerTask,
		}
	}
	return NewTaskSet(tasks), nil
}

// placeTasks samples integer-valued positions inside the margins until every
// task sits at least the minimum separation from every other.
func placeTasks(p Params, rng *rand.Rand) ([]geom.Point, error) {
	placed := make([]geom.Point, 0, p.TaskCount)
	for attempts := 0; len(placed) < p.TaskCount; attempts++ {
		if attempts >= maxPlacementAttempts {
			return nil, fmt.Errorf("placed %d of %d tasks with separation %v in %dx%d: %w",
				len(placed), p.TaskCount, p.MinTaskSeparation, p.EnvWidth, p.EnvHeight, ErrPlacementExhausted)
		}
		cand := geom.Pt(
			float64(randIntInclusive(rng, placementMargin, p.EnvWidth-1-placementMargin)),
			float64(randIntInclusive(rng, placementMargin, p.EnvHeight-1-placementMargin)),
		)
		tooClose := false
		for _, pos := range placed {
			if cand.DistanceTo(pos) < p.MinTaskSeparation {
				tooClose = true
				break
			}
		}
		if !tooClose {
			placed = append(placed, cand)
		}
	}
	return placed, nil
}

// buildAgents creates the run's agents. Each starts committed to a distinct
// random task; velocities are drawn so that crossing the closest task pair
// takes at least two ticks.
func buildAgents(p Params, tasks *TaskSet, rng *rand.Rand) []*Agent {
	firstTasks := rng.Perm(tasks.Len())[:p.AgentCount]

	minDist := tasks.MinPairwiseDistance()
	if math.IsInf(minDist, 1) {
		// Single task: no pair to derive a scale from.
		minDist = p.MinTaskSeparation
	}
	maxVel := int(math.Ceil(minDist / 1.25))
	minVel := int(math.Ceil(float64(maxVel) * p.MinVelocityFactor))

	agents := make([]*Agent, p.AgentCount)
	for i := range agents {
		velocity := float64(randIntInclusive(rng, minVel, maxVel))
		capacity := randIntInclusive(rng, p.MinWorkCapacity, p.MaxWorkCapacity)
		first := tasks.Get(firstTasks[i])
		if p.Start != nil {
			agents[i] = NewAgentAt(i, velocity, capacity, p.InstantTravel, *p.Start, first)
		} else {
			agents[i] = NewAgentAtTask(i, velocity, capacity, p.InstantTravel, first)
		}
	}
	return agents
}
