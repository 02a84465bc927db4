package sim

import "github.com/BielJM1/MRTAOptima/internal/geom"

// Snapshot is a read-only view of one instant, for renderers and monitors.
type Snapshot struct {
	Tick   int
	Status Status
	Tasks  []TaskState
	Agents []AgentState
}

// TaskState is a task's visible state at the snapshot instant.
type TaskState struct {
	ID              int
	Pos             geom.Point
	TotalEffort     int
	RemainingEffort int
	Deadline        int
	MaxUtility      float64
	AchievedUtility float64
	Completed       bool
	CompletedAt     int
	Occupancy       int
}

// AgentState is an agent's visible state at the snapshot instant. ArrivalAt
// is meaningful only while Travelling.
type AgentState struct {
	ID                int
	Pos               geom.Point
	Velocity          float64
	WorkCapacity      int
	WorkDone          int
	Travelling        bool
	DestinationTask   int
	ArrivalAt         int
	TravelledDistance float64
}

// Snapshot captures the current positions and task/agent states.
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:   c.clock,
		Status: c.status,
		Tasks:  make([]TaskState, 0, c.tasks.Len()),
		Agents: make([]AgentState, 0, c.agents.Len()),
	}
	for _, t := range c.tasks.Tasks() {
		snap.Tasks = append(snap.Tasks, TaskState{
			ID:              t.ID,
			Pos:             t.Pos,
			TotalEffort:     t.TotalEffort,
			RemainingEffort: t.RemainingEffort,
			Deadline:        t.Deadline,
			MaxUtility:      t.MaxUtility,
			AchievedUtility: t.AchievedUtility,
			Completed:       t.Completed(),
			CompletedAt:     t.CompletedAt,
			Occupancy:       c.agents.CommittedTo(t.ID),
		})
	}
	for _, a := range c.agents.Agents() {
		state := AgentState{
			ID:                a.ID,
			Pos:               a.Position(c.clock),
			Velocity:          a.Velocity,
			WorkCapacity:      a.WorkCapacity,
			WorkDone:          a.WorkDone,
			Travelling:        a.IsTravelling(c.clock),
			DestinationTask:   a.DestinationTask(),
			TravelledDistance: a.TravelledDistance(),
		}
		if arrival, ok := a.ArrivalTime(c.clock); ok {
			state.ArrivalAt = arrival
		}
		snap.Agents = append(snap.Agents, state)
	}
	return snap
}
