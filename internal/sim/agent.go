package sim

import (
	"math"
	"math/rand"

	"github.com/BielJM1/MRTAOptima/internal/geom"
	"github.com/BielJM1/MRTAOptima/internal/stimulus"
)

// relTolerance is the relative closeness used to group near-tied stimuli.
const relTolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= relTolerance*math.Max(math.Abs(a), math.Abs(b))
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// Agent is a mobile worker. Its position and current task are never stored;
// they are derived from the movement log and the clock, which rules out
// staleness between the two.
type Agent struct {
	ID           int
	Velocity     float64
	WorkCapacity int
	WorkDone     int

	instantTravel bool
	log           []Movement
}

// NewAgentAtTask creates an agent already standing on its first task.
func NewAgentAtTask(id int, velocity float64, capacity int, instantTravel bool, first *Task) *Agent {
	return &Agent{
		ID:            id,
		Velocity:      velocity,
		WorkCapacity:  capacity,
		instantTravel: instantTravel,
		log: []Movement{{
			DecidedAt: 0,
			ArrivalAt: 0,
			From:      first.Pos,
			To:        first.Pos,
			TaskID:    first.ID,
		}},
	}
}

// NewAgentAt creates an agent at an explicit coordinate with a computed first
// travel segment toward its first task.
func NewAgentAt(id int, velocity float64, capacity int, instantTravel bool, start geom.Point, first *Task) *Agent {
	a := &Agent{
		ID:            id,
		Velocity:      velocity,
		WorkCapacity:  capacity,
		instantTravel: instantTravel,
	}
	a.log = []Movement{{
		DecidedAt: 0,
		ArrivalAt: a.TravelTime(start.DistanceTo(first.Pos)),
		From:      start,
		To:        first.Pos,
		TaskID:    first.ID,
	}}
	return a
}

func (a *Agent) tail() Movement {
	return a.log[len(a.log)-1]
}

// Movements returns the agent's travel history. The returned slice is shared;
// callers must not mutate it.
func (a *Agent) Movements() []Movement {
	return a.log
}

// IsTravelling reports whether the agent is still on its way at tick now.
// With instantaneous travel configured it is always false.
func (a *Agent) IsTravelling(now int) bool {
	if a.instantTravel {
		return false
	}
	return now < a.tail().ArrivalAt
}

// DestinationTask returns the task the agent is located at or heading to.
// It is defined even while travelling.
func (a *Agent) DestinationTask() int {
	return a.tail().TaskID
}

// CurrentTask returns the task the agent occupies, which is undefined while
// travelling.
func (a *Agent) CurrentTask(now int) (int, bool) {
	if a.IsTravelling(now) {
		return 0, false
	}
	return a.DestinationTask(), true
}

// ForthcomingTask returns the task the agent is moving toward, defined only
// while travelling.
func (a *Agent) ForthcomingTask(now int) (int, bool) {
	if !a.IsTravelling(now) {
		return 0, false
	}
	return a.DestinationTask(), true
}

// ArrivalTime returns the arrival tick of the in-flight segment, defined only
// while travelling.
func (a *Agent) ArrivalTime(now int) (int, bool) {
	if !a.IsTravelling(now) {
		return 0, false
	}
	return a.tail().ArrivalAt, true
}

// Position returns the agent's position at tick now: the tail segment's end
// when settled, or the linear interpolation along the segment while
// travelling.
func (a *Agent) Position(now int) geom.Point {
	tail := a.tail()
	if !a.IsTravelling(now) {
		return tail.To
	}
	covered := float64(now-tail.DecidedAt) * a.Velocity
	u := covered / tail.Distance()
	return geom.Lerp(tail.From, tail.To, u)
}

// TravelTime returns the whole number of ticks needed to cover distance,
// rounded up so an agent never arrives early.
func (a *Agent) TravelTime(distance float64) int {
	return int(math.Ceil(distance / a.Velocity))
}

// TravelledDistance sums the segment lengths of the movement log. Thanks to
// redirect truncation this equals the distance actually covered.
func (a *Agent) TravelledDistance() float64 {
	sum := 0.0
	for _, m := range a.log {
		sum += m.Distance()
	}
	return sum
}

// Work applies up to the agent's work capacity to the task it currently
// occupies. Travelling agents do nothing.
func (a *Agent) Work(tasks *TaskSet, now int) {
	id, ok := a.CurrentTask(now)
	if !ok {
		return
	}
	a.WorkDone += tasks.Get(id).ApplyWork(a.WorkCapacity, now)
}

// Stop pins the tail segment's end to the agent's true position so the run's
// end freezes any in-flight travel.
func (a *Agent) Stop(now int) {
	pos := a.Position(now)
	tail := a.tail()
	tail.To = pos
	a.log[len(a.log)-1] = tail
}

// MoveTo commits the agent to a task at tick now. The prior tail is replaced
// by a truncated copy ending at the agent's interpolated position, which is
// what keeps distance accounting exact under mid-travel redirection, and a
// fresh segment toward the task is appended.
func (a *Agent) MoveTo(now, travelTime int, task *Task) {
	from := a.Position(now)

	tail := a.tail()
	tail.To = from
	a.log[len(a.log)-1] = tail

	a.log = append(a.log, Movement{
		DecidedAt: now,
		ArrivalAt: now + travelTime,
		From:      from,
		To:        task.Pos,
		TaskID:    task.ID,
	})
}

type candidate struct {
	taskID     int
	travelTime int
}

// BestTask picks the non-completed task with the highest combined stimulus.
// Candidates numerically near the running maximum form a near-tie set; if the
// agent's current destination is among them it is re-selected, so equivalent
// alternatives never cause a switch. Returns false when the agent is
// ineligible (travelling with redirection disallowed) or no task yields a
// non-zero stimulus.
func (a *Agent) BestTask(tasks *TaskSet, occupancy func(int) int, now int, pol DecisionPolicy, rng *rand.Rand) (taskID, travelTime int, ok bool) {
	if a.IsTravelling(now) && !pol.AllowRedirect {
		return 0, 0, false
	}

	pos := a.Position(now)
	order := make([]int, tasks.Len())
	for i := range order {
		order[i] = i
	}
	if !pol.FixedOrder {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	best := -1.0
	var ties []candidate
	for _, idx := range order {
		task := tasks.Get(idx)
		if task.Completed() {
			continue
		}
		st, tt := a.taskStimulus(pos, task, occupancy(task.ID), now, pol)
		if math.IsNaN(st) || st == 0 {
			continue
		}
		if st > best {
			best = st
			ties = []candidate{{task.ID, tt}}
		} else if almostEqual(st, best) {
			ties = append(ties, candidate{task.ID, tt})
		}
	}
	if len(ties) == 0 {
		return 0, 0, false
	}

	current := a.DestinationTask()
	for _, c := range ties {
		if c.taskID == current {
			return c.taskID, c.travelTime, true
		}
	}
	return ties[0].taskID, ties[0].travelTime, true
}

// taskStimulus computes the combined stimulus for one candidate task along
// with the travel time to reach it.
func (a *Agent) taskStimulus(pos geom.Point, task *Task, taskOccupancy, now int, pol DecisionPolicy) (float64, int) {
	tt := 0
	if !pos.Equal(task.Pos) {
		tt = a.TravelTime(pos.DistanceTo(task.Pos))
	}

	expectedEnd := now + tt + ceilDiv(task.RemainingEffort, a.WorkCapacity)
	st, _ := stimulus.Urgency(task.MaxUtility, task.Deadline, expectedEnd)

	if pol.Interference != nil {
		penalty := stimulus.Interference(pol.Interference.Kind, taskOccupancy, task.MaxAgents, pol.Interference.Gamma, pol.Interference.Beta)
		st = pol.Operators.Primary.Apply(st, penalty)
	}
	if pol.Inertia != nil {
		current, settled := a.CurrentTask(now)
		st = pol.Operators.Secondary.Apply(st, stimulus.Inertia(settled, current, task.ID, pol.Inertia.K))
	}
	return st, tt
}
