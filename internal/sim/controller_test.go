package sim

import (
	"io"
	"log"
	"math"
	"math/rand"
	"testing"

	"github.com/BielJM1/MRTAOptima/internal/geom"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// worldController wires a controller around a hand-built world, bypassing
// random setup so scenarios are exact.
func worldController(tasks []*Task, agents []*Agent, pol DecisionPolicy, terminationFactor float64, seed int64) *Controller {
	rng := rand.New(rand.NewSource(seed))
	return &Controller{
		params: Params{TerminationFactor: terminationFactor, AllowRedirect: pol.AllowRedirect, FixedOrder: pol.FixedOrder},
		tasks:  NewTaskSet(tasks),
		agents: NewAgentSet(agents, pol, rng),
		status: StatusInProgress,
		logger: quietLogger(),
	}
}

func TestSingleTaskOnTimeScenario(t *testing.T) {
	// One task, effort 10, deadline 30; one agent on it with capacity 2.
	// Five ticks of work complete the task on time with full utility.
	task := newTask(0, geom.Pt(100, 100), 10, 30, 1.0)
	agent := NewAgentAtTask(0, 5, 2, false, task)
	c := worldController([]*Task{task}, []*Agent{agent}, DecisionPolicy{FixedOrder: true}, 10, 1)

	res := c.Run()

	if res.Status != StatusSuccessfulEnding {
		t.Fatalf("status = %s, want %s", res.Status, StatusSuccessfulEnding)
	}
	if res.Ticks != 5 {
		t.Fatalf("ticks = %d, want 5", res.Ticks)
	}
	if task.CompletedAt != 5 {
		t.Fatalf("CompletedAt = %d, want 5", task.CompletedAt)
	}
	if task.AchievedUtility != 1.0 {
		t.Fatalf("AchievedUtility = %v, want 1.0", task.AchievedUtility)
	}
	if res.MeanUtilityPercent != 100 {
		t.Fatalf("MeanUtilityPercent = %v, want 100", res.MeanUtilityPercent)
	}
	if res.MeanDistance != 0 {
		t.Fatalf("MeanDistance = %v, want 0 for an agent that never moved", res.MeanDistance)
	}
	if agent.WorkDone != 10 {
		t.Fatalf("WorkDone = %d, want 10", agent.WorkDone)
	}
}

func TestSingleTaskLateScenario(t *testing.T) {
	// Same work but deadline 4: completion at tick 5 lands in the late
	// branch, 0.28/1.28 of the maximum utility.
	task := newTask(0, geom.Pt(100, 100), 10, 4, 1.0)
	agent := NewAgentAtTask(0, 5, 2, false, task)
	c := worldController([]*Task{task}, []*Agent{agent}, DecisionPolicy{FixedOrder: true}, 10, 1)

	res := c.Run()

	if res.Status != StatusSuccessfulEnding || res.Ticks != 5 {
		t.Fatalf("status=%s ticks=%d, want %s at 5", res.Status, res.Ticks, StatusSuccessfulEnding)
	}
	if math.Abs(task.AchievedUtility-0.21875) > 1e-9 {
		t.Fatalf("AchievedUtility = %v, want 0.21875", task.AchievedUtility)
	}
	if math.Abs(res.MeanUtilityPercent-21.875) > 1e-6 {
		t.Fatalf("MeanUtilityPercent = %v, want 21.875", res.MeanUtilityPercent)
	}
}

func TestUnreasonableTimeTermination(t *testing.T) {
	// An unreachable workload: the agent is pinned on a completed-size world
	// where the remaining task needs more capacity than exists before the
	// horizon. Effort is huge relative to the deadline, so the clock passes
	// terminationFactor * deadline with work outstanding.
	task := newTask(0, geom.Pt(100, 100), 1000, 10, 1.0)
	agent := NewAgentAtTask(0, 5, 1, false, task)
	c := worldController([]*Task{task}, []*Agent{agent}, DecisionPolicy{FixedOrder: true}, 2, 1)

	res := c.Run()

	if res.Status != StatusUnreasonableTime {
		t.Fatalf("status = %s, want %s", res.Status, StatusUnreasonableTime)
	}
	if res.Ticks != 21 {
		t.Fatalf("ticks = %d, want 21 (first tick past 2x deadline 10)", res.Ticks)
	}
	if !task.Completed() || task.CompletedAt != 21 {
		t.Fatalf("task not force-finished: remaining=%d completedAt=%d", task.RemainingEffort, task.CompletedAt)
	}
	if task.AchievedUtility >= task.MaxUtility || task.AchievedUtility <= 0 {
		t.Fatalf("forced utility = %v, want in (0, %v)", task.AchievedUtility, task.MaxUtility)
	}
}

func TestTravelThenWorkScenario(t *testing.T) {
	// Agent starts 10 away at velocity 2: 5 ticks of travel, then 3 ticks of
	// work on effort 6 at capacity 2, ending on the boundary after tick 7.
	task := newTask(0, geom.Pt(10, 0), 6, 30, 1.0)
	agent := NewAgentAt(0, 2, 2, false, geom.Pt(0, 0), task)
	c := worldController([]*Task{task}, []*Agent{agent}, DecisionPolicy{FixedOrder: true}, 10, 1)

	res := c.Run()

	if res.Status != StatusSuccessfulEnding {
		t.Fatalf("status = %s, want %s", res.Status, StatusSuccessfulEnding)
	}
	if task.CompletedAt != 8 {
		t.Fatalf("CompletedAt = %d, want 8 (arrive at 5, work ticks 5..7)", task.CompletedAt)
	}
	if got := agent.TravelledDistance(); math.Abs(got-10) > 1e-9 {
		t.Fatalf("TravelledDistance = %v, want 10", got)
	}
}

func TestDeterminismSameSeed(t *testing.T) {
	params := Params{
		EnvWidth: 640, EnvHeight: 480,
		TaskCount: 6, MinTaskSeparation: 60,
		MinUtility: 0.75, MaxUtility: 1.0,
		MinEffort: 4, MaxEffort: 10,
		MinDeadlineFactor: 2.5, MaxDeadlineFactor: 4.0,
		MaxAgentsPerTask: 3,
		AgentCount:       3,
		MinVelocityFactor: 0.8,
		MinWorkCapacity:  1, MaxWorkCapacity: 2,
		AllowRedirect:     true,
		TerminationFactor: 10,
		Seed:              42,
	}

	run := func() (Result, Snapshot) {
		c, err := New(params, quietLogger())
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		res := c.Run()
		return res, c.Snapshot()
	}

	res1, snap1 := run()
	res2, snap2 := run()

	if res1 != res2 {
		t.Fatalf("results differ across identical seeds:\n%+v\n%+v", res1, res2)
	}
	for i := range snap1.Tasks {
		if snap1.Tasks[i] != snap2.Tasks[i] {
			t.Fatalf("task %d state differs:\n%+v\n%+v", i, snap1.Tasks[i], snap2.Tasks[i])
		}
	}
	for i := range snap1.Agents {
		if snap1.Agents[i] != snap2.Agents[i] {
			t.Fatalf("agent %d state differs:\n%+v\n%+v", i, snap1.Agents[i], snap2.Agents[i])
		}
	}
}

func TestRemainingEffortNonIncreasing(t *testing.T) {
	params := Params{
		EnvWidth: 640, EnvHeight: 480,
		TaskCount: 5, MinTaskSeparation: 80,
		MinUtility: 0.75, MaxUtility: 1.0,
		MinEffort: 4, MaxEffort: 12,
		MinDeadlineFactor: 2.5, MaxDeadlineFactor: 4.0,
		MaxAgentsPerTask: 3,
		AgentCount:       3,
		MinVelocityFactor: 0.8,
		MinWorkCapacity:  1, MaxWorkCapacity: 2,
		AllowRedirect:     true,
		TerminationFactor: 10,
		Seed:              7,
	}
	c, err := New(params, quietLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	prev := make(map[int]int)
	for _, ts := range c.Snapshot().Tasks {
		prev[ts.ID] = ts.RemainingEffort
	}
	for c.Step() == StatusInProgress {
		for _, ts := range c.Snapshot().Tasks {
			if ts.RemainingEffort > prev[ts.ID] {
				t.Fatalf("task %d remaining effort rose from %d to %d", ts.ID, prev[ts.ID], ts.RemainingEffort)
			}
			if ts.Completed && ts.RemainingEffort != 0 {
				t.Fatalf("task %d completed with remaining effort %d", ts.ID, ts.RemainingEffort)
			}
			prev[ts.ID] = ts.RemainingEffort
		}
	}

	// Terminal invariants: every task completed, utility in (0, max].
	for _, ts := range c.Snapshot().Tasks {
		if !ts.Completed {
			t.Fatalf("task %d incomplete after termination", ts.ID)
		}
		if ts.AchievedUtility <= 0 || ts.AchievedUtility > ts.MaxUtility {
			t.Fatalf("task %d utility %v outside (0, %v]", ts.ID, ts.AchievedUtility, ts.MaxUtility)
		}
	}
}

func TestMovementLogDistanceReconcile(t *testing.T) {
	params := Params{
		EnvWidth: 640, EnvHeight: 480,
		TaskCount: 5, MinTaskSeparation: 80,
		MinUtility: 0.75, MaxUtility: 1.0,
		MinEffort: 4, MaxEffort: 8,
		MinDeadlineFactor: 2.5, MaxDeadlineFactor: 4.0,
		MaxAgentsPerTask: 3,
		AgentCount:       4,
		MinVelocityFactor: 0.8,
		MinWorkCapacity:  1, MaxWorkCapacity: 2,
		AllowRedirect:     true,
		TerminationFactor: 10,
		Seed:              11,
	}
	c, err := New(params, quietLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Run()

	for _, a := range c.agents.Agents() {
		sum := 0.0
		for _, m := range a.Movements() {
			if m.ArrivalAt < m.DecidedAt {
				t.Fatalf("agent %d: segment arrives at %d before decision at %d", a.ID, m.ArrivalAt, m.DecidedAt)
			}
			sum += m.Distance()
		}
		if math.Abs(sum-a.TravelledDistance()) > 1e-9 {
			t.Fatalf("agent %d: segment sum %v != reported distance %v", a.ID, sum, a.TravelledDistance())
		}
	}
}

func TestStepAfterTerminationIsNoop(t *testing.T) {
	task := newTask(0, geom.Pt(100, 100), 2, 30, 1.0)
	agent := NewAgentAtTask(0, 5, 2, false, task)
	c := worldController([]*Task{task}, []*Agent{agent}, DecisionPolicy{FixedOrder: true}, 10, 1)

	c.Run()
	ticks := c.Clock()
	if got := c.Step(); got != StatusSuccessfulEnding {
		t.Fatalf("Step after termination = %s, want %s", got, StatusSuccessfulEnding)
	}
	if c.Clock() != ticks {
		t.Fatalf("clock advanced after termination: %d -> %d", ticks, c.Clock())
	}
}
