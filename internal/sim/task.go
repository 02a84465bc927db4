package sim

import (
	"math"

	"github.com/BielJM1/MRTAOptima/internal/geom"
	"github.com/BielJM1/MRTAOptima/internal/stimulus"
)

// NotCompleted is the CompletedAt sentinel of a task still in progress.
const NotCompleted = -1

// Task is a unit of work at a fixed location. RemainingEffort only ever
// decreases; AchievedUtility and CompletedAt are written exactly once, at the
// tick the task reaches zero remaining effort (or is force-finished).
type Task struct {
	ID              int
	Pos             geom.Point
	MaxUtility      float64
	AchievedUtility float64
	TotalEffort     int
	RemainingEffort int
	Deadline        int
	CompletedAt     int
	MaxAgents       int
}

// Completed reports whether the task has reached zero remaining effort.
func (t *Task) Completed() bool {
	return t.RemainingEffort <= 0
}

// ApplyWork reduces the remaining effort by up to capacity and returns the
// effort actually consumed. Work occupies the whole of tick now, so if this
// call completes the task the completion instant is the boundary now+1; the
// positive-delta guard keeps an agent idling on an already-completed task
// from re-recording it.
func (t *Task) ApplyWork(capacity, now int) int {
	remaining := t.RemainingEffort - capacity
	if remaining < 0 {
		remaining = 0
	}
	done := t.RemainingEffort - remaining
	t.RemainingEffort = remaining

	if t.Completed() && done > 0 {
		t.recordCompletion(now + 1)
	}
	return done
}

// recordCompletion awards the utility of finishing at tick now. With zero
// remaining effort the expected end is now itself.
func (t *Task) recordCompletion(now int) {
	_, utility := stimulus.Urgency(t.MaxUtility, t.Deadline, now)
	t.AchievedUtility = utility
	t.CompletedAt = now
}

// UtilityPercent returns the achieved utility as a percentage of the maximum;
// 0 while the task is incomplete.
func (t *Task) UtilityPercent() float64 {
	return t.AchievedUtility / t.MaxUtility * 100
}

// LeadTime is the number of ticks the task finished ahead of its deadline;
// negative when it finished late.
func (t *Task) LeadTime() int {
	return t.Deadline - t.CompletedAt
}

// TaskSet owns the tasks of a run. Task IDs are their indices; tasks are
// never added or removed during a run.
type TaskSet struct {
	tasks []*Task
}

// NewTaskSet wraps a slice of tasks whose IDs match their positions.
func NewTaskSet(tasks []*Task) *TaskSet {
	return &TaskSet{tasks: tasks}
}

func (s *TaskSet) Len() int         { return len(s.tasks) }
func (s *TaskSet) Get(id int) *Task { return s.tasks[id] }
func (s *TaskSet) Tasks() []*Task   { return s.tasks }

// AllCompleted reports whether every task has been completed.
func (s *TaskSet) AllCompleted() bool {
	for _, t := range s.tasks {
		if !t.Completed() {
			return false
		}
	}
	return true
}

// FarthestOutstandingDeadline returns the largest deadline among incomplete
// tasks, or -1 when none remain.
func (s *TaskSet) FarthestOutstandingDeadline() int {
	farthest := -1
	for _, t := range s.tasks {
		if !t.Completed() && t.Deadline > farthest {
			farthest = t.Deadline
		}
	}
	return farthest
}

// MinPairwiseDistance returns the smallest distance between any two tasks.
// With fewer than two tasks there is no pair and +Inf is returned.
func (s *TaskSet) MinPairwiseDistance() float64 {
	min := math.Inf(1)
	for i, a := range s.tasks {
		for _, b := range s.tasks[i+1:] {
			if d := a.Pos.DistanceTo(b.Pos); d < min {
				min = d
			}
		}
	}
	return min
}

// ForceFinish zeroes every incomplete task at the terminal tick, awarding the
// (typically late) utility of finishing right now. Incomplete work pays the
// tardiness penalty instead of being left undefined.
func (s *TaskSet) ForceFinish(now int) {
	for _, t := range s.tasks {
		if !t.Completed() {
			t.RemainingEffort = 0
			t.recordCompletion(now)
		}
	}
}

// MeanUtilityPercent averages the achieved utility percentage over all tasks.
func (s *TaskSet) MeanUtilityPercent() float64 {
	sum := 0.0
	for _, t := range s.tasks {
		sum += t.UtilityPercent()
	}
	return sum / float64(len(s.tasks))
}

// MeanLeadTime averages the completion lead time over all tasks.
func (s *TaskSet) MeanLeadTime() float64 {
	sum := 0.0
	for _, t := range s.tasks {
		sum += float64(t.LeadTime())
	}
	return sum / float64(len(s.tasks))
}
