package sim

import (
	"fmt"
	"log"
	"math/rand"
)

// Status is the simulation's run state. Both endings are terminal; the
// unreasonable-time ending is a reported outcome, not an error.
type Status string

const (
	StatusInProgress       Status = "in_progress"
	StatusSuccessfulEnding Status = "successful_ending"
	StatusUnreasonableTime Status = "unreasonable_time"
)

// Result summarizes a finished run.
type Result struct {
	Status             Status
	Ticks              int
	MeanUtilityPercent float64
	MeanLeadTime       float64
	MeanDistance       float64
	WorkDone           int
}

// Controller drives the discrete tick loop over the task and agent
// registries. Everything runs on the caller's goroutine; the work phase of a
// tick is fully applied before its decide phase begins.
type Controller struct {
	params Params
	clock  int
	tasks  *TaskSet
	agents *AgentSet
	status Status
	logger *log.Logger
}

// New validates the parameters, seeds the run's RNG and builds the world.
func New(params Params, logger *log.Logger) (*Controller, error) {
	params = params.withDefaults()
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation parameters: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}

	rng := rand.New(rand.NewSource(params.Seed))
	tasks, err := buildTasks(params, rng)
	if err != nil {
		return nil, fmt.Errorf("set up tasks: %w", err)
	}
	agents := NewAgentSet(buildAgents(params, tasks, rng), params.Policy(), rng)

	return &Controller{
		params: params,
		tasks:  tasks,
		agents: agents,
		status: StatusInProgress,
		logger: logger,
	}, nil
}

// Clock returns the current tick.
func (c *Controller) Clock() int { return c.clock }

// Status returns the current run state.
func (c *Controller) Status() Status { return c.status }

// Params returns the run's configuration.
func (c *Controller) Params() Params { return c.params }

// Step advances the simulation one tick: every agent works, terminal
// conditions are checked, and if the run continues every agent (re)decides
// its destination before the clock advances. Calling Step on a finished run
// is a no-op returning the terminal status.
func (c *Controller) Step() Status {
	if c.status != StatusInProgress {
		return c.status
	}

	c.agents.WorkAll(c.tasks, c.clock)

	switch {
	case c.tasks.AllCompleted():
		// The closing work quantum lands on the next tick boundary, so the
		// run ends there and matches the expected end predicted at decision
		// time.
		c.clock++
		c.finish(StatusSuccessfulEnding)
	case float64(c.clock) > c.params.TerminationFactor*float64(c.tasks.FarthestOutstandingDeadline()):
		c.finish(StatusUnreasonableTime)
	default:
		c.agents.DecideAll(c.tasks, c.clock)
		if c.params.Verbose {
			c.logger.Printf("tick=%d outstanding=%d work_done=%d", c.clock, c.outstanding(), c.agents.TotalWorkDone())
		}
		c.clock++
	}
	return c.status
}

// finish stops all agents and force-finishes incomplete tasks at the
// terminal tick.
func (c *Controller) finish(status Status) {
	c.agents.StopAll(c.clock)
	c.tasks.ForceFinish(c.clock)
	c.status = status
}

// Run steps the simulation to a terminal status and returns the summary.
func (c *Controller) Run() Result {
	for c.Step() == StatusInProgress {
	}
	res := c.Result()
	c.logger.Printf("simulation finished status=%s ticks=%d utility_pct=%.2f lead_time=%.2f distance=%.2f",
		res.Status, res.Ticks, res.MeanUtilityPercent, res.MeanLeadTime, res.MeanDistance)
	return res
}

// Result summarizes the run so far. Meaningful once the status is terminal.
func (c *Controller) Result() Result {
	return Result{
		Status:             c.status,
		Ticks:              c.clock,
		MeanUtilityPercent: c.tasks.MeanUtilityPercent(),
		MeanLeadTime:       c.tasks.MeanLeadTime(),
		MeanDistance:       c.agents.MeanTravelledDistance(),
		WorkDone:           c.agents.TotalWorkDone(),
	}
}

func (c *Controller) outstanding() int {
	n := 0
	for _, t := range c.tasks.Tasks() {
		if !t.Completed() {
			n++
		}
	}
	return n
}
