package sim

import "math/rand"

// AgentSet owns the agents of a run and sequences the per-tick phases. Work
// is applied for every agent before any agent decides, so decisions always
// see the tick's fully updated task state.
type AgentSet struct {
	agents []*Agent
	policy DecisionPolicy
	rng    *rand.Rand
}

// NewAgentSet wraps the agents with the decision policy and the run's RNG.
func NewAgentSet(agents []*Agent, policy DecisionPolicy, rng *rand.Rand) *AgentSet {
	return &AgentSet{agents: agents, policy: policy, rng: rng}
}

func (s *AgentSet) Len() int         { return len(s.agents) }
func (s *AgentSet) Agents() []*Agent { return s.agents }

// WorkAll lets every agent work at its current location. Iteration order is
// irrelevant here: work application is commutative within a tick.
func (s *AgentSet) WorkAll(tasks *TaskSet, now int) {
	for _, a := range s.agents {
		a.Work(tasks, now)
	}
}

// DecideAll lets every agent (re)choose its destination. The order matters
// because occupancy evolves as commitments land within the phase, so it is
// either shuffled per tick or a deterministic rotation, per the policy.
func (s *AgentSet) DecideAll(tasks *TaskSet, now int) {
	for _, a := range s.order(now) {
		id, travelTime, ok := a.BestTask(tasks, s.CommittedTo, now, s.policy, s.rng)
		if ok {
			a.MoveTo(now, travelTime, tasks.Get(id))
		}
	}
}

func (s *AgentSet) order(now int) []*Agent {
	ordered := make([]*Agent, len(s.agents))
	if s.policy.FixedOrder {
		shift := now % len(s.agents)
		for i := range s.agents {
			ordered[i] = s.agents[(i+shift)%len(s.agents)]
		}
		return ordered
	}
	copy(ordered, s.agents)
	s.rng.Shuffle(len(ordered), func(i, j int) { ordered[i], ordered[j] = ordered[j], ordered[i] })
	return ordered
}

// StopAll pins every agent's position at the end of the run.
func (s *AgentSet) StopAll(now int) {
	for _, a := range s.agents {
		a.Stop(now)
	}
}

// CommittedTo counts the agents located at or heading to a task. This is the
// occupancy the interference model sees.
func (s *AgentSet) CommittedTo(taskID int) int {
	n := 0
	for _, a := range s.agents {
		if a.DestinationTask() == taskID {
			n++
		}
	}
	return n
}

// MeanTravelledDistance averages the distance travelled per agent.
func (s *AgentSet) MeanTravelledDistance() float64 {
	sum := 0.0
	for _, a := range s.agents {
		sum += a.TravelledDistance()
	}
	return sum / float64(len(s.agents))
}

// TotalWorkDone sums the work applied by all agents.
func (s *AgentSet) TotalWorkDone() int {
	total := 0
	for _, a := range s.agents {
		total += a.WorkDone
	}
	return total
}
