package stimulus

// lateHalfLife scales the late branch's fall-off. It is deliberately much
// smaller than the on-time branch's factor of 1.0 so that tardy stimulus
// drops sharply as the expected end slips past the deadline. The exact value
// is load-bearing for numeric parity with recorded experiment results.
const lateHalfLife = 0.07

// Urgency computes the deadline-pressure stimulus for a task, together with
// the utility an on-schedule completion would be awarded. maxUtility is the
// task's full reward, deadline its deadline tick and expectedEnd the tick the
// task is expected to reach zero remaining effort
// (now + travel + ceil(remaining/capacity)).
//
// On time (expectedEnd <= deadline) the stimulus grows toward maxUtility as
// the slack shrinks, and the utility is the full maxUtility. Late, both decay
// continuously toward 0 with growing tardiness.
func Urgency(maxUtility float64, deadline, expectedEnd int) (stim, utility float64) {
	dl := float64(deadline)
	if expectedEnd <= deadline {
		stim = maxUtility * (dl / ((dl - float64(expectedEnd)) + dl))
		return stim, maxUtility
	}
	stim = maxUtility * ((lateHalfLife * dl) / ((float64(expectedEnd) - dl) + lateHalfLife*dl))
	return stim, stim
}
