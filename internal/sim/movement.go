package sim

import "github.com/BielJM1/MRTAOptima/internal/geom"

// Movement is one segment of an agent's travel history: the decision to head
// for a task, taken at DecidedAt from From, arriving at To at ArrivalAt.
// ArrivalAt >= DecidedAt always holds; the two are equal when no travel was
// needed ("stay" is itself a committed decision).
//
// Segments are immutable values. The log's most recent segment is superseded
// by a truncated copy when a redirect preempts it mid-travel, so the recorded
// To of every non-final segment is the position the agent actually reached.
type Movement struct {
	DecidedAt int
	ArrivalAt int
	From      geom.Point
	To        geom.Point
	TaskID    int
}

// Distance returns the length of the segment.
func (m Movement) Distance() float64 {
	return m.From.DistanceTo(m.To)
}
