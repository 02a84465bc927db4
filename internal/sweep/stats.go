package sweep

import "math"

// Stats are population moments of one metric across a combination's runs.
type Stats struct {
	Mean float64
	Var  float64
	Std  float64
}

func newStats(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	variance := sq / float64(len(values))
	return Stats{Mean: mean, Var: variance, Std: math.Sqrt(variance)}
}
