package domain

import "math"

// Timeline places scenes on the output clock with a fixed cross-fade: every
// scene after the first starts Transition seconds before its predecessor ends.
type Timeline struct {
	Starts     []float64
	Durations  []float64
	Transition float64
	Total      float64
}

func NewTimeline(durations []float64, transition float64) Timeline {
	transition = ClampTransition(durations, transition)
	starts := make([]float64, len(durations))
	var end float64
	for i, d := range durations {
		if i == 0 {
			starts[i] = 0
		} else {
			starts[i] = end - transition
		}
		end = starts[i] + d
	}
	return Timeline{
		Starts:     starts,
		Durations:  append([]float64(nil), durations...),
		Transition: transition,
		Total:      end,
	}
}

// ClampTransition keeps the cross-fade shorter than half of the shortest
// scene so no scene is entirely covered by its neighbours.
func ClampTransition(durations []float64, transition float64) float64 {
	if transition <= 0 || len(durations) < 2 {
		return math.Max(transition, 0)
	}
	shortest := math.Inf(1)
	for _, d := range durations {
		shortest = math.Min(shortest, d)
	}
	if limit := shortest / 2; transition > limit {
		return limit
	}
	return transition
}
