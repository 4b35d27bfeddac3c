package losses

import (
	"math"
)

type sal bool

// SAL returns the sign-agnostic distance-regression term: the mean absolute
// difference between |prediction| and the unsigned target distance.
func SAL() *sal {
	s := sal(false)
	return &s
}

func (t *sal) TypeString() string {
	return "sal"
}

func (t *sal) Penalty(preds, dists []float64) float64 {
	if len(preds) == 0 {
		return 0
	}

	var sum float64
	for i := range preds {
		sum += math.Abs(math.Abs(preds[i]) - dists[i])
	}

	return sum / float64(len(preds))
}
