package losses

import (
	"math"
)

type boundary bool

// Boundary returns the signed-distance boundary term: the mean absolute
// prediction on surface samples, which should be zero there.
func Boundary() *boundary {
	b := boundary(false)
	return &b
}

func (t *boundary) TypeString() string {
	return "boundary"
}

func (t *boundary) Penalty(preds []float64) float64 {
	if len(preds) == 0 {
		return 0
	}

	var sum float64
	for _, d := range preds {
		sum += math.Abs(d)
	}

	return sum / float64(len(preds))
}

type inter bool

// Inter returns the interior term mean(exp(-100*|d|)), pushing off-surface
// predictions away from the zero level set.
func Inter() *inter {
	i := inter(false)
	return &i
}

func (t *inter) TypeString() string {
	return "inter"
}

func (t *inter) Penalty(preds []float64) float64 {
	if len(preds) == 0 {
		return 0
	}

	var sum float64
	for _, d := range preds {
		sum += math.Exp(-1e2 * math.Abs(d))
	}

	return sum / float64(len(preds))
}
