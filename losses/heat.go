package losses

import (
	"math"
)

type heat bool

// Heat returns the heat-method relaxation term over off-surface samples. With
// h = exp(-lambda*|d|), each sample contributes 0.5*h^2*(||g||^2 + 1),
// divided by its sampling pdf when importance-sampling correction is on.
func Heat() *heat {
	h := heat(false)
	return &h
}

func (t *heat) TypeString() string {
	return "heat"
}

func (t *heat) Penalty(lambda float64, preds []float64, grads [][]float64, pdfs []float64) float64 {
	if len(preds) == 0 {
		return 0
	}

	var sum float64
	for i := range preds {
		h := math.Exp(-lambda * math.Abs(preds[i]))
		g := norm(grads[i])
		l := 0.5 * h * h * (g*g + 1)
		if pdfs != nil {
			l /= pdfs[i]
		}

		sum += l
	}

	return sum / float64(len(preds))
}
