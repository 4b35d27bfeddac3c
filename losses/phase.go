package losses

import (
	"math"

	hs "github.com/Galaxeaaa/HotSpot"
	"github.com/pkg/errors"
)

type phase struct {
	epsilon float64
}

// Phase returns the Allen-Cahn phase-field term. epsilon controls the width
// of the diffuse interface; the reference default is 0.01.
func Phase(epsilon float64) *phase {
	return &phase{epsilon: epsilon}
}

func (t *phase) TypeString() string {
	return "phase"
}

func (t *phase) Epsilon() float64 {
	return t.epsilon
}

func (t *phase) SetEpsilon(epsilon float64) {
	t.epsilon = epsilon
}

// Distance maps raw phase-field outputs u in (-1, 1) to approximate signed
// distances: -sqrt(eps) * log(1 - |u|) * sign(u).
func (t *phase) Distance(preds []float64) []float64 {
	root := math.Sqrt(t.epsilon)
	dists := make([]float64, len(preds))
	for i, u := range preds {
		sign := 0.0
		if u > 0 {
			sign = 1
		} else if u < 0 {
			sign = -1
		}

		dists[i] = -root * math.Log(1-math.Abs(u)) * sign
	}

	return dists
}

// Penalty differentiates the raw (untransformed) on-surface outputs and
// averages eps*||g||^2 + u^2 - 2|u| + 1, the double-well potential plus the
// interface energy.
func (t *phase) Penalty(diff hs.Differentiator, points [][]float64, preds []float64) (float64, error) {
	if len(preds) == 0 {
		return 0, nil
	}

	grads, err := diff.Gradient(points, preds)
	if err != nil {
		return 0, errors.Wrapf(err, "Differentiating phase outputs failed\n")
	}

	var sum float64
	for i, u := range preds {
		g := norm(grads[i])
		sum += t.epsilon*g*g + u*u - 2*math.Abs(u) + 1
	}

	return sum / float64(len(preds)), nil
}
