package losses

import (
	"math"
)

type normalCos bool

// NormalCos returns the normal-alignment term 1 - |cos(g, n)| averaged over
// surface samples, insensitive to normal orientation.
func NormalCos() *normalCos {
	n := normalCos(false)
	return &n
}

func (t *normalCos) TypeString() string {
	return "normal-cos"
}

func (t *normalCos) Penalty(grads, normals [][]float64) float64 {
	if len(grads) == 0 {
		return 0
	}

	var sum float64
	for i := range grads {
		den := norm(grads[i]) * norm(normals[i])
		if den < 1e-8 {
			den = 1e-8
		}

		sum += 1 - math.Abs(dot(grads[i], normals[i])/den)
	}

	return sum / float64(len(grads))
}

type normalDiff bool

// NormalDiff returns the orientation-sensitive variant used by the igr and
// phase presets: the mean euclidean norm of |g - n|.
func NormalDiff() *normalDiff {
	n := normalDiff(false)
	return &n
}

func (t *normalDiff) TypeString() string {
	return "normal-diff"
}

func (t *normalDiff) Penalty(grads, normals [][]float64) float64 {
	if len(grads) == 0 {
		return 0
	}

	var sum float64
	for i := range grads {
		var s float64
		for j := range grads[i] {
			d := math.Abs(grads[i][j] - normals[i][j])
			s += d * d
		}

		sum += math.Sqrt(s)
	}

	return sum / float64(len(grads))
}
