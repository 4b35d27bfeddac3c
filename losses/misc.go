package losses

import (
	"math"
)

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}

	var sum float64
	for _, x := range xs {
		sum += x
	}

	return sum / float64(len(xs))
}

func norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}

	return math.Sqrt(sum)
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}

	return sum
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	} else if x > hi {
		return hi
	}

	return x
}
