package losses

import (
	"math"
)

type eikonalAbs bool

// EikonalAbs returns the eikonal term penalizing |(||grad f|| - 1)|, the
// flavor used by every preset except phase.
func EikonalAbs() *eikonalAbs {
	e := eikonalAbs(false)
	return &e
}

func (e *eikonalAbs) TypeString() string {
	return "eikonal-abs"
}

func (e *eikonalAbs) Penalty(grads [][]float64) float64 {
	if len(grads) == 0 {
		return 0
	}

	var sum float64
	for _, g := range grads {
		sum += math.Abs(norm(g) - 1)
	}

	return sum / float64(len(grads))
}

type eikonalSquared bool

// EikonalSquared returns the eikonal term penalizing (||grad f|| - 1)^2.
func EikonalSquared() *eikonalSquared {
	e := eikonalSquared(false)
	return &e
}

// L2 is a proxy for EikonalSquared
func L2() *eikonalSquared {
	return EikonalSquared()
}

// L1 is a proxy for EikonalAbs
func L1() *eikonalAbs {
	return EikonalAbs()
}

func (e *eikonalSquared) TypeString() string {
	return "eikonal-squared"
}

func (e *eikonalSquared) Penalty(grads [][]float64) float64 {
	if len(grads) == 0 {
		return 0
	}

	var sum float64
	for _, g := range grads {
		d := norm(g) - 1
		sum += d * d
	}

	return sum / float64(len(grads))
}
