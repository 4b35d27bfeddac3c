package schedules

import (
	"math"
)

type linear bool

// Linear returns the kernel that blends control values proportionally to
// progress through the bracket.
func Linear() *linear {
	l := linear(false)
	return &l
}

func (l *linear) TypeString() string {
	return "linear"
}

func (l *linear) Blend(w0, we, t float64) float64 {
	return w0 + (we-w0)*t
}

type quintic bool

// Quintic returns the smooth ease-out kernel 1 - (1-t)^5: it leaves w0
// quickly and flattens as it approaches we.
func Quintic() *quintic {
	q := quintic(false)
	return &q
}

func (q *quintic) TypeString() string {
	return "quintic"
}

func (q *quintic) Blend(w0, we, t float64) float64 {
	return w0 + (we-w0)*(1-math.Pow(1-t, 5))
}

type step bool

// Step returns the kernel that jumps from w0 to we at the lower checkpoint,
// with no blending in between.
func Step() *step {
	s := step(false)
	return &s
}

func (s *step) TypeString() string {
	return "step"
}

// Blend is only reached strictly past the lower checkpoint, where the jump
// has already happened.
func (s *step) Blend(w0, we, t float64) float64 {
	return we
}

type none bool

// None returns the no-op kernel: the binding layer skips schedules carrying
// it, leaving the governed scalar untouched.
func None() *none {
	n := none(false)
	return &n
}

func (n *none) TypeString() string {
	return "none"
}

func (n *none) Blend(w0, we, t float64) float64 {
	return w0
}
