package losses

import (
	"math"

	hs "github.com/Galaxeaaa/HotSpot"
	"github.com/pkg/errors"
)

func hessians(diff hs.Differentiator, points [][]float64) ([][][]float64, error) {
	hd, ok := diff.(hs.HessianDifferentiator)
	if !ok {
		return nil, errors.Errorf("Differentiator %T cannot produce second derivatives", diff)
	}

	hess, err := hd.Hessian(points)
	if err != nil {
		return nil, errors.Wrapf(err, "Computing second derivatives failed\n")
	}

	return hess, nil
}

// directionalDiv approximates the divergence along the gradient direction:
// g.Hg / (||g||^2 + 1e-5), which equals 0.5*grad(||g||^2).g over the same
// denominator.
func directionalDiv(diff hs.Differentiator, points, grads [][]float64) ([]float64, error) {
	hess, err := hessians(diff, points)
	if err != nil {
		return nil, err
	}

	div := make([]float64, len(grads))
	for i, g := range grads {
		var ghg float64
		for j := range g {
			ghg += g[j] * dot(hess[i][j], g)
		}

		div[i] = ghg / (dot(g, g) + 1e-5)
	}

	return div, nil
}

// fullDiv computes the exact divergence as the Hessian trace. NaN entries are
// zeroed, matching the reference behavior on degenerate samples.
func fullDiv(diff hs.Differentiator, points, grads [][]float64) ([]float64, error) {
	hess, err := hessians(diff, points)
	if err != nil {
		return nil, err
	}

	div := make([]float64, len(points))
	for i := range points {
		for j := range points[i] {
			div[i] += hess[i][j][j]
		}

		if math.IsNaN(div[i]) {
			div[i] = 0
		}
	}

	return div, nil
}

type divDirL1 bool

// DirL1 returns the directional divergence term with an absolute-value
// penalty, the default variant.
func DirL1() *divDirL1 {
	d := divDirL1(false)
	return &d
}

func (t *divDirL1) TypeString() string {
	return "div-dir-l1"
}

func (t *divDirL1) Penalty(diff hs.Differentiator, points, grads [][]float64) (float64, error) {
	div, err := directionalDiv(diff, points, grads)
	if err != nil {
		return 0, err
	}

	for i := range div {
		div[i] = math.Abs(div[i])
	}

	return mean(div), nil
}

type divDirL2 bool

// DirL2 returns the directional divergence term with a squared penalty.
func DirL2() *divDirL2 {
	d := divDirL2(false)
	return &d
}

func (t *divDirL2) TypeString() string {
	return "div-dir-l2"
}

func (t *divDirL2) Penalty(diff hs.Differentiator, points, grads [][]float64) (float64, error) {
	div, err := directionalDiv(diff, points, grads)
	if err != nil {
		return 0, err
	}

	for i := range div {
		div[i] *= div[i]
	}

	return mean(div), nil
}

type divFullL1 bool

// FullL1 returns the full divergence term with an absolute-value penalty,
// clamped to [0.1, 50] per sample.
func FullL1() *divFullL1 {
	d := divFullL1(false)
	return &d
}

func (t *divFullL1) TypeString() string {
	return "div-full-l1"
}

func (t *divFullL1) Penalty(diff hs.Differentiator, points, grads [][]float64) (float64, error) {
	div, err := fullDiv(diff, points, grads)
	if err != nil {
		return 0, err
	}

	for i := range div {
		div[i] = clamp(math.Abs(div[i]), 0.1, 50)
	}

	return mean(div), nil
}

type divFullL2 bool

// FullL2 returns the full divergence term with a squared penalty, clamped to
// [0.1, 50] per sample.
func FullL2() *divFullL2 {
	d := divFullL2(false)
	return &d
}

func (t *divFullL2) TypeString() string {
	return "div-full-l2"
}

func (t *divFullL2) Penalty(diff hs.Differentiator, points, grads [][]float64) (float64, error) {
	div, err := fullDiv(diff, points, grads)
	if err != nil {
		return 0, err
	}

	for i := range div {
		div[i] = clamp(div[i]*div[i], 0.1, 50)
	}

	return mean(div), nil
}
