package hotspot

import (
	"github.com/Galaxeaaa/HotSpot/utils"
	"github.com/pkg/errors"
)

// FiniteDiff approximates derivatives of a Field by central differences. It
// implements HessianDifferentiator, standing in for an autodiff runtime when
// the field under training is an explicit function (sanity checks, analytic
// shapes, tests).
//
// The values passed to Gradient must be the field's own outputs at the given
// points; FiniteDiff differentiates the field, not an arbitrary upstream
// computation.
type FiniteDiff struct {
	field Field
	h     float64
}

// NewFiniteDiff wraps field with step size h. h ≤ 0 selects 1e-4.
func NewFiniteDiff(field Field, h float64) (*FiniteDiff, error) {
	if field == nil {
		return nil, NilArgError{"Field"}
	}
	if h <= 0 {
		h = 1e-4
	}

	return &FiniteDiff{field: field, h: h}, nil
}

func (fd *FiniteDiff) Gradient(points [][]float64, values []float64) ([][]float64, error) {
	if len(values) != len(points) {
		return nil, errors.Errorf("Have %d values for %d points", len(values), len(points))
	}

	grads := make([][]float64, len(points))
	utils.MultiThread(0, len(points), func(i int) {
		p := points[i]
		g := make([]float64, len(p))
		q := make([]float64, len(p))
		copy(q, p)

		for j := range p {
			q[j] = p[j] + fd.h
			hi := fd.field.Eval(q)
			q[j] = p[j] - fd.h
			lo := fd.field.Eval(q)
			q[j] = p[j]

			g[j] = (hi - lo) / (2 * fd.h)
		}

		grads[i] = g
	}, 16)

	return grads, nil
}

func (fd *FiniteDiff) Hessian(points [][]float64) ([][][]float64, error) {
	hess := make([][][]float64, len(points))
	utils.MultiThread(0, len(points), func(i int) {
		p := points[i]
		n := len(p)
		center := fd.field.Eval(p)

		q := make([]float64, n)
		copy(q, p)

		H := make([][]float64, n)
		for j := range H {
			H[j] = make([]float64, n)
		}

		for j := 0; j < n; j++ {
			q[j] = p[j] + fd.h
			hi := fd.field.Eval(q)
			q[j] = p[j] - fd.h
			lo := fd.field.Eval(q)
			q[j] = p[j]

			H[j][j] = (hi - 2*center + lo) / (fd.h * fd.h)

			for k := j + 1; k < n; k++ {
				q[j], q[k] = p[j]+fd.h, p[k]+fd.h
				pp := fd.field.Eval(q)
				q[k] = p[k] - fd.h
				pm := fd.field.Eval(q)
				q[j] = p[j] - fd.h
				mm := fd.field.Eval(q)
				q[k] = p[k] + fd.h
				mp := fd.field.Eval(q)
				q[j], q[k] = p[j], p[k]

				H[j][k] = (pp - pm - mp + mm) / (4 * fd.h * fd.h)
				H[k][j] = H[j][k]
			}
		}

		hess[i] = H
	}, 4)

	return hess, nil
}
