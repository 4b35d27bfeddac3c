package hotspot

import (
	"math"
	"math/rand"
)

// Analytic 2-D distance fields for sanity checks: known shapes whose signed
// distance is exact (or a tight bound, for the composite ones), used as
// stand-ins for a learned field.

// Circle2D returns the signed distance field of an origin-centered circle.
func Circle2D(r float64) Field {
	return FieldFunc(func(p []float64) float64 {
		return math.Hypot(p[0], p[1]) - r
	})
}

// Box2D returns the signed distance field of an origin-centered axis-aligned
// box with half-extents hx, hy.
func Box2D(hx, hy float64) Field {
	return FieldFunc(func(p []float64) float64 {
		dx := math.Abs(p[0]) - hx
		dy := math.Abs(p[1]) - hy
		ox := math.Max(dx, 0)
		oy := math.Max(dy, 0)

		return math.Hypot(ox, oy) + math.Min(math.Max(dx, dy), 0)
	})
}

// Union combines fields by minimum. Away from the surface the result is a
// lower bound on the true distance, which is close enough for sampling.
func Union(a, b Field) Field {
	return FieldFunc(func(p []float64) float64 {
		return math.Min(a.Eval(p), b.Eval(p))
	})
}

// Difference carves b out of a.
func Difference(a, b Field) Field {
	return FieldFunc(func(p []float64) float64 {
		return math.Max(a.Eval(p), -b.Eval(p))
	})
}

// Translate2D shifts a field by (dx, dy).
func Translate2D(f Field, dx, dy float64) Field {
	return FieldFunc(func(p []float64) float64 {
		return f.Eval([]float64{p[0] - dx, p[1] - dy})
	})
}

// Rotate2D rotates a field by angle radians about the origin.
func Rotate2D(f Field, angle float64) Field {
	c, s := math.Cos(angle), math.Sin(angle)
	return FieldFunc(func(p []float64) float64 {
		return f.Eval([]float64{c*p[0] + s*p[1], -s*p[0] + c*p[1]})
	})
}

// LShape2D returns an L-shaped region built from two boxes.
func LShape2D() Field {
	vert := Translate2D(Box2D(0.2, 0.5), -0.3, 0)
	horiz := Translate2D(Box2D(0.5, 0.2), 0, -0.3)
	return Union(vert, horiz)
}

// Snowflake2D returns a six-pointed star built from three rotated slabs.
func Snowflake2D() Field {
	slab := Box2D(0.65, 0.12)
	return Union(slab, Union(Rotate2D(slab, math.Pi/3), Rotate2D(slab, 2*math.Pi/3)))
}

// UniformSamples draws n points uniformly from [lo, hi]^dims.
func UniformSamples(n, dims int, lo, hi float64, rng *rand.Rand) [][]float64 {
	points := make([][]float64, n)
	for i := range points {
		p := make([]float64, dims)
		for j := range p {
			p[j] = lo + (hi-lo)*rng.Float64()
		}

		points[i] = p
	}

	return points
}

// SurfaceSamples draws n points near the zero level set of f by projecting
// uniform seeds along the finite-difference gradient a few times.
func SurfaceSamples(f Field, n int, lo, hi float64, rng *rand.Rand) ([][]float64, error) {
	fd, err := NewFiniteDiff(f, 0)
	if err != nil {
		return nil, err
	}

	points := UniformSamples(n, 2, lo, hi, rng)
	for it := 0; it < 10; it++ {
		vals := make([]float64, len(points))
		for i, p := range points {
			vals[i] = f.Eval(p)
		}

		grads, err := fd.Gradient(points, vals)
		if err != nil {
			return nil, err
		}

		for i, p := range points {
			g := grads[i]
			den := dot(g, g) + 1e-9
			for j := range p {
				p[j] -= vals[i] * g[j] / den
			}
		}
	}

	return points, nil
}
