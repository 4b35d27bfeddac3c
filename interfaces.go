package hotspot

// Kernel blends between the two control values bracketing a query. t is the
// normalized position within the bracket, on (0, 1) -- queries that land
// exactly on a control point never reach the Kernel.
type Kernel interface {
	// TypeString returns the name the kernel was registered under.
	TypeString() string

	// Blend returns the interpolated value between w0 (at the lower checkpoint)
	// and we (at the upper checkpoint).
	Blend(w0, we, t float64) float64
}

// Schedule produces the value of a single annealed scalar at a given point in
// training. Implementations are immutable after construction.
type Schedule interface {
	// TypeString returns the name of the schedule's kernel.
	TypeString() string

	// At returns the scheduled value at iteration iter of total. total must be
	// positive and iter non-negative; a progress fraction iter/total beyond the
	// schedule's last control point returns ErrScheduleRange.
	At(iter, total int) (float64, error)
}

// Differentiator computes gradients of a scalar field sampled at points. It
// stands in for the external automatic-differentiation runtime: values must
// have been produced (directly or indirectly) from points so that the
// gradient is defined.
//
// points is one row per sample; the returned slice has one gradient row per
// sample, each of the same dimension as its point.
type Differentiator interface {
	Gradient(points [][]float64, values []float64) ([][]float64, error)
}

// HessianDifferentiator additionally exposes second derivatives of the field,
// which the divergence variants need. Autodiff runtimes obtain these by
// differentiating the gradient; FiniteDiff nests central differences.
type HessianDifferentiator interface {
	Differentiator

	// Hessian returns one dim-by-dim matrix of second derivatives per point.
	Hessian(points [][]float64) ([][][]float64, error)
}

// Field is a scalar field over low-dimensional points, used where no external
// runtime supplies predictions (sanity checks, finite differencing).
type Field interface {
	Eval(p []float64) float64
}

// FieldFunc adapts a plain function to the Field interface.
type FieldFunc func(p []float64) float64

func (f FieldFunc) Eval(p []float64) float64 {
	return f(p)
}

// Term is the common base of all registered loss terms.
type Term interface {
	// TypeString returns the name the term was registered under.
	TypeString() string
}

// EikonalTerm penalizes gradients whose norm deviates from 1.
type EikonalTerm interface {
	Term
	Penalty(grads [][]float64) float64
}

// DivergenceTerm penalizes the divergence of the field's gradient. Variants
// may need further differentiation, hence the Differentiator.
type DivergenceTerm interface {
	Term
	Penalty(diff Differentiator, points, grads [][]float64) (float64, error)
}

// HeatTerm computes the heat-method relaxation penalty over off-surface
// samples. pdfs may be nil when importance-sampling correction is off.
type HeatTerm interface {
	Term
	Penalty(lambda float64, preds []float64, grads [][]float64, pdfs []float64) float64
}

// PhaseTerm computes the Allen-Cahn phase-field penalty and owns the
// phase-to-distance transform applied to raw field outputs.
type PhaseTerm interface {
	Term
	Penalty(diff Differentiator, points [][]float64, preds []float64) (float64, error)
	Distance(preds []float64) []float64
	Epsilon() float64
	SetEpsilon(float64)
}

// NormalTerm aligns on-surface gradients with ground-truth normals.
type NormalTerm interface {
	Term
	Penalty(grads, normals [][]float64) float64
}

// SALTerm is the sign-agnostic distance-regression penalty.
type SALTerm interface {
	Term
	Penalty(preds, dists []float64) float64
}

// LatentTerm regularizes latent codes in multi-shape training.
type LatentTerm interface {
	Term
	Penalty(reg []float64) float64
}

// BoundaryTerm penalizes nonzero predictions on surface samples.
type BoundaryTerm interface {
	Term
	Penalty(preds []float64) float64
}

// InterTerm pushes off-surface predictions away from zero.
type InterTerm interface {
	Term
	Penalty(preds []float64) float64
}
