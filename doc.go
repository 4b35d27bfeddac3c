// Package hotspot computes composite training losses for neural
// implicit-surface learning: signed distance and occupancy fields fit by an
// external gradient-descent loop. It combines differentiable geometric
// penalty terms (eikonal, divergence, heat, phase-field, normal alignment,
// SAL) and anneals their weights over training via piecewise interpolation
// schedules.
//
// Building a Loss
//
// A Loss is configured once, before the training loop starts:
//
//		l, err := hotspot.NewLoss(hotspot.LossConfig{
//			Type:    hotspot.IGRHeat,
//			Weights: hotspot.Weights{Boundary: 3.5e3, Eikonal: 5e1, Heat: 1e2},
//		})
//
// The standard terms live in the subpackage "losses" and register themselves
// on import, so programs that construct a Loss need at least:
//
//		import _ "github.com/Galaxeaaa/HotSpot/losses"
//
// Presets mirror the named objectives of the implicit-surface literature
// (SIREN, IGR, SAL, phase-field, and combinations with divergence and heat
// terms); unknown presets, divergence variants, and kernels are rejected at
// configuration time, never per step.
//
// Annealing
//
// Any of the boundary, eikonal, divergence and heat weights -- and the heat
// sharpness lambda -- can be governed by a schedule from the subpackage
// "schedules". A schedule is built from a flat (start, [fraction, value]*,
// end) parameter list and a kernel name:
//
//		s, err := schedules.New("linear", 100, 0.5, 100, 0.75, 0, 0)
//		l.Bind(hotspot.ParamHeat, s)
//
// holds the heat weight at 100 for the first half of training, decays it
// linearly to 0 by three quarters, and keeps it there. Once per step, before
// the forward/backward pass:
//
//		err := l.UpdateWeights(iter, nIterations)
//
// The first Bind for a parameter wins; later binds return the cached
// schedule, so control points stay frozen for the lifetime of a run.
//
// Evaluation
//
// Evaluate consumes one batch of on- and off-surface samples together with
// the model outputs at them, differentiating through the Differentiator
// collaborator -- normally backed by the caller's autodiff runtime, or by
// FiniteDiff for explicit fields:
//
//		res, err := l.Evaluate(hotspot.Batch{
//			MnfldPoints: mp, MnfldPreds: mv,
//			NonmnfldPoints: np, NonmnfldPreds: nv,
//			Diff: fd,
//		})
//
// The Result carries the weighted total and every term separately; NaN or
// Inf anywhere in the predictions or gradients aborts the step with
// ErrNumeric.
//
// Runs and history
//
// A Run wraps the per-step sequence (update weights, evaluate, record) and
// tags it with a unique id; the subpackage "history" stores the per-term
// series in sqlite for later inspection.
package hotspot
