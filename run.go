package hotspot

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// HistorySink receives the per-term values of each evaluated step. The
// "history" subpackage provides a sqlite-backed implementation.
type HistorySink interface {
	Append(runID string, iter int, terms map[string]float64) error
}

// Run ties a Loss to a training run: a fixed iteration budget, a unique id,
// and an optional history sink. It sequences the per-step work the external
// training loop would otherwise do by hand (update weights, evaluate,
// record).
type Run struct {
	id    string
	loss  *Loss
	total int
	sink  HistorySink
}

// NewRun creates a run of total iterations over l. sink may be nil.
func NewRun(l *Loss, total int, sink HistorySink) (*Run, error) {
	if l == nil {
		return nil, NilArgError{"Loss"}
	} else if total <= 0 {
		return nil, errors.Errorf("Run must have total iterations >= 1 (%d)", total)
	}

	return &Run{
		id:    uuid.NewString(),
		loss:  l,
		total: total,
		sink:  sink,
	}, nil
}

// ID returns the run's unique identifier.
func (r *Run) ID() string {
	return r.id
}

// Loss returns the loss the run drives.
func (r *Run) Loss() *Loss {
	return r.loss
}

// Total returns the run's iteration budget.
func (r *Run) Total() int {
	return r.total
}

// Step advances the annealed weights to iter, evaluates the batch, and
// records the term values. Errors are fatal for the step and are surfaced
// unchanged to the caller's training loop.
func (r *Run) Step(iter int, b Batch) (Result, error) {
	if err := r.loss.UpdateWeights(iter, r.total); err != nil {
		return Result{}, err
	}

	res, err := r.loss.Evaluate(b)
	if err != nil {
		return res, err
	}

	if r.sink != nil {
		if err := r.sink.Append(r.id, iter, res.Terms()); err != nil {
			return res, errors.Wrapf(err, "Recording step %d failed\n", iter)
		}
	}

	return res, nil
}
