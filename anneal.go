package hotspot

import (
	"github.com/pkg/errors"
)

// Param names a scalar of the Loss that a Schedule may govern.
type Param int

const (
	ParamBoundary Param = iota
	ParamEikonal
	ParamDiv
	ParamHeat
	ParamHeatLambda
)

func (p Param) String() string {
	switch p {
	case ParamBoundary:
		return "boundary-weight"
	case ParamEikonal:
		return "eikonal-weight"
	case ParamDiv:
		return "div-weight"
	case ParamHeat:
		return "heat-weight"
	case ParamHeatLambda:
		return "heat-lambda"
	}

	return "unknown-param"
}

// Bind attaches a schedule to the given parameter and returns the schedule
// that is actually in effect. The first bind for a parameter wins: later
// binds are no-ops that return the cached schedule, so a schedule's control
// points stay frozen for the lifetime of a training run.
func (l *Loss) Bind(p Param, s Schedule) (Schedule, error) {
	if s == nil {
		return nil, NilArgError{"Schedule"}
	}

	switch p {
	case ParamBoundary, ParamEikonal, ParamDiv, ParamHeat, ParamHeatLambda:
	default:
		return nil, errors.Errorf("No such parameter (%d)", int(p))
	}

	if cur, ok := l.schedules[p]; ok {
		return cur, nil
	}

	l.schedules[p] = s
	return s, nil
}

// Bound returns the schedule governing p, or nil if none is bound.
func (l *Loss) Bound(p Param) Schedule {
	return l.schedules[p]
}

// UpdateWeights queries every bound schedule at iteration iter of total and
// writes the governed scalars in place. It should run once per training step,
// before Evaluate. Schedules with the "none" kernel leave their scalar
// untouched.
func (l *Loss) UpdateWeights(iter, total int) error {
	for p, s := range l.schedules {
		if s.TypeString() == "none" {
			continue
		}

		v, err := s.At(iter, total)
		if err != nil {
			return errors.Wrapf(err, "Updating %v failed\n", p)
		}

		switch p {
		case ParamBoundary:
			l.w.Boundary = v
		case ParamEikonal:
			l.w.Eikonal = v
		case ParamDiv:
			l.w.Div = v
		case ParamHeat:
			l.w.Heat = v
		case ParamHeatLambda:
			l.lambda = v
		}
	}

	return nil
}
