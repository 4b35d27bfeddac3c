package schedules

import (
	"encoding/json"
	"os"

	hs "github.com/Galaxeaaa/HotSpot"
	"github.com/pkg/errors"
)

// ControlPoint pins a scheduled value at a fraction of total training
// progress. Fields are public for JSON, but should not be altered once the
// schedule has been built.
type ControlPoint struct {
	Val  float64
	Frac float64
}

// Piecewise interpolates between control points with a selected kernel. It
// implements hotspot.Schedule and is immutable after construction.
type Piecewise struct {
	points []ControlPoint
	kernel hs.Kernel
	clamp  bool
}

// New builds a schedule from a flat parameter list of the form
//
//	(start, [frac, value]*, end)
//
// giving control points [(start, 0), (value, frac)..., (end, 1)]. The middle
// fractions must be non-decreasing and within [0, 1]. kernel is the name of a
// registered kernel ("linear", "quintic", "step", "none").
//
// For example, New("linear", 100, 0.5, 100, 0.75, 0, 0) holds 100 for the
// first half of training, decays linearly to 0 by three quarters, and stays
// there.
func New(kernel string, params ...float64) (*Piecewise, error) {
	k, err := hs.NewKernel(kernel)
	if err != nil {
		return nil, err
	}

	points, err := controlPoints(params)
	if err != nil {
		return nil, err
	}

	return &Piecewise{points: points, kernel: k}, nil
}

// Constant returns a schedule that always yields value.
func Constant(value float64) *Piecewise {
	s, err := New("none", value, value)
	if err != nil {
		// both registration and the parameter list are fixed here
		panic(err.Error())
	}

	return s
}

func controlPoints(params []float64) ([]ControlPoint, error) {
	if len(params) < 2 {
		return nil, errors.Wrapf(hs.ErrScheduleParams, "Need at least start and end values (%v)", params)
	}

	mid := params[1 : len(params)-1]
	if len(mid)%2 != 0 {
		return nil, errors.Wrapf(hs.ErrScheduleParams, "Middle elements must be (fraction, value) pairs (%v)", params)
	}

	points := make([]ControlPoint, 0, 2+len(mid)/2)
	points = append(points, ControlPoint{Val: params[0], Frac: 0})
	for i := 0; i < len(mid); i += 2 {
		points = append(points, ControlPoint{Val: mid[i+1], Frac: mid[i]})
	}
	points = append(points, ControlPoint{Val: params[len(params)-1], Frac: 1})

	if err := validatePoints(points); err != nil {
		return nil, err
	}

	return points, nil
}

// validatePoints enforces the invariants At relies on: endpoints pinned to
// fractions 0 and 1, every fraction inside [0, 1], non-decreasing order. New
// satisfies the endpoint pins by construction; Load must re-check them.
func validatePoints(points []ControlPoint) error {
	if points[0].Frac != 0 {
		return errors.Wrapf(hs.ErrScheduleParams, "First checkpoint must sit at fraction 0 (%v)", points[0].Frac)
	} else if points[len(points)-1].Frac != 1 {
		return errors.Wrapf(hs.ErrScheduleParams, "Last checkpoint must sit at fraction 1 (%v)", points[len(points)-1].Frac)
	}

	for i := range points {
		if points[i].Frac < 0 || points[i].Frac > 1 {
			return errors.Wrapf(hs.ErrScheduleParams, "Checkpoint fraction %v outside [0, 1]", points[i].Frac)
		} else if i > 0 && points[i].Frac < points[i-1].Frac {
			return errors.Wrapf(hs.ErrScheduleParams, "Checkpoint fractions must be non-decreasing (%v before %v)", points[i-1].Frac, points[i].Frac)
		}
	}

	return nil
}

// TypeString returns the name of the schedule's kernel.
func (s *Piecewise) TypeString() string {
	return s.kernel.TypeString()
}

// Points returns a copy of the schedule's control points.
func (s *Piecewise) Points() []ControlPoint {
	points := make([]ControlPoint, len(s.points))
	copy(points, s.points)
	return points
}

// Clamped returns a view of the schedule whose queries clamp progress into
// the span of the control points instead of returning ErrScheduleRange.
func (s *Piecewise) Clamped() *Piecewise {
	c := *s
	c.clamp = true
	return &c
}

// At returns the scheduled value at iteration iter of total.
//
// The bracketing pair is the control point with the smallest fraction >= the
// progress iter/total and the one with the largest fraction <= it. Progress
// landing exactly on a control point collapses the bracket and returns that
// point's value for every kernel; otherwise the kernel blends across the
// bracket. Progress beyond the final checkpoint returns ErrScheduleRange
// unless the schedule is Clamped.
func (s *Piecewise) At(iter, total int) (float64, error) {
	if total <= 0 {
		return 0, errors.Wrapf(hs.ErrScheduleRange, "Total iterations must be positive (%d)", total)
	} else if iter < 0 && !s.clamp {
		return 0, errors.Wrapf(hs.ErrScheduleRange, "Negative iteration (%d)", iter)
	}

	p := float64(iter) / float64(total)
	last := s.points[len(s.points)-1].Frac
	if s.clamp {
		if p < 0 {
			p = 0
		} else if p > last {
			p = last
		}
	} else if p > last {
		return 0, errors.Wrapf(hs.ErrScheduleRange, "Progress %v beyond final checkpoint %v", p, last)
	}

	// upper bracket: first control point at or past p
	ui := 0
	for ui < len(s.points) && s.points[ui].Frac < p {
		ui++
	}

	// lower bracket: first occurrence of the largest fraction at or before p
	li := 0
	for i := range s.points {
		if s.points[i].Frac > p {
			break
		}
		if s.points[i].Frac > s.points[li].Frac {
			li = i
		}
	}

	lo, hi := s.points[li], s.points[ui]
	if hi.Frac == lo.Frac {
		// zero-width bracket: p sits exactly on a control point
		return lo.Val, nil
	}

	t := (p - lo.Frac) / (hi.Frac - lo.Frac)
	return s.kernel.Blend(lo.Val, hi.Val, t), nil
}

type scheduleFile struct {
	Kernel string
	Points []ControlPoint
}

// Save writes the schedule to dirPath, creating the directory if needed.
func (s *Piecewise) Save(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0700); err != nil {
		return errors.Errorf("Failed to create directory %q", dirPath)
	}

	f, err := os.Create(dirPath + "/schedule.txt")
	if err != nil {
		return errors.Errorf("Failed to create file %q in %q", "schedule.txt", dirPath)
	}

	defer f.Close()

	enc := json.NewEncoder(f)
	if err = enc.Encode(scheduleFile{Kernel: s.kernel.TypeString(), Points: s.points}); err != nil {
		return errors.Errorf("Failed to encode JSON to file %q in %q", "schedule.txt", dirPath)
	}

	return nil
}

// Load reads a schedule previously written by Save.
func Load(dirPath string) (*Piecewise, error) {
	f, err := os.Open(dirPath + "/schedule.txt")
	if err != nil {
		return nil, errors.Errorf("Failed to open file %q in %q", "schedule.txt", dirPath)
	}

	defer f.Close()

	var sf scheduleFile

	dec := json.NewDecoder(f)
	if err = dec.Decode(&sf); err != nil {
		return nil, errors.Wrapf(err, "Failed to decode JSON from file %q in %q", "schedule.txt", dirPath)
	}

	k, err := hs.NewKernel(sf.Kernel)
	if err != nil {
		return nil, err
	} else if len(sf.Points) < 2 {
		return nil, errors.Wrapf(hs.ErrScheduleParams, "File %q holds fewer than two control points", dirPath)
	} else if err := validatePoints(sf.Points); err != nil {
		return nil, errors.Wrapf(err, "Invalid control points in %q", dirPath)
	}

	return &Piecewise{points: sf.Points, kernel: k}, nil
}
