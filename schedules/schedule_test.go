package schedules

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	hs "github.com/Galaxeaaa/HotSpot"
	"github.com/pkg/errors"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

func TestControlPoints(t *testing.T) {
	s, err := New("linear", 100, 0.5, 100, 0.75, 0, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	want := []ControlPoint{{100, 0}, {100, 0.5}, {0, 0.75}, {0, 1}}
	got := s.Points()
	if len(got) != len(want) {
		t.Fatalf("got %d control points, want %d", len(got), len(want))
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("control point %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMalformedParams(t *testing.T) {
	tests := []struct {
		name   string
		params []float64
	}{
		{"odd middle count", []float64{1.0, 0.5, 2.0, 0.7, 3.0}},
		{"single value", []float64{1.0}},
		{"empty", nil},
		{"fraction above one", []float64{1, 1.5, 2, 3}},
		{"decreasing fractions", []float64{1, 0.8, 2, 0.4, 3, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New("linear", tt.params...); errors.Cause(err) != hs.ErrScheduleParams {
				t.Errorf("got %v, want ErrScheduleParams", err)
			}
		})
	}
}

func TestUnknownKernel(t *testing.T) {
	if _, err := New("cubic", 1, 0); errors.Cause(err) != hs.ErrScheduleKernel {
		t.Errorf("got %v, want ErrScheduleKernel", err)
	}
}

func TestLinearExample(t *testing.T) {
	s, err := New("linear", 100, 0.5, 100, 0.75, 0, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// bracket (100, 0.5)-(0, 0.75) at progress 0.6
	v, err := s.At(6000, 10000)
	if err != nil {
		t.Fatalf("At failed: %v", err)
	}
	if !approx(v, 60) {
		t.Errorf("got %v, want 60", v)
	}
}

func TestStepExample(t *testing.T) {
	s, err := New("step", 100, 0.5, 100, 0.75, 0, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tests := []struct {
		iter int
		want float64
	}{
		{4000, 100}, // before the jump bracket
		{6000, 0},   // past the lower checkpoint of the decay bracket
		{8000, 0},
	}

	for _, tt := range tests {
		v, err := s.At(tt.iter, 10000)
		if err != nil {
			t.Fatalf("At(%d) failed: %v", tt.iter, err)
		}
		if !approx(v, tt.want) {
			t.Errorf("At(%d): got %v, want %v", tt.iter, v, tt.want)
		}
	}
}

func TestExactControlPoints(t *testing.T) {
	// landing exactly on a control point must return its value for every kernel
	for _, kernel := range []string{"linear", "quintic", "step", "none"} {
		t.Run(kernel, func(t *testing.T) {
			s, err := New(kernel, 100, 0.5, 100, 0.75, 0, 0)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}

			tests := []struct {
				iter int
				want float64
			}{
				{0, 100},
				{5000, 100},
				{7500, 0},
				{10000, 0},
			}

			for _, tt := range tests {
				v, err := s.At(tt.iter, 10000)
				if err != nil {
					t.Fatalf("At(%d) failed: %v", tt.iter, err)
				}
				if !approx(v, tt.want) {
					t.Errorf("At(%d): got %v, want %v", tt.iter, v, tt.want)
				}
			}
		})
	}
}

func TestLinearMidpoint(t *testing.T) {
	s, err := New("linear", 0, 10)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	v, err := s.At(5000, 10000)
	if err != nil {
		t.Fatalf("At failed: %v", err)
	}
	if !approx(v, 5) {
		t.Errorf("got %v, want (w0+we)/2 = 5", v)
	}
}

func TestQuinticMonotone(t *testing.T) {
	s, err := New("quintic", 0, 1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	prev := -1.0
	for iter := 0; iter <= 1000; iter += 50 {
		v, err := s.At(iter, 1000)
		if err != nil {
			t.Fatalf("At(%d) failed: %v", iter, err)
		}
		if v < prev {
			t.Fatalf("not monotone at iter %d: %v < %v", iter, v, prev)
		}
		prev = v
	}

	start, _ := s.At(0, 1000)
	end, _ := s.At(1000, 1000)
	if !approx(start, 0) || !approx(end, 1) {
		t.Errorf("endpoints: got (%v, %v), want (0, 1)", start, end)
	}

	// ease-out: past halfway by the quarter mark
	quarter, _ := s.At(250, 1000)
	if quarter <= 0.5 {
		t.Errorf("quintic should leave w0 quickly, got %v at t=0.25", quarter)
	}
}

func TestStepIndicator(t *testing.T) {
	s, err := New("step", 1, 0.4, 1, 0.4, 5, 5)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for iter := 0; iter <= 1000; iter += 10 {
		v, err := s.At(iter, 1000)
		if err != nil {
			t.Fatalf("At(%d) failed: %v", iter, err)
		}

		want := 1.0
		if iter > 400 {
			want = 5
		} else if iter == 400 {
			// exactly on the duplicated checkpoint: first control point wins
			want = 1
		}

		if !approx(v, want) {
			t.Errorf("At(%d): got %v, want %v", iter, v, want)
		}
	}
}

func TestOutOfRange(t *testing.T) {
	s, err := New("linear", 1, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := s.At(11000, 10000); errors.Cause(err) != hs.ErrScheduleRange {
		t.Errorf("got %v, want ErrScheduleRange", err)
	}
	if _, err := s.At(-1, 10000); errors.Cause(err) != hs.ErrScheduleRange {
		t.Errorf("negative iteration: got %v, want ErrScheduleRange", err)
	}
	if _, err := s.At(5, 0); errors.Cause(err) != hs.ErrScheduleRange {
		t.Errorf("zero total: got %v, want ErrScheduleRange", err)
	}

	v, err := s.Clamped().At(11000, 10000)
	if err != nil {
		t.Fatalf("clamped At failed: %v", err)
	}
	if !approx(v, 0) {
		t.Errorf("clamped past the end: got %v, want end value 0", v)
	}
}

func TestConstant(t *testing.T) {
	s := Constant(3.5)
	if s.TypeString() != "none" {
		t.Errorf("got kernel %q, want none", s.TypeString())
	}

	for _, iter := range []int{0, 500, 1000} {
		v, err := s.At(iter, 1000)
		if err != nil {
			t.Fatalf("At(%d) failed: %v", iter, err)
		}
		if !approx(v, 3.5) {
			t.Errorf("At(%d): got %v, want 3.5", iter, v)
		}
	}
}

func TestNoneKernelBracket(t *testing.T) {
	// a direct query of a none schedule follows the ordinary bracket rule,
	// returning the lower control value
	s, err := New("none", 1, 0.5, 7, 2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tests := []struct {
		iter int
		want float64
	}{
		{2000, 1},
		{6000, 7},
	}

	for _, tt := range tests {
		v, err := s.At(tt.iter, 10000)
		if err != nil {
			t.Fatalf("At(%d) failed: %v", tt.iter, err)
		}
		if !approx(v, tt.want) {
			t.Errorf("At(%d): got %v, want %v", tt.iter, v, tt.want)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	s, err := New("quintic", 100, 0.5, 100, 0.75, 0, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	dir := t.TempDir()
	if err := s.Save(dir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.TypeString() != s.TypeString() {
		t.Errorf("kernel: got %q, want %q", loaded.TypeString(), s.TypeString())
	}

	for _, iter := range []int{0, 3000, 6000, 9000, 10000} {
		want, _ := s.At(iter, 10000)
		got, err := loaded.At(iter, 10000)
		if err != nil {
			t.Fatalf("At(%d) failed: %v", iter, err)
		}
		if !approx(got, want) {
			t.Errorf("At(%d): got %v, want %v", iter, got, want)
		}
	}
}

func TestLoadRejectsInvalidPoints(t *testing.T) {
	// a hand-edited file must pass the same checks New enforces
	tests := []struct {
		name    string
		content string
	}{
		{
			"decreasing fractions",
			`{"Kernel":"linear","Points":[{"Val":1,"Frac":0},{"Val":2,"Frac":0.8},{"Val":3,"Frac":0.4},{"Val":0,"Frac":1}]}`,
		},
		{
			"fraction above one",
			`{"Kernel":"linear","Points":[{"Val":1,"Frac":0},{"Val":2,"Frac":1.5},{"Val":0,"Frac":1}]}`,
		},
		{
			"unpinned start",
			`{"Kernel":"linear","Points":[{"Val":1,"Frac":0.2},{"Val":0,"Frac":1}]}`,
		},
		{
			"unpinned end",
			`{"Kernel":"linear","Points":[{"Val":1,"Frac":0},{"Val":0,"Frac":0.5}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, "schedule.txt"), []byte(tt.content), 0600); err != nil {
				t.Fatalf("writing file failed: %v", err)
			}

			if _, err := Load(dir); errors.Cause(err) != hs.ErrScheduleParams {
				t.Errorf("got %v, want ErrScheduleParams", err)
			}
		})
	}
}
