package hotspot_test

import (
	"math"
	"testing"

	hs "github.com/Galaxeaaa/HotSpot"
	_ "github.com/Galaxeaaa/HotSpot/losses"
	"github.com/Galaxeaaa/HotSpot/schedules"
	"github.com/pkg/errors"
)

func newLoss(t *testing.T, cfg hs.LossConfig) *hs.Loss {
	t.Helper()

	l, err := hs.NewLoss(cfg)
	if err != nil {
		t.Fatalf("NewLoss failed: %v", err)
	}

	return l
}

func newSchedule(t *testing.T, kernel string, params ...float64) *schedules.Piecewise {
	t.Helper()

	s, err := schedules.New(kernel, params...)
	if err != nil {
		t.Fatalf("schedules.New failed: %v", err)
	}

	return s
}

func TestNewLossValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  hs.LossConfig
		want error
	}{
		{"unknown preset", hs.LossConfig{Type: "bogus"}, hs.ErrLossType},
		{"unknown div type", hs.LossConfig{Type: hs.SirenDiv, DivType: "sideways"}, hs.ErrDivType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := hs.NewLoss(tt.cfg); errors.Cause(err) != tt.want {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := hs.NewLoss(hs.LossConfig{Type: hs.Siren, EikonalType: "cubed"}); err == nil {
		t.Errorf("bad eikonal flavor accepted")
	}
}

func TestPresetWeightZeroing(t *testing.T) {
	w := hs.Weights{Boundary: 1, Inter: 2, Normal: 3, Eikonal: 4}

	l := newLoss(t, hs.LossConfig{Type: hs.IGRNoNormal, Weights: w})
	got := l.Weights()
	if got.Inter != 0 || got.Normal != 0 {
		t.Errorf("igr_wo_n should zero inter and normal weights, got %+v", got)
	}
	if got.Boundary != 1 || got.Eikonal != 4 {
		t.Errorf("other weights must survive, got %+v", got)
	}
}

func TestBindMemoization(t *testing.T) {
	l := newLoss(t, hs.LossConfig{Type: hs.SirenDiv})

	first := newSchedule(t, "linear", 100, 0)
	second := newSchedule(t, "step", 5, 5)

	if _, err := l.Bind(hs.ParamDiv, first); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	got, err := l.Bind(hs.ParamDiv, second)
	if err != nil {
		t.Fatalf("second Bind failed: %v", err)
	}
	if got != hs.Schedule(first) {
		t.Errorf("second Bind must return the cached schedule")
	}
	if l.Bound(hs.ParamDiv) != hs.Schedule(first) {
		t.Errorf("Bound must return the first schedule")
	}
}

func TestUpdateWeightsExample(t *testing.T) {
	l := newLoss(t, hs.LossConfig{Type: hs.SirenDiv, Weights: hs.Weights{Div: 100}})

	if _, err := l.Bind(hs.ParamDiv, newSchedule(t, "linear", 100, 0.5, 100, 0.75, 0, 0)); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if err := l.UpdateWeights(6000, 10000); err != nil {
		t.Fatalf("UpdateWeights failed: %v", err)
	}

	if got := l.Weights().Div; math.Abs(got-60) > 1e-9 {
		t.Errorf("div weight: got %v, want 60", got)
	}
}

func TestUpdateWeightsStep(t *testing.T) {
	l := newLoss(t, hs.LossConfig{Type: hs.SirenDiv, Weights: hs.Weights{Div: 100}})

	if _, err := l.Bind(hs.ParamDiv, newSchedule(t, "step", 100, 0.5, 100, 0.75, 0, 0)); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if err := l.UpdateWeights(6000, 10000); err != nil {
		t.Fatalf("UpdateWeights failed: %v", err)
	}

	if got := l.Weights().Div; got != 0 {
		t.Errorf("div weight: got %v, want 0 (step past the lower checkpoint)", got)
	}
}

func TestUpdateHeatLambda(t *testing.T) {
	l := newLoss(t, hs.LossConfig{Type: hs.IGRHeat})

	if _, err := l.Bind(hs.ParamHeatLambda, newSchedule(t, "linear", 10, 100)); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if err := l.UpdateWeights(5000, 10000); err != nil {
		t.Fatalf("UpdateWeights failed: %v", err)
	}

	if got := l.HeatLambda(); math.Abs(got-55) > 1e-9 {
		t.Errorf("heat lambda: got %v, want 55", got)
	}
}

func TestNoneKernelLeavesWeight(t *testing.T) {
	l := newLoss(t, hs.LossConfig{Type: hs.SirenDiv, Weights: hs.Weights{Div: 7}})

	if _, err := l.Bind(hs.ParamDiv, schedules.Constant(3)); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if err := l.UpdateWeights(500, 1000); err != nil {
		t.Fatalf("UpdateWeights failed: %v", err)
	}

	if got := l.Weights().Div; got != 7 {
		t.Errorf("none kernel must not touch the weight, got %v", got)
	}
}

func TestUpdateWeightsOutOfRange(t *testing.T) {
	l := newLoss(t, hs.LossConfig{Type: hs.SirenDiv})

	if _, err := l.Bind(hs.ParamDiv, newSchedule(t, "linear", 1, 0)); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	if err := l.UpdateWeights(11000, 10000); errors.Cause(err) != hs.ErrScheduleRange {
		t.Errorf("got %v, want ErrScheduleRange", err)
	}
}

func circleBatch(t *testing.T, n int) hs.Batch {
	t.Helper()

	f := hs.Circle2D(0.6)
	fd, err := hs.NewFiniteDiff(f, 1e-4)
	if err != nil {
		t.Fatalf("NewFiniteDiff failed: %v", err)
	}

	mnfld := make([][]float64, n)
	mnfldPreds := make([]float64, n)
	nonmnfld := make([][]float64, n)
	nonmnfldPreds := make([]float64, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		mnfld[i] = []float64{0.6 * math.Cos(a), 0.6 * math.Sin(a)}
		mnfldPreds[i] = f.Eval(mnfld[i])

		nonmnfld[i] = []float64{1.1 * math.Cos(a), 1.1 * math.Sin(a)}
		nonmnfldPreds[i] = f.Eval(nonmnfld[i])
	}

	return hs.Batch{
		MnfldPoints:    mnfld,
		MnfldPreds:     mnfldPreds,
		NonmnfldPoints: nonmnfld,
		NonmnfldPreds:  nonmnfldPreds,
		Diff:           fd,
	}
}

func TestEvaluateCircle(t *testing.T) {
	// an exact SDF satisfies both the boundary and eikonal constraints
	l := newLoss(t, hs.LossConfig{Type: hs.IGRNoNormal, Weights: hs.Weights{Boundary: 1, Eikonal: 1}})

	res, err := l.Evaluate(circleBatch(t, 64))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if res.Boundary > 1e-6 {
		t.Errorf("boundary term on exact SDF: got %v, want ~0", res.Boundary)
	}
	if res.Eikonal > 1e-3 {
		t.Errorf("eikonal term on exact SDF: got %v, want ~0", res.Eikonal)
	}
	if res.Total > 1e-3 {
		t.Errorf("total: got %v, want ~0", res.Total)
	}
}

func TestEvaluateNumericError(t *testing.T) {
	l := newLoss(t, hs.LossConfig{Type: hs.IGRNoNormal, Weights: hs.Weights{Boundary: 1}})

	b := circleBatch(t, 8)
	b.NonmnfldPreds[3] = math.NaN()

	if _, err := l.Evaluate(b); errors.Cause(err) != hs.ErrNumeric {
		t.Errorf("got %v, want ErrNumeric", err)
	}
}

func TestEvaluateMissingInputs(t *testing.T) {
	l := newLoss(t, hs.LossConfig{Type: hs.IGRNoNormal})

	b := circleBatch(t, 8)
	b.Diff = nil
	if _, err := l.Evaluate(b); err == nil {
		t.Errorf("nil differentiator accepted")
	}

	b = circleBatch(t, 8)
	b.MnfldPoints = nil
	if _, err := l.Evaluate(b); err == nil {
		t.Errorf("missing manifold samples accepted")
	}
}

func TestEvaluateShapeValidation(t *testing.T) {
	l := newLoss(t, hs.LossConfig{Type: hs.IGRHeat, Weights: hs.Weights{Boundary: 1, Eikonal: 1, Heat: 1}})

	tests := []struct {
		name   string
		mutate func(*hs.Batch)
	}{
		{"surface pred count", func(b *hs.Batch) { b.MnfldPreds = b.MnfldPreds[:3] }},
		{"off-surface pred count", func(b *hs.Batch) { b.NonmnfldPreds = b.NonmnfldPreds[:3] }},
		{"normal count", func(b *hs.Batch) { b.MnfldNormals = [][]float64{{1, 0}} }},
		{"pdf count", func(b *hs.Batch) { b.NonmnfldPDFs = []float64{1} }},
		{"sal distance count", func(b *hs.Batch) { b.SALDists = []float64{1, 2} }},
		{"ground-truth distance count", func(b *hs.Batch) { b.NonmnfldDists = []float64{1} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := circleBatch(t, 8)
			tt.mutate(&b)

			if _, err := l.Evaluate(b); err == nil {
				t.Errorf("mismatched %s accepted", tt.name)
			}
		})
	}
}

// dropLastGrad forwards to a real differentiator but loses a row, the way a
// buggy external runtime might.
type dropLastGrad struct {
	inner hs.Differentiator
}

func (d dropLastGrad) Gradient(points [][]float64, values []float64) ([][]float64, error) {
	grads, err := d.inner.Gradient(points, values)
	if err != nil {
		return nil, err
	}

	return grads[:len(grads)-1], nil
}

func TestEvaluateGradientRowCount(t *testing.T) {
	l := newLoss(t, hs.LossConfig{Type: hs.IGRNoNormal, Weights: hs.Weights{Boundary: 1, Eikonal: 1}})

	b := circleBatch(t, 8)
	b.Diff = dropLastGrad{inner: b.Diff}

	if _, err := l.Evaluate(b); err == nil {
		t.Errorf("short gradient slice accepted")
	}
}

func TestEvaluateHeatTotal(t *testing.T) {
	l := newLoss(t, hs.LossConfig{Type: hs.IGRHeat, Weights: hs.Weights{Boundary: 1, Eikonal: 1, Heat: 1}, HeatLambda: 2})

	res, err := l.Evaluate(circleBatch(t, 32))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	// off-surface points sit at distance 0.5; h = exp(-2*0.5), contribution
	// 0.5*h^2*(1+1) = exp(-2)
	want := math.Exp(-2)
	if math.Abs(res.Heat-want) > 1e-3 {
		t.Errorf("heat term: got %v, want %v", res.Heat, want)
	}

	wantTotal := res.Boundary + res.Eikonal + res.Heat
	if math.Abs(res.Total-wantTotal) > 1e-9 {
		t.Errorf("total: got %v, want %v", res.Total, wantTotal)
	}
}

func TestEvaluateSALPreset(t *testing.T) {
	l := newLoss(t, hs.LossConfig{Type: hs.SALRegression, Weights: hs.Weights{Boundary: 1, Latent: 2}})

	b := circleBatch(t, 16)
	b.SALDists = make([]float64, len(b.NonmnfldPreds))
	for i, d := range b.NonmnfldPreds {
		b.SALDists[i] = math.Abs(d) + 0.25
	}

	res, err := l.Evaluate(b)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if math.Abs(res.SAL-0.25) > 1e-9 {
		t.Errorf("sal term: got %v, want 0.25", res.SAL)
	}

	want := res.Boundary + 2*res.SAL
	if math.Abs(res.Total-want) > 1e-9 {
		t.Errorf("total: got %v, want %v", res.Total, want)
	}
}

type memorySink struct {
	appends []map[string]float64
	iters   []int
}

func (m *memorySink) Append(runID string, iter int, terms map[string]float64) error {
	m.appends = append(m.appends, terms)
	m.iters = append(m.iters, iter)
	return nil
}

func TestRunStep(t *testing.T) {
	l := newLoss(t, hs.LossConfig{Type: hs.IGRNoNormal, Weights: hs.Weights{Boundary: 1, Eikonal: 1}})

	sink := new(memorySink)
	run, err := hs.NewRun(l, 1000, sink)
	if err != nil {
		t.Fatalf("NewRun failed: %v", err)
	}
	if run.ID() == "" {
		t.Errorf("run id is empty")
	}

	res, err := run.Step(10, circleBatch(t, 16))
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	if len(sink.appends) != 1 || sink.iters[0] != 10 {
		t.Fatalf("sink did not record the step")
	}
	if got := sink.appends[0]["loss"]; got != res.Total {
		t.Errorf("recorded loss: got %v, want %v", got, res.Total)
	}
}
