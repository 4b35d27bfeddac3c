package hotspot

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Loss combines the geometric penalty terms into a single training objective,
// selected by a Preset and scaled by per-term weights. It owns the one piece
// of shared mutable state in the package: the weight fields that bound
// schedules rewrite each iteration.
//
// The standard terms live in the "losses" subpackage, which must be imported
// (possibly blank) so that its types are registered before NewLoss runs.
type Loss struct {
	preset  Preset
	w       Weights
	lambda  float64
	noIS    bool
	useDiv  bool
	useHeat bool
	usePhs  bool

	boundary BoundaryTerm
	inter    InterTerm
	eikonal  EikonalTerm
	div      DivergenceTerm
	heat     HeatTerm
	phase    PhaseTerm
	normal   NormalTerm
	sal      SALTerm
	latent   LatentTerm

	schedules map[Param]Schedule
}

var divTypeNames = map[string]string{
	"dir_l1":  "div-dir-l1",
	"dir_l2":  "div-dir-l2",
	"full_l1": "div-full-l1",
	"full_l2": "div-full-l2",
}

// NewLoss validates the configuration and resolves every term it may need
// from the registry. Unknown presets, divergence variants and eikonal flavors
// fail here, never per step.
func NewLoss(cfg LossConfig) (*Loss, error) {
	switch cfg.Type {
	case Siren, SirenNoNormal, IGR, IGRNoNormal, SirenDiv, SirenNoNormalDiv,
		IGRHeatNoEikonal, IGRHeat, SALRegression, PhaseField, Everything:
	default:
		return nil, errors.Wrapf(ErrLossType, "No preset %q", cfg.Type)
	}

	l := &Loss{
		preset:    cfg.Type,
		w:         cfg.Weights,
		lambda:    cfg.HeatLambda,
		noIS:      cfg.NoImportanceSampling,
		useDiv:    strings.Contains(string(cfg.Type), "div"),
		useHeat:   strings.Contains(string(cfg.Type), "heat"),
		usePhs:    strings.Contains(string(cfg.Type), "phase"),
		schedules: make(map[Param]Schedule),
	}

	// presets that drop terms force the corresponding weights to zero
	switch cfg.Type {
	case SirenNoNormal:
		l.w.Normal = 0
	case IGR:
		l.w.Inter = 0
	case IGRNoNormal:
		l.w.Inter = 0
		l.w.Normal = 0
	}

	if l.lambda == 0 {
		l.lambda = 100
	}

	divType := cfg.DivType
	if divType == "" {
		divType = "dir_l1"
	}
	divName, ok := divTypeNames[divType]
	if !ok {
		return nil, errors.Wrapf(ErrDivType, "No divergence variant %q (have dir_l1, dir_l2, full_l1, full_l2)", divType)
	}

	eikType := cfg.EikonalType
	if eikType == "" {
		if cfg.Type == PhaseField {
			eikType = "squared"
		} else {
			eikType = "abs"
		}
	}
	var eikName string
	switch eikType {
	case "abs":
		eikName = "eikonal-abs"
	case "squared":
		eikName = "eikonal-squared"
	default:
		return nil, errors.Errorf("No eikonal flavor %q (have abs, squared)", eikType)
	}

	normName := "normal-cos"
	if strings.Contains(string(cfg.Type), "igr") || l.usePhs {
		normName = "normal-diff"
	}

	var err error
	if l.boundary, err = boundaryTerm("boundary"); err != nil {
		return nil, err
	} else if l.inter, err = interTerm("inter"); err != nil {
		return nil, err
	} else if l.eikonal, err = eikonalTerm(eikName); err != nil {
		return nil, err
	} else if l.div, err = divergenceTerm(divName); err != nil {
		return nil, err
	} else if l.heat, err = heatTerm("heat"); err != nil {
		return nil, err
	} else if l.phase, err = phaseTerm("phase"); err != nil {
		return nil, err
	} else if l.normal, err = normalTerm(normName); err != nil {
		return nil, err
	} else if l.sal, err = salTerm("sal"); err != nil {
		return nil, err
	} else if l.latent, err = latentTerm("latent-reg"); err != nil {
		return nil, err
	}

	if cfg.PhaseEpsilon != 0 {
		l.phase.SetEpsilon(cfg.PhaseEpsilon)
	}

	return l, nil
}

// Preset returns the configured loss preset.
func (l *Loss) Preset() Preset {
	return l.preset
}

// Weights returns a copy of the current term weights, including any schedule
// updates applied so far.
func (l *Loss) Weights() Weights {
	return l.w
}

// HeatLambda returns the current sharpness of the heat kernel.
func (l *Loss) HeatLambda() float64 {
	return l.lambda
}

// Evaluate computes the per-term values and the preset's weighted total for
// one batch. NaN or Inf anywhere in the distance predictions or their
// gradients aborts the step with ErrNumeric.
func (l *Loss) Evaluate(b Batch) (Result, error) {
	var res Result

	if b.Diff == nil {
		return res, NilArgError{"Batch.Diff"}
	} else if b.MnfldPoints == nil || b.MnfldPreds == nil {
		return res, NilArgError{"Batch manifold sample set"}
	} else if b.NonmnfldPoints == nil || b.NonmnfldPreds == nil {
		return res, NilArgError{"Batch nonmanifold sample set"}
	}

	// every optional slice is indexed alongside the sample set it annotates,
	// so mismatched lengths must fail here, not per term
	if len(b.MnfldPreds) != len(b.MnfldPoints) {
		return res, errors.Errorf("Have %d predictions for %d surface samples", len(b.MnfldPreds), len(b.MnfldPoints))
	} else if len(b.NonmnfldPreds) != len(b.NonmnfldPoints) {
		return res, errors.Errorf("Have %d predictions for %d off-surface samples", len(b.NonmnfldPreds), len(b.NonmnfldPoints))
	} else if b.MnfldNormals != nil && len(b.MnfldNormals) != len(b.MnfldPoints) {
		return res, errors.Errorf("Have %d normals for %d surface samples", len(b.MnfldNormals), len(b.MnfldPoints))
	} else if b.NonmnfldPDFs != nil && len(b.NonmnfldPDFs) != len(b.NonmnfldPreds) {
		return res, errors.Errorf("Have %d sampling pdfs for %d off-surface samples", len(b.NonmnfldPDFs), len(b.NonmnfldPreds))
	} else if b.SALDists != nil && len(b.SALDists) != len(b.NonmnfldPreds) {
		return res, errors.Errorf("Have %d SAL distances for %d off-surface samples", len(b.SALDists), len(b.NonmnfldPreds))
	} else if b.NonmnfldDists != nil && len(b.NonmnfldDists) != len(b.NonmnfldPreds) {
		return res, errors.Errorf("Have %d ground-truth distances for %d off-surface samples", len(b.NonmnfldDists), len(b.NonmnfldPreds))
	}

	// phase fields predict occupancy-like values; everything downstream wants
	// distances
	nonDist := b.NonmnfldPreds
	mnfldDist := b.MnfldPreds
	if l.usePhs {
		nonDist = l.phase.Distance(b.NonmnfldPreds)
		mnfldDist = l.phase.Distance(b.MnfldPreds)
	}

	if !allFinite(nonDist) || !allFinite(mnfldDist) {
		return res, errors.Wrapf(ErrNumeric, "Distance predictions")
	}

	mnfldGrads, err := b.Diff.Gradient(b.MnfldPoints, mnfldDist)
	if err != nil {
		return res, errors.Wrapf(err, "Differentiating on-surface predictions failed\n")
	} else if len(mnfldGrads) != len(b.MnfldPoints) {
		return res, errors.Errorf("Differentiator returned %d gradients for %d surface samples", len(mnfldGrads), len(b.MnfldPoints))
	}

	nonGrads, err := b.Diff.Gradient(b.NonmnfldPoints, nonDist)
	if err != nil {
		return res, errors.Wrapf(err, "Differentiating off-surface predictions failed\n")
	} else if len(nonGrads) != len(b.NonmnfldPoints) {
		return res, errors.Errorf("Differentiator returned %d gradients for %d off-surface samples", len(nonGrads), len(b.NonmnfldPoints))
	}

	if !rowsFinite(mnfldGrads) || !rowsFinite(nonGrads) {
		return res, errors.Wrapf(ErrNumeric, "Prediction gradients")
	}

	res.MnfldGrads = mnfldGrads

	if l.useDiv && l.w.Div > 0 {
		if res.Div, err = l.div.Penalty(b.Diff, b.NonmnfldPoints, nonGrads); err != nil {
			return res, errors.Wrapf(err, "Divergence term failed\n")
		}
	}

	if l.w.Eikonal > 0 {
		all := make([][]float64, 0, len(nonGrads)+len(mnfldGrads))
		all = append(all, nonGrads...)
		all = append(all, mnfldGrads...)
		res.Eikonal = l.eikonal.Penalty(all)
	}

	if b.MnfldNormals != nil && l.w.Normal > 0 {
		res.Normal = l.normal.Penalty(mnfldGrads, b.MnfldNormals)
	}

	res.Boundary = l.boundary.Penalty(b.MnfldPreds)

	if l.w.Inter > 0 {
		res.Inter = l.inter.Penalty(nonDist)
	}

	if l.useHeat && l.w.Heat > 0 {
		pdfs := b.NonmnfldPDFs
		if l.noIS {
			pdfs = nil
		}

		res.Heat = l.heat.Penalty(l.lambda, nonDist, nonGrads, pdfs)
	}

	if l.usePhs && l.w.Phase > 0 {
		if res.Phase, err = l.phase.Penalty(b.Diff, b.MnfldPoints, b.MnfldPreds); err != nil {
			return res, errors.Wrapf(err, "Phase term failed\n")
		}
	}

	if b.NonmnfldDists != nil {
		diffs := make([]float64, len(b.NonmnfldPreds))
		for i := range diffs {
			diffs[i] = math.Abs(b.NonmnfldPreds[i] - b.NonmnfldDists[i])
		}

		res.Dists = mean(diffs)
	}

	if b.SALDists != nil {
		res.SAL = l.sal.Penalty(b.NonmnfldPreds, b.SALDists)
	}

	w := l.w
	switch l.preset {
	case Siren:
		res.Total = w.Boundary*res.Boundary + w.Inter*res.Inter + w.Normal*res.Normal + w.Eikonal*res.Eikonal
	case SirenNoNormal:
		res.Total = w.Boundary*res.Boundary + w.Inter*res.Inter + w.Eikonal*res.Eikonal
	case IGR:
		res.Total = w.Boundary*res.Boundary + w.Normal*res.Normal + w.Eikonal*res.Eikonal
	case IGRNoNormal:
		res.Total = w.Boundary*res.Boundary + w.Eikonal*res.Eikonal
	case SirenDiv:
		res.Total = w.Boundary*res.Boundary + w.Inter*res.Inter + w.Normal*res.Normal + w.Eikonal*res.Eikonal + w.Div*res.Div
	case SirenNoNormalDiv:
		res.Total = w.Boundary*res.Boundary + w.Inter*res.Inter + w.Eikonal*res.Eikonal + w.Div*res.Div
	case IGRHeatNoEikonal:
		res.Total = w.Boundary*res.Boundary + w.Heat*res.Heat
	case IGRHeat:
		res.Total = w.Boundary*res.Boundary + w.Eikonal*res.Eikonal + w.Heat*res.Heat
	case SALRegression:
		res.Total = w.Boundary*res.Boundary + w.Latent*res.SAL
	case PhaseField:
		res.Total = w.Boundary*res.Boundary + w.Normal*res.Normal + w.Eikonal*res.Eikonal + w.Phase*res.Phase
	case Everything:
		res.Total = w.Boundary*res.Boundary + w.Inter*res.Inter + w.Normal*res.Normal + w.Eikonal*res.Eikonal +
			w.Div*res.Div + w.Latent*res.SAL + w.Heat*res.Heat
	}

	if b.LatentReg != nil {
		res.LatentReg = l.latent.Penalty(b.LatentReg)
		res.Total += w.Latent * res.LatentReg
	}

	return res, nil
}

// registry fetch helpers, one per term interface so that a stray registration
// surfaces as ErrRegisterWrongType instead of a panic

func boundaryTerm(name string) (BoundaryTerm, error) {
	t, err := NewTerm(name)
	if err != nil {
		return nil, err
	}

	b, ok := t.(BoundaryTerm)
	if !ok {
		return nil, errors.Wrapf(ErrRegisterWrongType, "%q is not a boundary term", name)
	}

	return b, nil
}

func interTerm(name string) (InterTerm, error) {
	t, err := NewTerm(name)
	if err != nil {
		return nil, err
	}

	i, ok := t.(InterTerm)
	if !ok {
		return nil, errors.Wrapf(ErrRegisterWrongType, "%q is not an interior term", name)
	}

	return i, nil
}

func eikonalTerm(name string) (EikonalTerm, error) {
	t, err := NewTerm(name)
	if err != nil {
		return nil, err
	}

	e, ok := t.(EikonalTerm)
	if !ok {
		return nil, errors.Wrapf(ErrRegisterWrongType, "%q is not an eikonal term", name)
	}

	return e, nil
}

func divergenceTerm(name string) (DivergenceTerm, error) {
	t, err := NewTerm(name)
	if err != nil {
		return nil, err
	}

	d, ok := t.(DivergenceTerm)
	if !ok {
		return nil, errors.Wrapf(ErrRegisterWrongType, "%q is not a divergence term", name)
	}

	return d, nil
}

func heatTerm(name string) (HeatTerm, error) {
	t, err := NewTerm(name)
	if err != nil {
		return nil, err
	}

	h, ok := t.(HeatTerm)
	if !ok {
		return nil, errors.Wrapf(ErrRegisterWrongType, "%q is not a heat term", name)
	}

	return h, nil
}

func phaseTerm(name string) (PhaseTerm, error) {
	t, err := NewTerm(name)
	if err != nil {
		return nil, err
	}

	p, ok := t.(PhaseTerm)
	if !ok {
		return nil, errors.Wrapf(ErrRegisterWrongType, "%q is not a phase term", name)
	}

	return p, nil
}

func normalTerm(name string) (NormalTerm, error) {
	t, err := NewTerm(name)
	if err != nil {
		return nil, err
	}

	n, ok := t.(NormalTerm)
	if !ok {
		return nil, errors.Wrapf(ErrRegisterWrongType, "%q is not a normal term", name)
	}

	return n, nil
}

func salTerm(name string) (SALTerm, error) {
	t, err := NewTerm(name)
	if err != nil {
		return nil, err
	}

	s, ok := t.(SALTerm)
	if !ok {
		return nil, errors.Wrapf(ErrRegisterWrongType, "%q is not a SAL term", name)
	}

	return s, nil
}

func latentTerm(name string) (LatentTerm, error) {
	t, err := NewTerm(name)
	if err != nil {
		return nil, err
	}

	lt, ok := t.(LatentTerm)
	if !ok {
		return nil, errors.Wrapf(ErrRegisterWrongType, "%q is not a latent term", name)
	}

	return lt, nil
}
