package hotspot

// Weights scales the individual loss terms. Naming the fields (instead of the
// positional vector common in training scripts) keeps "which slot is div vs
// heat" mistakes out of configuration.
type Weights struct {
	// Boundary scales the on-surface distance penalty.
	Boundary float64

	// Inter scales the off-surface repulsion term.
	Inter float64

	// Normal scales the normal-alignment term.
	Normal float64

	// Eikonal scales the unit-gradient penalty.
	Eikonal float64

	// Div scales the divergence smoothness term.
	Div float64

	// Latent scales both the SAL term and the latent-code regularizer.
	Latent float64

	// Heat scales the heat-method relaxation term.
	Heat float64

	// Phase scales the phase-field term.
	Phase float64
}

// Preset selects which terms combine into the total loss. The names follow
// the conventions of the implicit-surface literature (SIREN, IGR, SAL).
type Preset string

const (
	Siren            Preset = "siren"
	SirenNoNormal    Preset = "siren_wo_n"
	IGR              Preset = "igr"
	IGRNoNormal      Preset = "igr_wo_n"
	SirenDiv         Preset = "siren_w_div"
	SirenNoNormalDiv Preset = "siren_wo_n_w_div"
	IGRHeatNoEikonal Preset = "igr_wo_eik_w_heat"
	IGRHeat          Preset = "igr_w_heat"
	SALRegression    Preset = "sal"
	PhaseField       Preset = "phase"
	Everything       Preset = "everything_including_div_heat_sal"
)

// LossConfig collects the construction-time options of a Loss. The zero
// values of DivType, EikonalType, HeatLambda and PhaseEpsilon select the
// defaults (dir_l1, preset-dependent flavor, 100, 0.01).
type LossConfig struct {
	Type    Preset
	Weights Weights

	// DivType selects the divergence variant: dir_l1, dir_l2, full_l1, full_l2.
	DivType string

	// EikonalType overrides the eikonal flavor ("abs" or "squared"). By default
	// the phase preset uses squared and everything else uses abs.
	EikonalType string

	// HeatLambda is the initial sharpness of the heat kernel exp(-lambda*|d|).
	HeatLambda float64

	// PhaseEpsilon is the diffuse interface width of the phase-field term.
	PhaseEpsilon float64

	// NoImportanceSampling disables dividing heat contributions by the
	// off-surface sampling pdfs.
	NoImportanceSampling bool
}

// Batch carries one training step's samples and model outputs into Evaluate.
// Points and predictions come from the caller's runtime; Diff is the autodiff
// collaborator used to differentiate them.
type Batch struct {
	// MnfldPoints and MnfldPreds are the on-surface samples and the raw field
	// outputs at them.
	MnfldPoints [][]float64
	MnfldPreds  []float64

	// NonmnfldPoints and NonmnfldPreds are the off-surface samples and outputs.
	NonmnfldPoints [][]float64
	NonmnfldPreds  []float64

	// MnfldNormals are ground-truth surface normals; nil disables the normal
	// term.
	MnfldNormals [][]float64

	// NonmnfldDists are ground-truth signed distances at the off-surface
	// samples; nil disables the distance-regression diagnostic.
	NonmnfldDists []float64

	// SALDists are unsigned target distances; nil disables the SAL term.
	SALDists []float64

	// NonmnfldPDFs are the sampling densities of the off-surface points, used
	// by the heat term's importance-sampling correction.
	NonmnfldPDFs []float64

	// LatentReg holds per-sample latent regularizer values for multi-shape
	// training; nil disables the term.
	LatentReg []float64

	// Diff differentiates the field outputs above.
	Diff Differentiator
}

// Result is the per-term breakdown of one loss evaluation. Total is the
// weighted combination selected by the preset.
type Result struct {
	Total     float64
	Boundary  float64
	Inter     float64
	LatentReg float64
	Eikonal   float64
	Normal    float64
	Div       float64
	SAL       float64
	Heat      float64
	Phase     float64
	Dists     float64

	// MnfldGrads are the gradients at the on-surface samples, returned for
	// downstream consumers (normal estimation, visualization).
	MnfldGrads [][]float64
}

// Terms returns the named scalar values of the evaluation, total included,
// keyed the way the history store records them.
func (r Result) Terms() map[string]float64 {
	return map[string]float64{
		"loss":       r.Total,
		"boundary":   r.Boundary,
		"inter":      r.Inter,
		"latent_reg": r.LatentReg,
		"eikonal":    r.Eikonal,
		"normal":     r.Normal,
		"div":        r.Div,
		"sal":        r.SAL,
		"heat":       r.Heat,
		"phase":      r.Phase,
		"dists":      r.Dists,
	}
}
