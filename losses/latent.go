package losses

type latentReg bool

// LatentReg returns the latent-code regularization term for multi-shape
// training: the mean of the supplied per-sample regularizer values, 0 when
// none are given.
func LatentReg() *latentReg {
	l := latentReg(false)
	return &l
}

func (t *latentReg) TypeString() string {
	return "latent-reg"
}

func (t *latentReg) Penalty(reg []float64) float64 {
	return mean(reg)
}
