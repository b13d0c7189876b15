package estimators

import "math"

// mle is the Poisson maximum-likelihood estimator: minimizes the Poisson
// deviance 2*(v - d - d*ln(v/d)), with d*ln(v/d) defined as 0 when d == 0.
// weight is accepted to satisfy the Estimator interface but unused: MLE has
// no notion of per-point weighting.
type mle struct{}

func (mle) ChiSquare(data, value, _ float64) (float64, bool) {
	if value <= 0 {
		return 0, true
	}
	term := 0.0
	if data != 0 {
		term = data * math.Log(value/data)
	}
	return 2 * (value - data - term), false
}

func (mle) Gradient(data, value, _, deriv float64) float64 {
	if value <= 0 {
		return 0
	}
	return 2 * (1 - data/value) * deriv
}

func (mle) Hessian(data, value, _, derivI, derivJ float64) float64 {
	if value <= 0 {
		return 0
	}
	return 2 * (data / (value * value)) * derivI * derivJ
}
