// Package estimators implements the estimator registry (component B): for
// each estimator id, the chi-square, gradient, and Hessian summand functions
// that the numeric kernels reduce over points.
package estimators

import "fmt"

// ID selects a built-in estimator.
type ID int32

const (
	LSE ID = iota // least-squares estimator
	MLE           // Poisson maximum-likelihood estimator
)

func (id ID) String() string {
	switch id {
	case LSE:
		return "LSE"
	case MLE:
		return "MLE"
	default:
		return fmt.Sprintf("ID(%d)", int32(id))
	}
}

// Estimator is the per-point summand contract. The three summands are
// evaluated for the same (data, value, weight) triple by the chi-square,
// gradient and Hessian kernels respectively; NegCurvature is only ever true
// from ChiSquare (it mirrors
// the state-update the chi-square kernel performs when an MLE model value is
// non-positive).
type Estimator interface {
	// ChiSquare returns this point's contribution to chi-square, and whether
	// it triggered the NEG_CURVATURE_MLE guard (v <= 0 under MLE).
	ChiSquare(data, value, weight float64) (contribution float64, negCurvature bool)
	// Gradient returns this point's contribution to d(chiSquare)/d(parameter),
	// given the point's residual inputs and the model's ∂v/∂parameter.
	Gradient(data, value, weight, deriv float64) float64
	// Hessian returns this point's contribution to the Gauss-Newton Hessian
	// entry (i,j), accumulated by the caller in float64.
	Hessian(data, value, weight, derivI, derivJ float64) float64
}

var registry = map[ID]Estimator{
	LSE: lse{},
	MLE: mle{},
}

// Lookup returns the estimator registered for id.
func Lookup(id ID) (Estimator, error) {
	est, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("estimators: unknown estimator id %d", int32(id))
	}
	return est, nil
}

// Register installs a custom estimator under id, overwriting any built-in
// with the same id.
func Register(id ID, est Estimator) {
	registry[id] = est
}
