// Package models implements the model registry (component A): it maps a
// model id to a parameter count and a pure evaluator that fills in values
// and derivatives for every fit in a chunk.
package models

import "fmt"

// ID selects a built-in model evaluator.
type ID int32

const (
	Gauss1D ID = iota
	Gauss2D
	Gauss2DElliptic
	Gauss2DRotated
	Cauchy2DElliptic
	Linear1D
)

func (id ID) String() string {
	switch id {
	case Gauss1D:
		return "GAUSS_1D"
	case Gauss2D:
		return "GAUSS_2D"
	case Gauss2DElliptic:
		return "GAUSS_2D_ELLIPTIC"
	case Gauss2DRotated:
		return "GAUSS_2D_ROTATED"
	case Cauchy2DElliptic:
		return "CAUCHY_2D_ELLIPTIC"
	case Linear1D:
		return "LINEAR_1D"
	default:
		return fmt.Sprintf("ID(%d)", int32(id))
	}
}

// EvalContext carries everything an Evaluator needs for one chunk. Slices are
// owned by the caller (device.ChunkBuffers); the evaluator only writes into
// ValuesOut and DerivativesOut.
type EvalContext struct {
	Parameters     []float32 // n_fits * n_parameters, fit-major
	NFits          int
	NPoints        int
	NParameters    int
	ValuesOut      []float32 // n_fits * n_points
	DerivativesOut []float32 // n_fits * n_parameters * n_points, parameter-major within a fit
	ChunkIndex     int       // fit-base offset of this chunk within the whole call
	UserInfo       []byte
	Finished       []bool // length n_fits; evaluator skips finished fits
}

// Evaluator is the model plug-in contract. It is pure: it never reads or
// writes chi-square or iteration state.
type Evaluator interface {
	ParameterCount() int
	Evaluate(ctx *EvalContext) error
}

var registry = map[ID]Evaluator{
	Gauss1D:          gauss1D{},
	Gauss2D:          gauss2D{},
	Gauss2DElliptic:  gauss2DElliptic{},
	Gauss2DRotated:   gauss2DRotated{},
	Cauchy2DElliptic: cauchy2DElliptic{},
	Linear1D:         linear1D{},
}

// Lookup returns the evaluator registered for id.
func Lookup(id ID) (Evaluator, error) {
	ev, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("models: unknown model id %d", int32(id))
	}
	return ev, nil
}

// Register installs a custom evaluator under id, overwriting any built-in
// with the same id. Intended for tests and for embedders extending the
// registry with domain-specific models.
func Register(id ID, ev Evaluator) {
	registry[id] = ev
}
