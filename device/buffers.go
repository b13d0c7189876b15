package device

import "github.com/tsawler/go-lmfit/planner"

// State mirrors the per-fit terminal state codes.
type State int32

const (
	Converged State = iota
	MaxIteration
	SingularHessian
	NegCurvatureMLE
	GPUNotReady
)

func (s State) String() string {
	switch s {
	case Converged:
		return "converged"
	case MaxIteration:
		return "max_iteration"
	case SingularHessian:
		return "singular_hessian"
	case NegCurvatureMLE:
		return "neg_curvature_mle"
	case GPUNotReady:
		return "gpu_not_ready"
	default:
		return "unknown"
	}
}

// Layout captures the shape constants every kernel needs to address one
// scalar within a chunk ("fit-in-block / point-index" addressing).
type Layout struct {
	NFits            int
	NPoints          int
	NParameters      int
	NParametersToFit int
	FreeIndex        []int // compacted free-parameter index table, length NParametersToFit
	UseWeights       bool
}

// ChunkBuffers owns every working array for one chunk: per-fit state plus
// per-iteration scratch. NewChunkBuffers/Release pool these arrays so
// streaming many chunks through one Fit call does not thrash the allocator.
type ChunkBuffers struct {
	Layout Layout

	// Inputs (read-only for the duration of the chunk).
	Data    []float32 // n_fits * n_points
	Weights []float32 // n_fits * n_points, nil if !UseWeights

	// Per-fit state.
	Parameters     []float32 // n_fits * n_parameters
	PrevParameters []float32 // n_fits * n_parameters
	ChiSquare      []float64
	PrevChiSquare  []float64
	Lambda         []float64
	Finished       []bool
	IterationFailed []bool
	NIterations    []int32
	FitState       []State

	// Per-iteration scratch.
	Values         []float32 // n_fits * n_points
	Derivatives    []float32 // n_fits * n_parameters * n_points
	Gradient       []float64 // n_fits * n_parameters_to_fit
	Hessian        []float64 // n_fits * n_parameters_to_fit^2
	Delta          []float64 // n_fits * n_parameters_to_fit
	SingularFlag   []bool
}

// NewChunkBuffers allocates (from the pool) every array a chunk of size
// layout.NFits needs, and initializes lambda to 0.001.
func NewChunkBuffers(layout Layout) *ChunkBuffers {
	n := layout.NFits
	nPts := layout.NPoints
	nParams := layout.NParameters
	nFree := layout.NParametersToFit

	cb := &ChunkBuffers{
		Layout:          layout,
		Data:            f32Pool.get(n * nPts),
		Parameters:      f32Pool.get(n * nParams),
		PrevParameters:  f32Pool.get(n * nParams),
		ChiSquare:       f64Pool.get(n),
		PrevChiSquare:   f64Pool.get(n),
		Lambda:          f64Pool.get(n),
		Finished:        make([]bool, n),
		IterationFailed: make([]bool, n),
		NIterations:     make([]int32, n),
		FitState:        make([]State, n),
		Values:          f32Pool.get(n * nPts),
		Derivatives:     f32Pool.get(n * nParams * nPts),
		Gradient:        f64Pool.get(n * nFree),
		Hessian:         f64Pool.get(n * nFree * nFree),
		Delta:           f64Pool.get(n * nFree),
		SingularFlag:    make([]bool, n),
	}
	if layout.UseWeights {
		cb.Weights = f32Pool.get(n * nPts)
	}
	for i := range cb.Lambda {
		cb.Lambda[i] = 0.001
	}
	return cb
}

// Release returns every pooled array to its pool. ChunkBuffers must not be
// used after Release.
func (cb *ChunkBuffers) Release() {
	f32Pool.put(cb.Data)
	f32Pool.put(cb.Parameters)
	f32Pool.put(cb.PrevParameters)
	f64Pool.put(cb.ChiSquare)
	f64Pool.put(cb.PrevChiSquare)
	f64Pool.put(cb.Lambda)
	f32Pool.put(cb.Values)
	f32Pool.put(cb.Derivatives)
	f64Pool.put(cb.Gradient)
	f64Pool.put(cb.Hessian)
	f64Pool.put(cb.Delta)
	if cb.Weights != nil {
		f32Pool.put(cb.Weights)
	}
}

// LayoutFromInfo builds a device.Layout from a configured planner.Info plus
// the free-parameter index table SetNumberOfParametersToFit produced.
func LayoutFromInfo(info *planner.Info, nFitsInChunk int, freeIndex []int) Layout {
	return Layout{
		NFits:            nFitsInChunk,
		NPoints:          info.NPoints,
		NParameters:      info.NParameters,
		NParametersToFit: info.NParametersToFit,
		FreeIndex:        freeIndex,
		UseWeights:       info.UseWeights,
	}
}
