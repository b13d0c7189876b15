// Package planner implements the resource planner: it decides chunk size,
// fits-per-dispatch-group, and one-fit memory footprint before every call.
package planner

import "fmt"

// Info holds the resource-planning state for one call: available host
// capacity, per-fit memory footprint, and the derived chunk geometry.
type Info struct {
	NParameters       int
	NParametersToFit  int
	NPoints           int
	PowerOfTwoNPoints int
	NFits             uint64
	UserInfoSize      uint64
	MaxIterations     int
	MaxChunkSize      uint64
	NFitsPerBlock     int
	ModelID           int32
	EstimatorID       int32
	UseWeights        bool

	capacity HostCapacity
}

// New builds an Info for one Fit call. cfg may be nil, meaning "use detected
// host capacity unmodified".
func New(nParameters, nPoints int, nFits uint64, useWeights bool, cfg *Config) *Info {
	capacity := DetectHostCapacity()
	cfg.apply(&capacity)
	return &Info{
		NParameters: nParameters,
		NPoints:     nPoints,
		NFits:       nFits,
		UseWeights:  useWeights,
		capacity:    capacity,
	}
}

// SetNumberOfParametersToFit derives NParametersToFit from the 0/1 mask, and
// returns the compacted free-parameter index table.
func (info *Info) SetNumberOfParametersToFit(parametersToFit []int) []int {
	indices := make([]int, 0, len(parametersToFit))
	for i, flag := range parametersToFit {
		if flag != 0 {
			indices = append(indices, i)
		}
	}
	info.NParametersToFit = len(indices)
	return indices
}

// SetFitsPerBlock starts at 8 and halves until the fits-per-block count
// divides currentChunkSize and fitsPerBlock*n_points stays under a quarter
// of the available threads, flooring at 1.
func (info *Info) SetFitsPerBlock(currentChunkSize uint64) {
	n := 8
	for n > 1 {
		divisible := currentChunkSize%uint64(n) == 0
		enoughThreads := n*info.NPoints < info.capacity.MaxThreads/4
		if divisible && enoughThreads {
			break
		}
		n /= 2
	}
	info.NFitsPerBlock = n
}

// oneFitFootprintBytes computes the per-fit working-buffer footprint used to
// size a chunk: values, deltas, gradient, Hessian, and the model derivative
// block, plus weights when in use.
func (info *Info) oneFitFootprintBytes() uint64 {
	const floatSize = 4
	const intSize = 4
	n := uint64(info.NPoints)
	p := uint64(info.NParameters)
	pf := uint64(info.NParametersToFit)

	footprint := floatSize*(2*n+2*p+2*pf+pf*pf+n*p+4) + intSize*3
	if info.UseWeights {
		footprint += floatSize * n
	}
	return footprint
}

// roundDownToPowerOfTen rounds v down to the largest multiple of the largest
// power of ten <= v (e.g. 37421 -> 30000), keeping chunk boundaries round
// and reproducible.
func roundDownToPowerOfTen(v uint64) uint64 {
	i := uint64(1)
	for v > 10 {
		i *= 10
		v /= 10
	}
	return v * i
}

// Configure computes PowerOfTwoNPoints, then derives MaxChunkSize from the
// one-fit footprint, MaxConcurrentBlocks, the uint64 overflow guard, and the
// round-to-power-of-ten step. Returns an error when even one fit does not
// fit in the available capacity.
func (info *Info) Configure() error {
	info.PowerOfTwoNPoints = 1
	for info.PowerOfTwoNPoints < info.NPoints {
		info.PowerOfTwoNPoints *= 2
	}

	footprint := info.oneFitFootprintBytes()
	if footprint == 0 {
		return fmt.Errorf("planner: zero-size one-fit footprint")
	}

	chunkSize := info.capacity.AvailableMemoryBytes / footprint
	if chunkSize == 0 {
		return fmt.Errorf("not enough free device memory available")
	}

	if info.capacity.MaxConcurrentBlocks > 0 && chunkSize > info.capacity.MaxConcurrentBlocks {
		chunkSize = info.capacity.MaxConcurrentBlocks
	}

	var scalingFactor uint64
	if info.NParametersToFit > 0 {
		scalingFactor = uint64(info.NPoints) * uint64(info.NParametersToFit) * uint64(info.NParametersToFit)
	} else {
		scalingFactor = uint64(info.NPoints) * uint64(info.NParameters)
	}
	if scalingFactor > 0 {
		const maxUint64 = ^uint64(0)
		if chunkSize > maxUint64/scalingFactor {
			chunkSize = maxUint64 / scalingFactor
		}
	}

	maxChunkSize := roundDownToPowerOfTen(chunkSize)
	if maxChunkSize > info.NFits {
		maxChunkSize = info.NFits
	}
	if maxChunkSize == 0 {
		// Only reached when NFits is 0 (chunkSize is at least 1 here, so its
		// rounded value is too): fall back to the unrounded chunk size, still
		// capped by n_fits.
		maxChunkSize = chunkSize
		if maxChunkSize > info.NFits {
			maxChunkSize = info.NFits
		}
	}
	info.MaxChunkSize = maxChunkSize
	return nil
}
