package kernels

import (
	"github.com/tsawler/go-lmfit/device"
	"github.com/tsawler/go-lmfit/estimators"
)

// ComputeGradient runs the gradient kernel: same power-of-two-padded
// tree-reduction geometry as chi-square, one reduction per free parameter
// per fit. Skipped for fits that are finished or whose last step raised
// chi-square (iteration_failed).
//
// The estimator summands are contributions to d(chi_square)/d(parameter);
// the reduced sum is stored negated, so that the driver's linear solve of
// hessian*delta = gradient yields a descent step that UpdateParameters adds.
func ComputeGradient(est estimators.Estimator, cb *device.ChunkBuffers) {
	width := 1
	for width < cb.Layout.NPoints {
		width *= 2
	}
	nPts := cb.Layout.NPoints
	nParams := cb.Layout.NParameters
	freeIndex := cb.Layout.FreeIndex
	nFree := len(freeIndex)

	Dispatch(cb.Layout.NFits, func(fit int) {
		if cb.Finished[fit] || cb.IterationFailed[fit] {
			return
		}
		summands := make([]float64, width)
		for p := 0; p < nFree; p++ {
			param := freeIndex[p]
			derivOff := (fit*nParams + param) * nPts
			for pt := 0; pt < nPts; pt++ {
				weight := 1.0
				if cb.Layout.UseWeights {
					weight = float64(cb.Weights[fit*nPts+pt])
				}
				data := float64(cb.Data[fit*nPts+pt])
				value := float64(cb.Values[fit*nPts+pt])
				deriv := float64(cb.Derivatives[derivOff+pt])
				summands[pt] = est.Gradient(data, value, weight, deriv)
			}
			for pt := nPts; pt < width; pt++ {
				summands[pt] = 0
			}
			cb.Gradient[fit*nFree+p] = -treeSum(summands, width)
		}
	})
}
