package kernels

import (
	"github.com/tsawler/go-lmfit/device"
	"github.com/tsawler/go-lmfit/estimators"
)

// ComputeChiSquare runs the chi-square kernel: dispatch width
// power_of_two_n_points per fit, zero-padded tail, per-point estimator
// summand, tree-reduce to chi_squares[fit]. Also sets iteration_failed,
// and flags NEG_CURVATURE_MLE fits.
func ComputeChiSquare(est estimators.Estimator, cb *device.ChunkBuffers) {
	width := 1
	for width < cb.Layout.NPoints {
		width *= 2
	}
	nPts := cb.Layout.NPoints

	Dispatch(cb.Layout.NFits, func(fit int) {
		if cb.Finished[fit] {
			return
		}
		summands := make([]float64, width) // zero-padded tail
		negCurvature := false
		for pt := 0; pt < nPts; pt++ {
			weight := 1.0
			if cb.Layout.UseWeights {
				weight = float64(cb.Weights[fit*nPts+pt])
			}
			data := float64(cb.Data[fit*nPts+pt])
			value := float64(cb.Values[fit*nPts+pt])
			contribution, neg := est.ChiSquare(data, value, weight)
			if neg {
				negCurvature = true
				contribution = 0
			}
			summands[pt] = contribution
		}
		chiSquare := treeSum(summands, width)

		cb.ChiSquare[fit] = chiSquare
		cb.IterationFailed[fit] = cb.PrevChiSquare[fit] != 0 && chiSquare >= cb.PrevChiSquare[fit]
		if negCurvature {
			cb.FitState[fit] = device.NegCurvatureMLE
		}
	})
}
