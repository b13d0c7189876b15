package kernels

import (
	"github.com/tsawler/go-lmfit/device"
	"github.com/tsawler/go-lmfit/estimators"
)

// ComputeHessian runs the Hessian kernel: one (i,j)-entry per fit,
// accumulated over all points in double precision then truncated to
// float32 precision on store, even though this package stores the Hessian
// as []float64 for convenience — the truncation through float32 is an
// explicit precision choice, not a storage-type artifact, and is preserved
// here by round-tripping the accumulated sum through float32 before
// storing it. Full N_to_fit x N_to_fit matrix is computed; symmetry is not
// exploited. Skipped for finished or iteration_failed fits, same as the
// gradient kernel.
func ComputeHessian(est estimators.Estimator, cb *device.ChunkBuffers) {
	nPts := cb.Layout.NPoints
	nParams := cb.Layout.NParameters
	freeIndex := cb.Layout.FreeIndex
	nFree := len(freeIndex)

	Dispatch(cb.Layout.NFits, func(fit int) {
		if cb.Finished[fit] || cb.IterationFailed[fit] {
			return
		}
		for i := 0; i < nFree; i++ {
			pi := freeIndex[i]
			derivOffI := (fit*nParams + pi) * nPts
			for j := 0; j < nFree; j++ {
				pj := freeIndex[j]
				derivOffJ := (fit*nParams + pj) * nPts

				var acc float64 // accumulated in double precision
				for pt := 0; pt < nPts; pt++ {
					weight := 1.0
					if cb.Layout.UseWeights {
						weight = float64(cb.Weights[fit*nPts+pt])
					}
					data := float64(cb.Data[fit*nPts+pt])
					value := float64(cb.Values[fit*nPts+pt])
					di := float64(cb.Derivatives[derivOffI+pt])
					dj := float64(cb.Derivatives[derivOffJ+pt])
					acc += est.Hessian(data, value, weight, di, dj)
				}
				cb.Hessian[fit*nFree*nFree+i*nFree+j] = float64(float32(acc))
			}
		}
	})
}
