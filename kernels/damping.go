package kernels

import "github.com/tsawler/go-lmfit/device"

// ApplyDamping runs the damping kernel: one work-item per fit, looping over
// its diagonal entries. If the fit's last step failed, first undoes the previous
// iteration's damping (H_ii /= 1+lambda/10, an approximation kept as-is by
// deliberate choice — see DESIGN.md), then applies the current damping to
// every fit's diagonal unconditionally, applied literally to every fit
// (not gated on finished/iteration_failed).
func ApplyDamping(cb *device.ChunkBuffers) {
	nFree := cb.Layout.NParametersToFit
	if nFree == 0 {
		return
	}
	Dispatch(cb.Layout.NFits, func(fit int) {
		lambda := cb.Lambda[fit]
		for d := 0; d < nFree; d++ {
			idx := fit*nFree*nFree + d*nFree + d
			if cb.IterationFailed[fit] {
				cb.Hessian[idx] = cb.Hessian[idx] / (1 + lambda/10)
			}
			cb.Hessian[idx] = cb.Hessian[idx] * (1 + lambda)
		}
	})
}
