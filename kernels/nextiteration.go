package kernels

import "github.com/tsawler/go-lmfit/device"

// PrepareNextIteration runs the next-iteration prep kernel: one work-item
// per fit, flat grid. Live fits whose step was accepted (chi_square
// improved) relax lambda and advance prev_chi_square; rejected fits
// increase lambda and roll back both chi_square and parameters to the
// values that produced the lower chi_square.
//
// A fit's very first iteration has prev_chi_square == 0 (its initial
// value), the same sentinel the chi-square kernel's iteration_failed check
// treats specially. This kernel mirrors that: prev_chi_square == 0 is always
// treated as accepted, since "chi_square < 0" can never hold and a literal
// reading of the comparison would rollback every fit's very first step
// forever, never converging.
func PrepareNextIteration(cb *device.ChunkBuffers) {
	nParams := cb.Layout.NParameters
	Dispatch(cb.Layout.NFits, func(fit int) {
		if cb.Finished[fit] {
			return
		}
		if cb.PrevChiSquare[fit] == 0 || cb.ChiSquare[fit] < cb.PrevChiSquare[fit] {
			cb.Lambda[fit] *= 0.1
			cb.PrevChiSquare[fit] = cb.ChiSquare[fit]
			return
		}
		cb.Lambda[fit] *= 10
		cb.ChiSquare[fit] = cb.PrevChiSquare[fit]
		base := fit * nParams
		copy(cb.Parameters[base:base+nParams], cb.PrevParameters[base:base+nParams])
	})
}
