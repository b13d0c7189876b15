package kernels

import (
	"math"

	"github.com/tsawler/go-lmfit/device"
)

// CheckConvergence runs the convergence-check kernel: one work-item per
// fit, flat grid. A fit converges iff |chi_square - prev_chi_square| <
// tolerance * max(1, chi_square); on convergence its state stays CONVERGED
// (0) and Finished is set. On the final iteration, a fit that has not
// converged and has not already picked up a different terminal state
// (singular Hessian) is marked MAX_ITERATION — every fit must exit with
// exactly one terminal state, so a state already set to something other
// than CONVERGED by an earlier kernel this iteration must not be
// clobbered here.
//
// A fit with zero free parameters has nothing to iterate on: it converges
// trivially on its first (and only) chi-square evaluation instead of
// waiting for a second evaluation to compare against the prev_chi_square
// sentinel.
func CheckConvergence(cb *device.ChunkBuffers, tolerance float64, iteration, maxIterations int) {
	isLastIteration := iteration == maxIterations-1
	trivial := cb.Layout.NParametersToFit == 0
	Dispatch(cb.Layout.NFits, func(fit int) {
		if cb.Finished[fit] {
			return
		}
		if trivial {
			cb.Finished[fit] = true
			return
		}
		chiSquare := cb.ChiSquare[fit]
		prevChiSquare := cb.PrevChiSquare[fit]
		bound := tolerance * math.Max(1, chiSquare)
		converged := math.Abs(chiSquare-prevChiSquare) < bound

		if converged {
			cb.Finished[fit] = true
			return
		}
		if isLastIteration && cb.FitState[fit] == device.Converged {
			cb.FitState[fit] = device.MaxIteration
		}
	})
}
