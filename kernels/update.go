package kernels

import "github.com/tsawler/go-lmfit/device"

// UpdateParameters runs the parameter-update kernel: one work-item per fit,
// looping over parameter slots 0..n_parameters-1. Every slot
// unconditionally snapshots parameters into prev_parameters, even for
// fits that just became finished, so rollback still works on the next
// call into next-iteration prep. Only slots with index < n_parameters_to_fit add their delta, mapped
// through the free-parameter index table — finished fits skip this additive
// step but still snapshot.
func UpdateParameters(cb *device.ChunkBuffers) {
	nParams := cb.Layout.NParameters
	nFree := cb.Layout.NParametersToFit
	freeIndex := cb.Layout.FreeIndex

	Dispatch(cb.Layout.NFits, func(fit int) {
		base := fit * nParams
		for slot := 0; slot < nParams; slot++ {
			cb.PrevParameters[base+slot] = cb.Parameters[base+slot]
		}
		if cb.Finished[fit] {
			return
		}
		for slot := 0; slot < nFree; slot++ {
			target := freeIndex[slot]
			cb.Parameters[base+target] += float32(cb.Delta[fit*nFree+slot])
		}
	})
}
