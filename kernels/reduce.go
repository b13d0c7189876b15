package kernels

// treeSum reduces summands[0:width] by repeated halving. The caller must
// have zero-padded summands[nPoints:width] before this is called, or the
// first halving mixes uninitialized values. The halving shape mirrors a
// SIMT shared-memory reduction rather than a flat linear scan.
func treeSum(summands []float64, width int) float64 {
	for half := width / 2; half > 0; half /= 2 {
		for i := 0; i < half; i++ {
			summands[i] += summands[i+half]
		}
	}
	return summands[0]
}
