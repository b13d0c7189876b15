// Package linalg implements the linear solver: batched Gauss-Jordan
// elimination with partial pivoting, one N×N system per fit.
package linalg

import "math"

// pivotTolerance is the "within floating tolerance" zero threshold left to
// the implementation.
const pivotTolerance = 1e-30

// SolveBatch solves hessian*delta = gradient for every fit whose skip[fit]
// is false, in place: deltaOut receives the solution and singularOut[fit] is
// set when a zero pivot is found, abandoning that fit's solve. hessian is
// n*n per fit (row-major), gradient and deltaOut are n
// per fit. Fits with skip[fit] == true (already finished) are left
// untouched, preserving the "once finished, no further writes" invariant
// one layer up from the driver.
func SolveBatch(nFits, n int, hessian []float64, gradient []float64, deltaOut []float64, singularOut []bool, skip []bool) {
	if n == 0 {
		return
	}
	for fit := 0; fit < nFits; fit++ {
		if skip[fit] {
			continue
		}
		solveOne(hessian[fit*n*n:(fit+1)*n*n], gradient[fit*n:(fit+1)*n], deltaOut[fit*n:(fit+1)*n], n, &singularOut[fit])
	}
}

// solveOne performs Gauss-Jordan elimination with partial pivoting on one
// augmented [H | g] system in place: for each column, find the
// maximal-magnitude pivot at or below the diagonal, swap it to the
// diagonal, scale the pivot row to 1, then eliminate the column from every
// other row.
func solveOne(h []float64, g []float64, deltaOut []float64, n int, singular *bool) {
	// augmented[r] is row r's N Hessian entries followed by its one gradient
	// entry, so elimination on the gradient column happens for free.
	augmented := make([][]float64, n)
	for r := 0; r < n; r++ {
		row := make([]float64, n+1)
		copy(row, h[r*n:(r+1)*n])
		row[n] = g[r]
		augmented[r] = row
	}

	for c := 0; c < n; c++ {
		pivotRow := c
		pivotVal := math.Abs(augmented[c][c])
		for r := c + 1; r < n; r++ {
			if v := math.Abs(augmented[r][c]); v > pivotVal {
				pivotVal = v
				pivotRow = r
			}
		}
		if pivotVal <= pivotTolerance {
			*singular = true
			return
		}
		augmented[c], augmented[pivotRow] = augmented[pivotRow], augmented[c]

		scale := 1 / augmented[c][c]
		for k := c; k <= n; k++ {
			augmented[c][k] *= scale
		}

		for r := 0; r < n; r++ {
			if r == c {
				continue
			}
			factor := augmented[r][c]
			if factor == 0 {
				continue
			}
			for k := c; k <= n; k++ {
				augmented[r][k] -= factor * augmented[c][k]
			}
		}
	}

	for r := 0; r < n; r++ {
		deltaOut[r] = augmented[r][n]
	}
}
