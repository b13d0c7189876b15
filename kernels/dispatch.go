// Package kernels implements the per-iteration numeric kernels: model
// evaluation, chi-square, gradient, Hessian, damping, parameter update,
// convergence check, and next-iteration prep.
//
// Each kernel is dispatched over fits by Dispatch, a bounded worker pool
// standing in for a GPU kernel launch; per-point and per-parameter work runs
// serially inside each fit's work item. Dispatch blocks until every work item has completed, giving
// the same bulk-synchronous happens-before barrier between kernels that a
// SIMT launch-and-wait boundary requires.
package kernels

import (
	"runtime"
	"sync"
)

// Dispatch runs fn(i) for every i in [0,n), across at most GOMAXPROCS
// goroutines, and returns only once all of them have finished. n == 0 is a
// no-op.
func Dispatch(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				fn(i)
			}
		}(lo, hi)
	}
	wg.Wait()
}
