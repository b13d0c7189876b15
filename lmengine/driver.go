// Package lmengine implements the LM driver: the fixed twelve-step
// iteration body that advances every live fit in a chunk one step at a
// time, calling into kernels and linalg between bulk-synchronous dispatch
// points.
package lmengine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tsawler/go-lmfit/device"
	"github.com/tsawler/go-lmfit/estimators"
	"github.com/tsawler/go-lmfit/kernels"
	"github.com/tsawler/go-lmfit/linalg"
	"github.com/tsawler/go-lmfit/models"
)

// Config holds the parameters one Run call needs beyond the chunk itself.
type Config struct {
	Tolerance     float64
	MaxIterations int
	Logger        *zerolog.Logger // optional; nil disables per-iteration logging
}

// Driver runs the LM iteration loop for one chunk at a time. It is not safe
// for concurrent Run calls on the same instance: each Run owns the chunk's
// buffers exclusively until it returns.
type Driver struct {
	Evaluator estimators.Estimator
	Model     models.Evaluator
	Config    Config
}

// New builds a Driver bound to one model/estimator pair for the lifetime of
// however many Run calls follow.
func New(model models.Evaluator, est estimators.Estimator, cfg Config) *Driver {
	return &Driver{Evaluator: est, Model: model, Config: cfg}
}

// Run advances cb through LM iterations until every fit is finished or
// max_iterations is reached, running the twelve steps below in their fixed
// order every iteration. userInfo is passed through to the model evaluator
// unchanged; chunkBase is this chunk's fit-base offset within the whole
// call, passed through to the evaluator so it can address the right slice
// of user_info when that slice depends on global fit index. ctx is checked
// at the start of every iteration rather than mid-step: on cancellation Run
// returns ctx.Err() and the chunk fails outright.
func (d *Driver) Run(ctx context.Context, cb *device.ChunkBuffers, chunkBase int, userInfo []byte) error {
	if d.Config.MaxIterations < 1 {
		return fmt.Errorf("lmengine: max_iterations must be >= 1, got %d", d.Config.MaxIterations)
	}

	nFits := cb.Layout.NFits
	nFree := cb.Layout.NParametersToFit
	skip := make([]bool, nFits) // reused scratch for linalg.SolveBatch's skip argument

	var iterations int
	for k := 0; k < d.Config.MaxIterations; k++ {
		iterations = k + 1
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// 1. Model evaluation.
		if err := kernels.EvaluateValues(d.Model, cb, chunkBase, userInfo); err != nil {
			return fmt.Errorf("lmengine: model evaluation failed at iteration %d: %w", k, err)
		}

		// 2. Chi-square. Sets iteration_failed and NEG_CURVATURE_MLE.
		kernels.ComputeChiSquare(d.Evaluator, cb)

		// 3. Gradient, skipped for finished||iteration_failed.
		kernels.ComputeGradient(d.Evaluator, cb)

		// 4. Hessian, same skip set as gradient.
		kernels.ComputeHessian(d.Evaluator, cb)

		// 5. Damping.
		kernels.ApplyDamping(cb)

		// 6. Linear solve: skip finished fits, everyone else solves.
		for fit := 0; fit < nFits; fit++ {
			skip[fit] = cb.Finished[fit]
		}
		linalg.SolveBatch(nFits, nFree, cb.Hessian, cb.Gradient, cb.Delta, cb.SingularFlag, skip)

		// 7. Singularity fan-out: any flagged solve becomes a terminal state.
		fanOutSingular(cb)

		// 8. Parameter update: snapshot then apply delta.
		kernels.UpdateParameters(cb)

		// 9. Convergence check.
		kernels.CheckConvergence(cb, d.Config.Tolerance, k, d.Config.MaxIterations)

		// 10. Iteration bookkeeping: non-CONVERGED states finish too, and
		// n_iterations is latched the first time a fit goes final.
		allFinished := finalizeIteration(cb, k)

		if d.Config.Logger != nil {
			d.Config.Logger.Debug().
				Int("iteration", k).
				Int("n_fits", nFits).
				Bool("all_finished", allFinished).
				Msg("lm iteration complete")
		}

		if allFinished {
			recordTerminalStates(cb, iterations)
			chunksProcessedTotal.Inc()
			return nil
		}

		// 11. Next-iteration prep.
		kernels.PrepareNextIteration(cb)

		// 12. break handled by the allFinished check above.
	}

	recordTerminalStates(cb, iterations)
	chunksProcessedTotal.Inc()
	return nil
}

// fanOutSingular implements step 7: any fit whose linear solve flagged
// singular this iteration gets state = SINGULAR_HESSIAN. Already-finished
// fits were skipped by the solve and keep whatever state they already
// carry.
func fanOutSingular(cb *device.ChunkBuffers) {
	kernels.Dispatch(cb.Layout.NFits, func(fit int) {
		if cb.Finished[fit] {
			return // already-finished fits are skipped by the solve; their stale flag is not re-read
		}
		if cb.SingularFlag[fit] {
			cb.FitState[fit] = device.SingularHessian
		}
	})
}

// finalizeIteration implements step 10: any fit whose state is no longer
// CONVERGED (singular Hessian, max iteration, neg-curvature) is also
// marked finished, and n_iterations is recorded the first time a fit's
// finished flag flips true. Returns whether every fit is now done.
func finalizeIteration(cb *device.ChunkBuffers, iteration int) bool {
	allFinished := true
	kernels.Dispatch(cb.Layout.NFits, func(fit int) {
		wasFinished := cb.Finished[fit]
		if !wasFinished && cb.FitState[fit] != device.Converged {
			cb.Finished[fit] = true
		}
		// NIterations starts at 0 for every chunk, so a zero value means this
		// fit's finish (possibly set by CheckConvergence earlier in this
		// iteration) has not been recorded yet.
		if cb.Finished[fit] && cb.NIterations[fit] == 0 {
			cb.NIterations[fit] = int32(iteration + 1)
		}
	})
	for fit := 0; fit < cb.Layout.NFits; fit++ {
		if !cb.Finished[fit] {
			allFinished = false
		}
	}
	return allFinished
}

// recordTerminalStates updates the package-level Prometheus collectors
// once per chunk, the way metrics.go's collectors are updated from a
// single finalize point rather than per-kernel.
func recordTerminalStates(cb *device.ChunkBuffers, iterations int) {
	iterationsHistogram.Observe(float64(iterations))
	for fit := 0; fit < cb.Layout.NFits; fit++ {
		terminalStateTotal.WithLabelValues(cb.FitState[fit].String()).Inc()
	}
}
