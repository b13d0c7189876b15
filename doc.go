// Package lmfit provides a batched Levenberg-Marquardt curve-fitting
// engine: given many independent datasets sharing one model shape and
// point count, Fit advances every fit through synchronized LM iterations
// over a goroutine worker pool, returning per-fit parameters, terminal
// state, chi-square, and iteration count.
//
// The core is split across sub-packages: models (plug-in curve
// evaluators), estimators (LSE/MLE summands), planner (chunk sizing),
// device (per-chunk working buffers), kernels (the per-iteration numeric
// primitives), linalg (the batched linear solver), and lmengine (the
// twelve-step LM driver loop). Fit ties them together behind a single
// entry point.
package lmfit
