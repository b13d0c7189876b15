package kernels

import (
	"github.com/tsawler/go-lmfit/device"
	"github.com/tsawler/go-lmfit/models"
)

// EvaluateValues runs the curve-values kernel: dispatch one work-item per
// fit (the evaluator itself loops over points, since model.Evaluate's
// contract is already per-(fit,point) — the geometry split is the
// evaluator's concern, not the caller's). Finished fits are skipped via
// ctx.Finished.
func EvaluateValues(ev models.Evaluator, cb *device.ChunkBuffers, chunkIndex int, userInfo []byte) error {
	ctx := &models.EvalContext{
		Parameters:     cb.Parameters,
		NFits:          cb.Layout.NFits,
		NPoints:        cb.Layout.NPoints,
		NParameters:    cb.Layout.NParameters,
		ValuesOut:      cb.Values,
		DerivativesOut: cb.Derivatives,
		ChunkIndex:     chunkIndex,
		UserInfo:       userInfo,
		Finished:       cb.Finished,
	}
	return ev.Evaluate(ctx)
}
