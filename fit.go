// Package lmfit is the public entry point: it validates a batch fit
// request, plans chunk sizes, and streams chunks through the LM driver,
// copying each chunk's results back into a flat Result.
package lmfit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tsawler/go-lmfit/device"
	"github.com/tsawler/go-lmfit/estimators"
	"github.com/tsawler/go-lmfit/lmengine"
	"github.com/tsawler/go-lmfit/models"
	"github.com/tsawler/go-lmfit/planner"
)

// Request carries every input a batch fit call takes, expressed as Go
// slices instead of raw pointer/length pairs. Arrays are row-major,
// fit-major.
type Request struct {
	NFits      int
	NPoints    int
	Data       []float32 // NFits*NPoints
	Weights    []float32 // NFits*NPoints, nil if not using weights

	ModelID     models.ID
	EstimatorID estimators.ID

	InitialParameters []float32 // NFits*n_parameters
	ParametersToFit   []int     // n_parameters, 0/1 mask

	Tolerance     float64
	MaxIterations int

	UserInfo []byte

	PlannerConfig *planner.Config // optional; nil uses detected host capacity
	Logger        *zerolog.Logger // optional; nil disables per-call logging
}

// Result holds one output array per fit output: parameters, terminal
// state, chi-square, and iteration count.
type Result struct {
	OutParameters  []float32 // NFits*n_parameters
	OutStates      []int32   // NFits
	OutChiSquares  []float64 // NFits
	OutNIterations []int32   // NFits
}

// Fit runs one batch LM fit to completion or fails outright: it never
// returns a partially populated Result. It never mutates req.
func Fit(ctx context.Context, req *Request) (*Result, error) {
	callID := uuid.NewString()

	ev, err := models.Lookup(req.ModelID)
	if err != nil {
		return nil, newFitError("invalid model id", err)
	}
	est, err := estimators.Lookup(req.EstimatorID)
	if err != nil {
		return nil, newFitError("invalid estimator id", err)
	}
	nParams := ev.ParameterCount()

	if err := validate(req, nParams); err != nil {
		return nil, newFitError("invalid request", err)
	}

	info := planner.New(nParams, req.NPoints, uint64(req.NFits), req.Weights != nil, req.PlannerConfig)
	freeIndex := info.SetNumberOfParametersToFit(req.ParametersToFit)
	if err := info.Configure(); err != nil {
		return nil, newFitError("resource planning failed", err)
	}
	info.SetFitsPerBlock(info.MaxChunkSize)

	if req.Logger != nil {
		req.Logger.Info().
			Str("call_id", callID).
			Int("n_fits", req.NFits).
			Uint64("max_chunk_size", info.MaxChunkSize).
			Str("model", req.ModelID.String()).
			Str("estimator", req.EstimatorID.String()).
			Msg("fit call started")
	}

	result := &Result{
		OutParameters:  make([]float32, req.NFits*nParams),
		OutStates:      make([]int32, req.NFits),
		OutChiSquares:  make([]float64, req.NFits),
		OutNIterations: make([]int32, req.NFits),
	}

	driver := lmengine.New(ev, est, lmengine.Config{
		Tolerance:     req.Tolerance,
		MaxIterations: req.MaxIterations,
		Logger:        req.Logger,
	})

	chunkSize := int(info.MaxChunkSize)
	if chunkSize < 1 {
		chunkSize = req.NFits
	}

	for base := 0; base < req.NFits; base += chunkSize {
		n := chunkSize
		if base+n > req.NFits {
			n = req.NFits - base
		}

		layout := device.LayoutFromInfo(info, n, freeIndex)
		cb := device.NewChunkBuffers(layout)

		copy(cb.Data, req.Data[base*req.NPoints:(base+n)*req.NPoints])
		if req.Weights != nil {
			copy(cb.Weights, req.Weights[base*req.NPoints:(base+n)*req.NPoints])
		}
		copy(cb.Parameters, req.InitialParameters[base*nParams:(base+n)*nParams])

		if err := driver.Run(ctx, cb, base, req.UserInfo); err != nil {
			cb.Release()
			return nil, newFitError("fit call aborted mid-chunk", err)
		}

		copy(result.OutParameters[base*nParams:(base+n)*nParams], cb.Parameters)
		for i := 0; i < n; i++ {
			result.OutStates[base+i] = int32(cb.FitState[i])
			result.OutChiSquares[base+i] = cb.ChiSquare[i]
			result.OutNIterations[base+i] = cb.NIterations[i]
		}
		cb.Release()

		if req.Logger != nil {
			req.Logger.Debug().
				Str("call_id", callID).
				Int("chunk_base", base).
				Int("chunk_size", n).
				Msg("chunk complete")
		}
	}

	return result, nil
}

func validate(req *Request, nParams int) error {
	if req.NFits < 1 {
		return fmt.Errorf("n_fits must be >= 1, got %d", req.NFits)
	}
	if req.NPoints < 1 {
		return fmt.Errorf("n_points must be >= 1, got %d", req.NPoints)
	}
	if req.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be > 0, got %v", req.Tolerance)
	}
	if req.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be >= 1, got %d", req.MaxIterations)
	}
	if len(req.Data) != req.NFits*req.NPoints {
		return fmt.Errorf("data length = %d, want %d", len(req.Data), req.NFits*req.NPoints)
	}
	if req.Weights != nil && len(req.Weights) != req.NFits*req.NPoints {
		return fmt.Errorf("weights length = %d, want %d", len(req.Weights), req.NFits*req.NPoints)
	}
	if len(req.InitialParameters) != req.NFits*nParams {
		return fmt.Errorf("initial_parameters length = %d, want %d", len(req.InitialParameters), req.NFits*nParams)
	}
	if len(req.ParametersToFit) != nParams {
		return fmt.Errorf("parameters_to_fit length = %d, want %d", len(req.ParametersToFit), nParams)
	}
	return nil
}
