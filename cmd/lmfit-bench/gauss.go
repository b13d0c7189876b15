package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tsawler/go-lmfit"
	"github.com/tsawler/go-lmfit/estimators"
	"github.com/tsawler/go-lmfit/export"
	"github.com/tsawler/go-lmfit/models"
)

func newGaussCmd() *cobra.Command {
	var nFits, nPoints, maxIterations int
	var tolerance float64
	var outPath string
	var verbose bool
	var estimatorName string

	cmd := &cobra.Command{
		Use:   "gauss",
		Short: "Fit a batch of GAUSS_1D problems generated from random amplitude/sigma/offset",
		RunE: func(cmd *cobra.Command, args []string) error {
			var logger *zerolog.Logger
			if verbose {
				l := zerolog.New(cmd.OutOrStderr()).With().Timestamp().Logger()
				logger = &l
			}

			est := estimators.LSE
			useWeights := true
			if estimatorName == "mle" {
				est = estimators.MLE
				useWeights = false
			}

			x := make([]float32, nPoints)
			for i := range x {
				x[i] = float32(i) * 20 / float32(nPoints)
			}

			data := make([]float32, nFits*nPoints)
			var weights []float32
			if useWeights {
				weights = make([]float32, nFits*nPoints)
			}
			initial := make([]float32, nFits*4)
			center := float32(10)

			for f := 0; f < nFits; f++ {
				amplitude := 2 + rand.Float64()*3
				sigma := 1 + rand.Float64()*2
				offset := rand.Float64()

				for pt := 0; pt < nPoints; pt++ {
					dx := float64(x[pt]) - float64(center)
					trueVal := amplitude*math.Exp(-(dx*dx)/(2*sigma*sigma)) + offset
					if useWeights {
						data[f*nPoints+pt] = float32(trueVal)
						weights[f*nPoints+pt] = 1
					} else {
						data[f*nPoints+pt] = float32(poissonSample(trueVal))
					}
				}
				base := f * 4
				initial[base+0] = float32(amplitude * 1.2)
				initial[base+1] = center
				initial[base+2] = float32(sigma * 0.9)
				initial[base+3] = float32(offset * 1.1)
			}

			req := &lmfit.Request{
				NFits:             nFits,
				NPoints:           nPoints,
				Data:              data,
				Weights:           weights,
				ModelID:           models.Gauss1D,
				EstimatorID:       est,
				InitialParameters: initial,
				ParametersToFit:   []int{1, 0, 1, 1}, // center frozen
				Tolerance:         tolerance,
				MaxIterations:     maxIterations,
				UserInfo:          models.EncodeFloat32Grid(x),
				Logger:            logger,
			}

			result, err := lmfit.Fit(context.Background(), req)
			if err != nil {
				return err
			}
			printSummary(cmd, "GAUSS_1D", result)

			if outPath != "" {
				doc := export.NewDocument("GAUSS_1D", estimatorName, nFits, result, time.Now())
				if err := export.Save(doc, outPath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&nFits, "n-fits", 100, "number of independent fits in the batch")
	cmd.Flags().IntVar(&nPoints, "n-points", 50, "points per fit")
	cmd.Flags().IntVar(&maxIterations, "max-iterations", 30, "LM iteration budget")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 1e-6, "convergence tolerance")
	cmd.Flags().StringVar(&outPath, "out", "", "write results as JSON to this path")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log every LM iteration")
	cmd.Flags().StringVar(&estimatorName, "estimator", "lse", "lse|mle")
	return cmd
}

// poissonSample draws one sample from a Poisson distribution with mean
// lambda via Knuth's algorithm, adequate for the small means this demo
// generates.
func poissonSample(lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		k++
		p *= rand.Float64()
		if p <= l {
			return k - 1
		}
	}
}
