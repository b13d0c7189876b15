package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tsawler/go-lmfit"
	"github.com/tsawler/go-lmfit/estimators"
	"github.com/tsawler/go-lmfit/export"
	"github.com/tsawler/go-lmfit/models"
)

func newLinearCmd() *cobra.Command {
	var nFits, nPoints, maxIterations int
	var tolerance float64
	var outPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "linear",
		Short: "Fit a batch of LINEAR_1D problems generated from random slopes/intercepts",
		RunE: func(cmd *cobra.Command, args []string) error {
			var logger *zerolog.Logger
			if verbose {
				l := zerolog.New(cmd.OutOrStderr()).With().Timestamp().Logger()
				logger = &l
			}

			x := make([]float32, nPoints)
			for i := range x {
				x[i] = float32(i)
			}

			data := make([]float32, nFits*nPoints)
			initial := make([]float32, nFits*2)
			for f := 0; f < nFits; f++ {
				a := rand.Float64()*4 - 2
				b := rand.Float64()*4 - 2
				for pt := 0; pt < nPoints; pt++ {
					data[f*nPoints+pt] = float32(a + b*float64(x[pt]))
				}
				initial[f*2+0] = float32(a * 1.2)
				initial[f*2+1] = float32(b * 0.8)
			}

			req := &lmfit.Request{
				NFits:             nFits,
				NPoints:           nPoints,
				Data:              data,
				ModelID:           models.Linear1D,
				EstimatorID:       estimators.LSE,
				InitialParameters: initial,
				ParametersToFit:   []int{1, 1},
				Tolerance:         tolerance,
				MaxIterations:     maxIterations,
				UserInfo:          models.EncodeFloat32Grid(x),
				Logger:            logger,
			}

			result, err := lmfit.Fit(context.Background(), req)
			if err != nil {
				return err
			}
			printSummary(cmd, "LINEAR_1D", result)

			if outPath != "" {
				doc := export.NewDocument("LINEAR_1D", "LSE", nFits, result, time.Now())
				if err := export.Save(doc, outPath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&nFits, "n-fits", 100, "number of independent fits in the batch")
	cmd.Flags().IntVar(&nPoints, "n-points", 20, "points per fit")
	cmd.Flags().IntVar(&maxIterations, "max-iterations", 20, "LM iteration budget")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 1e-6, "convergence tolerance")
	cmd.Flags().StringVar(&outPath, "out", "", "write results as JSON to this path")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log every LM iteration")
	return cmd
}
