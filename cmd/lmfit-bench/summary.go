package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/go-lmfit"
	"github.com/tsawler/go-lmfit/device"
)

// printSummary prints a per-state histogram and the mean chi-square across
// the batch, the demo-CLI analogue of a training loop's per-epoch summary
// line.
func printSummary(cmd *cobra.Command, model string, result *lmfit.Result) {
	counts := make(map[device.State]int)
	var chiSum float64
	for i, s := range result.OutStates {
		counts[device.State(s)]++
		chiSum += result.OutChiSquares[i]
	}
	n := len(result.OutStates)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d fits\n", model, n)
	for state := device.Converged; state <= device.GPUNotReady; state++ {
		if c := counts[state]; c > 0 {
			fmt.Fprintf(out, "  %-16s %d\n", state.String(), c)
		}
	}
	if n > 0 {
		fmt.Fprintf(out, "  mean chi-square: %.6g\n", chiSum/float64(n))
	}
}
