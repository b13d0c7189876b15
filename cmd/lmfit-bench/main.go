// Command lmfit-bench exercises the Fit entry point end-to-end against
// synthetic data, a small standalone front end alongside the core API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lmfit-bench",
		Short:         "Generate synthetic fit problems and run them through go-lmfit",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newLinearCmd(), newGaussCmd())
	return root
}
