package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BielJM1/MRTAOptima/internal/sim"
)

func newRunCommand() *cobra.Command {
	var seed int64
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a single simulation and print its summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			params, err := cfg.Params()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				params.Seed = seed
			}
			if verbose {
				params.Verbose = true
			}

			ctrl, err := sim.New(params, simLogger(params.Verbose))
			if err != nil {
				return err
			}
			res := ctrl.Run()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "status:        %s\n", res.Status)
			fmt.Fprintf(out, "ticks:         %d\n", res.Ticks)
			fmt.Fprintf(out, "mean utility:  %.2f%%\n", res.MeanUtilityPercent)
			fmt.Fprintf(out, "mean lead:     %.2f ticks\n", res.MeanLeadTime)
			fmt.Fprintf(out, "mean distance: %.2f\n", res.MeanDistance)
			fmt.Fprintf(out, "work done:     %d\n", res.WorkDone)
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "override the configured RNG seed")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every tick to stderr")
	return cmd
}
