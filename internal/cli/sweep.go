package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/BielJM1/MRTAOptima/internal/store/sqlite"
	"github.com/BielJM1/MRTAOptima/internal/sweep"
)

func newSweepCommand() *cobra.Command {
	var label string
	var dbPath string
	var runsOut string
	var statsOut string
	var noStore bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Execute the configured parameter sweep",
		Long: `Expand the [sweep] section of the configuration into every parameter
combination, run each one over the configured seed range, and persist the
per-run results to the SQLite database. Optionally export the runs and the
per-combination statistics as semicolon-separated CSV.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			base, err := cfg.Params()
			if err != nil {
				return err
			}
			plan, err := sweep.NewPlan(base, cfg.Sweep)
			if err != nil {
				return err
			}

			var store sweep.Store
			if !noStore {
				db, err := sqlite.Open(dbPath)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := db.Migrate(cmd.Context()); err != nil {
					return err
				}
				store = db
			}

			logger := log.New(cmd.ErrOrStderr(), "mrtaopt ", log.LstdFlags)
			out, err := sweep.NewRunner(store, logger).Run(cmd.Context(), label, plan)
			if err != nil {
				return err
			}

			if runsOut != "" {
				if err := writeCSVFile(runsOut, func(f *os.File) error {
					return sweep.WriteRunsCSV(f, out.Records)
				}); err != nil {
					return err
				}
			}
			if statsOut != "" {
				if err := writeCSVFile(statsOut, func(f *os.File) error {
					return sweep.WriteStatsCSV(f, out.Stats)
				}); err != nil {
					return err
				}
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "sweep %s: %d runs\n", out.SweepID, len(out.Records))
			for _, cs := range out.Stats {
				fmt.Fprintf(w, "%-60s utility=%6.2f%% ticks=%7.1f forced=%d/%d\n",
					cs.Combo, cs.Utility.Mean, cs.Ticks.Mean, cs.ForcedEnd, cs.Runs)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "sweep", "label stored with the sweep")
	cmd.Flags().StringVar(&dbPath, "db", "data/mrtaopt.db", "sqlite database path")
	cmd.Flags().StringVar(&runsOut, "runs-csv", "", "write every run as CSV to this path")
	cmd.Flags().StringVar(&statsOut, "stats-csv", "", "write per-combination statistics as CSV to this path")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "skip database persistence")
	return cmd
}

func writeCSVFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
