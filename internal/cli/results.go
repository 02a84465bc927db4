package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/BielJM1/MRTAOptima/internal/store/sqlite"
	"github.com/BielJM1/MRTAOptima/internal/sweep"
)

func newResultsCommand() *cobra.Command {
	var dbPath string
	var sweepID string
	var runsOut string

	cmd := &cobra.Command{
		Use:   "results",
		Short: "Inspect stored sweep results",
		Long: `Without flags, list the stored sweeps. With --sweep, print that sweep's
per-combination aggregates, best combination first. Use --runs-csv to
export the sweep's raw runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := sqlite.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.Migrate(cmd.Context()); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if sweepID == "" {
				sweeps, err := db.ListSweeps(cmd.Context())
				if err != nil {
					return err
				}
				if len(sweeps) == 0 {
					fmt.Fprintln(w, "no sweeps stored")
					return nil
				}
				for _, s := range sweeps {
					fmt.Fprintf(w, "%s  %s  runs=%-6d %s\n",
						s.ID, s.CreatedAt.Format("2006-01-02 15:04:05"), s.Runs, s.Label)
				}
				return nil
			}

			aggs, err := db.AggregateByCombo(cmd.Context(), sweepID)
			if err != nil {
				return err
			}
			if len(aggs) == 0 {
				return fmt.Errorf("no runs stored for sweep %s", sweepID)
			}
			for _, a := range aggs {
				fmt.Fprintf(w, "%-60s utility=%6.2f%% ticks=%7.1f lead=%6.2f dist=%8.2f forced=%d/%d\n",
					a.Combo, a.MeanUtilityPct, a.MeanTicks, a.MeanLeadTime, a.MeanDistance, a.ForcedEnd, a.Runs)
			}

			if runsOut != "" {
				runs, err := db.ListRuns(cmd.Context(), sweepID)
				if err != nil {
					return err
				}
				if err := writeCSVFile(runsOut, func(f *os.File) error {
					return sweep.WriteRunsCSV(f, runs)
				}); err != nil {
					return err
				}
				fmt.Fprintf(w, "wrote %d runs to %s\n", len(runs), runsOut)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "data/mrtaopt.db", "sqlite database path")
	cmd.Flags().StringVar(&sweepID, "sweep", "", "sweep id to summarize")
	cmd.Flags().StringVar(&runsOut, "runs-csv", "", "export the sweep's runs as CSV to this path")
	return cmd
}
