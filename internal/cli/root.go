// Package cli provides the mrtaopt command-line interface.
package cli

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/BielJM1/MRTAOptima/internal/config"
)

// NewRootCommand creates the root command. Version is set at build time.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "mrtaopt",
		Short: "Multi-agent task allocation simulator",
		Long: `mrtaopt simulates agents allocating themselves to deadline-bound tasks
on a 2D plane. Each tick every agent re-evaluates the tasks through a
stimulus function (deadline urgency, crowding interference, inertia) and
travels to the most attractive one.

Single runs are configured through a TOML file; parameter sweeps execute
the configured cross product over a seed range and persist results to a
local SQLite database.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "path to TOML config (default mrtaopt.toml)")

	root.AddCommand(
		newRunCommand(),
		newSweepCommand(),
		newResultsCommand(),
		newWatchCommand(),
	)
	return root
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(path)
}

// simLogger returns the per-tick logger: stderr when verbose, silent
// otherwise. The result summaries go to stdout either way.
func simLogger(verbose bool) *log.Logger {
	if verbose {
		return log.New(os.Stderr, "mrtaopt ", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}
