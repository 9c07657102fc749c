// Command engine is the job-matching engine: an HTTP service the desktop
// shell talks to, plus one-shot commands for scripting.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jobmatch-engine/internal/config"
)

var (
	flagConfig  string
	flagDataDir string
)

var rootCmd = &cobra.Command{
	Use:           "engine",
	Short:         "Job aggregation and matching engine",
	Long:          "Fetches postings from job boards, APIs and alert emails, deduplicates them and scores them against your profile.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config.yml (default <data dir>/config.yml)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory (default $JOBMATCH_DATA_DIR or the user config dir)")

	rootCmd.AddCommand(serveCmd, aggregateCmd, cachedCmd, secretsCmd)
}

func main() {
	// Load .env file if it exists
	config.LoadDotEnv(".env")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
