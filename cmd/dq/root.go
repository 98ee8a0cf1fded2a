package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"dataquality/internal/config"
	"dataquality/internal/errors"
	"dataquality/internal/logging"
)

var (
	cfgPath string
	verbose bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dq",
	Short: "Data quality profiler for tabular datasets",
	Long: `dq profiles a tabular dataset (CSV, Excel, or JSON) and reports
data-quality issues: missing values, type anomalies, duplicates, outliers,
and inconsistent categories, classified by severity.

Completed runs can be persisted to a history store (SQLite by default) and
browsed later from the CLI or through the built-in HTTP server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; absence is not an error.
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		logger = logging.New(os.Stderr, level, cfg.Logging.Format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initConfigCmd)
}

// Execute runs the CLI, printing a coded error and exiting non-zero on
// failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v [%s]\n", err, errors.GetCode(err))
		os.Exit(1)
	}
}
