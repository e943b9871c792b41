// Package cli wires the workbench commands: run, check, history, export
// and upload. Commands print human-readable output to stdout and log
// operational detail through slog.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/johanmcad/workbench/internal/config"
)

var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "workbench",
	Short: "Workstation performance benchmark for development workloads",
	Long: `workbench measures what a developer actually feels: project loads,
builds and system responsiveness. Results are scored against fixed
thresholds, stored locally and optionally compared with the community.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if flagVerbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", defaultConfigPath(),
		"path to the YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable debug logging")
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func defaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "workbench.yaml"
	}
	return base + "/workbench/workbench.yaml"
}

func loadConfig() (*config.Config, error) {
	return config.Load(flagConfig)
}
