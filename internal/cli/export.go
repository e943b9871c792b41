package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/johanmcad/workbench/internal/export"
	"github.com/johanmcad/workbench/internal/model"
	"github.com/johanmcad/workbench/internal/recommend"
	"github.com/johanmcad/workbench/internal/scoring"
)

var (
	flagExportFormat string
	flagExportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export [run-id]",
	Short: "Export a stored run as JSON, HTML or Prometheus metrics",
	Long: `Export renders a stored run (the latest by default) for sharing or
ingestion. Formats: json, html, prometheus.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		var run *model.BenchmarkRun
		if len(args) == 1 {
			run, err = store.Load(args[0])
		} else {
			run, err = store.Latest()
		}
		if err != nil {
			return err
		}

		analysis := recommend.Analyze(run, nil)
		report := export.Report{
			Run:      run,
			Scores:   scoring.Calculate(&run.Results),
			Analysis: &analysis,
		}

		var out io.Writer = os.Stdout
		if flagExportOut != "" {
			f, err := os.Create(flagExportOut)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		switch flagExportFormat {
		case "json":
			err = export.WriteJSON(out, report)
		case "html":
			err = export.WriteHTML(out, report)
		case "prometheus":
			err = export.WritePrometheus(out, report)
		default:
			return fmt.Errorf("unknown format %q (want json, html or prometheus)", flagExportFormat)
		}
		if err != nil {
			return err
		}
		if flagExportOut != "" {
			fmt.Printf("Exported to %s\n", flagExportOut)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "json",
		"output format: json, html or prometheus")
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "",
		"write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
