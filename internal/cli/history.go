package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/johanmcad/workbench/internal/history"
	"github.com/johanmcad/workbench/internal/model"
	"github.com/johanmcad/workbench/internal/scoring"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List and inspect stored runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		runs, err := store.LoadAll()
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No stored runs.")
			return nil
		}
		for _, run := range runs {
			scores := scoring.Calculate(&run.Results)
			fmt.Printf("%s  %s  %-16s %5d/%d  %s\n",
				shortID(run), run.Timestamp.Format("2006-01-02 15:04"),
				run.MachineName, scores.Overall, scores.OverallMax, scores.Rating.Label())
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one stored run in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		run, err := store.Load(args[0])
		if err != nil {
			return err
		}
		printRun(run)
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted.")
		return nil
	},
}

var historyCompareCmd = &cobra.Command{
	Use:   "compare <baseline-id> <comparison-id>",
	Short: "Compare two stored runs test by test",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		baseline, err := store.Load(args[0])
		if err != nil {
			return fmt.Errorf("baseline: %w", err)
		}
		comparison, err := store.Load(args[1])
		if err != nil {
			return fmt.Errorf("comparison: %w", err)
		}

		diffs := model.Compare(baseline, comparison, scoring.HigherIsBetter)
		if len(diffs) == 0 {
			fmt.Println("The runs share no tests.")
			return nil
		}
		fmt.Printf("%-22s %12s %12s %9s\n", "Test", "Baseline", "Comparison", "Change")
		for _, d := range diffs {
			marker := "-"
			if d.IsImprovement {
				marker = "+"
			}
			fmt.Printf("%-22s %12.2f %12.2f %s%7.1f%%\n",
				d.Name, d.BaselineValue, d.ComparisonValue, marker, abs(d.DifferencePercent))
		}
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyShowCmd, historyDeleteCmd, historyCompareCmd)
	rootCmd.AddCommand(historyCmd)
}

func openStore() (*history.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return history.NewStore(cfg.History.Dir, slog.Default())
}

func shortID(run *model.BenchmarkRun) string {
	return run.ID.String()[:8]
}

func printRun(run *model.BenchmarkRun) {
	scores := scoring.Calculate(&run.Results)
	fmt.Printf("Run %s\n", run.ID)
	fmt.Printf("  %s on %s\n", run.Timestamp.Format("2006-01-02 15:04 MST"), run.MachineName)
	if run.Notes != "" {
		fmt.Printf("  Notes: %s\n", run.Notes)
	}
	if len(run.Tags) > 0 {
		fmt.Printf("  Tags: %v\n", run.Tags)
	}
	if run.RemoteID != "" {
		fmt.Printf("  Uploaded as %s\n", run.RemoteID)
	}
	fmt.Printf("  CPU: %s, %.0f GiB RAM\n",
		run.SystemInfo.CPU.Name, run.SystemInfo.Memory.TotalGB())

	fmt.Println("\nResults:")
	for _, res := range run.Results.All() {
		fmt.Printf("  %-22s %10.2f %-12s %4d/%d\n",
			res.Name, res.Value, res.Unit, res.Score, res.MaxScore)
	}
	fmt.Println()
	printScores(scores)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
