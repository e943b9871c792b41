package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/johanmcad/workbench/internal/bench"
	"github.com/johanmcad/workbench/internal/community"
	"github.com/johanmcad/workbench/internal/config"
	"github.com/johanmcad/workbench/internal/history"
	"github.com/johanmcad/workbench/internal/model"
	"github.com/johanmcad/workbench/internal/recommend"
	"github.com/johanmcad/workbench/internal/runner"
	"github.com/johanmcad/workbench/internal/syscheck"
)

var (
	flagSkipChecks    bool
	flagSkipSynthetic bool
	flagMachineName   string
	flagNotes         string
	flagTags          []string
	flagNoSave        bool
	flagRepeat        int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the benchmark suite",
	RunE:  runBenchmarks,
}

func init() {
	runCmd.Flags().BoolVar(&flagSkipChecks, "skip-checks", false,
		"skip the pre-flight system check")
	runCmd.Flags().BoolVar(&flagSkipSynthetic, "skip-synthetic", false,
		"run only application-style workloads")
	runCmd.Flags().StringVar(&flagMachineName, "machine-name", "",
		"override the machine name stamped on the run")
	runCmd.Flags().StringVar(&flagNotes, "notes", "", "free-form notes stored with the run")
	runCmd.Flags().StringSliceVar(&flagTags, "tag", nil, "tag stored with the run (repeatable)")
	runCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "do not store the run in local history")
	runCmd.Flags().IntVar(&flagRepeat, "repeat", 1,
		"number of back-to-back runs; the config file is re-read between runs")
	rootCmd.AddCommand(runCmd)
}

func runBenchmarks(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyRunFlags(cfg)

	if !flagSkipChecks {
		report, err := syscheck.New(slog.Default()).Check()
		if err != nil {
			slog.Warn("pre-flight check failed, continuing", "err", err)
		} else {
			printCheckReport(report)
			fmt.Println()
		}
	}

	// In repeat mode the config file stays under watch, so sizes can be
	// tuned between runs without restarting.
	current := &atomic.Pointer[config.Config]{}
	current.Store(cfg)
	if flagRepeat > 1 {
		watchCtx, stopWatch := context.WithCancel(context.Background())
		defer stopWatch()
		go func() {
			err := config.Watch(watchCtx, flagConfig, func(next *config.Config) {
				applyRunFlags(next)
				current.Store(next)
			})
			if err != nil {
				slog.Warn("config watch unavailable", "err", err)
			}
		}()
	}

	for i := 0; i < flagRepeat; i++ {
		if flagRepeat > 1 {
			fmt.Printf("=== Run %d of %d ===\n", i+1, flagRepeat)
		}
		if err := runOnce(current.Load()); err != nil {
			return err
		}
	}
	return nil
}

func applyRunFlags(cfg *config.Config) {
	if flagMachineName != "" {
		cfg.Run.MachineName = flagMachineName
	}
	if flagSkipSynthetic {
		cfg.Run.SkipSynthetic = true
	}
}

func runOnce(cfg *config.Config) error {
	units := bench.Filter(bench.DefaultUnits(), cfg.Run.SkipSynthetic)
	r := runner.New(slog.Default())

	events, err := r.Start(units, &cfg.Run)
	if err != nil {
		return err
	}

	// Ctrl-C requests cooperative cancellation; a second Ctrl-C kills the
	// process through the default handler.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sigs:
			fmt.Println("\nCancelling after the current test...")
			r.Cancel()
		case <-done:
		}
	}()

	for ev := range events {
		switch e := ev.(type) {
		case runner.Progress:
			if e.Message != "" {
				fmt.Printf("\r\033[K[%3.0f%%] %s: %s", e.OverallProgress*100, e.UnitName, e.Message)
			}
		case runner.TestComplete:
			fmt.Printf("\r\033[K  %-22s %10.2f %-12s %4d/%d\n",
				e.Result.Name, e.Result.Value, e.Result.Unit, e.Result.Score, e.Result.MaxScore)
		case runner.UnitError:
			fmt.Printf("\r\033[K  %-22s FAILED: %v\n", e.UnitID, e.Err)
		case runner.Cancelled:
			fmt.Println("\nRun cancelled; partial results discarded.")
			return nil
		case runner.AllComplete:
			return finishRun(cfg, e.Run, e.Scores)
		}
	}
	return nil
}

func finishRun(cfg *config.Config, run *model.BenchmarkRun, scores model.Scores) error {
	run.Notes = flagNotes
	run.Tags = flagTags

	ranks := fetchRanks(cfg, run)
	analysis := recommend.Analyze(run, ranks)

	fmt.Println()
	printScores(scores)
	printAnalysis(analysis)

	if flagNoSave {
		return nil
	}
	store, err := history.NewStore(cfg.History.Dir, slog.Default())
	if err != nil {
		return err
	}
	path, err := store.Save(run)
	if err != nil {
		return err
	}
	fmt.Printf("\nSaved as %s\n", path)
	return nil
}

// fetchRanks pulls community percentiles when a service is configured.
// Failures degrade to local-only analysis.
func fetchRanks(cfg *config.Config, run *model.BenchmarkRun) map[string]float64 {
	client, err := community.NewClient(cfg.Community, slog.Default())
	if err != nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Community.Timeout)
	defer cancel()

	ranks, err := client.FetchPercentileRanks(ctx, run)
	if err != nil {
		slog.Warn("community percentiles unavailable", "err", err)
		return nil
	}
	return ranks
}

func printScores(scores model.Scores) {
	fmt.Println("Scores")
	row := func(name string, cs model.CategoryScore) {
		fmt.Printf("  %-20s %5d / %-5d %s\n", name, cs.Score, cs.MaxScore, cs.Rating.Label())
	}
	row("Project Operations", scores.Categories.ProjectOperations)
	row("Build Performance", scores.Categories.BuildPerformance)
	row("Responsiveness", scores.Categories.Responsiveness)
	if scores.Categories.Graphics != nil {
		row("Graphics", *scores.Categories.Graphics)
	}
	fmt.Printf("  %-20s %5d / %-5d %s\n", "Overall",
		scores.Overall, scores.OverallMax, scores.Rating.Label())
}

func printAnalysis(report recommend.Report) {
	fmt.Printf("\nDevice class: %s", report.DeviceType)
	if report.OverallPercentile != nil {
		fmt.Printf(" (community percentile %.0f)", *report.OverallPercentile)
	}
	fmt.Println()

	if len(report.Recommendations) == 0 {
		return
	}
	fmt.Println("\nRecommendations:")
	for _, rec := range report.Recommendations {
		fmt.Printf("  [%s/%s] %s\n      %s\n", rec.Priority, rec.Category, rec.Title, rec.Description)
		if rec.ExpectedImprovement != "" {
			fmt.Printf("      Expected: %s\n", rec.ExpectedImprovement)
		}
		for i, step := range rec.HowToApply {
			fmt.Printf("      %d. %s\n", i+1, step)
		}
	}
}
