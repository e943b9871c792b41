package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/johanmcad/workbench/internal/syscheck"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Inspect system readiness without running benchmarks",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := syscheck.New(slog.Default()).Check()
		if err != nil {
			return err
		}
		printCheckReport(report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func printCheckReport(report *syscheck.Report) {
	fmt.Printf("CPU load:      %.1f%%\n", report.CPUPercent)
	fmt.Printf("Free memory:   %.1f GiB\n", float64(report.AvailableBytes)/(1<<30))
	power := "mains"
	if report.OnBattery {
		power = "battery"
		if report.BatteryPercent != nil {
			power = fmt.Sprintf("battery (%.0f%%)", *report.BatteryPercent)
		}
	}
	fmt.Printf("Power source:  %s\n", power)
	if report.PowerProfile != "" {
		fmt.Printf("Power profile: %s\n", report.PowerProfile)
	}

	if len(report.TopProcesses) > 0 {
		fmt.Println("\nBusy processes:")
		for _, p := range report.TopProcesses {
			fmt.Printf("  %6.1f%%  %s (pid %d)\n", p.CPUPercent, p.Name, p.PID)
		}
	}

	if len(report.Warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range report.Warnings {
			fmt.Printf("  [%s] %s: %s\n", strings.ToUpper(string(w.Severity)), w.Title, w.Detail)
		}
	}

	fmt.Println()
	if report.ReadyToBenchmark {
		fmt.Println("System is ready to benchmark.")
	} else {
		fmt.Println("System is NOT ready to benchmark; resolve the critical warnings first.")
	}
}
