package syscheck

import "fmt"

// Severity grades a pre-flight warning.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Warning is one pre-flight finding.
type Warning struct {
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Detail   string   `json:"detail"`
}

const gib = 1024 * 1024 * 1024

// deriveWarnings applies the fixed thresholds to a snapshot. It is pure,
// so the threshold behavior is testable without live probes.
func deriveWarnings(snap Snapshot) []Warning {
	var warnings []Warning
	add := func(sev Severity, title, detail string) {
		warnings = append(warnings, Warning{Severity: sev, Title: title, Detail: detail})
	}

	switch {
	case snap.CPUPercent > 50:
		add(SeverityCritical, "High CPU load",
			fmt.Sprintf("CPU is %.0f%% busy; results will not reflect the hardware.", snap.CPUPercent))
	case snap.CPUPercent > 20:
		add(SeverityWarning, "Elevated CPU load",
			fmt.Sprintf("CPU is %.0f%% busy; close background work before benchmarking.", snap.CPUPercent))
	}

	availGB := float64(snap.AvailableBytes) / gib
	switch {
	case availGB < 2:
		add(SeverityCritical, "Very low free memory",
			fmt.Sprintf("Only %.1f GiB of memory is free; the system is likely swapping.", availGB))
	case availGB < 4:
		add(SeverityWarning, "Low free memory",
			fmt.Sprintf("%.1f GiB of memory is free; memory tests may be skewed.", availGB))
	}

	if snap.OnBattery {
		switch {
		case snap.BatteryPercent != nil && *snap.BatteryPercent < 50:
			add(SeverityCritical, "Low battery",
				fmt.Sprintf("Running on battery at %.0f%%; the machine will throttle hard.", *snap.BatteryPercent))
		case snap.BatteryPercent != nil && *snap.BatteryPercent < 80:
			add(SeverityWarning, "Running on battery",
				fmt.Sprintf("On battery at %.0f%%; connect power for representative results.", *snap.BatteryPercent))
		default:
			add(SeverityInfo, "Running on battery",
				"Power-saving behavior on battery can reduce scores.")
		}
	}

	switch snap.PowerProfile {
	case "powersave":
		add(SeverityCritical, "Power-saving profile active",
			"The powersave governor caps CPU frequency; switch to performance before benchmarking.")
	case "balanced":
		add(SeverityInfo, "Balanced power profile",
			"A performance profile gives more repeatable results.")
	}

	for _, p := range snap.TopProcesses {
		switch {
		case p.CPUPercent > 25:
			add(SeverityCritical, "Busy background process",
				fmt.Sprintf("%s (pid %d) is using %.0f%% CPU.", p.Name, p.PID, p.CPUPercent))
		case p.CPUPercent > 10:
			add(SeverityWarning, "Active background process",
				fmt.Sprintf("%s (pid %d) is using %.0f%% CPU.", p.Name, p.PID, p.CPUPercent))
		}
	}

	return warnings
}
