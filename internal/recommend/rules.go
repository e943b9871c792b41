package recommend

import (
	"fmt"

	"github.com/johanmcad/workbench/internal/model"
)

// ruleInput is what every rule sees: the finished run and the optional
// community percentile ranks keyed by test ID. Ranks is nil when no
// community context was supplied.
type ruleInput struct {
	run   *model.BenchmarkRun
	ranks map[string]float64
}

// rank returns the community percentile for a test and whether one exists.
func (in ruleInput) rank(testID string) (float64, bool) {
	if in.ranks == nil {
		return 0, false
	}
	r, ok := in.ranks[testID]
	return r, ok
}

func (in ruleInput) value(testID string) (float64, bool) {
	res, ok := in.run.Results.Find(testID)
	return res.Value, ok
}

// rule inspects the input and returns a recommendation or nil.
type rule func(in ruleInput) *Recommendation

// rules run in this order. Order matters only for position within a
// priority band after the stable sort; each rule is independent.
var rules = []rule{
	ruleUpgradeToSSD,
	ruleOptimizeSSD,
	ruleOptimizeFileSystem,
	ruleCPUUpgrade,
	ruleCheckThermal,
	ruleAddRAM,
	ruleOptimizeRAM,
	ruleScanExclusions,
	ruleShellStartup,
	ruleStartupPrograms,
	rulePowerPlan,
}

// ruleUpgradeToSSD fires when every detected storage device is spinning.
func ruleUpgradeToSSD(in ruleInput) *Recommendation {
	storage := in.run.SystemInfo.Storage
	if len(storage) == 0 {
		return nil
	}
	sawHDD := false
	for _, dev := range storage {
		if dev.DeviceType.Solid() {
			return nil
		}
		if dev.DeviceType == model.StorageHDD {
			sawHDD = true
		}
	}
	if !sawHDD {
		return nil
	}
	return &Recommendation{
		ID:                  "upgrade_to_ssd",
		Title:               "Replace the hard disk with an SSD",
		Description:         "All detected storage is mechanical. An SSD is the single largest upgrade for project loads, builds and indexing.",
		Category:            CategoryHardware,
		Priority:            PriorityHigh,
		ExpectedImprovement: "10-50x faster file operations, 2-5x faster builds",
		HowToApply: []string{
			"A SATA SSD is the budget option; NVMe is noticeably faster for builds",
			"500 GB to 1 TB covers most development work",
			"Clone the existing drive or reinstall onto the new one",
			"Verify TRIM is enabled after installation",
		},
		AffectedTests: []string{
			"random_read",
			"file_enumeration",
			"traversal",
			"large_file_read",
		},
	}
}

// ruleOptimizeSSD fires on slow random reads from a solid-state device:
// either the machine ranks in the community's bottom quartile, or no rank
// context exists and the raw latency alone is damning.
func ruleOptimizeSSD(in ruleInput) *Recommendation {
	hasSolid := false
	for _, dev := range in.run.SystemInfo.Storage {
		if dev.DeviceType.Solid() {
			hasSolid = true
			break
		}
	}
	if !hasSolid {
		return nil
	}
	p99, ok := in.value("random_read")
	if !ok || p99 <= 5 {
		return nil
	}
	if r, ok := in.rank("random_read"); ok && r >= 25 {
		return nil
	}
	return &Recommendation{
		ID:                  "optimize_ssd",
		Title:               "Investigate SSD latency",
		Description:         fmt.Sprintf("Random-read P99 latency is %.1f ms on solid-state storage. Check drive health, free space and encryption overhead.", p99),
		Category:            CategorySoftware,
		Priority:            PriorityMedium,
		ExpectedImprovement: "20-40% faster random file access",
		HowToApply: []string{
			"Verify TRIM is enabled for the drive",
			"Update the SSD firmware from the vendor",
			"Check drive health and remaining endurance with the vendor tool",
			"Keep at least 10-20% of the drive free",
		},
		AffectedTests: []string{"random_read"},
	}
}

func ruleOptimizeFileSystem(in ruleInput) *Recommendation {
	rate, ok := in.value("file_enumeration")
	if !ok || rate >= 50_000 {
		return nil
	}
	return &Recommendation{
		ID:                  "optimize_file_system",
		Title:               "Improve file enumeration speed",
		Description:         fmt.Sprintf("Directory enumeration runs at %.0f files/sec. Filesystem tuning or fewer on-access hooks usually recovers most of this.", rate),
		Category:            CategorySoftware,
		Priority:            PriorityMedium,
		ExpectedImprovement: "10-30% faster directory listings",
		HowToApply: []string{
			"Disable last-access-time updates on the work volume",
			"Disable legacy short-name generation if the filesystem supports it",
			"Exclude source and build trees from indexing services",
		},
		AffectedTests: []string{
			"file_enumeration",
			"traversal",
			"metadata_ops",
		},
	}
}

var cpuTestIDs = []string{"single_thread", "multi_thread", "mixed_workload"}

// ruleCPUUpgrade fires when every available CPU-test rank puts the machine
// in the community's bottom quartile. Without rank context it stays silent;
// raw throughput alone cannot separate an old CPU from a throttled one.
func ruleCPUUpgrade(in ruleInput) *Recommendation {
	found := 0
	for _, id := range cpuTestIDs {
		r, ok := in.rank(id)
		if !ok {
			continue
		}
		if r >= 25 {
			return nil
		}
		found++
	}
	if found == 0 {
		return nil
	}
	return &Recommendation{
		ID:                  "cpu_upgrade",
		Title:               "Consider a CPU upgrade",
		Description:         "Every CPU benchmark ranks in the bottom quartile of comparable machines.",
		Category:            CategoryHardware,
		Priority:            PriorityMedium,
		ExpectedImprovement: "30-100% faster builds depending on the part",
		HowToApply: []string{
			"Eight or more cores is the comfortable baseline for development",
			"Check that the board and power supply can take the new part",
			"A platform swap may be cheaper than a top-end drop-in CPU",
		},
		AffectedTests: []string{
			"single_thread",
			"multi_thread",
			"mixed_workload",
		},
	}
}

// ruleCheckThermal compares measured multi-core throughput against the
// ideal scale-up from the single-core figure. Falling below half of a 70%
// scaling expectation points at thermal or power throttling.
func ruleCheckThermal(in ruleInput) *Recommendation {
	single, ok1 := in.value("single_thread")
	multi, ok2 := in.value("multi_thread")
	threads := float64(in.run.SystemInfo.CPU.Threads)
	if !ok1 || !ok2 || threads < 2 {
		return nil
	}
	expected := single * threads * 0.7
	if multi >= 0.5*expected {
		return nil
	}
	return &Recommendation{
		ID:                  "check_thermal",
		Title:               "Check cooling and power limits",
		Description:         fmt.Sprintf("Multi-core throughput (%.0f MB/s) is far below what %d threads at the single-core rate should deliver. The CPU is likely throttling.", multi, int(threads)),
		Category:            CategoryHardware,
		Priority:            PriorityHigh,
		ExpectedImprovement: "20-50% faster multi-core throughput",
		HowToApply: []string{
			"Watch CPU temperatures under a full load",
			"Clean dust from the cooler and case fans",
			"Reapply thermal paste if the CPU exceeds 90C under load",
			"Replace a stock cooler that cannot hold boost clocks",
		},
		AffectedTests: []string{
			"multi_thread",
			"mixed_workload",
			"sustained_write",
		},
	}
}

func ruleAddRAM(in ruleInput) *Recommendation {
	totalGB := in.run.SystemInfo.Memory.TotalGB()
	if totalGB == 0 || totalGB >= 16 {
		return nil
	}
	priority := PriorityMedium
	if totalGB < 8 {
		priority = PriorityHigh
	}
	return &Recommendation{
		ID:                  "add_ram",
		Title:               "Add memory",
		Description:         fmt.Sprintf("%.0f GiB of RAM is below the comfortable floor for development workloads; 16 GiB or more avoids swap pressure.", totalGB),
		Category:            CategoryHardware,
		Priority:            priority,
		ExpectedImprovement: "Less swapping, faster context switches",
		HowToApply: []string{
			"Check how many slots are free and the board's supported capacity",
			"Match the speed and timings of the installed modules",
			"16 GiB is the working minimum, 32 GiB for container or VM work",
		},
		AffectedTests: []string{
			"memory_bandwidth",
			"process_spawn",
		},
	}
}

func ruleOptimizeRAM(in ruleInput) *Recommendation {
	r, ok := in.rank("memory_bandwidth")
	if !ok || r >= 25 {
		return nil
	}
	bw, ok := in.value("memory_bandwidth")
	if !ok || bw >= 20 {
		return nil
	}
	return &Recommendation{
		ID:                  "optimize_ram",
		Title:               "Check memory configuration",
		Description:         fmt.Sprintf("Memory bandwidth is %.1f GB/s and ranks in the bottom quartile. A single-channel layout or default (non-XMP) timings are the usual causes.", bw),
		Category:            CategoryHardware,
		Priority:            PriorityMedium,
		ExpectedImprovement: "20-50% faster memory operations",
		HowToApply: []string{
			"Install modules in the paired slots for dual-channel operation",
			"Enable the XMP or DOCP profile in firmware for the rated speed",
			"Confirm the effective speed in the OS after the change",
		},
		AffectedTests: []string{
			"memory_bandwidth",
			"memory_latency",
		},
	}
}

// ruleScanExclusions estimates on-access scanner interference from the
// spread of the enumeration passes: over identical work, a clean system
// repeats within a few percent, while scanners inject wildly uneven stalls.
func ruleScanExclusions(in ruleInput) *Recommendation {
	res, ok := in.run.Results.Find("file_enumeration")
	if !ok || res.Details.Min <= 0 {
		return nil
	}
	overhead := (res.Details.Max - res.Details.Min) / res.Details.Min * 100
	if overhead <= 30 {
		return nil
	}
	priority := PriorityMedium
	if overhead > 50 {
		priority = PriorityHigh
	}
	return &Recommendation{
		ID:                  "configure_scan_exclusions",
		Title:               "Exclude work directories from real-time scanning",
		Description:         fmt.Sprintf("Enumeration passes over identical data varied by %.0f%%, which matches on-access scanner interference. Exclude source and build trees from real-time scanning.", overhead),
		Category:            CategorySoftware,
		Priority:            priority,
		ExpectedImprovement: fmt.Sprintf("Up to %.0f%% faster file operations", overhead),
		HowToApply: []string{
			"Add folder exclusions for source checkouts, build output and package caches",
			"Add process exclusions for the compiler and the editor",
			"Only exclude directories you control",
		},
		AffectedTests: []string{
			"file_enumeration",
			"traversal",
			"metadata_ops",
		},
	}
}

func ruleShellStartup(in ruleInput) *Recommendation {
	ms, ok := in.value("script_spawn")
	if !ok || ms <= 500 {
		return nil
	}
	return &Recommendation{
		ID:                  "optimize_shell_startup",
		Title:               "Trim shell startup",
		Description:         fmt.Sprintf("A trivial script takes %.0f ms to run. Heavy shell profiles slow every build step that shells out.", ms),
		Category:            CategorySoftware,
		Priority:            PriorityLow,
		ExpectedImprovement: "20-40% faster script execution",
		HowToApply: []string{
			"Profile the shell startup files and remove slow initialisation",
			"Lazy-load completion and version-manager hooks",
			"Prefer a newer shell release if one is available",
		},
		AffectedTests: []string{"script_spawn"},
	}
}

func ruleStartupPrograms(in ruleInput) *Recommendation {
	ms, ok := in.value("process_spawn")
	if !ok || ms <= 50 {
		return nil
	}
	return &Recommendation{
		ID:                  "review_startup_programs",
		Title:               "Review background and security software",
		Description:         fmt.Sprintf("Starting a trivial process averages %.0f ms. Process-creation hooks from security or monitoring agents are the usual cause.", ms),
		Category:            CategorySoftware,
		Priority:            PriorityLow,
		ExpectedImprovement: "10-20% faster process creation",
		HowToApply: []string{
			"Disable autostart entries you do not need",
			"Review running services and agents for ones that hook process creation",
			"Remove preinstalled software you never use",
		},
		AffectedTests: []string{
			"process_spawn",
			"thread_wake",
		},
	}
}

// rulePowerPlan always fires; deduplication drops it if a more specific
// power recommendation ever carries the same ID.
func rulePowerPlan(in ruleInput) *Recommendation {
	return &Recommendation{
		ID:                  "power_plan",
		Title:               "Verify the active power plan",
		Description:         "Make sure a high-performance power plan is active while benchmarking and building.",
		Category:            CategorySoftware,
		Priority:            PriorityLow,
		ExpectedImprovement: "5-15% faster CPU-bound work",
		HowToApply: []string{
			"Switch the OS power mode to its highest-performance setting",
			"On laptops, keep the machine on mains power during long builds",
		},
		AffectedTests: []string{
			"single_thread",
			"multi_thread",
		},
	}
}
