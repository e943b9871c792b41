package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johanmcad/workbench/internal/model"
)

func gb(n float64) uint64 { return uint64(n * 1024 * 1024 * 1024) }

func baselineRun() *model.BenchmarkRun {
	run := model.NewRun("dev-box", model.SystemInfo{
		Hostname: "dev-box",
		CPU:      model.CPUInfo{Name: "AMD Ryzen 9 5950X 16-Core Processor", Cores: 16, Threads: 32},
		Memory:   model.MemoryInfo{TotalBytes: gb(32)},
		Storage: []model.StorageInfo{
			{Name: "nvme0n1", DeviceType: model.StorageNVMe, CapacityBytes: gb(1000)},
		},
	})
	add := func(cat model.Category, id string, value float64, details model.TestDetails) {
		run.Results.Append(cat, model.TestResult{TestID: id, Name: id, Value: value, Details: details})
	}
	add(model.ProjectOperations, "file_enumeration", 80_000,
		model.TestDetails{Min: 100, Max: 105, Median: 102})
	add(model.ProjectOperations, "random_read", 0.8, model.TestDetails{})
	add(model.BuildPerformance, "single_thread", 450, model.TestDetails{})
	add(model.BuildPerformance, "multi_thread", 6_000, model.TestDetails{})
	add(model.BuildPerformance, "mixed_workload", 800, model.TestDetails{})
	add(model.BuildPerformance, "script_spawn", 40, model.TestDetails{})
	add(model.Responsiveness, "memory_bandwidth", 45, model.TestDetails{})
	add(model.Responsiveness, "process_spawn", 8, model.TestDetails{})
	return run
}

func ids(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func TestHealthyMachineGetsOnlyFallback(t *testing.T) {
	report := Analyze(baselineRun(), nil)
	require.Len(t, report.Recommendations, 1)
	assert.Equal(t, "power_plan", report.Recommendations[0].ID)
	assert.Equal(t, PriorityLow, report.Recommendations[0].Priority)
	assert.Nil(t, report.OverallPercentile)
}

func TestHDDOnlyMachine(t *testing.T) {
	run := baselineRun()
	run.SystemInfo.Storage = []model.StorageInfo{
		{Name: "sda", DeviceType: model.StorageHDD, CapacityBytes: gb(500)},
	}
	report := Analyze(run, nil)
	assert.Contains(t, ids(report.Recommendations), "upgrade_to_ssd")
	// The SSD-specific rule must not fire alongside the upgrade advice.
	assert.NotContains(t, ids(report.Recommendations), "optimize_ssd")
	assert.Equal(t, PriorityHigh, report.Recommendations[0].Priority)
}

func TestSlowSSDNeedsBadRankOrNoRank(t *testing.T) {
	run := baselineRun()
	for i := range run.Results.ProjectOperations {
		if run.Results.ProjectOperations[i].TestID == "random_read" {
			run.Results.ProjectOperations[i].Value = 12 // ms P99
		}
	}

	// No rank context: raw latency alone fires the rule.
	assert.Contains(t, ids(Analyze(run, nil).Recommendations), "optimize_ssd")

	// Bottom-quartile rank: fires.
	assert.Contains(t,
		ids(Analyze(run, map[string]float64{"random_read": 10}).Recommendations),
		"optimize_ssd")

	// Healthy rank: the whole cohort is slow, not this machine.
	assert.NotContains(t,
		ids(Analyze(run, map[string]float64{"random_read": 60}).Recommendations),
		"optimize_ssd")
}

func TestCPUUpgradeRequiresUnanimousBadRanks(t *testing.T) {
	run := baselineRun()

	allBad := map[string]float64{"single_thread": 5, "multi_thread": 10, "mixed_workload": 20}
	assert.Contains(t, ids(Analyze(run, allBad).Recommendations), "cpu_upgrade")

	oneGood := map[string]float64{"single_thread": 5, "multi_thread": 80, "mixed_workload": 20}
	assert.NotContains(t, ids(Analyze(run, oneGood).Recommendations), "cpu_upgrade")

	assert.NotContains(t, ids(Analyze(run, nil).Recommendations), "cpu_upgrade")
}

func TestThermalThrottleDetection(t *testing.T) {
	run := baselineRun()
	// 32 threads at 450 MB/s single should scale to ~10000; 2000 is
	// far below half of that.
	for i := range run.Results.BuildPerformance {
		if run.Results.BuildPerformance[i].TestID == "multi_thread" {
			run.Results.BuildPerformance[i].Value = 2_000
		}
	}
	report := Analyze(run, nil)
	require.Contains(t, ids(report.Recommendations), "check_thermal")
	assert.Equal(t, "check_thermal", report.Recommendations[0].ID)
	assert.Equal(t, PriorityHigh, report.Recommendations[0].Priority)
}

func TestRAMRules(t *testing.T) {
	run := baselineRun()
	run.SystemInfo.Memory.TotalBytes = gb(12)
	report := Analyze(run, nil)
	require.Contains(t, ids(report.Recommendations), "add_ram")
	for _, rec := range report.Recommendations {
		if rec.ID == "add_ram" {
			assert.Equal(t, PriorityMedium, rec.Priority)
		}
	}

	run.SystemInfo.Memory.TotalBytes = gb(6)
	report = Analyze(run, nil)
	for _, rec := range report.Recommendations {
		if rec.ID == "add_ram" {
			assert.Equal(t, PriorityHigh, rec.Priority)
		}
	}
}

func TestScanExclusionsFromEnumerationSpread(t *testing.T) {
	run := baselineRun()
	for i := range run.Results.ProjectOperations {
		if run.Results.ProjectOperations[i].TestID == "file_enumeration" {
			run.Results.ProjectOperations[i].Details = model.TestDetails{Min: 100, Max: 170}
		}
	}
	report := Analyze(run, nil)
	require.Contains(t, ids(report.Recommendations), "configure_scan_exclusions")
	for _, rec := range report.Recommendations {
		if rec.ID == "configure_scan_exclusions" {
			assert.Equal(t, PriorityHigh, rec.Priority, "70%% spread is above the 50%% high bar")
		}
	}
}

func TestPrioritySortIsStable(t *testing.T) {
	run := baselineRun()
	run.SystemInfo.Memory.TotalBytes = gb(6) // add_ram High
	for i := range run.Results.BuildPerformance {
		switch run.Results.BuildPerformance[i].TestID {
		case "script_spawn":
			run.Results.BuildPerformance[i].Value = 900 // optimize_shell_startup Low
		case "multi_thread":
			run.Results.BuildPerformance[i].Value = 2_000 // check_thermal High
		}
	}
	report := Analyze(run, nil)

	var last int
	for _, rec := range report.Recommendations {
		order := rec.Priority.sortOrder()
		assert.GreaterOrEqual(t, order, last, "priorities must be non-decreasing")
		last = order
	}
	// Within the High band the rule order is preserved.
	require.GreaterOrEqual(t, len(report.Recommendations), 2)
	assert.Equal(t, "check_thermal", report.Recommendations[0].ID)
	assert.Equal(t, "add_ram", report.Recommendations[1].ID)
}

func TestOverallPercentile(t *testing.T) {
	run := baselineRun()

	report := Analyze(run, map[string]float64{"a": 40, "b": 60, "c": 80})
	require.NotNil(t, report.OverallPercentile)
	assert.InDelta(t, 60, *report.OverallPercentile, 1e-9)

	report = Analyze(run, map[string]float64{})
	require.NotNil(t, report.OverallPercentile)
	assert.Equal(t, 50.0, *report.OverallPercentile)

	assert.Nil(t, Analyze(run, nil).OverallPercentile)
}

func TestRecommendationsCarryFullAdvice(t *testing.T) {
	// Force a broad mix of rules and check every emitted recommendation
	// is complete enough to act on.
	run := baselineRun()
	run.SystemInfo.Storage = []model.StorageInfo{
		{Name: "sda", DeviceType: model.StorageHDD, CapacityBytes: gb(500)},
	}
	run.SystemInfo.Memory.TotalBytes = gb(6)
	for i := range run.Results.BuildPerformance {
		if run.Results.BuildPerformance[i].TestID == "script_spawn" {
			run.Results.BuildPerformance[i].Value = 900
		}
	}

	report := Analyze(run, nil)
	require.GreaterOrEqual(t, len(report.Recommendations), 4)
	for _, rec := range report.Recommendations {
		assert.NotEmpty(t, rec.Description, "%s description", rec.ID)
		assert.Contains(t, []Category{CategorySoftware, CategoryHardware}, rec.Category, "%s category", rec.ID)
		assert.NotEmpty(t, rec.ExpectedImprovement, "%s expected improvement", rec.ID)
		assert.NotEmpty(t, rec.HowToApply, "%s steps", rec.ID)
		assert.NotEmpty(t, rec.AffectedTests, "%s affected tests", rec.ID)
	}

	for _, rec := range report.Recommendations {
		switch rec.ID {
		case "upgrade_to_ssd":
			assert.Equal(t, CategoryHardware, rec.Category)
			assert.Contains(t, rec.AffectedTests, "random_read")
			assert.Contains(t, rec.AffectedTests, "file_enumeration")
		case "optimize_shell_startup":
			assert.Equal(t, CategorySoftware, rec.Category)
			assert.Equal(t, []string{"script_spawn"}, rec.AffectedTests)
		}
	}
}

func TestDuplicateRuleIDsCollapseToFirst(t *testing.T) {
	// A second rule emitting the power_plan ID must not produce a second
	// entry, and the surviving entry keeps its position in rule order.
	saved := rules
	defer func() { rules = saved }()
	rules = append(append([]rule{}, saved...), func(in ruleInput) *Recommendation {
		return &Recommendation{
			ID:       "power_plan",
			Title:    "duplicate",
			Priority: PriorityHigh,
		}
	})

	report := Analyze(baselineRun(), nil)

	count := 0
	for _, rec := range report.Recommendations {
		if rec.ID == "power_plan" {
			count++
			assert.Equal(t, "Verify the active power plan", rec.Title,
				"the first occurrence wins")
			assert.Equal(t, PriorityLow, rec.Priority)
		}
	}
	assert.Equal(t, 1, count)
}

func TestDedupeKeepsFirstOccurrenceInOrder(t *testing.T) {
	recs := []Recommendation{
		{ID: "a", Title: "first a"},
		{ID: "b"},
		{ID: "a", Title: "second a"},
		{ID: "c"},
		{ID: "b"},
	}
	out := dedupe(recs)
	require.Equal(t, []string{"a", "b", "c"}, ids(out))
	assert.Equal(t, "first a", out[0].Title)
}

func TestDetectDeviceType(t *testing.T) {
	tests := []struct {
		name string
		info model.SystemInfo
		want DeviceType
	}{
		{"vdi hostname", model.SystemInfo{Hostname: "VDI-0042",
			CPU: model.CPUInfo{Name: "Intel Xeon Gold 6338", Cores: 8}}, DeviceVDI},
		{"vmware hostname", model.SystemInfo{Hostname: "vmware-img-3"}, DeviceVDI},
		{"intel mobile suffix", model.SystemInfo{Hostname: "think-01",
			CPU: model.CPUInfo{Name: "Intel Core i7-8650U", Cores: 4}}, DeviceLaptop},
		{"amd mobile suffix", model.SystemInfo{Hostname: "book",
			CPU: model.CPUInfo{Name: "AMD Ryzen 7 7840HS", Cores: 8}}, DeviceLaptop},
		{"unlocked desktop part", model.SystemInfo{Hostname: "tower",
			CPU: model.CPUInfo{Name: "Intel Core i9-13700K", Cores: 16}}, DeviceDesktop},
		{"ryzen 9 desktop", model.SystemInfo{Hostname: "tower",
			CPU: model.CPUInfo{Name: "AMD Ryzen 9 5950X", Cores: 16}}, DeviceDesktop},
		{"few cores stays unknown", model.SystemInfo{Hostname: "box",
			CPU: model.CPUInfo{Name: "Intel Core i3-9100K", Cores: 4}}, DeviceUnknown},
		{"no signal", model.SystemInfo{Hostname: "host",
			CPU: model.CPUInfo{Name: "Intel Core i5-9400", Cores: 6}}, DeviceUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDeviceType(tt.info))
		})
	}
}
