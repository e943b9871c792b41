package syscheck

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func pct(v float64) *float64 { return &v }

func TestDeriveWarningsThresholds(t *testing.T) {
	tests := []struct {
		name    string
		snap    Snapshot
		wantSev []Severity
	}{
		{"idle machine", Snapshot{CPUPercent: 3, AvailableBytes: 16 * gib}, nil},
		{"cpu warning band", Snapshot{CPUPercent: 35, AvailableBytes: 16 * gib},
			[]Severity{SeverityWarning}},
		{"cpu critical band", Snapshot{CPUPercent: 75, AvailableBytes: 16 * gib},
			[]Severity{SeverityCritical}},
		{"low memory", Snapshot{CPUPercent: 3, AvailableBytes: 3 * gib},
			[]Severity{SeverityWarning}},
		{"very low memory", Snapshot{CPUPercent: 3, AvailableBytes: 1 * gib},
			[]Severity{SeverityCritical}},
		{"battery low", Snapshot{CPUPercent: 3, AvailableBytes: 16 * gib,
			OnBattery: true, BatteryPercent: pct(30)}, []Severity{SeverityCritical}},
		{"battery mid", Snapshot{CPUPercent: 3, AvailableBytes: 16 * gib,
			OnBattery: true, BatteryPercent: pct(65)}, []Severity{SeverityWarning}},
		{"battery full", Snapshot{CPUPercent: 3, AvailableBytes: 16 * gib,
			OnBattery: true, BatteryPercent: pct(100)}, []Severity{SeverityInfo}},
		{"battery unknown charge", Snapshot{CPUPercent: 3, AvailableBytes: 16 * gib,
			OnBattery: true}, []Severity{SeverityInfo}},
		{"powersave governor", Snapshot{CPUPercent: 3, AvailableBytes: 16 * gib,
			PowerProfile: "powersave"}, []Severity{SeverityCritical}},
		{"balanced governor", Snapshot{CPUPercent: 3, AvailableBytes: 16 * gib,
			PowerProfile: "balanced"}, []Severity{SeverityInfo}},
		{"performance governor", Snapshot{CPUPercent: 3, AvailableBytes: 16 * gib,
			PowerProfile: "performance"}, nil},
		{"hungry process", Snapshot{CPUPercent: 3, AvailableBytes: 16 * gib,
			TopProcesses: []ProcessLoad{{PID: 7, Name: "indexer", CPUPercent: 40}}},
			[]Severity{SeverityCritical}},
		{"busy process", Snapshot{CPUPercent: 3, AvailableBytes: 16 * gib,
			TopProcesses: []ProcessLoad{{PID: 7, Name: "indexer", CPUPercent: 15}}},
			[]Severity{SeverityWarning}},
		{"quiet process below bars", Snapshot{CPUPercent: 3, AvailableBytes: 16 * gib,
			TopProcesses: []ProcessLoad{{PID: 7, Name: "indexer", CPUPercent: 8}}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deriveWarnings(tt.snap)
			if len(got) != len(tt.wantSev) {
				t.Fatalf("warnings = %+v, want %d with severities %v", got, len(tt.wantSev), tt.wantSev)
			}
			for i, w := range got {
				if w.Severity != tt.wantSev[i] {
					t.Errorf("warning %d severity = %q, want %q", i, w.Severity, tt.wantSev[i])
				}
			}
		})
	}
}

func newFakeChecker(snap Snapshot) *Checker {
	c := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.samples = 2
	c.interval = time.Millisecond
	c.cpuPercent = func(time.Duration) (float64, error) { return snap.CPUPercent, nil }
	c.memAvailable = func() (uint64, error) { return snap.AvailableBytes, nil }
	c.powerSource = func() (bool, *float64) { return snap.OnBattery, snap.BatteryPercent }
	c.powerProfile = func() string { return snap.PowerProfile }
	c.processes = func() ([]ProcessLoad, error) { return snap.TopProcesses, nil }
	return c
}

func TestCheckReadyOnQuietSystem(t *testing.T) {
	c := newFakeChecker(Snapshot{CPUPercent: 5, AvailableBytes: 24 * gib, PowerProfile: "performance"})
	report, err := c.Check()
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !report.ReadyToBenchmark {
		t.Errorf("ReadyToBenchmark = false on a quiet system: %+v", report.Warnings)
	}
	if len(report.Warnings) != 0 {
		t.Errorf("warnings = %+v, want none", report.Warnings)
	}
}

func TestCheckNotReadyOnCritical(t *testing.T) {
	c := newFakeChecker(Snapshot{CPUPercent: 80, AvailableBytes: 24 * gib})
	report, err := c.Check()
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if report.ReadyToBenchmark {
		t.Error("ReadyToBenchmark = true despite critical CPU load")
	}
	if report.CPUPercent != 80 {
		t.Errorf("CPUPercent = %v, want 80", report.CPUPercent)
	}
}

func TestWarningsOnlyDontBlock(t *testing.T) {
	c := newFakeChecker(Snapshot{CPUPercent: 30, AvailableBytes: 3 * gib, PowerProfile: "balanced"})
	report, err := c.Check()
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !report.ReadyToBenchmark {
		t.Error("ReadyToBenchmark = false with no critical warning")
	}
	if len(report.Warnings) != 3 {
		t.Errorf("warnings = %d (%+v), want 3", len(report.Warnings), report.Warnings)
	}
}
