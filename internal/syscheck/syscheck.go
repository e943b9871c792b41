package syscheck

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

const (
	cpuSamples        = 5
	cpuSampleInterval = 500 * time.Millisecond

	// Processes below this share are background noise, not findings.
	processReportFloor = 5.0
	topProcessCount    = 10
)

// ProcessLoad is one busy process observed during the check.
type ProcessLoad struct {
	PID        int32   `json:"pid"`
	Name       string  `json:"name"`
	CPUPercent float64 `json:"cpu_percent"`
}

// Snapshot is the raw system state gathered by one check.
type Snapshot struct {
	CPUPercent     float64 `json:"cpu_percent"`
	AvailableBytes uint64  `json:"available_bytes"`

	// OnBattery and BatteryPercent describe the power source.
	// BatteryPercent is nil when the charge level is unknown.
	OnBattery      bool     `json:"on_battery"`
	BatteryPercent *float64 `json:"battery_percent,omitempty"`

	// PowerProfile is the active governor or plan; empty when the
	// platform does not expose one.
	PowerProfile string `json:"power_profile,omitempty"`

	TopProcesses []ProcessLoad `json:"top_processes"`
}

// Report is a snapshot plus the warnings derived from it.
type Report struct {
	Snapshot

	Warnings []Warning `json:"warnings"`

	// ReadyToBenchmark is false when any warning is critical. It is
	// advice for the operator; the runner does not consult it.
	ReadyToBenchmark bool `json:"ready_to_benchmark"`
}

// Checker performs pre-flight system checks.
type Checker struct {
	log *slog.Logger

	interval time.Duration
	samples  int

	// Probes are swappable so tests run against fixed state.
	cpuPercent   func(interval time.Duration) (float64, error)
	memAvailable func() (uint64, error)
	powerSource  func() (onBattery bool, percent *float64)
	powerProfile func() string
	processes    func() ([]ProcessLoad, error)
}

// New returns a Checker backed by live system probes.
func New(logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{
		log:          logger,
		interval:     cpuSampleInterval,
		samples:      cpuSamples,
		cpuPercent:   sampleCPU,
		memAvailable: availableMemory,
		powerSource:  readPowerSource,
		powerProfile: readPowerProfile,
		processes:    busyProcesses,
	}
}

// Check gathers a snapshot and derives its warnings. CPU load is averaged
// over several spaced samples, so the call blocks for a few seconds.
func (c *Checker) Check() (*Report, error) {
	var snap Snapshot

	c.log.Info("sampling cpu load", "samples", c.samples, "interval", c.interval)
	var total float64
	for i := 0; i < c.samples; i++ {
		pct, err := c.cpuPercent(c.interval)
		if err != nil {
			return nil, fmt.Errorf("syscheck: cpu sample: %w", err)
		}
		total += pct
	}
	snap.CPUPercent = total / float64(c.samples)

	avail, err := c.memAvailable()
	if err != nil {
		return nil, fmt.Errorf("syscheck: memory: %w", err)
	}
	snap.AvailableBytes = avail

	snap.OnBattery, snap.BatteryPercent = c.powerSource()
	snap.PowerProfile = c.powerProfile()

	procs, err := c.processes()
	if err != nil {
		// Process inspection is allowed to fail (restricted containers);
		// the rest of the report still stands.
		c.log.Warn("process inspection failed", "err", err)
	}
	snap.TopProcesses = procs

	warnings := deriveWarnings(snap)
	ready := true
	for _, w := range warnings {
		if w.Severity == SeverityCritical {
			ready = false
			break
		}
	}

	return &Report{Snapshot: snap, Warnings: warnings, ReadyToBenchmark: ready}, nil
}

func sampleCPU(interval time.Duration) (float64, error) {
	pcts, err := cpu.Percent(interval, false)
	if err != nil {
		return 0, err
	}
	if len(pcts) == 0 {
		return 0, fmt.Errorf("no cpu usage reported")
	}
	return pcts[0], nil
}

func availableMemory() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.Available, nil
}

// busyProcesses returns the top CPU consumers above the report floor,
// excluding this process.
func busyProcesses() ([]ProcessLoad, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}

	self := int32(os.Getpid())
	var loads []ProcessLoad
	for _, p := range procs {
		if p.Pid == self {
			continue
		}
		pct, err := p.CPUPercent()
		if err != nil || pct <= processReportFloor {
			continue
		}
		name, err := p.Name()
		if err != nil {
			name = fmt.Sprintf("pid %d", p.Pid)
		}
		loads = append(loads, ProcessLoad{PID: p.Pid, Name: name, CPUPercent: pct})
	}

	sort.Slice(loads, func(i, j int) bool { return loads[i].CPUPercent > loads[j].CPUPercent })
	if len(loads) > topProcessCount {
		loads = loads[:topProcessCount]
	}
	return loads, nil
}
