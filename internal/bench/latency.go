package bench

import (
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/johanmcad/workbench/internal/config"
	"github.com/johanmcad/workbench/internal/model"
	"github.com/johanmcad/workbench/internal/scoring"
)

// ProcessSpawn measures how long it takes to start a trivial process.
// Security tooling that hooks process creation shows up directly here.
type ProcessSpawn struct{}

func (ProcessSpawn) ID() string                       { return "process_spawn" }
func (ProcessSpawn) Name() string                     { return "Process Spawn" }
func (ProcessSpawn) Category() model.Category         { return model.Responsiveness }
func (ProcessSpawn) EstimatedDuration() time.Duration { return 15 * time.Second }
func (ProcessSpawn) Synthetic() bool                  { return false }

func (ProcessSpawn) Description() string {
	return "Trivial process start time - simulates tool invocations and git hooks"
}

func spawnTarget() (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C", "exit"}
	}
	return "/bin/true", nil
}

func (b ProcessSpawn) Run(sink ProgressSink, cfg *config.RunConfig) (model.TestResult, error) {
	name, args := spawnTarget()

	// Warmup so the binary is cached.
	exec.Command(name, args...).Run()

	samples := make([]float64, 0, cfg.SpawnCount)
	for i := 0; i < cfg.SpawnCount; i++ {
		if err := checkCancel(sink); err != nil {
			return model.TestResult{}, err
		}
		if i%10 == 0 {
			sink.Update(float64(i)/float64(cfg.SpawnCount)*0.9,
				fmt.Sprintf("Spawn %d/%d", i, cfg.SpawnCount))
		}
		start := time.Now()
		if err := exec.Command(name, args...).Run(); err != nil {
			return model.TestResult{}, fmt.Errorf("spawn %s: %w", name, err)
		}
		samples = append(samples, float64(time.Since(start).Nanoseconds())/1e6)
	}

	details := summarize(samples, true)
	details.DurationSecs = sumOf(samples) / 1000
	mean := details.Mean

	sink.Update(1, "Complete")
	return model.TestResult{
		TestID:      b.ID(),
		Name:        b.Name(),
		Description: b.Description(),
		Value:       mean,
		Unit:        "ms",
		Score:       scoring.ProcessSpawn.Score(mean),
		MaxScore:    scoring.ProcessSpawn.Max,
		Details:     details,
	}, nil
}

// ThreadWake measures goroutine wake latency through an unbuffered channel
// ping-pong. Captures scheduler and power-state wake costs.
type ThreadWake struct{}

func (ThreadWake) ID() string                       { return "thread_wake" }
func (ThreadWake) Name() string                     { return "Thread Wake" }
func (ThreadWake) Category() model.Category         { return model.Responsiveness }
func (ThreadWake) EstimatedDuration() time.Duration { return 10 * time.Second }
func (ThreadWake) Synthetic() bool                  { return true }

func (ThreadWake) Description() string {
	return "Thread wake-up latency - simulates UI event dispatch and async handoff"
}

func (b ThreadWake) Run(sink ProgressSink, cfg *config.RunConfig) (model.TestResult, error) {
	ping := make(chan time.Time)
	pong := make(chan float64)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case sent := <-ping:
				pong <- float64(time.Since(sent).Nanoseconds()) / 1e3
			case <-done:
				return
			}
		}
	}()

	// Warmup gets the responder goroutine onto a running thread.
	for i := 0; i < 100; i++ {
		ping <- time.Now()
		<-pong
	}

	samples := make([]float64, 0, cfg.ThreadWakeCount)
	for i := 0; i < cfg.ThreadWakeCount; i++ {
		if i%500 == 0 {
			if err := checkCancel(sink); err != nil {
				return model.TestResult{}, err
			}
			sink.Update(float64(i)/float64(cfg.ThreadWakeCount)*0.9,
				fmt.Sprintf("Wake %d/%d", i, cfg.ThreadWakeCount))
		}
		ping <- time.Now()
		samples = append(samples, <-pong)
		// Let the responder park again so each ping is a real wake.
		time.Sleep(100 * time.Microsecond)
	}

	details := summarize(samples, true)
	details.DurationSecs = sumOf(samples) / 1e6
	median := details.Median

	sink.Update(1, "Complete")
	return model.TestResult{
		TestID:      b.ID(),
		Name:        b.Name(),
		Description: b.Description(),
		Value:       median,
		Unit:        "µs",
		Score:       scoring.ThreadWake.Score(median),
		MaxScore:    scoring.ThreadWake.Max,
		Details:     details,
	}, nil
}
