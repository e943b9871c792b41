package runner

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/johanmcad/workbench/internal/bench"
	"github.com/johanmcad/workbench/internal/config"
	"github.com/johanmcad/workbench/internal/model"
	"github.com/johanmcad/workbench/internal/scoring"
	"github.com/johanmcad/workbench/internal/sysinfo"
)

// Event is one item on the run's event stream. The concrete types are
// Progress, TestComplete, UnitError, AllComplete and Cancelled; exactly one
// of the last two terminates every stream, after which the channel closes.
type Event interface {
	isEvent()
}

// Progress reports a unit's fractional progress. OverallProgress is the
// unit's position in the list (index/total); it advances per unit, not per
// update, so a consumer can render both bars independently.
type Progress struct {
	UnitID          string
	UnitName        string
	Message         string
	UnitProgress    float64
	OverallProgress float64
}

// TestComplete carries the result of a unit that finished successfully.
type TestComplete struct {
	Result model.TestResult
}

// UnitError reports a unit that failed. The run continues with the next
// unit; the failed unit contributes no result.
type UnitError struct {
	UnitID string
	Err    error
}

// AllComplete is the terminal event of a run that was not cancelled. It
// carries the finished run record and its computed scores.
type AllComplete struct {
	Run    *model.BenchmarkRun
	Scores model.Scores
}

// Cancelled is the terminal event of a cancelled run. Partial results are
// discarded; a cancelled run is never scored or persisted.
type Cancelled struct{}

func (Progress) isEvent()     {}
func (TestComplete) isEvent() {}
func (UnitError) isEvent()    {}
func (AllComplete) isEvent()  {}
func (Cancelled) isEvent()    {}

// eventBuffer absorbs Progress bursts so units rarely block on a
// consumer that is between reads.
const eventBuffer = 256

// ErrAlreadyRunning is returned by Start while a previous run is active.
var ErrAlreadyRunning = errors.New("runner: a run is already in progress")

// Runner executes benchmark runs, one at a time.
type Runner struct {
	log *slog.Logger

	// collectInfo is swappable so tests run without touching the host.
	collectInfo func() (model.SystemInfo, error)

	mu        sync.Mutex
	running   bool
	cancelled *atomic.Bool
}

// New returns a Runner that logs through logger and stamps runs with the
// live system description.
func New(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		log:         logger,
		collectInfo: sysinfo.Collect,
	}
}

// IsRunning reports whether a run is in progress.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Cancel requests cancellation of the active run. It returns immediately;
// the run ends when the current unit observes the flag. Calling Cancel
// with no active run is a no-op.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		r.cancelled.Store(true)
	}
}

// Start launches a run over units and returns its event stream. The
// channel is closed after the terminal event. Only one run may be active;
// a second Start returns ErrAlreadyRunning.
func (r *Runner) Start(units []bench.Benchmark, cfg *config.RunConfig) (<-chan Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return nil, ErrAlreadyRunning
	}

	// Fresh flag per run so a stale Cancel cannot leak into this one.
	r.running = true
	r.cancelled = &atomic.Bool{}

	events := make(chan Event, eventBuffer)
	go r.work(units, cfg, r.cancelled, events)
	return events, nil
}

func (r *Runner) work(units []bench.Benchmark, cfg *config.RunConfig, flag *atomic.Bool, events chan Event) {
	defer func() {
		// Release the running flag before the channel closes so a consumer
		// that drains to close can immediately Start again.
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
		close(events)
	}()

	info, err := r.collectInfo()
	if err != nil {
		r.log.Warn("system info collection failed, run proceeds without it", "err", err)
	}

	machine := cfg.MachineName
	if machine == "" {
		machine = info.Hostname
	}
	run := model.NewRun(machine, info)
	total := len(units)

	r.log.Info("run started", "run_id", run.ID, "units", total, "machine", machine)
	start := time.Now()

	for i, unit := range units {
		if flag.Load() {
			r.log.Info("run cancelled", "run_id", run.ID, "completed_units", i)
			events <- Cancelled{}
			return
		}

		overall := float64(i) / float64(total)
		events <- Progress{
			UnitID:          unit.ID(),
			UnitName:        unit.Name(),
			Message:         fmt.Sprintf("Starting %s", unit.Name()),
			OverallProgress: overall,
		}

		sink := &runSink{events: events, flag: flag, unit: unit, overall: overall}
		res, err := unit.Run(sink, cfg)
		switch {
		case errors.Is(err, bench.ErrCancelled):
			// The cancellation path above emits the terminal event.
			continue
		case err != nil:
			r.log.Error("unit failed", "unit", unit.ID(), "err", err)
			events <- UnitError{UnitID: unit.ID(), Err: err}
		default:
			r.log.Info("unit complete", "unit", unit.ID(),
				"value", res.Value, "unit_label", res.Unit, "score", res.Score)
			run.Results.Append(unit.Category(), res)
			events <- TestComplete{Result: res}
		}

		if i < total-1 && !flag.Load() && cfg.CooldownBetweenUnits > 0 {
			time.Sleep(cfg.CooldownBetweenUnits)
		}
	}

	if flag.Load() {
		r.log.Info("run cancelled", "run_id", run.ID, "completed_units", total)
		events <- Cancelled{}
		return
	}

	scores := scoring.Calculate(&run.Results)
	r.log.Info("run complete", "run_id", run.ID,
		"overall", scores.Overall, "rating", scores.Rating,
		"elapsed", time.Since(start).Round(time.Second))
	events <- AllComplete{Run: run, Scores: scores}
}

// runSink adapts the event stream and cancellation flag to one unit's
// ProgressSink. Every update is delivered; when the buffer fills the unit
// blocks until the consumer catches up.
type runSink struct {
	events  chan<- Event
	flag    *atomic.Bool
	unit    bench.Benchmark
	overall float64
}

func (s *runSink) Update(fraction float64, message string) {
	s.events <- Progress{
		UnitID:          s.unit.ID(),
		UnitName:        s.unit.Name(),
		Message:         message,
		UnitProgress:    fraction,
		OverallProgress: s.overall,
	}
}

func (s *runSink) IsCancelled() bool {
	return s.flag.Load()
}
