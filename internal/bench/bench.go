package bench

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/johanmcad/workbench/internal/config"
	"github.com/johanmcad/workbench/internal/model"
)

// ErrCancelled is returned by a unit that observed a cancellation request
// and aborted its work. The orchestrator treats it as cancellation, not as
// a unit failure.
var ErrCancelled = errors.New("bench: cancelled")

// ProgressSink receives progress updates from a running unit and exposes
// the run's shared cancellation signal. Units are expected to poll
// IsCancelled inside their inner loops; cancellation is cooperative, never
// preemptive.
type ProgressSink interface {
	// Update reports the unit's own fractional progress (0.0–1.0) with a
	// human-readable message.
	Update(fraction float64, message string)

	// IsCancelled reports whether the run has been cancelled.
	IsCancelled() bool
}

// Benchmark is one independently runnable, timed benchmark operation.
type Benchmark interface {
	// ID is a stable short identifier, unique across the unit list.
	ID() string

	// Name is the display name.
	Name() string

	// Description says what the unit measures.
	Description() string

	// Category decides which score bucket the result lands in.
	Category() model.Category

	// EstimatedDuration is a rough figure for progress display.
	EstimatedDuration() time.Duration

	// Synthetic distinguishes microbenchmarks from application-style
	// workloads. Informational only.
	Synthetic() bool

	// Run executes the unit to completion or cooperative cancellation.
	Run(sink ProgressSink, cfg *config.RunConfig) (model.TestResult, error)
}

// NopSink is a ProgressSink that discards updates and never cancels.
// Useful in tests and one-off invocations.
type NopSink struct{}

func (NopSink) Update(float64, string) {}
func (NopSink) IsCancelled() bool      { return false }

// checkCancel returns ErrCancelled when the sink reports cancellation.
func checkCancel(sink ProgressSink) error {
	if sink.IsCancelled() {
		return ErrCancelled
	}
	return nil
}

// unitDir returns the private work subtree for the named unit, freshly
// created. The per-unit name keeps subtrees disjoint by convention.
func unitDir(cfg *config.RunConfig, name string) (string, error) {
	root := cfg.WorkDir
	if root == "" {
		root = os.TempDir()
	}
	dir := filepath.Join(root, "workbench_"+name)
	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("clean work dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}
	return dir, nil
}
