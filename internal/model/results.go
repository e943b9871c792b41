package model

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Category is one of the fixed groupings used for score aggregation.
type Category int

const (
	ProjectOperations Category = iota
	BuildPerformance
	Responsiveness
	Graphics
)

// CategoryMaxScore is the fixed score ceiling of each core category.
const CategoryMaxScore = 2500

// Label returns the display name for the category.
func (c Category) Label() string {
	switch c {
	case ProjectOperations:
		return "Project Operations"
	case BuildPerformance:
		return "Build Performance"
	case Responsiveness:
		return "Responsiveness"
	case Graphics:
		return "Graphics"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// TestResult is the immutable record produced by one benchmark unit.
type TestResult struct {
	TestID      string      `json:"test_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Value       float64     `json:"value"`
	Unit        string      `json:"unit"`
	Score       int         `json:"score"`
	MaxScore    int         `json:"max_score"`
	Details     TestDetails `json:"details"`
}

// TestDetails is the statistical summary behind a result's headline value.
type TestDetails struct {
	Iterations   int          `json:"iterations"`
	DurationSecs float64      `json:"duration_secs"`
	Min          float64      `json:"min"`
	Max          float64      `json:"max"`
	Mean         float64      `json:"mean"`
	Median       float64      `json:"median"`
	StdDev       float64      `json:"std_dev"`
	Percentiles  *Percentiles `json:"percentiles,omitempty"`
}

// Percentiles holds the nearest-rank percentiles of a sample.
type Percentiles struct {
	P50  float64 `json:"p50"`
	P75  float64 `json:"p75"`
	P90  float64 `json:"p90"`
	P95  float64 `json:"p95"`
	P99  float64 `json:"p99"`
	P999 float64 `json:"p999"`
}

// PercentilesFromSorted computes nearest-rank percentiles over sorted,
// ascending samples: index = round(p/100 * (n-1)), clamped to the last
// element. An empty sample yields all-zero percentiles.
func PercentilesFromSorted(sorted []float64) *Percentiles {
	n := len(sorted)
	if n == 0 {
		return &Percentiles{}
	}
	at := func(p float64) float64 {
		idx := int(math.Round(p / 100 * float64(n-1)))
		if idx > n-1 {
			idx = n - 1
		}
		return sorted[idx]
	}
	return &Percentiles{
		P50:  at(50),
		P75:  at(75),
		P90:  at(90),
		P95:  at(95),
		P99:  at(99),
		P999: at(99.9),
	}
}

// CategoryResults groups completed test results by category.
// Lists are append-only while a run is in progress and immutable afterwards.
// Graphics is nil unless graphics tests ran.
type CategoryResults struct {
	ProjectOperations []TestResult `json:"project_operations"`
	BuildPerformance  []TestResult `json:"build_performance"`
	Responsiveness    []TestResult `json:"responsiveness"`
	Graphics          []TestResult `json:"graphics,omitempty"`
}

// Append adds a result to the bucket for cat. An unknown category is a
// programming-contract violation, not a recoverable condition.
func (r *CategoryResults) Append(cat Category, res TestResult) {
	switch cat {
	case ProjectOperations:
		r.ProjectOperations = append(r.ProjectOperations, res)
	case BuildPerformance:
		r.BuildPerformance = append(r.BuildPerformance, res)
	case Responsiveness:
		r.Responsiveness = append(r.Responsiveness, res)
	case Graphics:
		r.Graphics = append(r.Graphics, res)
	default:
		panic(fmt.Sprintf("model: result %q reported unknown category %d", res.TestID, cat))
	}
}

// Find returns the result with the given test ID, searching all categories.
func (r *CategoryResults) Find(testID string) (TestResult, bool) {
	for _, list := range [][]TestResult{
		r.ProjectOperations, r.BuildPerformance, r.Responsiveness, r.Graphics,
	} {
		for _, res := range list {
			if res.TestID == testID {
				return res, true
			}
		}
	}
	return TestResult{}, false
}

// All returns every result in category order.
func (r *CategoryResults) All() []TestResult {
	out := make([]TestResult, 0,
		len(r.ProjectOperations)+len(r.BuildPerformance)+len(r.Responsiveness)+len(r.Graphics))
	out = append(out, r.ProjectOperations...)
	out = append(out, r.BuildPerformance...)
	out = append(out, r.Responsiveness...)
	out = append(out, r.Graphics...)
	return out
}

// BenchmarkRun is one full execution of the unit list: system metadata plus
// the accumulated results.
type BenchmarkRun struct {
	ID          uuid.UUID       `json:"id"`
	Timestamp   time.Time       `json:"timestamp"`
	MachineName string          `json:"machine_name"`
	Notes       string          `json:"notes,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	SystemInfo  SystemInfo      `json:"system_info"`
	Results     CategoryResults `json:"results"`

	// RemoteID and UploadedAt are set after a successful community upload.
	RemoteID   string     `json:"remote_id,omitempty"`
	UploadedAt *time.Time `json:"uploaded_at,omitempty"`
}

// NewRun creates an empty run stamped with the given machine name and
// system description.
func NewRun(machineName string, info SystemInfo) *BenchmarkRun {
	return &BenchmarkRun{
		ID:          uuid.New(),
		Timestamp:   time.Now().UTC(),
		MachineName: machineName,
		SystemInfo:  info,
	}
}
