package bench

import (
	"math"
	"sort"

	"github.com/johanmcad/workbench/internal/model"
)

// summarize computes the statistical summary of a set of samples. The
// caller sets DurationSecs afterwards; sample units are whatever the unit
// measured in (ms, ns, µs). Median is the upper-middle element, matching
// the nearest-rank percentile convention.
func summarize(samples []float64, withPercentiles bool) model.TestDetails {
	n := len(samples)
	if n == 0 {
		return model.TestDetails{}
	}

	sorted := make([]float64, n)
	copy(sorted, samples)
	sort.Float64s(sorted)

	var sum float64
	for _, s := range sorted {
		sum += s
	}
	mean := sum / float64(n)

	var variance float64
	for _, s := range sorted {
		variance += (s - mean) * (s - mean)
	}
	variance /= float64(n)

	d := model.TestDetails{
		Iterations: n,
		Min:        sorted[0],
		Max:        sorted[n-1],
		Mean:       mean,
		Median:     sorted[n/2],
		StdDev:     math.Sqrt(variance),
	}
	if withPercentiles {
		d.Percentiles = model.PercentilesFromSorted(sorted)
	}
	return d
}
