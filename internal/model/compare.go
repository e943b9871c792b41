package model

// MetricDifference is the delta of one test between two runs.
type MetricDifference struct {
	TestID            string  `json:"test_id"`
	Name              string  `json:"name"`
	BaselineValue     float64 `json:"baseline_value"`
	ComparisonValue   float64 `json:"comparison_value"`
	DifferencePercent float64 `json:"difference_percent"`
	IsImprovement     bool    `json:"is_improvement"`
}

// NewMetricDifference computes the relative delta between two values of the
// same test. higherIsBetter reflects the metric family's direction.
func NewMetricDifference(testID, name string, baseline, comparison float64, higherIsBetter bool) MetricDifference {
	var pct float64
	if baseline != 0 {
		pct = (comparison - baseline) / baseline * 100
	}
	improved := comparison > baseline
	if !higherIsBetter {
		improved = comparison < baseline
	}
	return MetricDifference{
		TestID:            testID,
		Name:              name,
		BaselineValue:     baseline,
		ComparisonValue:   comparison,
		DifferencePercent: pct,
		IsImprovement:     improved,
	}
}

// Compare produces per-test differences for every test present in both runs,
// in the baseline's category order.
func Compare(baseline, comparison *BenchmarkRun, higherIsBetter func(testID string) bool) []MetricDifference {
	var diffs []MetricDifference
	for _, base := range baseline.Results.All() {
		other, ok := comparison.Results.Find(base.TestID)
		if !ok {
			continue
		}
		diffs = append(diffs, NewMetricDifference(
			base.TestID, base.Name, base.Value, other.Value, higherIsBetter(base.TestID)))
	}
	return diffs
}
