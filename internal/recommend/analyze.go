package recommend

import "github.com/johanmcad/workbench/internal/model"

// Analyze evaluates every rule against run and returns the collected
// report. ranks carries community percentile ranks per test ID; pass nil
// when no community context exists, and an empty non-nil map when context
// was fetched but held no entries.
func Analyze(run *model.BenchmarkRun, ranks map[string]float64) Report {
	in := ruleInput{run: run, ranks: ranks}

	var recs []Recommendation
	for _, r := range rules {
		if rec := r(in); rec != nil {
			recs = append(recs, *rec)
		}
	}
	recs = dedupe(recs)
	sortByPriority(recs)

	return Report{
		DeviceType:        DetectDeviceType(run.SystemInfo),
		OverallPercentile: overallPercentile(ranks),
		Recommendations:   recs,
	}
}

// overallPercentile is the mean of the supplied ranks. An empty non-nil
// rank set means the machine matched no community cohort; it reads as
// dead average rather than as missing data.
func overallPercentile(ranks map[string]float64) *float64 {
	if ranks == nil {
		return nil
	}
	if len(ranks) == 0 {
		mid := 50.0
		return &mid
	}
	var sum float64
	for _, r := range ranks {
		sum += r
	}
	mean := sum / float64(len(ranks))
	return &mean
}
