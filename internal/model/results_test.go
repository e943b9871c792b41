package model

import "testing"

func TestPercentilesFromSorted(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	p := PercentilesFromSorted(sorted)

	// Nearest-rank: p50 index = round(0.5*9) = 5 → value 6.
	if p.P50 != 6 {
		t.Errorf("P50: got %v, want 6", p.P50)
	}
	if p.P75 != 8 {
		t.Errorf("P75: got %v, want 8", p.P75)
	}
	if p.P90 != 9 {
		t.Errorf("P90: got %v, want 9", p.P90)
	}
	if p.P99 != 10 {
		t.Errorf("P99: got %v, want 10", p.P99)
	}
	if p.P999 != 10 {
		t.Errorf("P999: got %v, want 10", p.P999)
	}
}

func TestPercentilesFromSorted_Empty(t *testing.T) {
	p := PercentilesFromSorted(nil)
	if *p != (Percentiles{}) {
		t.Errorf("empty sample: got %+v, want all zeros", p)
	}
}

func TestPercentilesFromSorted_SingleSample(t *testing.T) {
	p := PercentilesFromSorted([]float64{42})
	if p.P50 != 42 || p.P999 != 42 {
		t.Errorf("single sample: got %+v, want all 42", p)
	}
}

func TestCategoryResults_Append(t *testing.T) {
	var r CategoryResults
	r.Append(ProjectOperations, TestResult{TestID: "a"})
	r.Append(BuildPerformance, TestResult{TestID: "b"})
	r.Append(Responsiveness, TestResult{TestID: "c"})

	if len(r.ProjectOperations) != 1 || len(r.BuildPerformance) != 1 || len(r.Responsiveness) != 1 {
		t.Fatalf("bucket sizes: got %d/%d/%d, want 1/1/1",
			len(r.ProjectOperations), len(r.BuildPerformance), len(r.Responsiveness))
	}
	if r.Graphics != nil {
		t.Error("graphics: expected nil when no graphics tests ran")
	}
}

func TestCategoryResults_AppendUnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Append with unknown category: expected panic")
		}
	}()
	var r CategoryResults
	r.Append(Category(99), TestResult{TestID: "x"})
}

func TestCategoryResults_Find(t *testing.T) {
	var r CategoryResults
	r.Append(Responsiveness, TestResult{TestID: "memory_bandwidth", Value: 30})

	res, ok := r.Find("memory_bandwidth")
	if !ok {
		t.Fatal("Find: expected hit")
	}
	if res.Value != 30 {
		t.Errorf("Value: got %v, want 30", res.Value)
	}
	if _, ok := r.Find("missing"); ok {
		t.Error("Find on absent id: expected miss")
	}
}

func TestRatingFromPercentage_Bands(t *testing.T) {
	tests := []struct {
		pct  float64
		want Rating
	}{
		{100, RatingExcellent},
		{90, RatingExcellent},
		{89.999, RatingGood},
		{70, RatingGood},
		{50, RatingAcceptable},
		{30, RatingPoor},
		{29.999, RatingInadequate},
		{0, RatingInadequate},
	}
	for _, tt := range tests {
		if got := RatingFromPercentage(tt.pct); got != tt.want {
			t.Errorf("RatingFromPercentage(%v): got %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func TestNewCategoryScore_ZeroMax(t *testing.T) {
	cs := NewCategoryScore(0, 0)
	if cs.Percentage != 0 {
		t.Errorf("empty category percentage: got %v, want 0", cs.Percentage)
	}
	if cs.Rating != RatingInadequate {
		t.Errorf("empty category rating: got %q", cs.Rating)
	}
}

func TestNewMetricDifference_Direction(t *testing.T) {
	up := NewMetricDifference("t", "T", 100, 150, true)
	if !up.IsImprovement || up.DifferencePercent != 50 {
		t.Errorf("higher-is-better: got improvement=%v pct=%v", up.IsImprovement, up.DifferencePercent)
	}

	down := NewMetricDifference("t", "T", 10, 5, false)
	if !down.IsImprovement {
		t.Error("lower-is-better with lower comparison: expected improvement")
	}

	zero := NewMetricDifference("t", "T", 0, 5, true)
	if zero.DifferencePercent != 0 {
		t.Errorf("zero baseline: got pct=%v, want 0", zero.DifferencePercent)
	}
}
