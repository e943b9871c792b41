package recommend

import "sort"

// Priority orders recommendations by urgency.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) sortOrder() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Category separates settings changes from purchases.
type Category string

const (
	CategorySoftware Category = "software"
	CategoryHardware Category = "hardware"
)

// Recommendation is one piece of advice tied to a stable rule ID.
type Recommendation struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Priority    Priority `json:"priority"`

	// ExpectedImprovement is a rough human-readable estimate of the gain,
	// e.g. "20-40% faster random file access".
	ExpectedImprovement string `json:"expected_improvement"`

	// HowToApply lists concrete steps, in order.
	HowToApply []string `json:"how_to_apply"`

	// AffectedTests names the benchmark units that should improve,
	// by test ID.
	AffectedTests []string `json:"affected_tests"`
}

// DeviceType is the coarse machine class inferred from hostname and CPU.
type DeviceType string

const (
	DeviceDesktop DeviceType = "desktop"
	DeviceLaptop  DeviceType = "laptop"
	DeviceVDI     DeviceType = "vdi"
	DeviceUnknown DeviceType = "unknown"
)

// Report is the full analysis of one run.
type Report struct {
	DeviceType DeviceType `json:"device_type"`

	// OverallPercentile is the mean of the supplied community ranks. It
	// is absent when Analyze was given no rank context at all.
	OverallPercentile *float64 `json:"overall_percentile,omitempty"`

	Recommendations []Recommendation `json:"recommendations"`
}

// dedupe keeps the first occurrence of each rule ID, preserving order.
func dedupe(recs []Recommendation) []Recommendation {
	seen := make(map[string]bool, len(recs))
	out := recs[:0]
	for _, rec := range recs {
		if seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true
		out = append(out, rec)
	}
	return out
}

// sortByPriority orders high before medium before low, keeping the rule
// order within each band.
func sortByPriority(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.sortOrder() < recs[j].Priority.sortOrder()
	})
}
