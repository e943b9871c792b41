package model

// Rating is the five-band verdict derived from a score percentage.
type Rating string

const (
	RatingExcellent  Rating = "excellent"
	RatingGood       Rating = "good"
	RatingAcceptable Rating = "acceptable"
	RatingPoor       Rating = "poor"
	RatingInadequate Rating = "inadequate"
)

// RatingFromPercentage maps a percentage to its rating band. Bands are
// inclusive on their lower bound: 90 is still excellent, 89.999 is good.
func RatingFromPercentage(pct float64) Rating {
	switch {
	case pct >= 90:
		return RatingExcellent
	case pct >= 70:
		return RatingGood
	case pct >= 50:
		return RatingAcceptable
	case pct >= 30:
		return RatingPoor
	default:
		return RatingInadequate
	}
}

// Label returns the display form of the rating.
func (r Rating) Label() string {
	switch r {
	case RatingExcellent:
		return "Excellent"
	case RatingGood:
		return "Good"
	case RatingAcceptable:
		return "Acceptable"
	case RatingPoor:
		return "Poor"
	case RatingInadequate:
		return "Inadequate"
	default:
		return string(r)
	}
}

// CategoryScore is the aggregated score for one category.
type CategoryScore struct {
	Score      int     `json:"score"`
	MaxScore   int     `json:"max_score"`
	Percentage float64 `json:"percentage"`
	Rating     Rating  `json:"rating"`
}

// NewCategoryScore derives the percentage and rating from the summed
// score. The percentage is 0 when maxScore is 0 (an empty category).
func NewCategoryScore(score, maxScore int) CategoryScore {
	var pct float64
	if maxScore > 0 {
		pct = float64(score) / float64(maxScore) * 100
	}
	return CategoryScore{
		Score:      score,
		MaxScore:   maxScore,
		Percentage: pct,
		Rating:     RatingFromPercentage(pct),
	}
}

// CategoryScores holds the per-category breakdown. Graphics is nil when no
// graphics tests ran.
type CategoryScores struct {
	ProjectOperations CategoryScore  `json:"project_operations"`
	BuildPerformance  CategoryScore  `json:"build_performance"`
	Responsiveness    CategoryScore  `json:"responsiveness"`
	Graphics          *CategoryScore `json:"graphics,omitempty"`
}

// Scores is the fully derived scoring of a run. Invariant: Overall equals the
// sum of the category scores, and OverallMax is the sum of the fixed
// per-category maxima.
type Scores struct {
	Overall    int            `json:"overall"`
	OverallMax int            `json:"overall_max"`
	Rating     Rating         `json:"rating"`
	Categories CategoryScores `json:"categories"`
}
