package scoring

import "github.com/johanmcad/workbench/internal/model"

// Calculate folds a run's accumulated results into scores. It is pure:
// the same CategoryResults always yield the same Scores.
func Calculate(results *model.CategoryResults) model.Scores {
	projectOps := categoryScore(results.ProjectOperations)
	buildPerf := categoryScore(results.BuildPerformance)
	responsive := categoryScore(results.Responsiveness)

	var graphics *model.CategoryScore
	if results.Graphics != nil {
		g := categoryScore(results.Graphics)
		graphics = &g
	}

	overall := projectOps.Score + buildPerf.Score + responsive.Score
	overallMax := 3 * model.CategoryMaxScore
	if graphics != nil {
		overall += graphics.Score
		overallMax += model.CategoryMaxScore
	}

	var pct float64
	if overallMax > 0 {
		pct = float64(overall) / float64(overallMax) * 100
	}

	return model.Scores{
		Overall:    overall,
		OverallMax: overallMax,
		Rating:     model.RatingFromPercentage(pct),
		Categories: model.CategoryScores{
			ProjectOperations: projectOps,
			BuildPerformance:  buildPerf,
			Responsiveness:    responsive,
			Graphics:          graphics,
		},
	}
}

func categoryScore(results []model.TestResult) model.CategoryScore {
	var score, maxScore int
	for _, r := range results {
		score += r.Score
		maxScore += r.MaxScore
	}
	return model.NewCategoryScore(score, maxScore)
}
