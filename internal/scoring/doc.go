// Package scoring converts raw benchmark measurements into integer scores
// and aggregates them into category and overall totals.
//
// thresholds.go defines one ordered threshold table per metric family.
// A table is evaluated from the most favorable bound downward; the first
// matching step wins and the table's floor applies when nothing matches.
// Whether a higher or lower measurement is favorable is fixed per table,
// never inferred from the data.
//
// calculator.go provides the pure Calculate function that folds a run's
// CategoryResults into Scores. Each core category has a fixed ceiling of
// 2500 points; the overall maximum is the sum of the fixed ceilings.
package scoring
