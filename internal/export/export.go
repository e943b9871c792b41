// Package export renders a finished run into shareable forms: a JSON
// report, a standalone HTML page, and Prometheus text exposition for
// fleet-wide ingestion.
package export

import (
	"github.com/johanmcad/workbench/internal/model"
	"github.com/johanmcad/workbench/internal/recommend"
)

// Report bundles everything an export carries. Analysis is optional; a
// report exported before recommendations were computed simply omits it.
type Report struct {
	Run      *model.BenchmarkRun `json:"run"`
	Scores   model.Scores        `json:"scores"`
	Analysis *recommend.Report   `json:"analysis,omitempty"`
}
