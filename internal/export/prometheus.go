package export

import (
	"fmt"
	"io"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

// WritePrometheus renders the report's scores and raw values in the
// Prometheus text exposition format, so a fleet can scrape or push
// benchmark outcomes alongside its other metrics.
func WritePrometheus(w io.Writer, report Report) error {
	families := []*dto.MetricFamily{
		testValues(report),
		testScores(report),
		categoryScores(report),
		overall(report),
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if len(mf.Metric) == 0 {
			continue
		}
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("export: encode metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func gaugeFamily(name, help string) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: proto.String(name),
		Help: proto.String(help),
		Type: dto.MetricType_GAUGE.Enum(),
	}
}

func gauge(value float64, labels ...string) *dto.Metric {
	m := &dto.Metric{Gauge: &dto.Gauge{Value: proto.Float64(value)}}
	for i := 0; i+1 < len(labels); i += 2 {
		m.Label = append(m.Label, &dto.LabelPair{
			Name:  proto.String(labels[i]),
			Value: proto.String(labels[i+1]),
		})
	}
	return m
}

func testValues(report Report) *dto.MetricFamily {
	mf := gaugeFamily("workbench_test_value", "Raw measured value of one benchmark test.")
	for _, res := range report.Run.Results.All() {
		mf.Metric = append(mf.Metric, gauge(res.Value, "test", res.TestID, "unit", res.Unit))
	}
	return mf
}

func testScores(report Report) *dto.MetricFamily {
	mf := gaugeFamily("workbench_test_score", "Threshold score of one benchmark test.")
	for _, res := range report.Run.Results.All() {
		mf.Metric = append(mf.Metric, gauge(float64(res.Score), "test", res.TestID))
	}
	return mf
}

func categoryScores(report Report) *dto.MetricFamily {
	mf := gaugeFamily("workbench_category_score", "Aggregated score per benchmark category.")
	cats := report.Scores.Categories
	mf.Metric = append(mf.Metric,
		gauge(float64(cats.ProjectOperations.Score), "category", "project_operations"),
		gauge(float64(cats.BuildPerformance.Score), "category", "build_performance"),
		gauge(float64(cats.Responsiveness.Score), "category", "responsiveness"),
	)
	if cats.Graphics != nil {
		mf.Metric = append(mf.Metric, gauge(float64(cats.Graphics.Score), "category", "graphics"))
	}
	return mf
}

func overall(report Report) *dto.MetricFamily {
	mf := gaugeFamily("workbench_overall_score", "Overall benchmark score with its ceiling.")
	mf.Metric = append(mf.Metric,
		gauge(float64(report.Scores.Overall), "bound", "score"),
		gauge(float64(report.Scores.OverallMax), "bound", "max"),
	)
	return mf
}
