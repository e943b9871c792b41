package export

import (
	"fmt"
	"html/template"
	"io"
)

// WriteHTML renders the report as a self-contained HTML page.
func WriteHTML(w io.Writer, report Report) error {
	if err := reportTemplate.Execute(w, report); err != nil {
		return fmt.Errorf("export: render html: %w", err)
	}
	return nil
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"deref": func(f *float64) float64 {
		if f == nil {
			return 0
		}
		return *f
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>workbench report - {{.Run.MachineName}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 60rem; color: #1c1c1c; }
h1 { font-size: 1.5rem; }
table { border-collapse: collapse; width: 100%; margin-bottom: 1.5rem; }
th, td { text-align: left; padding: 0.4rem 0.8rem; border-bottom: 1px solid #ddd; }
th { background: #f4f4f4; }
.rating { text-transform: capitalize; font-weight: 600; }
.prio-high { color: #b00020; font-weight: 600; }
.prio-medium { color: #9a6700; }
.prio-low { color: #555; }
footer { color: #888; font-size: 0.8rem; }
</style>
</head>
<body>
<h1>Benchmark report - {{.Run.MachineName}}</h1>
<p>{{.Run.Timestamp.Format "2006-01-02 15:04 MST"}} · run {{.Run.ID}}</p>

<h2>System</h2>
<table>
<tr><th>CPU</th><td>{{.Run.SystemInfo.CPU.Name}} ({{.Run.SystemInfo.CPU.Cores}}c/{{.Run.SystemInfo.CPU.Threads}}t)</td></tr>
<tr><th>Memory</th><td>{{printf "%.0f" .Run.SystemInfo.Memory.TotalGB}} GiB</td></tr>
<tr><th>OS</th><td>{{.Run.SystemInfo.OS.Name}} {{.Run.SystemInfo.OS.Version}}</td></tr>
{{range .Run.SystemInfo.Storage}}<tr><th>Storage</th><td>{{.Name}} ({{.DeviceType}}, {{printf "%.0f" .CapacityGB}} GiB)</td></tr>
{{end}}</table>

<h2>Scores</h2>
<table>
<tr><th>Category</th><th>Score</th><th>Rating</th></tr>
<tr><td>Project Operations</td><td>{{.Scores.Categories.ProjectOperations.Score}} / {{.Scores.Categories.ProjectOperations.MaxScore}}</td><td class="rating">{{.Scores.Categories.ProjectOperations.Rating.Label}}</td></tr>
<tr><td>Build Performance</td><td>{{.Scores.Categories.BuildPerformance.Score}} / {{.Scores.Categories.BuildPerformance.MaxScore}}</td><td class="rating">{{.Scores.Categories.BuildPerformance.Rating.Label}}</td></tr>
<tr><td>Responsiveness</td><td>{{.Scores.Categories.Responsiveness.Score}} / {{.Scores.Categories.Responsiveness.MaxScore}}</td><td class="rating">{{.Scores.Categories.Responsiveness.Rating.Label}}</td></tr>
{{with .Scores.Categories.Graphics}}<tr><td>Graphics</td><td>{{.Score}} / {{.MaxScore}}</td><td class="rating">{{.Rating.Label}}</td></tr>
{{end}}<tr><th>Overall</th><th>{{.Scores.Overall}} / {{.Scores.OverallMax}}</th><th class="rating">{{.Scores.Rating.Label}}</th></tr>
</table>

<h2>Results</h2>
<table>
<tr><th>Test</th><th>Value</th><th>Score</th></tr>
{{range .Run.Results.All}}<tr><td>{{.Name}}</td><td>{{printf "%.2f" .Value}} {{.Unit}}</td><td>{{.Score}} / {{.MaxScore}}</td></tr>
{{end}}</table>

{{with .Analysis}}
<h2>Recommendations</h2>
{{if .Recommendations}}<table>
<tr><th>Priority</th><th>Category</th><th>Recommendation</th></tr>
{{range .Recommendations}}<tr><td class="prio-{{.Priority}}">{{.Priority}}</td><td>{{.Category}}</td><td><strong>{{.Title}}</strong><br>{{.Description}}{{if .ExpectedImprovement}}<br><em>{{.ExpectedImprovement}}</em>{{end}}{{if .HowToApply}}<ol>{{range .HowToApply}}<li>{{.}}</li>{{end}}</ol>{{end}}</td></tr>
{{end}}</table>
{{else}}<p>No recommendations.</p>{{end}}
<p>Device class: {{.DeviceType}}{{if .OverallPercentile}} · community percentile {{printf "%.0f" (deref .OverallPercentile)}}{{end}}</p>
{{end}}

<footer>Generated by workbench.</footer>
</body>
</html>
`))
