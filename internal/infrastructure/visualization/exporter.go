package visualization

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"health_service/internal/domain/model"
)

const chartID = "imc_pasos_clusters"

// Exporter renders a training report as one self-contained HTML page:
// a scatter plot of the clusters with their centroids and a summary table.
type Exporter struct {
	path string
}

func NewExporter(path string) *Exporter {
	return &Exporter{path: path}
}

func (e *Exporter) Path() string {
	return e.path
}

// Export writes the page to the exporter's path, replacing any previous version.
func (e *Exporter) Export(ctx context.Context, report model.TrainingReport) error {
	var buf bytes.Buffer
	if err := Render(&buf, report); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(e.path), 0755); err != nil {
		return fmt.Errorf("failed to create static directory: %w", err)
	}
	if err := os.WriteFile(e.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write visualization: %w", err)
	}
	return nil
}

type tableRow struct {
	Icon        string
	Name        string
	Count       int
	MeanIMC     string
	MeanSteps   string
	Description string
	Hex         string
}

type pageData struct {
	Title      string
	Assets     []string
	Element    template.HTML
	Script     template.HTML
	Rows       []tableRow
	Total      int
	Silhouette string
}

// Render writes the visualization page for report to w.
func Render(w io.Writer, report model.TrainingReport) error {
	if len(report.Observations) != len(report.Assignments) {
		return fmt.Errorf("report has %d observations but %d assignments", len(report.Observations), len(report.Assignments))
	}

	scatter := buildScatter(report)
	snippet := scatter.RenderSnippet()

	data := pageData{
		Title:      "HealthFit Classifier - Análisis de Clusters de Salud",
		Assets:     scatter.GetAssets().JSAssets.Values,
		Element:    template.HTML(snippet.Element),
		Script:     template.HTML(snippet.Script),
		Total:      len(report.Observations),
		Silhouette: fmt.Sprintf("%.4f", report.Silhouette),
	}
	for _, s := range report.Summaries {
		data.Rows = append(data.Rows, tableRow{
			Icon:        s.Description.Icon,
			Name:        s.Description.Name,
			Count:       s.Count,
			MeanIMC:     fmt.Sprintf("%.1f", s.MeanIMC),
			MeanSteps:   formatSteps(s.MeanSteps),
			Description: s.Description.Description,
			Hex:         s.Description.Hex,
		})
	}

	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render visualization: %w", err)
	}
	return nil
}

func buildScatter(report model.TrainingReport) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "HealthFit Classifier",
			Width:     "1000px",
			Height:    "560px",
			ChartID:   chartID,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Clasificación de Salud: IMC vs Pasos Diarios",
			Subtitle: fmt.Sprintf("%d personas, %d grupos", len(report.Observations), len(report.Summaries)),
			Left:     "center",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "Índice de Masa Corporal (IMC)",
			Type:      "value",
			Scale:     opts.Bool(true),
			SplitLine: &opts.SplitLine{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "Pasos Diarios",
			Type:      "value",
			Scale:     opts.Bool(true),
			SplitLine: &opts.SplitLine{Show: opts.Bool(true)},
		}),
	)

	points := make([][]opts.ScatterData, len(report.Summaries))
	for i, o := range report.Observations {
		id := report.Assignments[i]
		if id < 0 || id >= len(points) {
			continue
		}
		points[id] = append(points[id], opts.ScatterData{Value: []float64{o.IMC, o.Steps}})
	}

	for _, s := range report.Summaries {
		scatter.AddSeries(s.Description.Name, points[s.ClusterID],
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Description.Hex}),
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}),
		)
	}
	for _, s := range report.Summaries {
		centroid := []opts.ScatterData{{
			Name:       "Centroide: " + s.Description.Name,
			Value:      []float64{s.CentroidIMC, s.CentroidSteps},
			Symbol:     "diamond",
			SymbolSize: 20,
		}}
		scatter.AddSeries("Centroide: "+s.Description.Name, centroid,
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color:       s.Description.Hex,
				BorderColor: "#000000",
				BorderWidth: 3,
			}),
		)
	}
	return scatter
}

func formatSteps(v float64) string {
	n := int64(v + 0.5)
	s := fmt.Sprintf("%d", n)
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	return string(out)
}

var pageTemplate = template.Must(template.New("visualization").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
    <meta charset="utf-8">
    <title>{{ .Title }}</title>
{{- range .Assets }}
    <script src="{{ . }}"></script>
{{- end }}
    <style>
        body { font-family: Arial, sans-serif; margin: 24px; color: #064e3b; }
        h1 { text-align: center; font-size: 24px; }
        .container { display: flex; justify-content: center; }
        table { border-collapse: collapse; margin: 24px auto; width: 1000px; }
        th { background: #10b981; color: white; text-align: left; padding: 8px; }
        td { border-bottom: 1px solid #e5e7eb; padding: 8px; font-size: 13px; }
        .swatch { display: inline-block; width: 10px; height: 10px; border-radius: 50%; margin-right: 6px; }
        .footer { text-align: center; font-size: 12px; color: #6b7280; }
    </style>
</head>
<body>
<h1>{{ .Title }}</h1>
{{ .Element }}
{{ .Script }}
<h2 style="text-align:center">Descripción de los Grupos de Salud</h2>
<table id="cluster-summary">
    <thead>
    <tr><th>Grupo de Salud</th><th>Cantidad</th><th>IMC Promedio</th><th>Pasos Promedio</th><th>Descripción</th></tr>
    </thead>
    <tbody>
{{- range .Rows }}
    <tr>
        <td><span class="swatch" style="background: {{ .Hex }}"></span>{{ .Icon }} {{ .Name }}</td>
        <td>{{ .Count }} personas</td>
        <td>IMC: {{ .MeanIMC }}</td>
        <td>Pasos: {{ .MeanSteps }}</td>
        <td>{{ .Description }}</td>
    </tr>
{{- end }}
    </tbody>
</table>
<p class="footer">{{ .Total }} observaciones · puntuación silhouette {{ .Silhouette }}</p>
</body>
</html>
`))
