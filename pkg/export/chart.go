package export

import (
	"bytes"
	"encoding/base64"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"
)

// ChartRenderer draws aggregate bar charts as PNG images.
type ChartRenderer struct{}

// NewChartRenderer constructs a chart renderer.
func NewChartRenderer() *ChartRenderer {
	return &ChartRenderer{}
}

// RenderBarPNG renders labelled values into a PNG bar chart.
func (r *ChartRenderer) RenderBarPNG(title, yLabel string, labels []string, values []float64) ([]byte, error) {
	if len(labels) == 0 || len(labels) != len(values) {
		return nil, fmt.Errorf("chart requires matching labels and values")
	}

	bars := make([]chart.Value, len(labels))
	max := 0.0
	for i, label := range labels {
		bars[i] = chart.Value{Label: label, Value: values[i]}
		if values[i] > max {
			max = values[i]
		}
	}
	if max <= 0 {
		// Keeps the y-range non-degenerate when every value is zero.
		max = 1
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    1000,
		Height:   600,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Name: yLabel,
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: max * 1.1,
			},
		},
		Bars: bars,
	}

	buf := &bytes.Buffer{}
	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderBarBase64 renders the bar chart and base64-encodes the PNG bytes so
// the image can be embedded directly in a JSON payload or an <img> tag.
func (r *ChartRenderer) RenderBarBase64(title, yLabel string, labels []string, values []float64) (string, error) {
	png, err := r.RenderBarPNG(title, yLabel, labels, values)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
