package portfolio

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/rebal/internal/models"
)

// RenderDriftChart renders a PNG bar chart of per-symbol allocation drift.
// Overweight positions are drawn red, underweight blue. Returns raw PNG
// bytes.
func RenderDriftChart(entries map[string]models.DriftEntry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("no drift entries to chart")
	}

	symbols := make([]string, 0, len(entries))
	for symbol := range entries {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	overweight := chart.Style{
		FillColor:   drawing.ColorFromHex("dc2626"), // red-600
		StrokeColor: drawing.ColorFromHex("dc2626"),
		StrokeWidth: 0,
	}
	underweight := chart.Style{
		FillColor:   drawing.ColorFromHex("2563eb"), // blue-600
		StrokeColor: drawing.ColorFromHex("2563eb"),
		StrokeWidth: 0,
	}

	bars := make([]chart.Value, 0, len(symbols))
	for _, symbol := range symbols {
		entry := entries[symbol]
		style := underweight
		if entry.Drift > 0 {
			style = overweight
		}
		bars = append(bars, chart.Value{
			Label: symbol,
			Value: entry.Drift,
			Style: style,
		})
	}

	graph := chart.BarChart{
		Title:    "Allocation Drift (%)",
		Width:    900,
		Height:   400,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.1f%%", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
