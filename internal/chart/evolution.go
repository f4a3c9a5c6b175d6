// Package chart renders evolution series as PNG line charts.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ndewijer/portfolio-tracker/internal/accounting"
	"github.com/ndewijer/portfolio-tracker/internal/currency"
)

// ErrNotEnoughPoints is returned when a series is too short to draw a line.
var ErrNotEnoughPoints = errors.New("need at least 2 data points")

// Options control the rendered image.
type Options struct {
	Title    string
	Currency string // ISO code used for the Y axis
	Width    int
	Height   int
}

// DefaultOptions returns a 900x400 chart titled "Portfolio Evolution".
func DefaultOptions(currencyCode string) Options {
	return Options{
		Title:    "Portfolio Evolution",
		Currency: currencyCode,
		Width:    900,
		Height:   400,
	}
}

// RenderEvolution renders the current value (solid) and invested cost (dashed)
// of a series and returns the PNG bytes.
func RenderEvolution(series *accounting.EvolutionSeries, opts Options) ([]byte, error) {
	if series == nil || len(series.Points) < 2 {
		n := 0
		if series != nil {
			n = len(series.Points)
		}
		return nil, fmt.Errorf("%w, got %d", ErrNotEnoughPoints, n)
	}

	xValues := make([]time.Time, len(series.Points))
	for i, p := range series.Points {
		xValues[i] = p.Timestamp
	}
	invested, current := series.Floats()

	valueSeries := gochart.TimeSeries{
		Name: "Current Value",
		Style: gochart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"),
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: current,
	}

	investedSeries := gochart.TimeSeries{
		Name: "Invested",
		Style: gochart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"),
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: invested,
	}

	xLayout := "Jan 02"
	if series.Step == accounting.HourlyStep {
		xLayout = "15:04"
	}

	graph := gochart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: gochart.XAxis{
			TickPosition: gochart.TickPositionBetweenTicks,
			ValueFormatter: func(v any) string {
				if t, ok := v.(float64); ok {
					return gochart.TimeFromFloat64(t).UTC().Format(xLayout)
				}
				return ""
			},
		},
		YAxis: gochart.YAxis{
			ValueFormatter: func(v any) string {
				if f, ok := v.(float64); ok {
					return currency.FormatFloat(f, opts.Currency)
				}
				return ""
			},
		},
		Series: []gochart.Series{
			valueSeries,
			investedSeries,
		},
	}

	graph.Elements = []gochart.Renderable{
		gochart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
