package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/scorepad-app/scorepad/app/modules/ledger"
)

// RenderProgressionChart produces a PNG line chart with one cumulative
// running-total series per player. Rounds without a recorded score simply
// do not appear on a player's line. A sheet with nothing to draw renders a
// placeholder instead of a degenerate chart.
func RenderProgressionChart(l *ledger.Ledger) ([]byte, error) {
	series := make([]chart.Series, 0, len(l.Players()))
	for _, p := range l.Players() {
		points := p.Progression()
		// go-chart refuses to draw a line with fewer than two vertices.
		if len(points) < 2 {
			continue
		}
		xs := make([]float64, len(points))
		ys := make([]float64, len(points))
		for i, pt := range points {
			xs[i] = float64(pt.Round)
			ys[i] = pt.Total
		}
		series = append(series, chart.ContinuousSeries{
			Name:    p.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: 2,
				DotWidth:    4,
			},
		})
	}
	if len(series) == 0 {
		return renderNoDataPlaceholder()
	}

	axis := l.Axis()
	graph := chart.Chart{
		Width:  800,
		Height: 400,
		XAxis: chart.XAxis{
			Name: "Round",
		},
		YAxis: chart.YAxis{
			Name: "Running Total",
			Range: &chart.ContinuousRange{
				Min: axis.Min,
				Max: axis.Max,
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render progression chart: %w", err)
	}
	return buf.Bytes(), nil
}

func renderNoDataPlaceholder() ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "No scores recorded yet"
	)

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFontColor(drawing.ColorBlack)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render placeholder chart: %w", err)
	}
	return buf.Bytes(), nil
}

// ChartFilename names the stats artifact after the render date.
func ChartFilename(now time.Time) string {
	return fmt.Sprintf("score-stats-%s.png", now.Format("2006-01-02"))
}
