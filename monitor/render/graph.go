package render

import (
	"image"

	"github.com/netnem/waveshare-1.7-epaper-info/monitor/canvas"
	"github.com/netnem/waveshare-1.7-epaper-info/monitor/telemetry"
)

const (
	// DefaultXLabel describes the window covered by a full history.
	DefaultXLabel = "Time (5 min)"

	yTitleX    = 8
	xLabelRise = 15
	labelGap   = 2
)

// Graph draws a metric history as a line chart.
type Graph struct {
	Width   int
	Height  int
	Regular canvas.Typeface
	Small   canvas.Typeface
	XLabel  string
}

// NewGraph returns a graph renderer for width x height pages.
func NewGraph(width, height int, regular, small canvas.Typeface) *Graph {
	return &Graph{
		Width:   width,
		Height:  height,
		Regular: regular,
		Small:   small,
		XLabel:  DefaultXLabel,
	}
}

// Layout returns the plot area for r. The Y axis moves right when the
// widest tick label would collide with the rotated axis title.
func (g *Graph) Layout(r telemetry.Range) Layout {
	l := NewLayout(g.Width, g.Height)
	widest := 0
	for _, t := range l.Ticks(r) {
		widest = max(widest, g.Small.Width(t.Label))
	}
	need := yTitleX + g.Small.Height() + labelGap + widest + labelGap
	l.StartX = max(l.StartX, need)
	return l
}

// Compose draws the upright page for a series.
func (g *Graph) Compose(title, unit string, values []float64, r telemetry.Range) *canvas.Canvas {
	c := canvas.New(g.Width, g.Height)
	l := g.Layout(r)

	c.Text(image.Pt(2, 2), title, g.Regular)

	// Axes.
	c.Line(
		canvas.Pt(float64(l.StartX), float64(l.PlotTop())),
		canvas.Pt(float64(l.StartX), float64(l.PlotBottom())),
	)
	c.Line(
		canvas.Pt(float64(l.StartX), float64(l.PlotBottom())),
		canvas.Pt(float64(l.PlotRight()), float64(l.PlotBottom())),
	)

	half := g.Small.Height() / 2
	for _, t := range l.Ticks(r) {
		w := g.Small.Width(t.Label)
		c.Text(image.Pt(l.StartX-w-labelGap, int(t.Y)-half), t.Label, g.Small)
	}

	if unit != "" {
		w := g.Small.Width(unit)
		top := g.Height/2 - w/2
		c.TextRotated(image.Pt(yTitleX, top+w-1), unit, g.Small)
	}

	if g.XLabel != "" {
		w := g.Small.Width(g.XLabel)
		c.Text(image.Pt(g.Width/2-w/2, g.Height-xLabelRise), g.XLabel, g.Small)
	}

	pts := l.Polyline(values, r)
	for i := 1; i < len(pts); i++ {
		c.Line(pts[i-1], pts[i])
	}

	c.Rect(c.Bounds())
	return c
}

// Render composes the page and turns it for the panel.
func (g *Graph) Render(title, unit string, values []float64, r telemetry.Range) *canvas.Canvas {
	return g.Compose(title, unit, values, r).Rotate180()
}

// RenderMetric renders the history of m with its title, unit and range.
func (g *Graph) RenderMetric(m telemetry.Metric, h *telemetry.History) *canvas.Canvas {
	return g.Render(m.Title(), m.Unit(), h.Values(), m.Range())
}
