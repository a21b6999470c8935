// Package render composes the display pages onto canvases: one graph per
// metric and the status page.
package render

import (
	"strconv"

	"github.com/netnem/waveshare-1.7-epaper-info/monitor/canvas"
	"github.com/netnem/waveshare-1.7-epaper-info/monitor/telemetry"
)

// Plot margins in pixels.
const (
	MarginLeft    = 40
	LabelPadding  = 4
	MarginRight   = 10
	MarginTop     = 20
	MarginBottom  = 20
	DefaultStartX = MarginLeft + LabelPadding

	// TickCount is the number of labelled Y levels, top and bottom included.
	TickCount = 5
)

// Layout is the plot area of a graph page.
type Layout struct {
	Width  int
	Height int
	// StartX is the X of the Y axis and the leftmost sample.
	StartX int
}

// NewLayout returns the default layout for a width x height page.
func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height, StartX: DefaultStartX}
}

func (l Layout) PlotWidth() int  { return l.Width - (l.StartX + MarginRight) }
func (l Layout) PlotHeight() int { return l.Height - (MarginTop + MarginBottom) }
func (l Layout) PlotTop() int    { return MarginTop }
func (l Layout) PlotBottom() int { return l.Height - MarginBottom }
func (l Layout) PlotRight() int  { return l.Width - MarginRight }

// MapY converts v to a pixel row. Values outside r land outside the plot.
func (l Layout) MapY(v float64, r telemetry.Range) float64 {
	return float64(l.PlotBottom()) - (v-r.Min)*float64(l.PlotHeight())/r.Span()
}

// MapX returns the column of sample i out of n. It needs n >= 2.
func (l Layout) MapX(i, n int) float64 {
	return float64(l.StartX) + float64(i)*float64(l.PlotWidth())/float64(n-1)
}

// Polyline maps values to plot points, oldest leftmost. Fewer than two
// values have no line and yield nil.
func (l Layout) Polyline(values []float64, r telemetry.Range) []canvas.Point {
	if len(values) < 2 {
		return nil
	}
	pts := make([]canvas.Point, len(values))
	for i, v := range values {
		pts[i] = canvas.Pt(l.MapX(i, len(values)), l.MapY(v, r))
	}
	return pts
}

// Tick is one labelled Y level.
type Tick struct {
	Value float64
	Y     float64
	Label string
}

// Ticks returns TickCount evenly spaced levels from r.Max at the top to
// r.Min at the bottom. Labels truncate toward zero.
func (l Layout) Ticks(r telemetry.Range) []Tick {
	ticks := make([]Tick, TickCount)
	for i := range ticks {
		v := r.Max - float64(i)*r.Span()/(TickCount-1)
		ticks[i] = Tick{
			Value: v,
			Y:     float64(l.PlotTop()) + float64(i)*float64(l.PlotHeight())/(TickCount-1),
			Label: strconv.Itoa(int(v)),
		}
	}
	return ticks
}
