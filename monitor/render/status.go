package render

import (
	"image"

	"github.com/netnem/waveshare-1.7-epaper-info/monitor/canvas"
)

const (
	statusX    = 2
	statusY    = 2
	lineHeight = 14
)

// Status draws text lines top to bottom.
type Status struct {
	Width  int
	Height int
	Face   canvas.Typeface
}

func NewStatus(width, height int, face canvas.Typeface) *Status {
	return &Status{Width: width, Height: height, Face: face}
}

// Compose draws the upright page. Lines that fall below the page are
// clipped.
func (s *Status) Compose(lines []string) *canvas.Canvas {
	c := canvas.New(s.Width, s.Height)
	for i, line := range lines {
		c.Text(image.Pt(statusX, statusY+lineHeight*i), line, s.Face)
	}
	c.Rect(c.Bounds())
	return c
}

// Render composes the page and turns it for the panel.
func (s *Status) Render(lines []string) *canvas.Canvas {
	return s.Compose(lines).Rotate180()
}
