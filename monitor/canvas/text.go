package canvas

import (
	"image"
	"image/color"

	"tinygo.org/x/drivers"
)

// Typeface measures and rasterizes text.
type Typeface interface {
	// Width is the advance of s in pixels.
	Width(s string) int
	// Ascent is the distance from the top of a line to its baseline.
	Ascent() int
	// Height is the full line height.
	Height() int
	// DrawString draws s with its baseline starting at (x, y).
	DrawString(d drivers.Displayer, x, y int16, s string, c color.RGBA)
}

// TextWidth returns the advance of s in face.
func (c *Canvas) TextWidth(s string, face Typeface) int {
	return face.Width(s)
}

// Text draws s with the top-left corner of its line box at pos.
func (c *Canvas) Text(pos image.Point, s string, face Typeface) {
	face.DrawString(c, int16(pos.X), int16(pos.Y+face.Ascent()), s, Black)
}

// TextRotated draws s turned 90 degrees counter-clockwise so that it reads
// bottom to top. pos is the bottom-left corner of the rotated line box; the
// box spans Height() pixels to the right and Width(s) pixels upwards.
func (c *Canvas) TextRotated(pos image.Point, s string, face Typeface) {
	r := &rotated{dst: c, origin: pos, w: face.Width(s), h: face.Height()}
	face.DrawString(r, 0, int16(face.Ascent()), s, Black)
}

// rotated maps text space (x along the line, y down the line box) onto the
// destination turned 90 degrees counter-clockwise.
type rotated struct {
	dst    *Canvas
	origin image.Point
	w, h   int
}

func (r *rotated) Size() (x, y int16) { return int16(r.w), int16(r.h) }

func (r *rotated) SetPixel(x, y int16, col color.RGBA) {
	r.dst.Set(r.origin.X+int(y), r.origin.Y-int(x), isInk(col))
}

func (r *rotated) Display() error { return nil }
