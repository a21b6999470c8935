// Package canvas provides a 1-bit frame surface with the few drawing
// primitives the display pages need.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"tinygo.org/x/drivers"
)

var (
	// Black is ink.
	Black = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}
	// White is background.
	White = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Point is a pixel coordinate before rasterization.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) round() (int, int) {
	return int(math.Round(p.X)), int(math.Round(p.Y))
}

// Canvas is a width x height grid of 1-bit pixels, origin top-left.
// Pixels are packed MSB first, a set bit is ink. Drawing outside the bounds
// is clipped silently.
type Canvas struct {
	w      int
	h      int
	stride int
	pix    []byte

	lines int
}

var _ drivers.Displayer = (*Canvas)(nil)

// New returns a canvas with every pixel set to background.
func New(width, height int) *Canvas {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("canvas: invalid size %dx%d", width, height))
	}
	stride := (width + 7) / 8
	return &Canvas{
		w:      width,
		h:      height,
		stride: stride,
		pix:    make([]byte, stride*height),
	}
}

func (c *Canvas) Width() int  { return c.w }
func (c *Canvas) Height() int { return c.h }

// Bounds returns the canvas rectangle.
func (c *Canvas) Bounds() image.Rectangle { return image.Rect(0, 0, c.w, c.h) }

// Ink reports whether (x, y) is set. Out of range pixels are background.
func (c *Canvas) Ink(x, y int) bool {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return false
	}
	return c.pix[y*c.stride+x/8]&(0x80>>(x%8)) != 0
}

// Set sets or clears (x, y).
func (c *Canvas) Set(x, y int, ink bool) {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return
	}
	off := y*c.stride + x/8
	mask := byte(0x80 >> (x % 8))
	if ink {
		c.pix[off] |= mask
	} else {
		c.pix[off] &^= mask
	}
}

// Clear resets every pixel to background.
func (c *Canvas) Clear() {
	for i := range c.pix {
		c.pix[i] = 0
	}
	c.lines = 0
}

// Size implements drivers.Displayer.
func (c *Canvas) Size() (x, y int16) {
	return int16(c.w), int16(c.h)
}

// SetPixel implements drivers.Displayer. Dark colors are ink.
func (c *Canvas) SetPixel(x, y int16, col color.RGBA) {
	c.Set(int(x), int(y), isInk(col))
}

// Display implements drivers.Displayer. A canvas has nothing to flush.
func (c *Canvas) Display() error { return nil }

func isInk(col color.RGBA) bool {
	return int(col.R)+int(col.G)+int(col.B) <= 384
}

// Line draws a straight line between p1 and p2 (inclusive). The segment is
// clipped to the canvas first; one with a NaN or infinite endpoint draws
// nothing but still counts as a line.
func (c *Canvas) Line(p1, p2 Point) {
	c.lines++
	p1, p2, ok := c.clip(p1, p2)
	if !ok {
		return
	}
	x0, y0 := p1.round()
	x1, y1 := p2.round()

	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	e := dx + dy
	for {
		c.Set(x0, y0, true)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// clip trims the segment to [0,w-1]x[0,h-1] (Liang-Barsky). ok is false
// when no part of it lies inside or it is not finite.
func (c *Canvas) clip(p1, p2 Point) (Point, Point, bool) {
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	if !finite(dx) || !finite(dy) {
		return p1, p2, false
	}
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, p1.X},
		{dx, float64(c.w-1) - p1.X},
		{-dy, p1.Y},
		{dy, float64(c.h-1) - p1.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return p1, p2, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return p1, p2, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return p1, p2, false
			}
			t1 = min(t1, r)
		}
	}
	if t1 < 1 {
		p2 = Point{p1.X + t1*dx, p1.Y + t1*dy}
	}
	if t0 > 0 {
		p1 = Point{p1.X + t0*dx, p1.Y + t0*dy}
	}
	return p1, p2, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Lines returns how many line primitives have been drawn.
func (c *Canvas) Lines() int { return c.lines }

// Rect outlines r. Max is exclusive, so Rect(c.Bounds()) draws the border.
func (c *Canvas) Rect(r image.Rectangle) {
	r = r.Canon()
	if r.Empty() {
		return
	}
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1
	for x := x0; x <= x1; x++ {
		c.Set(x, y0, true)
		c.Set(x, y1, true)
	}
	for y := y0; y <= y1; y++ {
		c.Set(x0, y, true)
		c.Set(x1, y, true)
	}
}

// Rotate180 returns a new canvas with (x, y) moved to (w-1-x, h-1-y).
func (c *Canvas) Rotate180() *Canvas {
	out := New(c.w, c.h)
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			if c.Ink(x, y) {
				out.Set(c.w-1-x, c.h-1-y, true)
			}
		}
	}
	out.lines = c.lines
	return out
}

// Equal reports whether both canvases have the same size and pixels.
func (c *Canvas) Equal(o *Canvas) bool {
	if c == nil || o == nil {
		return c == o
	}
	if c.w != o.w || c.h != o.h {
		return false
	}
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			if c.Ink(x, y) != o.Ink(x, y) {
				return false
			}
		}
	}
	return true
}

// InkCount returns the number of set pixels inside r.
func (c *Canvas) InkCount(r image.Rectangle) int {
	r = r.Intersect(c.Bounds())
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if c.Ink(x, y) {
				n++
			}
		}
	}
	return n
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
