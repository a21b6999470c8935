// Package fonts adapts tinyfont fonts to the canvas Typeface interface.
package fonts

import (
	"errors"
	"fmt"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"github.com/netnem/waveshare-1.7-epaper-info/monitor/canvas"
)

// Face is a tinyfont font with precomputed line metrics. Runes the font
// lacks, such as the degree sign, are drawn by the face itself.
//
// Concurrent use is not safe: tinyfont fonts reuse an internal glyph.
type Face struct {
	font   tinyfont.Fonter
	ascent int
	height int
}

var _ canvas.Typeface = (*Face)(nil)

// NewFace derives line metrics from the printable ASCII glyph extents.
func NewFace(font tinyfont.Fonter) (*Face, error) {
	if font == nil {
		return nil, errors.New("fonts: nil font")
	}
	minY, maxY := 0, 0
	first := true
	for r := rune(0x21); r < 0x7f; r++ {
		info := font.GetGlyph(r).Info()
		if info.Height == 0 {
			continue
		}
		top := int(info.YOffset)
		bottom := top + int(info.Height)
		if first {
			minY, maxY = top, bottom
			first = false
			continue
		}
		minY = min(minY, top)
		maxY = max(maxY, bottom)
	}
	if first {
		return nil, errors.New("fonts: no glyphs")
	}
	height := maxY - minY
	ascent := -minY
	if height <= 0 || ascent < 0 {
		return nil, fmt.Errorf("fonts: invalid metrics: height=%d ascent=%d", height, ascent)
	}
	return &Face{font: font, ascent: ascent, height: height}, nil
}

func (f *Face) Ascent() int { return f.ascent }
func (f *Face) Height() int { return f.height }

// Width sums the advances of s.
func (f *Face) Width(s string) int {
	w := 0
	for _, r := range s {
		w += f.advance(r)
	}
	return w
}

// DrawString draws s with its baseline starting at (x, y).
func (f *Face) DrawString(d drivers.Displayer, x, y int16, s string, c color.RGBA) {
	for _, r := range s {
		if r == '°' {
			f.drawDegree(d, x, y, c)
		} else {
			f.font.GetGlyph(r).Draw(d, x, y, c)
		}
		x += int16(f.advance(r))
	}
}

func (f *Face) advance(r rune) int {
	if r == '°' {
		return f.degreeSize() + 2
	}
	return int(f.font.GetGlyph(r).Info().XAdvance)
}

func (f *Face) degreeSize() int {
	return max(3, f.ascent/3)
}

// drawDegree outlines a small square ring at cap height.
func (f *Face) drawDegree(d drivers.Displayer, x, y int16, c color.RGBA) {
	n := int16(f.degreeSize())
	top := y - int16(f.ascent) + 1
	left := x + 1
	for i := int16(0); i < n; i++ {
		for j := int16(0); j < n; j++ {
			if i == 0 || j == 0 || i == n-1 || j == n-1 {
				if (i == 0 || i == n-1) && (j == 0 || j == n-1) && n > 3 {
					continue
				}
				d.SetPixel(left+i, top+j, c)
			}
		}
	}
}

// Regular is the face used for titles and status lines.
func Regular() (*Face, error) {
	return NewFace(&proggy.TinySZ8pt7b)
}

// Small is the face used for axis tick labels.
func Small() (*Face, error) {
	return NewFace(&tinyfont.TomThumb)
}
