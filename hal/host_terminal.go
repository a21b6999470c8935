//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// quadrants maps a 2x2 pixel cell (bit 0 top-left, 1 top-right,
// 2 bottom-left, 3 bottom-right) to a block glyph.
var quadrants = []rune(" ▘▝▀▖▌▞▛▗▚▐▜▄▙▟█")

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
)

// terminalPanel previews frames as block characters, two pixels per cell
// in each direction.
type terminalPanel struct {
	mu  sync.Mutex
	w   io.Writer
	seq int
}

func newTerminalPanel(w io.Writer) *terminalPanel {
	return &terminalPanel{w: w}
}

func (p *terminalPanel) Init() error      { return nil }
func (p *terminalPanel) Size() (w, h int) { return PanelWidth, PanelHeight }

func (p *terminalPanel) Display(frame Bitmap) error {
	if err := checkSize(p, frame); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seq++
	header := headerStyle.Render(fmt.Sprintf("frame %d", p.seq))
	_, err := fmt.Fprintln(p.w, header+"\n"+frameStyle.Render(BlockArt(frame, true)))
	return err
}

func (p *terminalPanel) Clear(fill byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := fmt.Fprintln(p.w, headerStyle.Render(fmt.Sprintf("cleared (%#02x)", fill)))
	return err
}

func (p *terminalPanel) Sleep() error { return nil }

// BlockArt renders frame with quadrant block glyphs, one text row per two
// pixel rows. With upright set the frame is turned 180 degrees first.
func BlockArt(frame Bitmap, upright bool) string {
	w, h := frame.Width(), frame.Height()
	ink := func(x, y int) bool {
		if x >= w || y >= h {
			return false
		}
		if upright {
			return frame.Ink(w-1-x, h-1-y)
		}
		return frame.Ink(x, y)
	}

	var b strings.Builder
	for y := 0; y < h; y += 2 {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < w; x += 2 {
			idx := 0
			if ink(x, y) {
				idx |= 1
			}
			if ink(x+1, y) {
				idx |= 2
			}
			if ink(x, y+1) {
				idx |= 4
			}
			if ink(x+1, y+1) {
				idx |= 8
			}
			b.WriteRune(quadrants[idx])
		}
	}
	return b.String()
}
