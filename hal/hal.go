package hal

import (
	"errors"
	"fmt"
)

var ErrNotImplemented = errors.New("not implemented")

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// Bitmap is a read-only 1-bit frame. Ink is the dark pixel state.
type Bitmap interface {
	Width() int
	Height() int
	Ink(x, y int) bool
}

// Panel is a monochrome display. Frames are handed over in the panel's
// logical landscape orientation; the panel does any packing and transfer.
// Panels holding OS resources also implement io.Closer, and Run closes them
// once the program is done with the panel.
type Panel interface {
	Init() error
	Display(frame Bitmap) error
	// Clear fills the whole panel with a raw byte, 0xFF being white.
	Clear(fill byte) error
	// Sleep puts the panel into its lowest power state. Init wakes it.
	Sleep() error
	Size() (w, h int)
}

// HAL provides the only contact point between the program and the outside
// world.
type HAL interface {
	Logger() Logger
	Panel() Panel
}

// Logical landscape size of the 2.13" panel.
const (
	PanelWidth  = 250
	PanelHeight = 122
)

// Panel kinds.
const (
	PanelEPD      = "epd"
	PanelWindow   = "window"
	PanelTerminal = "terminal"
	PanelHeadless = "headless"
)

// Config selects and wires the panel.
type Config struct {
	Kind string
	// SnapshotDir receives a PNG per frame from the headless panel.
	SnapshotDir string
	// Scale enlarges previews.
	Scale int

	SPIPort string
	SPIHz   int64
	RST     string
	DC      string
	// CS is driven by hand when set; empty leaves chip select to the SPI
	// controller.
	CS   string
	BUSY string
	// PWR gates panel power when set.
	PWR string
}

func checkSize(p Panel, frame Bitmap) error {
	w, h := p.Size()
	if frame.Width() != w || frame.Height() != h {
		return fmt.Errorf("frame is %dx%d, panel is %dx%d", frame.Width(), frame.Height(), w, h)
	}
	return nil
}
