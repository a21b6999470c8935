//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	periphhost "periph.io/x/host/v3"
)

// Default wiring of the Waveshare 2.13" HAT on a Raspberry Pi.
const (
	DefaultSPIHz = 4_000_000
	DefaultRST   = "GPIO17"
	DefaultDC    = "GPIO25"
	DefaultBUSY  = "GPIO24"
	DefaultPWR   = "GPIO18"
)

// SSD1680 commands used by the 2.13" V4 controller.
const (
	cmdDriverOutput    = 0x01
	cmdDeepSleep       = 0x10
	cmdDataEntryMode   = 0x11
	cmdSoftReset       = 0x12
	cmdTempSensor      = 0x18
	cmdMasterActivate  = 0x20
	cmdUpdateControl1  = 0x21
	cmdUpdateControl2  = 0x22
	cmdWriteRAM        = 0x24
	cmdBorderWaveform  = 0x3C
	cmdRAMXRange       = 0x44
	cmdRAMYRange       = 0x45
	cmdRAMXCounter     = 0x4E
	cmdRAMYCounter     = 0x4F
	defaultBusyTimeout = 10 * time.Second
	defaultMaxTx       = 4096
)

var (
	errBusyTimeout = errors.New("epd: busy timeout")
	errClosed      = errors.New("epd: closed")
)

// EPD drives the 2.13" V4 panel over Linux SPI and GPIO.
type EPD struct {
	conn   spi.Conn
	closer io.Closer
	closed bool

	rst  gpio.PinOut
	dc   gpio.PinOut
	cs   gpio.PinOut
	busy gpio.PinIn
	pwr  gpio.PinOut

	logger      *slog.Logger
	delay       func(time.Duration)
	now         func() time.Time
	busyTimeout time.Duration
	maxTx       int
}

var _ Panel = (*EPD)(nil)

// OpenEPD initializes periph.io, opens the SPI port and claims the pins
// named in cfg. Init must be called before the first frame.
func OpenEPD(cfg Config, logger *slog.Logger) (*EPD, error) {
	if _, err := periphhost.Init(); err != nil {
		return nil, fmt.Errorf("epd: periph init: %w", err)
	}
	port, err := spireg.Open(cfg.SPIPort)
	if err != nil {
		return nil, fmt.Errorf("epd: open spi %q: %w", cfg.SPIPort, err)
	}
	hz := cfg.SPIHz
	if hz <= 0 {
		hz = DefaultSPIHz
	}
	c, err := port.Connect(physic.Frequency(hz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("epd: connect spi: %w", err)
	}

	pin := func(name, def string) (gpio.PinIO, error) {
		if name == "" {
			name = def
		}
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("epd: unknown pin %q", name)
		}
		return p, nil
	}
	rst, err := pin(cfg.RST, DefaultRST)
	if err != nil {
		port.Close()
		return nil, err
	}
	dc, err := pin(cfg.DC, DefaultDC)
	if err != nil {
		port.Close()
		return nil, err
	}
	busy, err := pin(cfg.BUSY, DefaultBUSY)
	if err != nil {
		port.Close()
		return nil, err
	}
	var cs, pwr gpio.PinOut
	if cfg.CS != "" {
		if cs, err = pin(cfg.CS, ""); err != nil {
			port.Close()
			return nil, err
		}
	}
	if cfg.PWR != "" {
		if pwr, err = pin(cfg.PWR, ""); err != nil {
			port.Close()
			return nil, err
		}
	}
	if err := busy.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		port.Close()
		return nil, fmt.Errorf("epd: busy pin: %w", err)
	}

	d := newEPD(c, rst, dc, busy, logger)
	d.cs = cs
	d.pwr = pwr
	d.closer = port
	if l, ok := c.(conn.Limits); ok && l.MaxTxSize() > 0 {
		d.maxTx = l.MaxTxSize()
	}
	return d, nil
}

func newEPD(c spi.Conn, rst, dc gpio.PinOut, busy gpio.PinIn, logger *slog.Logger) *EPD {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &EPD{
		conn:        c,
		rst:         rst,
		dc:          dc,
		busy:        busy,
		logger:      logger,
		delay:       time.Sleep,
		now:         time.Now,
		busyTimeout: defaultBusyTimeout,
		maxTx:       defaultMaxTx,
	}
}

func (d *EPD) Size() (w, h int) { return PanelWidth, PanelHeight }

// Init powers the panel, resets it and programs a full-refresh update.
func (d *EPD) Init() error {
	if d.closed {
		return errClosed
	}
	if d.pwr != nil {
		if err := d.pwr.Out(gpio.High); err != nil {
			return fmt.Errorf("epd: power on: %w", err)
		}
	}
	if err := d.reset(); err != nil {
		return err
	}
	steps := []func() error{
		d.waitIdle,
		func() error { return d.command(cmdSoftReset) },
		d.waitIdle,
		func() error { return d.command(cmdDriverOutput, 0xF9, 0x00, 0x00) },
		func() error { return d.command(cmdDataEntryMode, 0x03) },
		func() error { return d.setWindow(0, 0, NativeWidth-1, NativeHeight-1) },
		func() error { return d.setCursor(0, 0) },
		func() error { return d.command(cmdBorderWaveform, 0x05) },
		func() error { return d.command(cmdUpdateControl1, 0x00, 0x80) },
		func() error { return d.command(cmdTempSensor, 0x80) },
		d.waitIdle,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("epd: init: %w", err)
		}
	}
	d.logger.Debug("epd initialized")
	return nil
}

// Display packs frame and runs a full refresh.
func (d *EPD) Display(frame Bitmap) error {
	if err := checkSize(d, frame); err != nil {
		return err
	}
	if err := d.command(cmdWriteRAM, PackLandscape(frame)...); err != nil {
		return fmt.Errorf("epd: write ram: %w", err)
	}
	return d.refresh()
}

// Clear fills the panel RAM with fill and refreshes.
func (d *EPD) Clear(fill byte) error {
	buf := make([]byte, NativeStride*NativeHeight)
	for i := range buf {
		buf[i] = fill
	}
	if err := d.command(cmdWriteRAM, buf...); err != nil {
		return fmt.Errorf("epd: clear: %w", err)
	}
	return d.refresh()
}

// Sleep enters deep sleep and cuts panel power. Init wakes the controller
// with a hardware reset.
func (d *EPD) Sleep() error {
	if err := d.command(cmdDeepSleep, 0x01); err != nil {
		return fmt.Errorf("epd: sleep: %w", err)
	}
	d.delay(2 * time.Second)
	if d.pwr != nil {
		if err := d.pwr.Out(gpio.Low); err != nil {
			return fmt.Errorf("epd: power off: %w", err)
		}
	}
	return nil
}

// Close releases the SPI port. The panel keeps its last image; the EPD
// cannot be used afterwards.
func (d *EPD) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if d.closer == nil {
		return nil
	}
	if err := d.closer.Close(); err != nil {
		return fmt.Errorf("epd: close spi: %w", err)
	}
	return nil
}

func (d *EPD) refresh() error {
	if err := d.command(cmdUpdateControl2, 0xF7); err != nil {
		return err
	}
	if err := d.command(cmdMasterActivate); err != nil {
		return err
	}
	return d.waitIdle()
}

func (d *EPD) reset() error {
	for _, s := range []struct {
		level gpio.Level
		hold  time.Duration
	}{
		{gpio.High, 20 * time.Millisecond},
		{gpio.Low, 2 * time.Millisecond},
		{gpio.High, 20 * time.Millisecond},
	} {
		if err := d.rst.Out(s.level); err != nil {
			return fmt.Errorf("epd: reset: %w", err)
		}
		d.delay(s.hold)
	}
	return nil
}

func (d *EPD) setWindow(x0, y0, x1, y1 int) error {
	if err := d.command(cmdRAMXRange, byte(x0>>3), byte(x1>>3)); err != nil {
		return err
	}
	return d.command(cmdRAMYRange, byte(y0), byte(y0>>8), byte(y1), byte(y1>>8))
}

func (d *EPD) setCursor(x, y int) error {
	if err := d.command(cmdRAMXCounter, byte(x)); err != nil {
		return err
	}
	return d.command(cmdRAMYCounter, byte(y), byte(y>>8))
}

// waitIdle polls BUSY until the controller releases it.
func (d *EPD) waitIdle() error {
	deadline := d.now().Add(d.busyTimeout)
	for d.busy.Read() == gpio.High {
		if d.now().After(deadline) {
			return errBusyTimeout
		}
		d.delay(10 * time.Millisecond)
	}
	return nil
}

// command sends cmd with DC low, then data with DC high.
func (d *EPD) command(cmd byte, data ...byte) error {
	if err := d.write(gpio.Low, []byte{cmd}); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return d.write(gpio.High, data)
}

func (d *EPD) write(dc gpio.Level, b []byte) error {
	if d.closed {
		return errClosed
	}
	if err := d.dc.Out(dc); err != nil {
		return err
	}
	if d.cs != nil {
		if err := d.cs.Out(gpio.Low); err != nil {
			return err
		}
		defer d.cs.Out(gpio.High)
	}
	for len(b) > 0 {
		n := min(len(b), d.maxTx)
		if err := d.conn.Tx(b[:n], nil); err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}
