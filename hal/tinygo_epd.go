//go:build tinygo && baremetal

package hal

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/waveshare-epd/epd2in13"
)

var inkColor = color.RGBA{A: 0xFF}

// Pico-ePaper-2.13 wiring on SPI1.
const (
	epdSCK  = machine.GP10
	epdSDO  = machine.GP11
	epdCS   = machine.GP9
	epdDC   = machine.GP8
	epdRST  = machine.GP12
	epdBUSY = machine.GP13
)

// tinyGoEPD adapts the epd2in13 driver. Rotation270 gives the same
// landscape mapping as PackLandscape.
type tinyGoEPD struct {
	dev epd2in13.Device
	led *pinLED
}

func newTinyGoEPD(led *pinLED) *tinyGoEPD {
	machine.SPI1.Configure(machine.SPIConfig{
		SCK:       epdSCK,
		SDO:       epdSDO,
		Frequency: 4_000_000,
		Mode:      0,
	})
	return &tinyGoEPD{
		dev: epd2in13.New(machine.SPI1, epdCS, epdDC, epdRST, epdBUSY),
		led: led,
	}
}

func (p *tinyGoEPD) Init() error {
	p.dev.Configure(epd2in13.Config{
		Width:        NativeWidth,
		Height:       NativeHeight,
		LogicalWidth: NativeStride * 8,
		Rotation:     drivers.Rotation270,
	})
	return nil
}

func (p *tinyGoEPD) Size() (w, h int) { return PanelWidth, PanelHeight }

func (p *tinyGoEPD) Display(frame Bitmap) error {
	if err := checkSize(p, frame); err != nil {
		return err
	}
	p.dev.ClearBuffer()
	for y := 0; y < frame.Height(); y++ {
		for x := 0; x < frame.Width(); x++ {
			if frame.Ink(x, y) {
				p.dev.SetPixel(int16(x), int16(y), inkColor)
			}
		}
	}
	return p.refresh()
}

func (p *tinyGoEPD) Clear(fill byte) error {
	if fill == 0xFF {
		p.led.High()
		p.dev.ClearDisplay()
		p.dev.WaitUntilIdle()
		p.led.Low()
		return nil
	}
	p.dev.ClearBuffer()
	for y := 0; y < PanelHeight; y++ {
		for x := 0; x < PanelWidth; x++ {
			p.dev.SetPixel(int16(x), int16(y), inkColor)
		}
	}
	return p.refresh()
}

func (p *tinyGoEPD) Sleep() error {
	return p.dev.Sleep(true)
}

func (p *tinyGoEPD) refresh() error {
	p.led.High()
	defer p.led.Low()
	if err := p.dev.Display(); err != nil {
		return err
	}
	p.dev.WaitUntilIdle()
	return nil
}
