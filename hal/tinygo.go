//go:build tinygo && baremetal

package hal

import (
	"context"
	"errors"
	"log/slog"
	"machine"
)

type tinyGoHAL struct {
	logger *uartLogger
	panel  Panel
}

var console *uartLogger

// Console returns the UART log sink: UART0 on GP0 (TX) / GP1 (RX),
// 115200 8N1.
func Console() Logger {
	if console == nil {
		uart := machine.UART0
		uart.Configure(machine.UARTConfig{
			BaudRate: 115200,
			TX:       machine.GP0,
			RX:       machine.GP1,
		})
		console = &uartLogger{uart: uart}
	}
	return console
}

// New returns a Pico HAL driving a Pico-ePaper-2.13 module. Only the epd
// panel kind exists on boards.
func New(cfg Config, logger *slog.Logger) (HAL, error) {
	if cfg.Kind != "" && cfg.Kind != PanelEPD {
		return nil, errors.New("hal: only the epd panel is available on boards")
	}
	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	Console()
	return &tinyGoHAL{
		logger: console,
		panel:  newTinyGoEPD(&pinLED{pin: ledPin}),
	}, nil
}

// Run opens the panel and calls fn.
func Run(ctx context.Context, cfg Config, logger *slog.Logger, fn func(context.Context, HAL) error) error {
	h, err := New(cfg, logger)
	if err != nil {
		return err
	}
	return fn(ctx, h)
}

func (h *tinyGoHAL) Logger() Logger { return h.logger }
func (h *tinyGoHAL) Panel() Panel   { return h.panel }
