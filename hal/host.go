//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

type hostHAL struct {
	logger *hostLogger
	panel  Panel
}

var console = &hostLogger{w: os.Stderr}

// Console returns the host log sink, standard error.
func Console() Logger { return console }

// New returns a host HAL driving the panel selected by cfg. The window panel
// needs the main thread and is only available through Run.
func New(cfg Config, logger *slog.Logger) (HAL, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	var (
		p   Panel
		err error
	)
	switch cfg.Kind {
	case PanelHeadless, "":
		p = newHeadlessPanel(cfg, logger)
	case PanelTerminal:
		p = newTerminalPanel(os.Stdout)
	case PanelEPD:
		p, err = OpenEPD(cfg, logger)
	case PanelWindow:
		return nil, fmt.Errorf("hal: %s panel must be started with Run", cfg.Kind)
	default:
		return nil, fmt.Errorf("hal: unknown panel kind %q", cfg.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("hal: open %s panel: %w", cfg.Kind, err)
	}
	return &hostHAL{logger: console, panel: p}, nil
}

// Run opens the configured panel and calls fn with it. Window mode keeps the
// calling goroutine for the event loop, runs fn on another goroutine and
// cancels its context when the window closes.
func Run(ctx context.Context, cfg Config, logger *slog.Logger, fn func(context.Context, HAL) error) error {
	if cfg.Kind == PanelWindow {
		return RunWindow(ctx, cfg, fn)
	}
	h, err := New(cfg, logger)
	if err != nil {
		return err
	}
	return closePanel(h, fn(ctx, h))
}

// closePanel releases the panel of h when it holds resources and joins any
// failure onto err.
func closePanel(h HAL, err error) error {
	c, ok := h.Panel().(io.Closer)
	if !ok {
		return err
	}
	if cerr := c.Close(); cerr != nil {
		return errors.Join(err, cerr)
	}
	return err
}

func (h *hostHAL) Logger() Logger { return h.logger }
func (h *hostHAL) Panel() Panel   { return h.panel }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
