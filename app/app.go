// Package app assembles the telemetry display: environment, sampler,
// renderers and the display cycle, bound to whatever panel the HAL offers.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/netnem/waveshare-1.7-epaper-info/hal"
	"github.com/netnem/waveshare-1.7-epaper-info/monitor/cycle"
	"github.com/netnem/waveshare-1.7-epaper-info/monitor/fonts"
	"github.com/netnem/waveshare-1.7-epaper-info/monitor/render"
	"github.com/netnem/waveshare-1.7-epaper-info/monitor/telemetry"
)

// Options configures an App. Zero intervals take the cycle defaults.
type Options struct {
	Env           telemetry.Environment
	HistoryPoints int

	UpdateInterval time.Duration
	ScreenInterval time.Duration
	// MaxFrames stops Run after that many frames; zero runs until cancelled.
	MaxFrames int

	Clock  cycle.Clock
	Logger *slog.Logger
}

type App struct {
	opts    Options
	logger  *slog.Logger
	monitor *telemetry.Monitor
	graph   *render.Graph
	status  *render.Status
}

// New loads the fonts and builds the sampler and renderers.
func New(opts Options) (*App, error) {
	if opts.Env == nil {
		return nil, errors.New("app: no telemetry environment")
	}
	if opts.HistoryPoints <= 0 {
		opts.HistoryPoints = telemetry.DefaultHistoryPoints
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	regular, err := fonts.Regular()
	if err != nil {
		return nil, fmt.Errorf("app: regular font: %w", err)
	}
	small, err := fonts.Small()
	if err != nil {
		return nil, fmt.Errorf("app: small font: %w", err)
	}

	return &App{
		opts:    opts,
		logger:  logger,
		monitor: telemetry.NewMonitor(opts.Env, opts.HistoryPoints, logger.With("component", "telemetry")),
		graph:   render.NewGraph(hal.PanelWidth, hal.PanelHeight, regular, small),
		status:  render.NewStatus(hal.PanelWidth, hal.PanelHeight, regular),
	}, nil
}

// Monitor returns the sampler shared by every page.
func (a *App) Monitor() *telemetry.Monitor { return a.monitor }

// Run wakes the panel and drives the display cycle on it until ctx is
// cancelled or MaxFrames is reached. A panic in the cycle is shown on the
// panel and returned as an error.
func (a *App) Run(ctx context.Context, h hal.HAL) (err error) {
	panel := h.Panel()
	if panel == nil {
		return hal.ErrNotImplemented
	}

	defer func() {
		if r := recover(); r != nil {
			a.reportPanic(h, r, debug.Stack())
			err = fmt.Errorf("app: display cycle panicked: %v", r)
		}
	}()

	if err := panel.Init(); err != nil {
		return fmt.Errorf("app: init panel: %w", err)
	}
	w, hgt := panel.Size()
	a.logger.Info("panel ready", "width", w, "height", hgt, "history_points", a.opts.HistoryPoints)

	c := cycle.New(cycle.Config{
		Monitor:        a.monitor,
		Panel:          panel,
		Graph:          a.graph,
		Status:         a.status,
		UpdateInterval: a.opts.UpdateInterval,
		ScreenInterval: a.opts.ScreenInterval,
		MaxFrames:      a.opts.MaxFrames,
		Clock:          a.opts.Clock,
		Logger:         a.logger.With("component", "cycle"),
	})
	return c.Run(ctx)
}

// NewLogger returns a text logger writing to the HAL log sink.
func NewLogger(sink hal.Logger, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewTextHandler(hal.LogWriter(sink), &slog.HandlerOptions{Level: level}))
}
