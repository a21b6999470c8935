package cycle

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/netnem/waveshare-1.7-epaper-info/hal"
	"github.com/netnem/waveshare-1.7-epaper-info/monitor/canvas"
	"github.com/netnem/waveshare-1.7-epaper-info/monitor/render"
	"github.com/netnem/waveshare-1.7-epaper-info/monitor/telemetry"
)

const (
	DefaultUpdateInterval = 15 * time.Second
	DefaultScreenInterval = 10 * time.Second
)

// Config wires a Cycle.
type Config struct {
	Monitor *telemetry.Monitor
	Panel   hal.Panel
	Graph   *render.Graph
	Status  *render.Status

	// UpdateInterval is the minimum time between samples.
	UpdateInterval time.Duration
	// ScreenInterval is how long each page is held.
	ScreenInterval time.Duration
	// MaxFrames stops the loop after that many frames. Zero runs until
	// the context is cancelled.
	MaxFrames int

	Clock  Clock
	Logger *slog.Logger
}

// Cycle is the display loop state.
type Cycle struct {
	cfg Config

	phase      Phase
	lastSample time.Time
	sampled    bool
	frames     int
}

// New returns a cycle starting at PhaseStatus with sampling due.
func New(cfg Config) *Cycle {
	if cfg.UpdateInterval <= 0 {
		cfg.UpdateInterval = DefaultUpdateInterval
	}
	if cfg.ScreenInterval <= 0 {
		cfg.ScreenInterval = DefaultScreenInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cycle{cfg: cfg, phase: PhaseStatus}
}

// Phase returns the phase the next Step will show.
func (c *Cycle) Phase() Phase { return c.phase }

// Frames returns the number of frames shown so far.
func (c *Cycle) Frames() int { return c.frames }

// Run loops until ctx is cancelled or MaxFrames is reached. Cancellation
// clears the panel and puts it to sleep; both are best effort and Run
// returns nil. Reaching MaxFrames leaves the panel as is.
func (c *Cycle) Run(ctx context.Context) error {
	c.cfg.Logger.Info("display cycle started",
		"update_interval", c.cfg.UpdateInterval,
		"screen_interval", c.cfg.ScreenInterval,
		"max_frames", c.cfg.MaxFrames,
	)
	for {
		if ctx.Err() != nil {
			return c.shutdown()
		}
		c.Step(ctx)
		if c.cfg.MaxFrames > 0 && c.frames >= c.cfg.MaxFrames {
			c.cfg.Logger.Info("display cycle finished", "frames", c.frames)
			return nil
		}
		if err := c.cfg.Clock.Sleep(ctx, c.cfg.ScreenInterval); err != nil {
			return c.shutdown()
		}
	}
}

// Step shows one frame: samples if due, renders the current phase, hands it
// to the panel and advances. A panel error is logged and the frame dropped.
func (c *Cycle) Step(ctx context.Context) {
	now := c.cfg.Clock.Now()
	if !c.sampled || now.Sub(c.lastSample) >= c.cfg.UpdateInterval {
		c.cfg.Monitor.Update(ctx)
		c.lastSample = now
		c.sampled = true
	}

	frame := c.Frame(ctx, c.phase)
	if err := c.cfg.Panel.Display(frame); err != nil {
		c.cfg.Logger.Warn("panel display failed", "phase", c.phase.String(), "error", err)
	} else {
		c.cfg.Logger.Debug("frame displayed", "phase", c.phase.String(), "frame", c.frames)
	}
	c.frames++
	c.phase = c.phase.Next()
}

// Frame renders phase p, already turned for the panel.
func (c *Cycle) Frame(ctx context.Context, p Phase) *canvas.Canvas {
	if m, ok := p.Metric(); ok {
		return c.cfg.Graph.RenderMetric(m, c.cfg.Monitor.History(m))
	}
	return c.cfg.Status.Render(c.cfg.Monitor.StatusLines(ctx))
}

func (c *Cycle) shutdown() error {
	c.cfg.Logger.Info("cleaning up display")
	if err := c.cfg.Panel.Clear(0xFF); err != nil {
		c.cfg.Logger.Warn("panel clear failed", "error", err)
	}
	if err := c.cfg.Panel.Sleep(); err != nil {
		c.cfg.Logger.Warn("panel sleep failed", "error", err)
	}
	return nil
}
