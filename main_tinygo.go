//go:build tinygo && baremetal

package main

import (
	"context"
	"log/slog"

	"github.com/netnem/waveshare-1.7-epaper-info/app"
	"github.com/netnem/waveshare-1.7-epaper-info/hal"
	"github.com/netnem/waveshare-1.7-epaper-info/monitor/telemetry"
)

func main() {
	logger := app.NewLogger(hal.Console(), slog.LevelInfo)

	a, err := app.New(app.Options{
		Env:    telemetry.NewBoard("pico"),
		Logger: logger,
	})
	if err != nil {
		logger.Error("startup failed", "error", err)
		select {}
	}
	cfg := hal.Config{Kind: hal.PanelEPD}
	if err := hal.Run(context.Background(), cfg, logger, a.Run); err != nil {
		logger.Error("display cycle stopped", "error", err)
	}
	select {}
}
