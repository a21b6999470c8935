// Package cli is the epaper-info command line.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/netnem/waveshare-1.7-epaper-info/app"
	"github.com/netnem/waveshare-1.7-epaper-info/hal"
	"github.com/netnem/waveshare-1.7-epaper-info/internal/buildinfo"
	"github.com/netnem/waveshare-1.7-epaper-info/internal/config"
	"github.com/netnem/waveshare-1.7-epaper-info/monitor/telemetry"
)

// Execute runs the command line with the process arguments. ctx is
// cancelled on SIGINT/SIGTERM by the caller.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the command tree. The root command runs the display
// cycle until interrupted.
func NewRootCommand() *cobra.Command {
	var (
		configPath string
		frames     int
	)

	root := &cobra.Command{
		Use:   "epaper-info",
		Short: "Show host telemetry on a 2.13\" e-paper panel",
		Long: `epaper-info samples Wi-Fi signal, CPU usage and CPU temperature and cycles
a status page and three history graphs on a Waveshare 2.13" e-paper panel.

Settings come from defaults, an optional YAML file (--config), EPAPER_*
environment variables and flags, in increasing order of precedence.

Examples:
  epaper-info
  epaper-info --panel window
  epaper-info --panel headless --snapshot-dir frames --frames 8
  EPAPER_UPDATE_INTERVAL=30 epaper-info`,
		Version:       buildinfo.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			a, err := newApp(cfg, logger, frames)
			if err != nil {
				return err
			}
			logger.Info("starting", "version", buildinfo.Short(), "panel", cfg.Panel.Kind)
			return hal.Run(cmd.Context(), cfg.HAL(), logger.With("component", "panel"), a.Run)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML config file")
	pf.Int("history-points", 0, "samples kept per metric (default 20)")
	pf.String("update-interval", "", "time between samples, seconds or a duration (default 15s)")
	pf.String("screen-interval", "", "time each page is shown, seconds or a duration (default 10s)")
	pf.String("log-level", "", "debug, info, warn or error (default info)")
	pf.String("panel", "", "panel kind: epd, window, terminal or headless")
	pf.String("snapshot-dir", "", "directory for PNG frames from the headless panel")
	pf.Int("scale", 0, "enlargement of window and PNG previews (default 2)")
	pf.String("spi-port", "", "SPI port name for the epd panel (default: first port)")
	root.Flags().IntVar(&frames, "frames", 0, "stop after this many frames (0 runs until interrupted)")

	root.AddCommand(
		newSnapshotCommand(&configPath),
		newConfigCommand(&configPath),
		newVersionCommand(),
	)
	return root
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	return app.NewLogger(hal.Console(), level), nil
}

func newApp(cfg *config.Config, logger *slog.Logger, frames int) (*app.App, error) {
	env := telemetry.NewHost(telemetry.HostConfig{
		WifiInterface: cfg.Sensors.WifiInterface,
		ThermalZone:   cfg.Sensors.ThermalZone,
	}, logger.With("component", "host"))

	a, err := app.New(app.Options{
		Env:            env,
		HistoryPoints:  cfg.HistoryPoints,
		UpdateInterval: cfg.UpdateInterval,
		ScreenInterval: cfg.ScreenInterval,
		MaxFrames:      frames,
		Logger:         logger,
	})
	if err != nil {
		return nil, fmt.Errorf("cli: %w", err)
	}
	return a, nil
}
