// Package config loads the display settings from defaults, an optional YAML
// file, EPAPER_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/netnem/waveshare-1.7-epaper-info/hal"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// EnvPrefix is prepended to environment overrides, e.g.
// EPAPER_UPDATE_INTERVAL or EPAPER_PANEL_KIND.
const EnvPrefix = "EPAPER"

// Config is the complete program configuration.
type Config struct {
	HistoryPoints  int           `yaml:"history_points" mapstructure:"history_points"`
	UpdateInterval time.Duration `yaml:"update_interval" mapstructure:"update_interval"`
	ScreenInterval time.Duration `yaml:"screen_interval" mapstructure:"screen_interval"`
	LogLevel       string        `yaml:"log_level" mapstructure:"log_level"`
	Panel          PanelConfig   `yaml:"panel" mapstructure:"panel"`
	Sensors        SensorConfig  `yaml:"sensors" mapstructure:"sensors"`
}

// PanelConfig selects the display and, for the e-paper panel, its wiring.
type PanelConfig struct {
	Kind        string    `yaml:"kind" mapstructure:"kind"`
	SnapshotDir string    `yaml:"snapshot_dir" mapstructure:"snapshot_dir"`
	Scale       int       `yaml:"scale" mapstructure:"scale"`
	SPIPort     string    `yaml:"spi_port" mapstructure:"spi_port"`
	SPIHz       int64     `yaml:"spi_hz" mapstructure:"spi_hz"`
	Pins        PinConfig `yaml:"pins" mapstructure:"pins"`
}

// PinConfig names GPIO lines as understood by periph's gpioreg.
type PinConfig struct {
	RST  string `yaml:"rst" mapstructure:"rst"`
	DC   string `yaml:"dc" mapstructure:"dc"`
	CS   string `yaml:"cs" mapstructure:"cs"`
	BUSY string `yaml:"busy" mapstructure:"busy"`
	PWR  string `yaml:"pwr" mapstructure:"pwr"`
}

// SensorConfig points the host readers at their sources.
type SensorConfig struct {
	WifiInterface string `yaml:"wifi_interface" mapstructure:"wifi_interface"`
	ThermalZone   string `yaml:"thermal_zone" mapstructure:"thermal_zone"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		HistoryPoints:  20,
		UpdateInterval: 15 * time.Second,
		ScreenInterval: 10 * time.Second,
		LogLevel:       "info",
		Panel: PanelConfig{
			Kind:  defaultPanelKind(runtime.GOOS, runtime.GOARCH),
			Scale: 2,
			SPIHz: 4_000_000,
			Pins: PinConfig{
				RST:  "GPIO17",
				DC:   "GPIO25",
				BUSY: "GPIO24",
				PWR:  "GPIO18",
			},
		},
		Sensors: SensorConfig{
			WifiInterface: "wlan0",
			ThermalZone:   "/sys/class/thermal/thermal_zone0/temp",
		},
	}
}

// defaultPanelKind drives the real panel on Linux ARM boards and writes
// headless snapshots everywhere else.
func defaultPanelKind(goos, goarch string) string {
	if goos == "linux" && (goarch == "arm" || goarch == "arm64") {
		return hal.PanelEPD
	}
	return hal.PanelHeadless
}

var panelKinds = []string{hal.PanelEPD, hal.PanelWindow, hal.PanelTerminal, hal.PanelHeadless}

// Validate reports every problem found, each wrapping ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.HistoryPoints <= 0 {
		invalid("history_points must be positive, got %d", c.HistoryPoints)
	}
	if c.UpdateInterval <= 0 {
		invalid("update_interval must be positive, got %s", c.UpdateInterval)
	}
	if c.ScreenInterval <= 0 {
		invalid("screen_interval must be positive, got %s", c.ScreenInterval)
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if !slices.Contains(panelKinds, c.Panel.Kind) {
		invalid("panel.kind %q is not one of %s", c.Panel.Kind, strings.Join(panelKinds, ", "))
	}
	if c.Panel.Scale < 1 {
		invalid("panel.scale must be at least 1, got %d", c.Panel.Scale)
	}
	if c.Panel.Kind == hal.PanelEPD {
		if c.Panel.SPIHz <= 0 {
			invalid("panel.spi_hz must be positive, got %d", c.Panel.SPIHz)
		}
		for name, pin := range map[string]string{"rst": c.Panel.Pins.RST, "dc": c.Panel.Pins.DC, "busy": c.Panel.Pins.BUSY} {
			if pin == "" {
				invalid("panel.pins.%s is required for the %s panel", name, hal.PanelEPD)
			}
		}
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q: want debug, info, warn or error", ErrInvalid, c.LogLevel)
	}
	return l, nil
}

// HAL returns the panel settings in the form the hal package takes.
func (c *Config) HAL() hal.Config {
	return hal.Config{
		Kind:        c.Panel.Kind,
		SnapshotDir: c.Panel.SnapshotDir,
		Scale:       c.Panel.Scale,
		SPIPort:     c.Panel.SPIPort,
		SPIHz:       c.Panel.SPIHz,
		RST:         c.Panel.Pins.RST,
		DC:          c.Panel.Pins.DC,
		CS:          c.Panel.Pins.CS,
		BUSY:        c.Panel.Pins.BUSY,
		PWR:         c.Panel.Pins.PWR,
	}
}

// Write dumps c as YAML.
func (c *Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return enc.Close()
}
