package config

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"history-points":  "history_points",
	"update-interval": "update_interval",
	"screen-interval": "screen_interval",
	"log-level":       "log_level",
	"panel":           "panel.kind",
	"snapshot-dir":    "panel.snapshot_dir",
	"scale":           "panel.scale",
	"spi-port":        "panel.spi_port",
}

// Load builds the configuration. path names an optional YAML file; flags,
// when non-nil, may carry any of the flags in flagKeys. Only flags that were
// set on the command line override the other sources.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("config: bind --%s: %w", name, err)
			}
		}
	}

	cfg := &Config{}
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		secondsToDurationHook(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(cfg, hook); err != nil {
		return nil, fmt.Errorf("config: decode: %w", errors.Join(ErrInvalid, err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so environment variables can reach it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("history_points", d.HistoryPoints)
	v.SetDefault("update_interval", d.UpdateInterval)
	v.SetDefault("screen_interval", d.ScreenInterval)
	v.SetDefault("log_level", d.LogLevel)

	v.SetDefault("panel.kind", d.Panel.Kind)
	v.SetDefault("panel.snapshot_dir", d.Panel.SnapshotDir)
	v.SetDefault("panel.scale", d.Panel.Scale)
	v.SetDefault("panel.spi_port", d.Panel.SPIPort)
	v.SetDefault("panel.spi_hz", d.Panel.SPIHz)
	v.SetDefault("panel.pins.rst", d.Panel.Pins.RST)
	v.SetDefault("panel.pins.dc", d.Panel.Pins.DC)
	v.SetDefault("panel.pins.cs", d.Panel.Pins.CS)
	v.SetDefault("panel.pins.busy", d.Panel.Pins.BUSY)
	v.SetDefault("panel.pins.pwr", d.Panel.Pins.PWR)

	v.SetDefault("sensors.wifi_interface", d.Sensors.WifiInterface)
	v.SetDefault("sensors.thermal_zone", d.Sensors.ThermalZone)
}

// secondsToDurationHook lets durations be written as a bare number of
// seconds ("15", 15 or 2.5) as well as Go duration strings ("15s").
func secondsToDurationHook() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeOf(time.Duration(0))
	return func(from, to reflect.Type, data any) (any, error) {
		if to != durationType {
			return data, nil
		}
		switch v := data.(type) {
		case int:
			return time.Duration(v) * time.Second, nil
		case int64:
			return time.Duration(v) * time.Second, nil
		case uint64:
			return time.Duration(v) * time.Second, nil
		case float64:
			return time.Duration(v * float64(time.Second)), nil
		case string:
			if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return time.Duration(n * float64(time.Second)), nil
			}
		}
		return data, nil
	}
}
