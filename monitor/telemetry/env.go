package telemetry

import (
	"context"
	"errors"
	"time"
)

// ErrUnsupported is returned by readers that have no source on the current
// platform.
var ErrUnsupported = errors.New("telemetry: unsupported on this platform")

// Environment reads raw values from the host. Every reader may fail; callers
// substitute a fallback rather than propagating the error.
type Environment interface {
	// WifiSignal returns the wireless signal level in dBm.
	WifiSignal(ctx context.Context) (int, error)
	// WifiSSID returns the name of the associated network, or "" when the
	// interface is up but not associated.
	WifiSSID(ctx context.Context) (string, error)
	IPAddress(ctx context.Context) (string, error)
	Uptime(ctx context.Context) (time.Duration, error)
	// CPUPercent returns the CPU busy percentage since the previous call.
	CPUPercent(ctx context.Context) (float64, error)
	MemoryPercent(ctx context.Context) (float64, error)
	// CPUTemperature returns degrees Celsius.
	CPUTemperature(ctx context.Context) (float64, error)
	Hostname(ctx context.Context) (string, error)
}
