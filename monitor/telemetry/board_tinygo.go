//go:build tinygo

package telemetry

import (
	"context"
	"time"
)

// Board is the environment of a microcontroller build. Only the die
// temperature and uptime are available; network readers are unsupported.
type Board struct {
	name  string
	start time.Time
}

var _ Environment = (*Board)(nil)

// NewBoard returns the environment of the running board. name is reported
// as the hostname.
func NewBoard(name string) *Board {
	return &Board{name: name, start: time.Now()}
}

func (b *Board) WifiSignal(ctx context.Context) (int, error)     { return 0, ErrUnsupported }
func (b *Board) WifiSSID(ctx context.Context) (string, error)    { return "", ErrUnsupported }
func (b *Board) IPAddress(ctx context.Context) (string, error)   { return "", ErrUnsupported }
func (b *Board) CPUPercent(ctx context.Context) (float64, error) { return 0, ErrUnsupported }

func (b *Board) MemoryPercent(ctx context.Context) (float64, error) {
	return 0, ErrUnsupported
}

func (b *Board) Uptime(ctx context.Context) (time.Duration, error) {
	return time.Since(b.start), nil
}

func (b *Board) CPUTemperature(ctx context.Context) (float64, error) {
	return chipTemperature()
}

func (b *Board) Hostname(ctx context.Context) (string, error) {
	return b.name, nil
}
