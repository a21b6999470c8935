//go:build !linux && !tinygo

package telemetry

import "time"

func systemUptime() (time.Duration, error) {
	return 0, ErrUnsupported
}
