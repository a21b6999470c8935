//go:build linux && !tinygo

package telemetry

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

func systemUptime() (time.Duration, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, fmt.Errorf("telemetry: sysinfo: %w", err)
	}
	return time.Duration(int64(info.Uptime)) * time.Second, nil
}
