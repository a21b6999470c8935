//go:build !tinygo

package telemetry

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrCPUBaseline is returned by the first CPUPercent call, which only
// records the counters the next call measures against.
var ErrCPUBaseline = errors.New("telemetry: cpu baseline")

const (
	DefaultWifiInterface = "wlan0"
	DefaultThermalZone   = "/sys/class/thermal/thermal_zone0/temp"
)

// HostConfig selects the sources the host environment reads from.
type HostConfig struct {
	WifiInterface string
	// ThermalZone is a sysfs file holding the temperature in millidegrees.
	ThermalZone string
}

// Host reads telemetry from a Linux host through /proc, /sys and a few
// wireless tools. On other systems the Linux-only readers fail and the
// sampler falls back to sentinels.
type Host struct {
	cfg    HostConfig
	logger *slog.Logger

	mu        sync.Mutex
	prevIdle  uint64
	prevTotal uint64

	// Overridable sources for testing.
	open     func(path string) (io.ReadCloser, error)
	run      func(ctx context.Context, name string, args ...string) ([]byte, error)
	addrs    func() ([]net.Addr, error)
	hostname func() (string, error)
	uptime   func() (time.Duration, error)
}

var _ Environment = (*Host)(nil)

// NewHost creates a host environment. Empty config fields take their
// defaults. If logger is nil, logs are discarded.
func NewHost(cfg HostConfig, logger *slog.Logger) *Host {
	if cfg.WifiInterface == "" {
		cfg.WifiInterface = DefaultWifiInterface
	}
	if cfg.ThermalZone == "" {
		cfg.ThermalZone = DefaultThermalZone
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Host{
		cfg:    cfg,
		logger: logger,
		open: func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		},
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).Output()
		},
		addrs:    net.InterfaceAddrs,
		hostname: os.Hostname,
		uptime:   systemUptime,
	}
}

// WifiSignal reads the signal level of the configured interface from
// /proc/net/wireless.
func (h *Host) WifiSignal(ctx context.Context) (int, error) {
	f, err := h.open("/proc/net/wireless")
	if err != nil {
		return 0, fmt.Errorf("telemetry: open /proc/net/wireless: %w", err)
	}
	defer f.Close()
	return parseWirelessLevel(f, h.cfg.WifiInterface)
}

// parseWirelessLevel finds the row for iface and returns its level column
// in dBm. Drivers that report the level as an unsigned byte (e.g. "211.")
// are mapped back to negative dBm the way wireless-tools does.
//
//	Inter-| sta-|   Quality        |   Discarded packets
//	 face | tus | link level noise |  nwid  crypt   frag
//	 wlan0: 0000   54.  -56.  -256        0      0      0
func parseWirelessLevel(r io.Reader, iface string) (int, error) {
	prefix := iface + ":"
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		fields := strings.Fields(strings.TrimPrefix(line, prefix))
		if len(fields) < 3 {
			return 0, fmt.Errorf("telemetry: wireless row for %s too short", iface)
		}
		level, err := strconv.ParseFloat(strings.TrimSuffix(fields[2], "."), 64)
		if err != nil {
			return 0, fmt.Errorf("telemetry: parse wireless level: %w", err)
		}
		if level > 63 {
			level -= 256
		}
		return int(level), nil
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("telemetry: %s not listed in /proc/net/wireless", iface)
}

// WifiSSID asks iwgetid for the associated network. An unassociated
// interface yields "".
func (h *Host) WifiSSID(ctx context.Context) (string, error) {
	out, err := h.run(ctx, "iwgetid", "-r", h.cfg.WifiInterface)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", nil
		}
		return "", fmt.Errorf("telemetry: iwgetid: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// IPAddress returns the first non-loopback IPv4 address.
func (h *Host) IPAddress(ctx context.Context) (string, error) {
	addrs, err := h.addrs()
	if err != nil {
		return "", fmt.Errorf("telemetry: interface addresses: %w", err)
	}
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		if v4 := ipnet.IP.To4(); v4 != nil {
			return v4.String(), nil
		}
	}
	return "", errors.New("telemetry: no IPv4 address")
}

func (h *Host) Uptime(ctx context.Context) (time.Duration, error) {
	return h.uptime()
}

// CPUPercent computes busy time between this call and the previous one from
// /proc/stat. The first call seeds the counters and returns ErrCPUBaseline.
func (h *Host) CPUPercent(ctx context.Context) (float64, error) {
	f, err := h.open("/proc/stat")
	if err != nil {
		return 0, fmt.Errorf("telemetry: open /proc/stat: %w", err)
	}
	defer f.Close()

	idle, total, err := parseCPUTimes(f)
	if err != nil {
		return 0, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.prevTotal == 0 {
		h.prevIdle, h.prevTotal = idle, total
		return 0, ErrCPUBaseline
	}
	deltaTotal := total - h.prevTotal
	deltaIdle := idle - h.prevIdle
	h.prevIdle, h.prevTotal = idle, total

	if deltaTotal == 0 {
		return 0, nil
	}
	pct := (1 - float64(deltaIdle)/float64(deltaTotal)) * 100
	return clampPercent(pct), nil
}

// parseCPUTimes returns the idle and total jiffies of the aggregate cpu row.
func parseCPUTimes(r io.Reader) (idle, total uint64, err error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "cpu ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			return 0, 0, errors.New("telemetry: /proc/stat cpu line too short")
		}
		// cpu user nice system idle iowait irq softirq steal ...
		for i := 1; i < len(fields); i++ {
			v, err := strconv.ParseUint(fields[i], 10, 64)
			if err != nil {
				return 0, 0, fmt.Errorf("telemetry: parse /proc/stat field %d: %w", i, err)
			}
			total += v
			if i == 4 {
				idle = v
			}
		}
		return idle, total, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, err
	}
	return 0, 0, errors.New("telemetry: cpu line not found in /proc/stat")
}

// MemoryPercent is (MemTotal - MemAvailable) / MemTotal from /proc/meminfo.
func (h *Host) MemoryPercent(ctx context.Context) (float64, error) {
	f, err := h.open("/proc/meminfo")
	if err != nil {
		return 0, fmt.Errorf("telemetry: open /proc/meminfo: %w", err)
	}
	defer f.Close()
	return parseMemoryPercent(f)
}

func parseMemoryPercent(r io.Reader) (float64, error) {
	var total, available uint64
	var haveTotal, haveAvailable bool

	scanner := bufio.NewScanner(r)
	for scanner.Scan() && !(haveTotal && haveAvailable) {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			v, err := strconv.ParseUint(fields[1], 10, 64)
			if err != nil {
				return 0, fmt.Errorf("telemetry: parse MemTotal: %w", err)
			}
			total, haveTotal = v, true
		case "MemAvailable:":
			v, err := strconv.ParseUint(fields[1], 10, 64)
			if err != nil {
				return 0, fmt.Errorf("telemetry: parse MemAvailable: %w", err)
			}
			available, haveAvailable = v, true
		}
	}
	switch {
	case !haveTotal:
		return 0, errors.New("telemetry: MemTotal not found in /proc/meminfo")
	case !haveAvailable:
		return 0, errors.New("telemetry: MemAvailable not found in /proc/meminfo")
	case total == 0:
		return 0, errors.New("telemetry: MemTotal is zero")
	}
	if available > total {
		available = total
	}
	return clampPercent(float64(total-available) / float64(total) * 100), nil
}

// CPUTemperature reads the configured thermal zone.
func (h *Host) CPUTemperature(ctx context.Context) (float64, error) {
	f, err := h.open(h.cfg.ThermalZone)
	if err != nil {
		return 0, fmt.Errorf("telemetry: open thermal zone: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, 64))
	if err != nil {
		return 0, fmt.Errorf("telemetry: read thermal zone: %w", err)
	}
	milli, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("telemetry: parse thermal zone: %w", err)
	}
	return float64(milli) / 1000, nil
}

func (h *Host) Hostname(ctx context.Context) (string, error) {
	return h.hostname()
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
