package telemetry

import (
	"context"
	"fmt"
	"time"
)

// StatusLines returns the status page text, one entry per line: clock,
// hostname, IP, Wi-Fi, CPU, RAM, temperature and uptime. Readers that fail
// produce a fallback string instead of an error.
func (m *Monitor) StatusLines(ctx context.Context) []string {
	return []string{
		ClockLine(m.now()),
		m.hostnameLine(ctx),
		m.ipLine(ctx),
		m.wifiLine(ctx),
		m.cpuLine(),
		m.memoryLine(ctx),
		m.temperatureLine(),
		m.uptimeLine(ctx),
	}
}

// ClockLine formats t as "03:04:05 PM  Jan 02, 2006".
func ClockLine(t time.Time) string {
	return t.Format("03:04:05 PM") + "  " + t.Format("Jan 02, 2006")
}

func (m *Monitor) hostnameLine(ctx context.Context) string {
	name, err := m.env.Hostname(ctx)
	if err != nil || name == "" {
		m.logger.Debug("hostname unavailable", "error", err)
		return "unknown host"
	}
	return name
}

func (m *Monitor) ipLine(ctx context.Context) string {
	ip, err := m.env.IPAddress(ctx)
	if err != nil || ip == "" {
		m.logger.Debug("ip address unavailable", "error", err)
		return "IP: Not found"
	}
	return "IP: " + ip
}

func (m *Monitor) wifiLine(ctx context.Context) string {
	ssid, err := m.env.WifiSSID(ctx)
	if err != nil {
		m.logger.Debug("wifi ssid unavailable", "error", err)
		return "WiFi: Error"
	}
	if ssid == "" {
		ssid = "Not Connected"
	}
	signal, err := m.env.WifiSignal(ctx)
	if err != nil {
		return "WiFi: " + ssid
	}
	return fmt.Sprintf("WiFi: %s (%ddB)", ssid, signal)
}

func (m *Monitor) cpuLine() string {
	return fmt.Sprintf("CPU: %.1f%%", m.State().CPU.Value)
}

func (m *Monitor) memoryLine(ctx context.Context) string {
	pct, err := m.env.MemoryPercent(ctx)
	if err != nil {
		m.logger.Debug("memory usage unavailable", "error", err)
		pct = 0
	}
	return fmt.Sprintf("RAM: %.1f%%", pct)
}

func (m *Monitor) temperatureLine() string {
	return fmt.Sprintf("Temp: %.1f°C", m.State().Temperature.Value)
}

func (m *Monitor) uptimeLine(ctx context.Context) string {
	up, err := m.env.Uptime(ctx)
	if err != nil {
		m.logger.Debug("uptime unavailable", "error", err)
		return "Up: unknown"
	}
	return FormatUptime(up)
}

// FormatUptime renders d as "Up: <hours>h <minutes>m".
func FormatUptime(d time.Duration) string {
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("Up: %dh %dm", hours, minutes)
}
