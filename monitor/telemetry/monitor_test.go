package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEnv returns fixed values; a non-nil error field makes that reader fail.
type fakeEnv struct {
	signal    int
	signalErr error
	ssid      string
	ssidErr   error
	ip        string
	ipErr     error
	uptime    time.Duration
	uptimeErr error
	cpu       float64
	cpuErr    error
	mem       float64
	memErr    error
	temp      float64
	tempErr   error
	host      string
	hostErr   error
}

func (f *fakeEnv) WifiSignal(context.Context) (int, error)         { return f.signal, f.signalErr }
func (f *fakeEnv) WifiSSID(context.Context) (string, error)        { return f.ssid, f.ssidErr }
func (f *fakeEnv) IPAddress(context.Context) (string, error)       { return f.ip, f.ipErr }
func (f *fakeEnv) Uptime(context.Context) (time.Duration, error)   { return f.uptime, f.uptimeErr }
func (f *fakeEnv) CPUPercent(context.Context) (float64, error)     { return f.cpu, f.cpuErr }
func (f *fakeEnv) MemoryPercent(context.Context) (float64, error)  { return f.mem, f.memErr }
func (f *fakeEnv) CPUTemperature(context.Context) (float64, error) { return f.temp, f.tempErr }
func (f *fakeEnv) Hostname(context.Context) (string, error)        { return f.host, f.hostErr }

func healthyEnv() *fakeEnv {
	return &fakeEnv{
		signal: -56,
		ssid:   "homenet",
		ip:     "192.168.1.20",
		uptime: 26*time.Hour + 7*time.Minute + 30*time.Second,
		cpu:    12.5,
		mem:    41.25,
		temp:   48.3,
		host:   "raspberrypi",
	}
}

func TestMonitorUpdate(t *testing.T) {
	m := NewMonitor(healthyEnv(), 4, nil)
	m.Update(context.Background())

	st := m.State()
	assert.Equal(t, Reading{Value: -56, Valid: true}, st.WifiSignal)
	assert.Equal(t, Reading{Value: 12.5, Valid: true}, st.CPU)
	assert.Equal(t, Reading{Value: 48.3, Valid: true}, st.Temperature)
	assert.Equal(t, uint64(1), st.Updates)
	assert.Zero(t, st.Failures)
	assert.False(t, st.UpdatedAt.IsZero())

	assert.Equal(t, []float64{-56}, m.History(WifiSignal).Values())
	assert.Equal(t, []float64{12.5}, m.History(CPUUsage).Values())
	assert.Equal(t, []float64{48.3}, m.History(CPUTemperature).Values())
}

func TestMonitorTemperatureFailureIsIsolated(t *testing.T) {
	env := healthyEnv()
	env.tempErr = errors.New("no thermal zone")

	m := NewMonitor(env, 4, nil)
	m.Update(context.Background())

	st := m.State()
	assert.Equal(t, Reading{}, st.Temperature)
	assert.Equal(t, 0.0, st.Temperature.Value)
	assert.True(t, st.WifiSignal.Valid)
	assert.True(t, st.CPU.Valid)
	assert.Equal(t, uint64(1), st.Failures)

	assert.Equal(t, []float64{0}, m.History(CPUTemperature).Values())
	assert.Equal(t, []float64{-56}, m.History(WifiSignal).Values())
	assert.Equal(t, []float64{12.5}, m.History(CPUUsage).Values())
}

func TestMonitorAllReadersFail(t *testing.T) {
	boom := errors.New("boom")
	env := &fakeEnv{signalErr: boom, cpuErr: boom, tempErr: boom}

	m := NewMonitor(env, 2, nil)
	for i := 0; i < 3; i++ {
		m.Update(context.Background())
	}

	st := m.State()
	assert.Equal(t, uint64(3), st.Updates)
	assert.Equal(t, uint64(9), st.Failures)
	for _, metric := range Metrics() {
		assert.Equal(t, []float64{0, 0}, m.History(metric).Values(), metric.String())
	}
}

func TestMonitorHistoryUnknownMetric(t *testing.T) {
	m := NewMonitor(healthyEnv(), 2, nil)
	assert.Nil(t, m.History(metricCount))
}

func TestStatusLines(t *testing.T) {
	m := NewMonitor(healthyEnv(), 4, nil)
	m.now = func() time.Time {
		return time.Date(2026, time.October, 19, 15, 4, 5, 0, time.UTC)
	}
	m.Update(context.Background())

	lines := m.StatusLines(context.Background())
	require.Len(t, lines, 8)
	assert.Equal(t, []string{
		"03:04:05 PM  Oct 19, 2026",
		"raspberrypi",
		"IP: 192.168.1.20",
		"WiFi: homenet (-56dB)",
		"CPU: 12.5%",
		"RAM: 41.2%",
		"Temp: 48.3°C",
		"Up: 26h 7m",
	}, lines)
}

func TestStatusLinesFallbacks(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		mod   func(*fakeEnv)
		index int
		want  string
	}{
		{"hostname", func(e *fakeEnv) { e.hostErr = boom }, 1, "unknown host"},
		{"ip", func(e *fakeEnv) { e.ipErr = boom }, 2, "IP: Not found"},
		{"ssid error", func(e *fakeEnv) { e.ssidErr = boom }, 3, "WiFi: Error"},
		{"not associated", func(e *fakeEnv) { e.ssid = ""; e.signalErr = boom }, 3, "WiFi: Not Connected"},
		{"no signal", func(e *fakeEnv) { e.signalErr = boom }, 3, "WiFi: homenet"},
		{"memory", func(e *fakeEnv) { e.memErr = boom }, 5, "RAM: 0.0%"},
		{"temperature", func(e *fakeEnv) { e.tempErr = boom }, 6, "Temp: 0.0°C"},
		{"uptime", func(e *fakeEnv) { e.uptimeErr = boom }, 7, "Up: unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := healthyEnv()
			tt.mod(env)
			m := NewMonitor(env, 4, nil)
			m.Update(context.Background())

			lines := m.StatusLines(context.Background())
			require.Len(t, lines, 8)
			assert.Equal(t, tt.want, lines[tt.index])
		})
	}
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "Up: 0h 0m", FormatUptime(59*time.Second))
	assert.Equal(t, "Up: 1h 1m", FormatUptime(time.Hour+time.Minute))
	assert.Equal(t, "Up: 100h 59m", FormatUptime(100*time.Hour+59*time.Minute+59*time.Second))
}

func TestMetricRanges(t *testing.T) {
	assert.Equal(t, Range{Min: -100, Max: -20}, WifiSignal.Range())
	assert.Equal(t, Range{Min: 0, Max: 100}, CPUUsage.Range())
	assert.Equal(t, Range{Min: 30, Max: 80}, CPUTemperature.Range())
	assert.Equal(t, 50.0, CPUTemperature.Range().Span())
	assert.Equal(t, "°C", CPUTemperature.Unit())
	assert.Equal(t, "WiFi Signal Strength", WifiSignal.Title())

	assert.Panics(t, func() { NewRange(5, 5) })
}
