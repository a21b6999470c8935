package telemetry

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Reading is the latest value of a metric. When the read failed, Value holds
// the sentinel 0 and Valid is false.
type Reading struct {
	Value float64
	Valid bool
}

// State holds the instantaneous values from the most recent update.
type State struct {
	WifiSignal  Reading
	CPU         Reading
	Temperature Reading

	UpdatedAt time.Time
	Updates   uint64
	// Failures counts individual reads that fell back to a sentinel.
	Failures uint64
}

// Monitor is the process-wide sampling context: one History per metric plus
// the current State. Only Update mutates it.
type Monitor struct {
	env    Environment
	logger *slog.Logger
	now    func() time.Time

	history [metricCount]*History

	mu    sync.RWMutex
	state State
}

// NewMonitor creates a monitor keeping historyPoints samples per metric.
// If logger is nil, logs are discarded.
func NewMonitor(env Environment, historyPoints int, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m := &Monitor{
		env:    env,
		logger: logger,
		now:    time.Now,
	}
	for i := range m.history {
		m.history[i] = NewHistory(historyPoints)
	}
	return m
}

// Update reads every metric once, appends it to its history and refreshes
// State. A failing reader only affects its own metric.
func (m *Monitor) Update(ctx context.Context) {
	var failures uint64
	sample := func(metric Metric, read func() (float64, error)) Reading {
		v, err := read()
		if err != nil {
			failures++
			m.logger.Debug("sample unavailable, using sentinel",
				"metric", metric.String(),
				"error", err,
			)
			return Reading{}
		}
		return Reading{Value: v, Valid: true}
	}

	wifi := sample(WifiSignal, func() (float64, error) {
		dbm, err := m.env.WifiSignal(ctx)
		return float64(dbm), err
	})
	cpu := sample(CPUUsage, func() (float64, error) {
		return m.env.CPUPercent(ctx)
	})
	temp := sample(CPUTemperature, func() (float64, error) {
		return m.env.CPUTemperature(ctx)
	})

	m.history[WifiSignal].Append(wifi.Value)
	m.history[CPUUsage].Append(cpu.Value)
	m.history[CPUTemperature].Append(temp.Value)

	m.mu.Lock()
	m.state.WifiSignal = wifi
	m.state.CPU = cpu
	m.state.Temperature = temp
	m.state.UpdatedAt = m.now()
	m.state.Updates++
	m.state.Failures += failures
	st := m.state
	m.mu.Unlock()

	m.logger.Debug("telemetry updated",
		"wifi_dbm", wifi.Value,
		"cpu_pct", cpu.Value,
		"temp_c", temp.Value,
		"history_len", m.history[CPUUsage].Len(),
		"failures", st.Failures,
	)
}

// History returns the sample history of metric.
func (m *Monitor) History(metric Metric) *History {
	if metric >= metricCount {
		return nil
	}
	return m.history[metric]
}

// State returns a copy of the current state.
func (m *Monitor) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}
