// Package telemetry samples host metrics and keeps a short history of each
// graphed value for the display.
package telemetry

import "fmt"

// Metric identifies one of the graphed host values.
type Metric uint8

const (
	WifiSignal Metric = iota
	CPUUsage
	CPUTemperature

	metricCount
)

// Metrics returns every graphed metric in display order.
func Metrics() []Metric {
	return []Metric{WifiSignal, CPUUsage, CPUTemperature}
}

func (m Metric) String() string {
	switch m {
	case WifiSignal:
		return "wifi_signal"
	case CPUUsage:
		return "cpu_usage"
	case CPUTemperature:
		return "cpu_temperature"
	default:
		return fmt.Sprintf("metric(%d)", uint8(m))
	}
}

// Title is the heading drawn above the metric's graph.
func (m Metric) Title() string {
	switch m {
	case WifiSignal:
		return "WiFi Signal Strength"
	case CPUUsage:
		return "CPU Usage"
	case CPUTemperature:
		return "CPU Temperature"
	default:
		return m.String()
	}
}

// Unit is the Y-axis title of the metric's graph.
func (m Metric) Unit() string {
	switch m {
	case WifiSignal:
		return "dB"
	case CPUUsage:
		return "%"
	case CPUTemperature:
		return "°C"
	default:
		return ""
	}
}

// Range is the declared display range of the metric. It only drives graph
// scaling; stored samples are never clamped to it.
func (m Metric) Range() Range {
	switch m {
	case WifiSignal:
		return NewRange(-100, -20)
	case CPUUsage:
		return NewRange(0, 100)
	case CPUTemperature:
		return NewRange(30, 80)
	default:
		return NewRange(0, 1)
	}
}

// Range is a closed value interval [Min, Max] with Min != Max.
type Range struct {
	Min float64
	Max float64
}

// NewRange returns the interval [min, max]. Equal bounds leave the
// value-to-pixel scale undefined and are a programming error.
func NewRange(min, max float64) Range {
	if min == max {
		panic(fmt.Sprintf("telemetry: degenerate range [%v, %v]", min, max))
	}
	return Range{Min: min, Max: max}
}

// Span is Max - Min.
func (r Range) Span() float64 { return r.Max - r.Min }
