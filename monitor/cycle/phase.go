// Package cycle runs the display loop: sample, render the current page,
// push it to the panel, hold, advance.
package cycle

import (
	"fmt"

	"github.com/netnem/waveshare-1.7-epaper-info/monitor/telemetry"
)

// Phase is the page shown by one iteration of the loop.
type Phase uint8

const (
	PhaseStatus Phase = iota
	PhaseWifiGraph
	PhaseCPUGraph
	PhaseTempGraph

	phaseCount
)

// Next returns the phase that follows p. The order wraps after
// PhaseTempGraph.
func (p Phase) Next() Phase {
	return (p + 1) % phaseCount
}

// Metric returns the metric graphed by p. The status phase has none.
func (p Phase) Metric() (telemetry.Metric, bool) {
	switch p {
	case PhaseWifiGraph:
		return telemetry.WifiSignal, true
	case PhaseCPUGraph:
		return telemetry.CPUUsage, true
	case PhaseTempGraph:
		return telemetry.CPUTemperature, true
	default:
		return 0, false
	}
}

// Phases returns every phase in display order.
func Phases() []Phase {
	return []Phase{PhaseStatus, PhaseWifiGraph, PhaseCPUGraph, PhaseTempGraph}
}

func (p Phase) String() string {
	switch p {
	case PhaseStatus:
		return "status"
	case PhaseWifiGraph:
		return "wifi"
	case PhaseCPUGraph:
		return "cpu"
	case PhaseTempGraph:
		return "temperature"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}
