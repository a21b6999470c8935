//go:build tinygo && (rp2040 || rp2350)

package telemetry

import "machine"

// chipTemperature reads the RP2 on-die sensor, reported in millidegrees.
func chipTemperature() (float64, error) {
	return float64(machine.ReadTemperature()) / 1000, nil
}
