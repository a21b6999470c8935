//go:build tinygo && !rp2040 && !rp2350

package telemetry

func chipTemperature() (float64, error) {
	return 0, ErrUnsupported
}
