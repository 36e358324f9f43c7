// Package energy turns cumulative meter readings into daily deltas and
// aggregate statistics. Every function is pure and safe for concurrent use.
package energy

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidReading is returned when a counter value is missing or not finite.
var ErrInvalidReading = errors.New("energy: invalid reading")

// InvalidReadingError names the offending counter.
type InvalidReadingError struct {
	Field string
	Value float64
}

func (e *InvalidReadingError) Error() string {
	return fmt.Sprintf("energy: invalid reading: %s is not finite (%v)", e.Field, e.Value)
}

// Unwrap lets errors.Is match ErrInvalidReading.
func (e *InvalidReadingError) Unwrap() error {
	return ErrInvalidReading
}

// Counters holds cumulative meter values at one point in time.
type Counters struct {
	SolarInverter float64 `json:"solar_inverter_reading"`
	SolarMeter    float64 `json:"solar_meter_reading"`
	Export        float64 `json:"smart_meter_export"`
	Import        float64 `json:"smart_meter_imported"`
}

// Validate rejects NaN and infinite counter values.
func (c Counters) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"solar_inverter_reading", c.SolarInverter},
		{"solar_meter_reading", c.SolarMeter},
		{"smart_meter_export", c.Export},
		{"smart_meter_imported", c.Import},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &InvalidReadingError{Field: f.name, Value: f.value}
		}
	}
	return nil
}

// Reading is the set of counters recorded for one calendar day.
type Reading struct {
	Date time.Time `json:"date"`
	Counters
}

// Delta is the energy moved between two readings, in kWh.
type Delta struct {
	SolarGenerated float64 `json:"solar_generated"`
	Exported       float64 `json:"exported"`
	Imported       float64 `json:"imported"`
}

// Derived holds the metrics computed from a Delta.
type Derived struct {
	NetUsage         float64 `json:"net_usage"`
	SelfConsumed     float64 `json:"self_consumed"`
	TotalConsumption float64 `json:"total_consumption"`
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// clampedDelta returns current-previous, or zero when the counter went backwards.
func clampedDelta(previous, current float64) float64 {
	if current < previous {
		return 0
	}
	return current - previous
}
