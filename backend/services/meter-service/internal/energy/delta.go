package energy

import "math"

// DailyDelta computes the energy moved between previous and current.
// previous is the latest reading before current, or the baseline; nil means
// no history exists and yields an all-zero delta. Decreasing counters are
// clamped to zero rather than reported as negative energy.
func DailyDelta(current Counters, previous *Counters) (Delta, error) {
	if err := current.Validate(); err != nil {
		return Delta{}, err
	}
	if previous == nil {
		return Delta{}, nil
	}
	if err := previous.Validate(); err != nil {
		return Delta{}, err
	}
	return Delta{
		SolarGenerated: clampedDelta(previous.SolarInverter, current.SolarInverter),
		Exported:       clampedDelta(previous.Export, current.Export),
		Imported:       clampedDelta(previous.Import, current.Import),
	}, nil
}

// DeriveMetrics computes net usage, self consumption and total consumption.
func DeriveMetrics(d Delta) (Derived, error) {
	names := [...]string{"solar_generated", "exported", "imported"}
	for i, v := range [...]float64{d.SolarGenerated, d.Exported, d.Imported} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Derived{}, &InvalidReadingError{Field: names[i], Value: v}
		}
	}
	return derive(d), nil
}

func derive(d Delta) Derived {
	selfConsumed := nonNegative(d.SolarGenerated - d.Exported)
	return Derived{
		NetUsage:         d.Imported - d.Exported,
		SelfConsumed:     selfConsumed,
		TotalConsumption: d.Imported + selfConsumed,
	}
}
