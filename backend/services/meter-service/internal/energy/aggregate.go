package energy

import "time"

// SeriesPoint is one day of the dashboard chart series.
type SeriesPoint struct {
	Date   time.Time `json:"date"`
	Solar  float64   `json:"solar"`
	Import float64   `json:"import"`
	Export float64   `json:"export"`
	Used   float64   `json:"used"`
}

// Totals summarises a date range or a month.
type Totals struct {
	TotalSolar       float64 `json:"totalSolar"`
	TotalImport      float64 `json:"totalImport"`
	TotalExport      float64 `json:"totalExport"`
	NetUsage         float64 `json:"netUsage"`
	SelfConsumed     float64 `json:"selfConsumed"`
	TotalConsumption float64 `json:"totalConsumption"`
}

func totalsFrom(solar, exported, imported float64) Totals {
	d := derive(Delta{SolarGenerated: solar, Exported: exported, Imported: imported})
	return Totals{
		TotalSolar:       solar,
		TotalImport:      imported,
		TotalExport:      exported,
		NetUsage:         d.NetUsage,
		SelfConsumed:     d.SelfConsumed,
		TotalConsumption: d.TotalConsumption,
	}
}

// RangeSeries builds the per-day chart series for readings sorted by
// ascending date. preceding is the latest reading before the first element
// (or the baseline); when nil the first day reports zero import and export.
//
// Solar is the day's raw inverter value, not a delta. Import and export are
// clamped deltas against the previous day.
func RangeSeries(ordered []Reading, preceding *Counters) ([]SeriesPoint, error) {
	if preceding != nil {
		if err := preceding.Validate(); err != nil {
			return nil, err
		}
	}

	series := make([]SeriesPoint, 0, len(ordered))
	prev := preceding
	for i := range ordered {
		row := &ordered[i]
		if err := row.Validate(); err != nil {
			return nil, err
		}

		var imported, exported float64
		if prev != nil {
			imported = clampedDelta(prev.Import, row.Import)
			exported = clampedDelta(prev.Export, row.Export)
		}
		solar := row.SolarInverter
		series = append(series, SeriesPoint{
			Date:   row.Date,
			Solar:  solar,
			Import: imported,
			Export: exported,
			Used:   imported + nonNegative(solar-exported),
		})
		prev = &row.Counters
	}
	return series, nil
}

// RangeTotals computes totals over [start, end].
//
// rows are the readings inside the range and only contribute their raw solar
// values. Import and export come from a single delta between last (the latest
// reading on or before end) and reference (the latest reading before start,
// else the baseline, else zero), clamped once for the whole range. A nil last
// means nothing was ever recorded and yields zero totals.
func RangeTotals(rows []Reading, last *Counters, reference *Counters) (Totals, error) {
	if last == nil {
		return Totals{}, nil
	}
	if err := last.Validate(); err != nil {
		return Totals{}, err
	}
	var ref Counters
	if reference != nil {
		if err := reference.Validate(); err != nil {
			return Totals{}, err
		}
		ref = *reference
	}

	var solar float64
	for i := range rows {
		if err := rows[i].Validate(); err != nil {
			return Totals{}, err
		}
		solar += rows[i].SolarInverter
	}

	exported := clampedDelta(ref.Export, last.Export)
	imported := clampedDelta(ref.Import, last.Import)
	return totalsFrom(solar, exported, imported), nil
}

// MonthlyTotals sums per-day clamped deltas across a month. previous is the
// last reading of the prior month or the baseline; nil gives day one a zero
// delta. Unlike RangeTotals, each day is clamped on its own before summing.
func MonthlyTotals(monthRows []Reading, previous *Counters) (Totals, error) {
	if previous != nil {
		if err := previous.Validate(); err != nil {
			return Totals{}, err
		}
	}

	var solar, exported, imported float64
	prev := previous
	for i := range monthRows {
		row := &monthRows[i]
		if err := row.Validate(); err != nil {
			return Totals{}, err
		}
		solar += row.SolarInverter
		if prev != nil {
			exported += clampedDelta(prev.Export, row.Export)
			imported += clampedDelta(prev.Import, row.Import)
		}
		prev = &row.Counters
	}
	return totalsFrom(solar, exported, imported), nil
}
