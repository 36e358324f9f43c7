package models

import (
	"time"

	"solarmon/backend/services/meter-service/internal/energy"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// DailyReading is a persisted cumulative reading, one per date.
type DailyReading struct {
	ID   int64     `db:"id" json:"id"`
	Date time.Time `db:"date" json:"date"`
	energy.Counters
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Energy converts the row into the engine's value type.
func (r DailyReading) Energy() energy.Reading {
	return energy.Reading{Date: r.Date, Counters: r.Counters}
}

// BaselineReading holds the counters recorded when monitoring began.
type BaselineReading struct {
	energy.Counters
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// EnergyReadings converts rows into engine readings, preserving order.
func EnergyReadings(rows []DailyReading) []energy.Reading {
	out := make([]energy.Reading, len(rows))
	for i, r := range rows {
		out[i] = r.Energy()
	}
	return out
}
