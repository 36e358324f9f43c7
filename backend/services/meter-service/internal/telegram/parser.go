package telegram

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"solarmon/backend/services/meter-service/internal/energy"
	"solarmon/backend/services/meter-service/internal/models"
)

// Parse errors. Each maps to a reply explaining the expected input.
var (
	ErrInvalidFormat = errors.New("telegram: invalid message format")
	ErrInvalidDate   = errors.New("telegram: invalid date")
	ErrInvalidNumber = errors.New("telegram: invalid number")
	// ErrInvalidDateFormat wraps ErrInvalidDate when the date is not shaped YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("telegram: invalid date format")
)

var dateShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ReadingCommand is a parsed reading message.
type ReadingCommand struct {
	Date         time.Time
	Counters     energy.Counters
	ExplicitDate bool
}

// ParseReading parses either
//
//	solar_inverter solar_meter smart_export smart_import
//	YYYY-MM-DD solar_inverter solar_meter smart_export smart_import
//
// The four-field form is dated today.
func ParseReading(text string, today time.Time) (ReadingCommand, error) {
	parts := strings.Fields(text)

	var cmd ReadingCommand
	switch len(parts) {
	case 4:
		cmd.Date = today
	case 5:
		if !dateShape.MatchString(parts[0]) {
			return ReadingCommand{}, errors.Join(ErrInvalidDate, ErrInvalidDateFormat)
		}
		d, err := models.ParseDate(parts[0])
		if err != nil {
			return ReadingCommand{}, ErrInvalidDate
		}
		cmd.Date = d
		cmd.ExplicitDate = true
		parts = parts[1:]
	default:
		return ReadingCommand{}, ErrInvalidFormat
	}

	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return ReadingCommand{}, ErrInvalidNumber
		}
		values[i] = v
	}
	cmd.Counters = energy.Counters{
		SolarInverter: values[0],
		SolarMeter:    values[1],
		Export:        values[2],
		Import:        values[3],
	}
	return cmd, nil
}
