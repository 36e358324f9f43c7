package service

import (
	"context"
	"errors"
	"time"

	"solarmon/backend/services/meter-service/internal/energy"
	"solarmon/backend/services/meter-service/internal/repository"
)

// Reference bases reported with a daily summary.
const (
	BasisPreviousReading = "previous_reading"
	BasisBaseline        = "baseline"
	BasisNone            = "none"
)

// reference resolves the counters a date is measured against: the latest
// reading strictly before date, else the baseline, else nil.
func reference(ctx context.Context, readings ReadingStore, baseline BaselineStore, date time.Time) (*energy.Counters, string, error) {
	prev, err := readings.GetLatestReadingBefore(ctx, date)
	switch {
	case err == nil:
		return &prev.Counters, BasisPreviousReading, nil
	case !errors.Is(err, repository.ErrReadingNotFound):
		return nil, "", err
	}

	if baseline == nil {
		return nil, BasisNone, nil
	}
	base, err := baseline.GetBaseline(ctx)
	switch {
	case err == nil:
		return &base.Counters, BasisBaseline, nil
	case errors.Is(err, repository.ErrBaselineNotFound):
		return nil, BasisNone, nil
	default:
		return nil, "", err
	}
}
