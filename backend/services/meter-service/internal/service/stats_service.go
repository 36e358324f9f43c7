package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"solarmon/backend/services/meter-service/internal/energy"
	"solarmon/backend/services/meter-service/internal/models"
	"solarmon/backend/services/meter-service/internal/observability"
	"solarmon/backend/services/meter-service/internal/repository"
)

// ErrInvalidRange is returned when a range starts after it ends.
var ErrInvalidRange = errors.New("start date is after end date")

// RangeReport is the dashboard view of a date range.
type RangeReport struct {
	Start  time.Time            `json:"start"`
	End    time.Time            `json:"end"`
	Totals energy.Totals        `json:"totals"`
	Series []energy.SeriesPoint `json:"series"`
}

// MonthlyReport holds the totals of a calendar month.
type MonthlyReport struct {
	Year   int           `json:"year"`
	Month  time.Month    `json:"month"`
	Days   int           `json:"days"`
	Totals energy.Totals `json:"totals"`
}

// StatsService computes range and monthly statistics.
type StatsService struct {
	readings ReadingStore
	baseline BaselineStore
	cache    StatsCache
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewStatsService builds service. cache and metrics are optional.
func NewStatsService(readings ReadingStore, baseline BaselineStore, cache StatsCache, metrics *observability.Metrics, logger *zap.Logger) *StatsService {
	return &StatsService{
		readings: readings,
		baseline: baseline,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
	}
}

// Range returns totals and the daily series for [start, end].
func (s *StatsService) Range(ctx context.Context, start, end time.Time) (*RangeReport, error) {
	if start.After(end) {
		return nil, ErrInvalidRange
	}
	defer s.metrics.ObserveStats("range", time.Now())

	var cached RangeReport
	cacheKey, hit := s.lookup(ctx, fmt.Sprintf("range:%s:%s", models.FormatDate(start), models.FormatDate(end)), &cached)
	if hit {
		return &cached, nil
	}

	rows, err := s.readings.GetReadingsInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load readings: %w", err)
	}

	report := &RangeReport{Start: start, End: end, Series: []energy.SeriesPoint{}}

	last, err := s.readings.GetLatestReadingOnOrBefore(ctx, end)
	if errors.Is(err, repository.ErrReadingNotFound) {
		s.store(ctx, cacheKey, report)
		return report, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load last reading: %w", err)
	}

	ref, _, err := reference(ctx, s.readings, s.baseline, start)
	if err != nil {
		return nil, fmt.Errorf("load reference reading: %w", err)
	}

	readings := models.EnergyReadings(rows)
	report.Totals, err = energy.RangeTotals(readings, &last.Counters, ref)
	if err != nil {
		return nil, err
	}
	report.Series, err = energy.RangeSeries(readings, ref)
	if err != nil {
		return nil, err
	}

	s.store(ctx, cacheKey, report)
	return report, nil
}

// Month returns the summed daily deltas of a calendar month.
func (s *StatsService) Month(ctx context.Context, year int, month time.Month) (*MonthlyReport, error) {
	defer s.metrics.ObserveStats("monthly", time.Now())

	first, last := models.MonthBounds(year, month)
	var cached MonthlyReport
	cacheKey, hit := s.lookup(ctx, fmt.Sprintf("month:%04d-%02d", year, int(month)), &cached)
	if hit {
		return &cached, nil
	}

	rows, err := s.readings.GetReadingsInRange(ctx, first, last)
	if err != nil {
		return nil, fmt.Errorf("load readings: %w", err)
	}
	previous, _, err := reference(ctx, s.readings, s.baseline, first)
	if err != nil {
		return nil, fmt.Errorf("load previous month reading: %w", err)
	}

	totals, err := energy.MonthlyTotals(models.EnergyReadings(rows), previous)
	if err != nil {
		return nil, err
	}

	report := &MonthlyReport{Year: year, Month: month, Days: len(rows), Totals: totals}
	s.store(ctx, cacheKey, report)
	return report, nil
}

// lookup returns the generation-pinned key to store under, empty when the
// cache is disabled or unreachable.
func (s *StatsService) lookup(ctx context.Context, name string, dest any) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	key, hit, err := s.cache.Get(ctx, name, dest)
	if err != nil {
		s.logger.Warn("stats cache read failed", zap.String("name", name), zap.Error(err))
		return "", false
	}
	s.metrics.CacheLookup(hit)
	return key, hit
}

func (s *StatsService) store(ctx context.Context, key string, value any) {
	if s.cache == nil || key == "" {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.Warn("stats cache write failed", zap.String("key", key), zap.Error(err))
	}
}
