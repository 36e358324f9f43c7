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
)

// Reading sources.
const (
	SourceTelegram = "telegram"
	SourceAPI      = "api"
)

// EventReadingSaved is broadcast after every successful ingestion.
const EventReadingSaved = "reading.saved"

// ErrMissingDate is returned when a reading has no date.
var ErrMissingDate = errors.New("reading date is required")

// ReadingInput is a reading submitted by the bot or the API.
type ReadingInput struct {
	Date     time.Time
	Counters energy.Counters
	Source   string
}

// DailySummary describes one day's reading and the energy it represents.
type DailySummary struct {
	Reading     models.DailyReading `json:"reading"`
	Delta       energy.Delta        `json:"delta"`
	Derived     energy.Derived      `json:"derived"`
	Basis       string              `json:"basis"`
	Overwritten bool                `json:"overwritten"`
}

// ReadingsService ingests readings and summarises single days.
type ReadingsService struct {
	readings ReadingStore
	baseline BaselineStore
	cache    StatsCache
	events   Broadcaster
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewReadingsService builds service. cache, events and metrics are optional.
func NewReadingsService(
	readings ReadingStore,
	baseline BaselineStore,
	cache StatsCache,
	events Broadcaster,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *ReadingsService {
	return &ReadingsService{
		readings: readings,
		baseline: baseline,
		cache:    cache,
		events:   events,
		metrics:  metrics,
		logger:   logger,
	}
}

// Ingest stores a reading, overwriting any reading for the same date, and
// returns the day's delta against the reading before it.
func (s *ReadingsService) Ingest(ctx context.Context, input ReadingInput) (*DailySummary, error) {
	source := input.Source
	if source == "" {
		source = SourceAPI
	}
	if input.Date.IsZero() {
		s.metrics.ReadingIngested(source, "invalid")
		return nil, ErrMissingDate
	}
	if err := input.Counters.Validate(); err != nil {
		s.metrics.ReadingIngested(source, "invalid")
		return nil, err
	}

	reading := &models.DailyReading{
		Date:     models.DateOf(input.Date, nil),
		Counters: input.Counters,
	}
	inserted, err := s.readings.UpsertReading(ctx, reading)
	if err != nil {
		s.metrics.ReadingIngested(source, "error")
		return nil, fmt.Errorf("upsert reading: %w", err)
	}

	summary, err := s.summarize(ctx, reading)
	if err != nil {
		s.metrics.ReadingIngested(source, "error")
		return nil, err
	}
	summary.Overwritten = !inserted

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("failed to invalidate stats cache", zap.Error(err))
		}
	}
	if s.events != nil {
		s.events.Broadcast(EventReadingSaved, summary)
	}
	s.metrics.ReadingIngested(source, "ok")
	s.metrics.SetLastDay(map[string]float64{
		"solar_generated":   summary.Delta.SolarGenerated,
		"exported":          summary.Delta.Exported,
		"imported":          summary.Delta.Imported,
		"net_usage":         summary.Derived.NetUsage,
		"total_consumption": summary.Derived.TotalConsumption,
	})

	s.logger.Info("reading saved",
		zap.String("date", models.FormatDate(reading.Date)),
		zap.String("source", source),
		zap.String("basis", summary.Basis),
		zap.Bool("overwritten", summary.Overwritten),
		zap.Float64("imported_kwh", summary.Delta.Imported),
		zap.Float64("exported_kwh", summary.Delta.Exported),
	)
	return summary, nil
}

// DaySummary returns the stored reading for date with its delta.
func (s *ReadingsService) DaySummary(ctx context.Context, date time.Time) (*DailySummary, error) {
	reading, err := s.readings.GetReading(ctx, date)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, reading)
}

// ListReadings returns stored readings newest first.
func (s *ReadingsService) ListReadings(ctx context.Context, start, end *time.Time) ([]models.DailyReading, error) {
	if start != nil && end != nil && start.After(*end) {
		return nil, ErrInvalidRange
	}
	return s.readings.ListReadings(ctx, start, end)
}

func (s *ReadingsService) summarize(ctx context.Context, reading *models.DailyReading) (*DailySummary, error) {
	previous, basis, err := reference(ctx, s.readings, s.baseline, reading.Date)
	if err != nil {
		return nil, fmt.Errorf("load previous reading: %w", err)
	}

	delta, err := energy.DailyDelta(reading.Counters, previous)
	if err != nil {
		return nil, err
	}
	derived, err := energy.DeriveMetrics(delta)
	if err != nil {
		return nil, err
	}

	return &DailySummary{
		Reading: *reading,
		Delta:   delta,
		Derived: derived,
		Basis:   basis,
	}, nil
}
