package service

import (
	"context"
	"time"

	"solarmon/backend/services/meter-service/internal/models"
)

// ReadingStore is the persistence collaborator for daily readings.
type ReadingStore interface {
	GetReading(ctx context.Context, date time.Time) (*models.DailyReading, error)
	GetLatestReadingBefore(ctx context.Context, date time.Time) (*models.DailyReading, error)
	GetLatestReadingOnOrBefore(ctx context.Context, date time.Time) (*models.DailyReading, error)
	GetReadingsInRange(ctx context.Context, start, end time.Time) ([]models.DailyReading, error)
	ListReadings(ctx context.Context, start, end *time.Time) ([]models.DailyReading, error)
	UpsertReading(ctx context.Context, reading *models.DailyReading) (bool, error)
}

// BaselineStore exposes the baseline reading.
type BaselineStore interface {
	GetBaseline(ctx context.Context) (*models.BaselineReading, error)
}

// StatsCache caches computed stats by name. Get resolves name to a key
// pinned to the current cache generation; Set must be given that key.
type StatsCache interface {
	Get(ctx context.Context, name string, dest any) (key string, hit bool, err error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context) error
}

// Broadcaster fans events out to live subscribers.
type Broadcaster interface {
	Broadcast(eventType string, payload any)
}
