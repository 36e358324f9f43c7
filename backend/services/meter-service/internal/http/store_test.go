package httpserver

import (
	"context"
	"sort"
	"sync"
	"time"

	"solarmon/backend/services/meter-service/internal/models"
	"solarmon/backend/services/meter-service/internal/repository"
)

// emptyStore is an in-memory reading store without a baseline.
type emptyStore struct {
	mu   sync.Mutex
	rows map[time.Time]models.DailyReading
}

func newEmptyStore() *emptyStore {
	return &emptyStore{rows: make(map[time.Time]models.DailyReading)}
}

func (s *emptyStore) ascending() []models.DailyReading {
	out := make([]models.DailyReading, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (s *emptyStore) UpsertReading(_ context.Context, r *models.DailyReading) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.rows[r.Date]
	s.rows[r.Date] = *r
	return !exists, nil
}

func (s *emptyStore) GetReading(_ context.Context, date time.Time) (*models.DailyReading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[date]
	if !ok {
		return nil, repository.ErrReadingNotFound
	}
	return &r, nil
}

func (s *emptyStore) GetLatestReadingBefore(_ context.Context, date time.Time) (*models.DailyReading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.ascending()
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].Date.Before(date) {
			return &rows[i], nil
		}
	}
	return nil, repository.ErrReadingNotFound
}

func (s *emptyStore) GetLatestReadingOnOrBefore(ctx context.Context, date time.Time) (*models.DailyReading, error) {
	return s.GetLatestReadingBefore(ctx, date.AddDate(0, 0, 1))
}

func (s *emptyStore) GetReadingsInRange(_ context.Context, start, end time.Time) ([]models.DailyReading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.DailyReading, 0)
	for _, r := range s.ascending() {
		if !r.Date.Before(start) && !r.Date.After(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *emptyStore) ListReadings(_ context.Context, _, _ *time.Time) ([]models.DailyReading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.ascending()
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.After(rows[j].Date) })
	return rows, nil
}

func (s *emptyStore) GetBaseline(context.Context) (*models.BaselineReading, error) {
	return nil, repository.ErrBaselineNotFound
}
