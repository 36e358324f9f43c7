package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"solarmon/backend/services/meter-service/internal/energy"
	"solarmon/backend/services/meter-service/internal/models"
	"solarmon/backend/services/meter-service/internal/repository"
)

type memoryStore struct {
	mu        sync.Mutex
	rows      map[string]models.DailyReading
	nextID    int64
	upsertErr error
}

func newMemoryStore(readings ...models.DailyReading) *memoryStore {
	s := &memoryStore{rows: make(map[string]models.DailyReading)}
	for i := range readings {
		_, _ = s.UpsertReading(context.Background(), &readings[i])
	}
	return s
}

func (s *memoryStore) sorted() []models.DailyReading {
	out := make([]models.DailyReading, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (s *memoryStore) UpsertReading(_ context.Context, reading *models.DailyReading) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return false, s.upsertErr
	}
	key := models.FormatDate(reading.Date)
	existing, ok := s.rows[key]
	if ok {
		reading.ID = existing.ID
	} else {
		s.nextID++
		reading.ID = s.nextID
	}
	s.rows[key] = *reading
	return !ok, nil
}

func (s *memoryStore) GetReading(_ context.Context, date time.Time) (*models.DailyReading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[models.FormatDate(date)]
	if !ok {
		return nil, repository.ErrReadingNotFound
	}
	return &r, nil
}

func (s *memoryStore) GetLatestReadingBefore(_ context.Context, date time.Time) (*models.DailyReading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found *models.DailyReading
	for _, r := range s.sorted() {
		if r.Date.Before(date) {
			r := r
			found = &r
		}
	}
	if found == nil {
		return nil, repository.ErrReadingNotFound
	}
	return found, nil
}

func (s *memoryStore) GetLatestReadingOnOrBefore(ctx context.Context, date time.Time) (*models.DailyReading, error) {
	return s.GetLatestReadingBefore(ctx, date.AddDate(0, 0, 1))
}

func (s *memoryStore) GetReadingsInRange(_ context.Context, start, end time.Time) ([]models.DailyReading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.DailyReading, 0)
	for _, r := range s.sorted() {
		if !r.Date.Before(start) && !r.Date.After(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memoryStore) ListReadings(ctx context.Context, start, end *time.Time) ([]models.DailyReading, error) {
	s.mu.Lock()
	all := s.sorted()
	s.mu.Unlock()
	out := make([]models.DailyReading, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		r := all[i]
		if start != nil && end != nil && (r.Date.Before(*start) || r.Date.After(*end)) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

type staticBaseline struct {
	baseline *models.BaselineReading
	err      error
}

func (b staticBaseline) GetBaseline(context.Context) (*models.BaselineReading, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.baseline == nil {
		return nil, repository.ErrBaselineNotFound
	}
	return b.baseline, nil
}

type memoryCache struct {
	mu          sync.Mutex
	generation  int
	entries     map[string][]byte
	invalidated int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, name string, dest any) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := fmt.Sprintf("v%d:%s", c.generation, name)
	data, ok := c.entries[key]
	if !ok {
		return key, false, nil
	}
	return key, true, json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.invalidated++
	return nil
}

// rangeHookStore runs afterRange once a range query has returned, imitating
// a write that lands while stats are being computed.
type rangeHookStore struct {
	*memoryStore
	afterRange func()
}

func (s *rangeHookStore) GetReadingsInRange(ctx context.Context, start, end time.Time) ([]models.DailyReading, error) {
	rows, err := s.memoryStore.GetReadingsInRange(ctx, start, end)
	if s.afterRange != nil {
		hook := s.afterRange
		s.afterRange = nil
		hook()
	}
	return rows, err
}

type recordedEvent struct {
	eventType string
	payload   any
}

type recordingBroadcaster struct {
	events []recordedEvent
}

func (b *recordingBroadcaster) Broadcast(eventType string, payload any) {
	b.events = append(b.events, recordedEvent{eventType: eventType, payload: payload})
}

var errStoreDown = errors.New("store down")

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func row(d time.Time, solar, export, imp float64) models.DailyReading {
	return models.DailyReading{
		Date:     d,
		Counters: energy.Counters{SolarInverter: solar, Export: export, Import: imp},
	}
}
