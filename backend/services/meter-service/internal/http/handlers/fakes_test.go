package handlers

import (
	"context"
	"errors"
	"sync"
	"time"

	"solarmon/backend/services/meter-service/internal/auth"
	"solarmon/backend/services/meter-service/internal/energy"
	"solarmon/backend/services/meter-service/internal/models"
	"solarmon/backend/services/meter-service/internal/repository"
	"solarmon/backend/services/meter-service/internal/service"
)

type fakeReadings struct {
	inputs  []service.ReadingInput
	summary *service.DailySummary
	err     error
	rows    []models.DailyReading
	start   *time.Time
	end     *time.Time
}

func (f *fakeReadings) Ingest(_ context.Context, input service.ReadingInput) (*service.DailySummary, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	if f.summary != nil {
		return f.summary, nil
	}
	return &service.DailySummary{
		Reading: models.DailyReading{ID: 1, Date: input.Date, Counters: input.Counters},
		Basis:   service.BasisNone,
	}, nil
}

func (f *fakeReadings) DaySummary(_ context.Context, date time.Time) (*service.DailySummary, error) {
	if f.summary == nil || !f.summary.Reading.Date.Equal(date) {
		return nil, repository.ErrReadingNotFound
	}
	return f.summary, nil
}

func (f *fakeReadings) ListReadings(_ context.Context, start, end *time.Time) ([]models.DailyReading, error) {
	f.start, f.end = start, end
	return f.rows, f.err
}

type fakeStats struct {
	start, end time.Time
	year       int
	month      time.Month
	err        error
}

func (f *fakeStats) Range(_ context.Context, start, end time.Time) (*service.RangeReport, error) {
	f.start, f.end = start, end
	if f.err != nil {
		return nil, f.err
	}
	return &service.RangeReport{
		Start:  start,
		End:    end,
		Totals: energy.Totals{TotalSolar: 10.456, TotalImport: 3.333, TotalExport: 1},
		Series: []energy.SeriesPoint{
			{Date: start, Solar: 10.456, Import: 3.333, Export: 1, Used: 12.789},
		},
	}, nil
}

func (f *fakeStats) Month(_ context.Context, year int, month time.Month) (*service.MonthlyReport, error) {
	f.year, f.month = year, month
	if f.err != nil {
		return nil, f.err
	}
	return &service.MonthlyReport{Year: year, Month: month, Days: 2, Totals: energy.Totals{TotalExport: 4, TotalImport: 7, TotalSolar: 9}}, nil
}

type sentMessage struct {
	chatID int64
	text   string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (f *fakeSender) SendMessage(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return f.err
}

type fakeLogin struct {
	password string
	err      error
}

func (f fakeLogin) Login(password string) (string, int64, error) {
	if f.err != nil {
		return "", 0, f.err
	}
	if password != f.password {
		return "", 0, auth.ErrInvalidCredentials
	}
	return "signed-token", 1700000000, nil
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

var errBackend = errors.New("backend down")

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
