package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"solarmon/backend/services/meter-service/internal/energy"
	"solarmon/backend/services/meter-service/internal/models"
	"solarmon/backend/services/meter-service/internal/service"
)

// ReadingsProvider stores and lists readings.
type ReadingsProvider interface {
	Ingest(ctx context.Context, input service.ReadingInput) (*service.DailySummary, error)
	DaySummary(ctx context.Context, date time.Time) (*service.DailySummary, error)
	ListReadings(ctx context.Context, start, end *time.Time) ([]models.DailyReading, error)
}

// ReadingsHandlers serves the readings API.
type ReadingsHandlers struct {
	readings ReadingsProvider
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewReadingsHandlers builds readings handlers.
func NewReadingsHandlers(readings ReadingsProvider, loc *time.Location, logger *zap.Logger) *ReadingsHandlers {
	if loc == nil {
		loc = time.UTC
	}
	return &ReadingsHandlers{readings: readings, location: loc, now: time.Now, logger: logger}
}

type createReadingRequest struct {
	Date          string   `json:"date"`
	SolarInverter *float64 `json:"solar_inverter_reading"`
	SolarMeter    *float64 `json:"solar_meter_reading"`
	Export        *float64 `json:"smart_meter_export"`
	Import        *float64 `json:"smart_meter_imported"`
}

// counters requires all four meter values.
func (req createReadingRequest) counters() (energy.Counters, error) {
	fields := []struct {
		name  string
		value *float64
	}{
		{"solar_inverter_reading", req.SolarInverter},
		{"solar_meter_reading", req.SolarMeter},
		{"smart_meter_export", req.Export},
		{"smart_meter_imported", req.Import},
	}
	for _, f := range fields {
		if f.value == nil {
			return energy.Counters{}, fmt.Errorf("%w: %s is required", energy.ErrInvalidReading, f.name)
		}
	}
	return energy.Counters{
		SolarInverter: *req.SolarInverter,
		SolarMeter:    *req.SolarMeter,
		Export:        *req.Export,
		Import:        *req.Import,
	}, nil
}

// List handles GET /api/readings. The range applies only when both bounds are given.
func (h *ReadingsHandlers) List(w http.ResponseWriter, r *http.Request) {
	start, err := dateParam(r, "start")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := dateParam(r, "end")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if start == nil || end == nil {
		start, end = nil, nil
	}

	rows, err := h.readings.ListReadings(r.Context(), start, end)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]readingResponse, len(rows))
	for i, row := range rows {
		out[i] = newReadingResponse(row)
	}
	writeJSON(w, http.StatusOK, out)
}

// Day handles GET /api/readings/day?date=YYYY-MM-DD.
func (h *ReadingsHandlers) Day(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if date == nil {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}

	summary, err := h.readings.DaySummary(r.Context(), *date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSummaryResponse(summary))
}

// Create handles POST /api/readings. A missing date means today.
func (h *ReadingsHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createReadingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	counters, err := req.counters()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	date := models.DateOf(h.now(), h.location)
	if req.Date != "" {
		parsed, err := models.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	summary, err := h.readings.Ingest(r.Context(), service.ReadingInput{
		Date:     date,
		Counters: counters,
		Source:   service.SourceAPI,
	})
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			h.logger.Error("failed to save reading", zap.Error(err))
		}
		writeServiceError(w, err)
		return
	}

	status := http.StatusCreated
	if summary.Overwritten {
		status = http.StatusOK
	}
	writeJSON(w, status, newSummaryResponse(summary))
}
