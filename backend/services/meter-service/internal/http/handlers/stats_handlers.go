package handlers

import (
	"context"
	"net/http"
	"time"

	"solarmon/backend/services/meter-service/internal/models"
	"solarmon/backend/services/meter-service/internal/service"
)

// StatsProvider computes dashboard statistics.
type StatsProvider interface {
	Range(ctx context.Context, start, end time.Time) (*service.RangeReport, error)
	Month(ctx context.Context, year int, month time.Month) (*service.MonthlyReport, error)
}

// StatsHandlers serves the dashboard statistics endpoints.
type StatsHandlers struct {
	stats    StatsProvider
	location *time.Location
	now      func() time.Time
}

// NewStatsHandlers builds stats handlers. "today" is resolved in loc.
func NewStatsHandlers(stats StatsProvider, loc *time.Location) *StatsHandlers {
	if loc == nil {
		loc = time.UTC
	}
	return &StatsHandlers{stats: stats, location: loc, now: time.Now}
}

func (h *StatsHandlers) today() time.Time {
	return models.DateOf(h.now(), h.location)
}

// Range handles GET /api/stats?start=&end=. Both bounds default to the
// current month up to today.
func (h *StatsHandlers) Range(w http.ResponseWriter, r *http.Request) {
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

	today := h.today()
	if start == nil {
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		start = &first
	}
	if end == nil {
		end = &today
	}

	report, err := h.stats.Range(r.Context(), *start, *end)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newRangeResponse(report))
}

// Monthly handles GET /api/stats/monthly?month=YYYY-MM.
func (h *StatsHandlers) Monthly(w http.ResponseWriter, r *http.Request) {
	today := h.today()
	year, month := today.Year(), today.Month()
	if raw := r.URL.Query().Get("month"); raw != "" {
		var err error
		year, month, err = models.ParseMonth(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
			return
		}
	}

	report, err := h.stats.Month(r.Context(), year, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newMonthlyResponse(report))
}
