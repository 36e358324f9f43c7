package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarmon/backend/services/meter-service/internal/service"
)

func newStatsHandlers(stats *fakeStats) *StatsHandlers {
	h := NewStatsHandlers(stats, time.UTC)
	h.now = fixedClock(time.Date(2024, 3, 17, 12, 0, 0, 0, time.UTC))
	return h
}

func TestRangeDefaultsToCurrentMonth(t *testing.T) {
	stats := &fakeStats{}
	rec := httptest.NewRecorder()
	newStatsHandlers(stats).Range(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, stats.start.Equal(day(2024, 3, 1)))
	assert.True(t, stats.end.Equal(day(2024, 3, 17)))
}

func TestRangeRoundsAndLabelsSeries(t *testing.T) {
	stats := &fakeStats{}
	rec := httptest.NewRecorder()
	newStatsHandlers(stats).Range(rec, httptest.NewRequest(http.MethodGet, "/api/stats?start=2024-01-05&end=2024-01-20", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body rangeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2024-01-05", body.Start)
	assert.Equal(t, "2024-01-20", body.End)
	assert.Equal(t, 10.46, body.Totals.TotalSolar)
	assert.Equal(t, 3.33, body.Totals.TotalImport)
	require.Len(t, body.Series, 1)
	assert.Equal(t, "01-05", body.Series[0].Date)
	assert.Equal(t, 12.79, body.Series[0].Used)
}

func TestRangeBadRequests(t *testing.T) {
	for _, target := range []string{
		"/api/stats?start=2024-1-5",
		"/api/stats?end=yesterday",
	} {
		rec := httptest.NewRecorder()
		newStatsHandlers(&fakeStats{}).Range(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}

	rec := httptest.NewRecorder()
	newStatsHandlers(&fakeStats{err: service.ErrInvalidRange}).Range(rec, httptest.NewRequest(http.MethodGet, "/api/stats?start=2024-02-01&end=2024-01-01", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRangeBackendFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	newStatsHandlers(&fakeStats{err: errBackend}).Range(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "backend down")
}

func TestMonthly(t *testing.T) {
	stats := &fakeStats{}
	rec := httptest.NewRecorder()
	newStatsHandlers(stats).Monthly(rec, httptest.NewRequest(http.MethodGet, "/api/stats/monthly?month=2024-01", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2024, stats.year)
	assert.Equal(t, time.January, stats.month)

	var body monthlyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2024-01", body.Month)
	assert.Equal(t, 2, body.Days)
	assert.Equal(t, 4.0, body.Totals.TotalExport)

	rec = httptest.NewRecorder()
	newStatsHandlers(stats).Monthly(rec, httptest.NewRequest(http.MethodGet, "/api/stats/monthly", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.March, stats.month)

	rec = httptest.NewRecorder()
	newStatsHandlers(stats).Monthly(rec, httptest.NewRequest(http.MethodGet, "/api/stats/monthly?month=March", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
