package handlers

import (
	"time"

	"solarmon/backend/services/meter-service/internal/energy"
	"solarmon/backend/services/meter-service/internal/models"
	"solarmon/backend/services/meter-service/internal/service"
)

// chartDateLayout labels chart points as MM-DD.
const chartDateLayout = "01-02"

type readingResponse struct {
	ID   int64  `json:"id"`
	Date string `json:"date"`
	energy.Counters
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newReadingResponse(r models.DailyReading) readingResponse {
	return readingResponse{
		ID:        r.ID,
		Date:      models.FormatDate(r.Date),
		Counters:  r.Counters,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type summaryResponse struct {
	Reading     readingResponse `json:"reading"`
	Delta       energy.Delta    `json:"delta"`
	Derived     energy.Derived  `json:"derived"`
	Basis       string          `json:"basis"`
	Overwritten bool            `json:"overwritten"`
}

func newSummaryResponse(s *service.DailySummary) summaryResponse {
	return summaryResponse{
		Reading: newReadingResponse(s.Reading),
		Delta: energy.Delta{
			SolarGenerated: round2(s.Delta.SolarGenerated),
			Exported:       round2(s.Delta.Exported),
			Imported:       round2(s.Delta.Imported),
		},
		Derived: energy.Derived{
			NetUsage:         round2(s.Derived.NetUsage),
			SelfConsumed:     round2(s.Derived.SelfConsumed),
			TotalConsumption: round2(s.Derived.TotalConsumption),
		},
		Basis:       s.Basis,
		Overwritten: s.Overwritten,
	}
}

type seriesPointResponse struct {
	Date   string  `json:"date"`
	Solar  float64 `json:"solar"`
	Import float64 `json:"import"`
	Export float64 `json:"export"`
	Used   float64 `json:"used"`
}

type rangeResponse struct {
	Start  string                `json:"start"`
	End    string                `json:"end"`
	Totals energy.Totals         `json:"totals"`
	Series []seriesPointResponse `json:"series"`
}

type monthlyResponse struct {
	Month  string        `json:"month"`
	Days   int           `json:"days"`
	Totals energy.Totals `json:"totals"`
}

func roundTotals(t energy.Totals) energy.Totals {
	return energy.Totals{
		TotalSolar:       round2(t.TotalSolar),
		TotalImport:      round2(t.TotalImport),
		TotalExport:      round2(t.TotalExport),
		NetUsage:         round2(t.NetUsage),
		SelfConsumed:     round2(t.SelfConsumed),
		TotalConsumption: round2(t.TotalConsumption),
	}
}

func newRangeResponse(r *service.RangeReport) rangeResponse {
	series := make([]seriesPointResponse, len(r.Series))
	for i, p := range r.Series {
		series[i] = seriesPointResponse{
			Date:   p.Date.Format(chartDateLayout),
			Solar:  round2(p.Solar),
			Import: round2(p.Import),
			Export: round2(p.Export),
			Used:   round2(p.Used),
		}
	}
	return rangeResponse{
		Start:  models.FormatDate(r.Start),
		End:    models.FormatDate(r.End),
		Totals: roundTotals(r.Totals),
		Series: series,
	}
}

func newMonthlyResponse(r *service.MonthlyReport) monthlyResponse {
	return monthlyResponse{
		Month:  time.Date(r.Year, r.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01"),
		Days:   r.Days,
		Totals: roundTotals(r.Totals),
	}
}
