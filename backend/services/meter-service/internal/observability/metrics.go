package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service's Prometheus collectors. A nil *Metrics is a
// valid no-op recorder.
type Metrics struct {
	registry *prometheus.Registry

	readingsIngested *prometheus.CounterVec
	statsDuration    *prometheus.HistogramVec
	cacheLookups     *prometheus.CounterVec
	telegramUpdates  *prometheus.CounterVec
	lastDay          *prometheus.GaugeVec
}

// NewMetrics registers collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		readingsIngested: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "solarmon_readings_ingested_total",
			Help: "Readings received, by source and outcome.",
		}, []string{"source", "outcome"}),
		statsDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "solarmon_stats_duration_seconds",
			Help:    "Time spent building stats responses.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "solarmon_stats_cache_lookups_total",
			Help: "Stats cache lookups by result.",
		}, []string{"result"}),
		telegramUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "solarmon_telegram_updates_total",
			Help: "Telegram webhook updates by outcome.",
		}, []string{"outcome"}),
		lastDay: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "solarmon_last_day_kwh",
			Help: "Derived energy figures of the most recently ingested day.",
		}, []string{"metric"}),
	}
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ReadingIngested counts one ingestion attempt.
func (m *Metrics) ReadingIngested(source, outcome string) {
	if m == nil {
		return
	}
	m.readingsIngested.WithLabelValues(source, outcome).Inc()
}

// ObserveStats records how long a stats computation took.
func (m *Metrics) ObserveStats(kind string, started time.Time) {
	if m == nil {
		return
	}
	m.statsDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
}

// CacheLookup counts a cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// TelegramUpdate counts one webhook update.
func (m *Metrics) TelegramUpdate(outcome string) {
	if m == nil {
		return
	}
	m.telegramUpdates.WithLabelValues(outcome).Inc()
}

// SetLastDay publishes the figures of the latest ingested day.
func (m *Metrics) SetLastDay(values map[string]float64) {
	if m == nil {
		return
	}
	for name, v := range values {
		m.lastDay.WithLabelValues(name).Set(v)
	}
}
