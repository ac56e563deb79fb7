package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github/itish2003/hrfaq/models"
)

// Metrics collects routing counters. A nil *Metrics records nothing.
type Metrics struct {
	routes         *prometheus.CounterVec
	fallbackErrors prometheus.Counter
	duration       *prometheus.HistogramVec
	indexEntries   prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		routes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrfaq_route_total",
			Help: "Routed questions by answer source.",
		}, []string{"source"}),
		fallbackErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hrfaq_fallback_errors_total",
			Help: "Fallback model calls that failed after all retries.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hrfaq_route_duration_seconds",
			Help:    "Time spent routing one question.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),
		indexEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hrfaq_index_entries",
			Help: "Number of questions in the FAQ index being served.",
		}),
	}
	reg.MustRegister(m.routes, m.fallbackErrors, m.duration, m.indexEntries)
	return m
}

func (m *Metrics) observeRoute(source models.AnswerSource, started time.Time) {
	if m == nil {
		return
	}
	m.routes.WithLabelValues(string(source)).Inc()
	m.duration.WithLabelValues(string(source)).Observe(time.Since(started).Seconds())
}

func (m *Metrics) observeFallbackError() {
	if m == nil {
		return
	}
	m.fallbackErrors.Inc()
}

// SetIndexSize records the size of the index now being served.
func (m *Metrics) SetIndexSize(n int) {
	if m == nil {
		return
	}
	m.indexEntries.Set(float64(n))
}
