// Package prommetrics provides a Prometheus implementation of
// ports.LoaderMetrics.
package prommetrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/user/imgload/pkg/ports"
)

// Metrics records loader activity. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	loadsStarted    prometheus.Counter
	loadsSuperseded prometheus.Counter
	loadsCompleted  *prometheus.CounterVec
	loadsFailed     *prometheus.CounterVec
	framesAdvanced  prometheus.Counter
	loadDuration    *prometheus.HistogramVec
	advanceDuration prometheus.Histogram
}

// New registers the loader metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	buckets := []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}

	return &Metrics{
		loadsStarted: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "imgload_loads_started_total",
				Help: "Total number of load requests",
			},
		),
		loadsSuperseded: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "imgload_loads_superseded_total",
				Help: "Total number of load tasks abandoned for a newer request",
			},
		),
		loadsCompleted: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "imgload_loads_completed_total",
				Help: "Total number of committed loads by format",
			},
			[]string{"format"},
		),
		loadsFailed: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "imgload_loads_failed_total",
				Help: "Total number of failed loads and advances by reason",
			},
			[]string{"reason"}, // "unknown_format", "decode_failure", "source_unavailable", "advance"
		),
		framesAdvanced: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "imgload_frames_advanced_total",
				Help: "Total number of committed animation steps",
			},
		),
		loadDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "imgload_load_duration_seconds",
				Help:    "Time from task start to commit of the first frame",
				Buckets: buckets,
			},
			[]string{"format"},
		),
		advanceDuration: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "imgload_advance_duration_seconds",
				Help:    "Time to decode, composite and commit one animation frame",
				Buckets: buckets,
			},
		),
	}
}

// Handler returns an HTTP handler exposing the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) LoadStarted() {
	if m == nil {
		return
	}
	m.loadsStarted.Inc()
}

func (m *Metrics) LoadSuperseded() {
	if m == nil {
		return
	}
	m.loadsSuperseded.Inc()
}

func (m *Metrics) LoadCompleted(format ports.Format, d time.Duration) {
	if m == nil {
		return
	}
	m.loadsCompleted.WithLabelValues(string(format)).Inc()
	m.loadDuration.WithLabelValues(string(format)).Observe(d.Seconds())
}

func (m *Metrics) LoadFailed(reason string) {
	if m == nil {
		return
	}
	m.loadsFailed.WithLabelValues(reason).Inc()
}

func (m *Metrics) FrameAdvanced(d time.Duration) {
	if m == nil {
		return
	}
	m.framesAdvanced.Inc()
	m.advanceDuration.Observe(d.Seconds())
}

var _ ports.LoaderMetrics = (*Metrics)(nil)
