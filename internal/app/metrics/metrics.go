// Package metrics exposes pipeline stage counters and latencies to
// Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	stageTotal     *prometheus.CounterVec
	stageDuration  *prometheus.HistogramVec
	renderAttempts *prometheus.CounterVec
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		stageTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "opencaption",
			Name:      "stage_total",
			Help:      "Pipeline stage executions by outcome.",
		}, []string{"stage", "outcome"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "opencaption",
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage latency.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 180, 600, 1800},
		}, []string{"stage"}),
		renderAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "opencaption",
			Name:      "render_attempts_total",
			Help:      "Recorded render attempts.",
		}, []string{"success"}),
	}
	reg.MustRegister(
		m.stageTotal,
		m.stageDuration,
		m.renderAttempts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveStage records one stage execution that started at start.
func (m *Metrics) ObserveStage(stage string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.stageTotal.WithLabelValues(stage, outcome).Inc()
	m.stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// RenderAttempt counts one persisted render attempt.
func (m *Metrics) RenderAttempt(success bool) {
	if m == nil {
		return
	}
	m.renderAttempts.WithLabelValues(strconv.FormatBool(success)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
