// Package metrics holds the Prometheus collectors for trayflow. Every
// collector lives on a private registry so tests and multiple servers in
// one process never collide.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "trayflow"

// Metrics is the set of trayflow collectors.
type Metrics struct {
	registry *prometheus.Registry

	useCases        *prometheus.CounterVec
	useCaseDuration *prometheus.HistogramVec
	httpDuration    *prometheus.HistogramVec
	eventsResolved  *prometheus.CounterVec
	planned         *prometheus.CounterVec
	tasksDue        *prometheus.GaugeVec
	shortfall       *prometheus.GaugeVec
	autoplanRuns    *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		useCases: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "use_case_total",
				Help:      "Service use case executions by outcome",
			},
			[]string{"use_case", "outcome"},
		),
		useCaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "use_case_duration_seconds",
				Help:      "Service use case latency",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"use_case"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP API request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		eventsResolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tray_events_resolved_total",
				Help:      "Tray timeline events completed or skipped",
			},
			[]string{"kind", "resolution"},
		),
		planned: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "planned_seedings_total",
				Help:      "Planner seeding slots by outcome",
			},
			[]string{"outcome"},
		),
		tasksDue: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "tasks_due",
				Help:      "Tasks in the most recent day view per bucket",
			},
			[]string{"farm", "bucket"},
		),
		shortfall: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "fulfillment_shortfall_trays",
				Help:      "Total tray shortfall in the most recent gap report",
			},
			[]string{"farm"},
		),
		autoplanRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "autoplan_runs_total",
				Help:      "Scheduled planner runs by outcome",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(
		m.useCases,
		m.useCaseDuration,
		m.httpDuration,
		m.eventsResolved,
		m.planned,
		m.tasksDue,
		m.shortfall,
		m.autoplanRuns,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveUseCase(name string, d time.Duration, success bool) {
	m.useCases.WithLabelValues(name, outcome(success)).Inc()
	m.useCaseDuration.WithLabelValues(name).Observe(d.Seconds())
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

func (m *Metrics) EventResolved(kind, resolution string) {
	m.eventsResolved.WithLabelValues(kind, resolution).Inc()
}

func (m *Metrics) PlanResult(created, skipped, failed int) {
	m.planned.WithLabelValues("created").Add(float64(created))
	m.planned.WithLabelValues("skipped").Add(float64(skipped))
	m.planned.WithLabelValues("failed").Add(float64(failed))
}

// SetTasksDue replaces the farm's per-bucket task gauges.
func (m *Metrics) SetTasksDue(farmID string, byBucket map[string]int) {
	for bucket, n := range byBucket {
		m.tasksDue.WithLabelValues(farmID, bucket).Set(float64(n))
	}
}

func (m *Metrics) SetShortfall(farmID string, trays int) {
	m.shortfall.WithLabelValues(farmID).Set(float64(trays))
}

func (m *Metrics) AutoplanRun(success bool) {
	m.autoplanRuns.WithLabelValues(outcome(success)).Inc()
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
