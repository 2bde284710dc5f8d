// Package metrics exposes the service's Prometheus collectors.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "trialpulse"

// Load outcomes
const (
	LoadOK         = "ok"
	LoadCached     = "cached"
	LoadNotFound   = "not_found"
	LoadSuperseded = "superseded"
	LoadError      = "error"
)

// Metrics holds every collector on a private registry
type Metrics struct {
	registry *prometheus.Registry

	studyLoads      *prometheus.CounterVec
	loadDuration    prometheus.Histogram
	rowsNormalized  *prometheus.CounterVec
	fileResolutions *prometheus.CounterVec
	indexReloads    *prometheus.CounterVec
	wsClients       prometheus.Gauge
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New creates and registers the collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		studyLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "study_loads_total",
			Help:      "Study loads by outcome.",
		}, []string{"outcome"}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "study_load_duration_seconds",
			Help:      "Time to fetch, decode and normalize one study.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		rowsNormalized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_normalized_total",
			Help:      "Records produced by the normalizer per role.",
		}, []string{"role"}),
		fileResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "file_resolutions_total",
			Help:      "Role to file resolution outcomes.",
		}, []string{"role", "outcome"}),
		indexReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_reloads_total",
			Help:      "Study index loads by result.",
		}, []string{"result"}),
		wsClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Connected websocket clients.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.studyLoads,
		m.loadDuration,
		m.rowsNormalized,
		m.fileResolutions,
		m.indexReloads,
		m.wsClients,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveLoad(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.studyLoads.WithLabelValues(outcome).Inc()
	if outcome == LoadOK {
		m.loadDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) AddRows(role string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rowsNormalized.WithLabelValues(role).Add(float64(n))
}

func (m *Metrics) ObserveResolution(role, outcome string) {
	if m == nil {
		return
	}
	m.fileResolutions.WithLabelValues(role, outcome).Inc()
}

func (m *Metrics) ObserveIndexReload(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.indexReloads.WithLabelValues(result).Inc()
}

func (m *Metrics) SetWSClients(n int) {
	if m == nil {
		return
	}
	m.wsClients.Set(float64(n))
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
