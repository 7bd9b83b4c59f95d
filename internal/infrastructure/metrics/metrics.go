// Package metrics exposes Prometheus counters for the pixel relay.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus metric names.
const (
	MetricScriptsServedTotal     = "pixel_scripts_served_total"
	MetricEventsReceivedTotal    = "pixel_events_received_total"
	MetricInstallsInitiatedTotal = "oauth_installs_initiated_total"
	MetricCallbacksTotal         = "oauth_callbacks_total"
	MetricRequestDurationSeconds = "http_request_duration_seconds"
	MetricStreamSubscribers      = "pixel_event_stream_subscribers"
	MetricStreamPublishedTotal   = "pixel_event_stream_published_total"
	MetricStreamDroppedTotal     = "pixel_event_stream_dropped_total"
	MetricPendingStates          = "oauth_pending_states"
)

// Outcome and result label values.
const (
	OutcomeAccepted = "accepted"
	OutcomeInvalid  = "invalid"
	OutcomeFailed   = "failed"

	ResultSuccess      = "success"
	ResultMissingParam = "missing_param"
	ResultInvalidState = "invalid_state"
	ResultExchangeFail = "exchange_failed"
)

// StreamStats is a snapshot of the live event stream
type StreamStats struct {
	Subscribers int
	Published   int64
	Dropped     int64
}

// Metrics holds the service collectors on a private registry.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Metrics struct {
	registry *prometheus.Registry

	scriptsServed     prometheus.Counter
	eventsReceived    *prometheus.CounterVec
	installsInitiated prometheus.Counter
	callbacks         *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
}

// New creates the collectors and registers them with a new registry
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		scriptsServed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricScriptsServedTotal,
			Help: "Total number of pixel scripts generated",
		}),
		eventsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricEventsReceivedTotal,
			Help: "Total number of pixel events received by outcome",
		}, []string{"outcome"}),
		installsInitiated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricInstallsInitiatedTotal,
			Help: "Total number of OAuth install redirects issued",
		}),
		callbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricCallbacksTotal,
			Help: "Total number of OAuth callbacks by result",
		}, []string{"result"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricRequestDurationSeconds,
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}

	registry.MustRegister(
		m.scriptsServed,
		m.eventsReceived,
		m.installsInitiated,
		m.callbacks,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ScriptServed() {
	m.scriptsServed.Inc()
}

func (m *Metrics) EventReceived(outcome string) {
	m.eventsReceived.WithLabelValues(outcome).Inc()
}

func (m *Metrics) InstallInitiated() {
	m.installsInitiated.Inc()
}

func (m *Metrics) Callback(result string) {
	m.callbacks.WithLabelValues(result).Inc()
}

// ObserveRequest records one HTTP request against its route pattern
func (m *Metrics) ObserveRequest(route, method string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.requestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(duration.Seconds())
}

// WatchEventStream exports the live event stream counts, read from stats at scrape time
func (m *Metrics) WatchEventStream(stats func() StreamStats) {
	m.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: MetricStreamSubscribers,
			Help: "Number of connected event stream subscribers",
		}, func() float64 { return float64(stats().Subscribers) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: MetricStreamPublishedTotal,
			Help: "Total number of events delivered to stream subscribers",
		}, func() float64 { return float64(stats().Published) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: MetricStreamDroppedTotal,
			Help: "Total number of events dropped for slow stream subscribers",
		}, func() float64 { return float64(stats().Dropped) }),
	)
}

// WatchPendingStates exports the number of OAuth states awaiting a callback
func (m *Metrics) WatchPendingStates(count func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: MetricPendingStates,
		Help: "Number of stored OAuth states awaiting a callback",
	}, func() float64 { return float64(count()) }))
}
