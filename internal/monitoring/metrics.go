package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. A nil *Metrics records nothing.
type Metrics struct {
	// Enumeration metrics
	Enumerations        prometheus.Counter
	AppsEnumerated      prometheus.Counter
	EnumerationDuration prometheus.Histogram

	// Event metrics
	EventsEmitted   *prometheus.CounterVec
	HandlerFailures *prometheus.CounterVec

	// Bridge metrics
	BridgeCalls   *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	WSConnections prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates the collectors on a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Enumerations: factory.NewCounter(prometheus.CounterOpts{
			Name: "launcherkit_enumerations_total",
			Help: "Total number of app enumerations",
		}),
		AppsEnumerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "launcherkit_apps_enumerated_total",
			Help: "Total number of app records produced by enumerations",
		}),
		EnumerationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "launcherkit_enumeration_duration_seconds",
			Help:    "Duration of app enumerations",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		EventsEmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "launcherkit_events_emitted_total",
			Help: "Total number of events emitted per channel",
		}, []string{"event"}),
		HandlerFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "launcherkit_handler_failures_total",
			Help: "Total number of failed broadcast handlers per error kind",
		}, []string{"kind"}),
		BridgeCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "launcherkit_bridge_calls_total",
			Help: "Total number of bridge calls",
		}, []string{"method", "status"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "launcherkit_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "launcherkit_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		WSConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "launcherkit_ws_connections",
			Help: "Number of active event stream connections",
		}),
	}
}

// Registry returns the registry the collectors live in
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordEnumeration records one finished enumeration
func (m *Metrics) RecordEnumeration(apps int, duration time.Duration) {
	if m == nil {
		return
	}
	m.Enumerations.Inc()
	m.AppsEnumerated.Add(float64(apps))
	m.EnumerationDuration.Observe(duration.Seconds())
}

// RecordEvent records one emission on an event channel
func (m *Metrics) RecordEvent(event string) {
	if m == nil {
		return
	}
	m.EventsEmitted.WithLabelValues(event).Inc()
}

// RecordHandlerFailure records a failed broadcast handler
func (m *Metrics) RecordHandlerFailure(kind string) {
	if m == nil {
		return
	}
	m.HandlerFailures.WithLabelValues(kind).Inc()
}

// RecordBridgeCall records one bridge method invocation
func (m *Metrics) RecordBridgeCall(method string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.BridgeCalls.WithLabelValues(method, status).Inc()
}

// Middleware creates a Gin middleware for HTTP metrics
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
