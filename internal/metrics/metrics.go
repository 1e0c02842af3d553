// Package metrics has the Prometheus collectors for the GraphQL service
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrewwphillips/blogql/internal/field"
	"github.com/andrewwphillips/blogql/internal/store"
)

const namespace = "blogql"

// Transport labels
const (
	HTTP      = "http"
	WebSocket = "websocket"
)

// Outcome labels
const (
	OK              = "ok"
	ValidationError = "validation_error"
	SchemaError     = "schema_error"
	ArgumentError   = "argument_error"
	InternalError   = "internal_error"
	BadRequest      = "bad_request"
)

// Metrics holds the collectors.  A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests        *prometheus.CounterVec   // by transport and outcome
	requestDuration *prometheus.HistogramVec // by transport
	referenceMisses *prometheus.CounterVec   // by relation
	wsConnections   prometheus.Gauge
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of GraphQL requests",
		}, []string{"transport", "outcome"}),

		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "GraphQL request execution duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"transport"}),

		referenceMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reference_misses_total",
			Help:      "Total number of references that did not resolve to an entity",
		}, []string{"relation"}),

		wsConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_connections",
			Help:      "Number of open websocket connections",
		}),
	}

	for _, c := range []prometheus.Collector{m.requests, m.requestDuration, m.referenceMisses, m.wsConnections} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Request records a completed request
func (m *Metrics) Request(transport, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(transport, outcome).Inc()
	m.requestDuration.WithLabelValues(transport).Observe(duration.Seconds())
}

// ReferenceMiss counts a reference that did not resolve
func (m *Metrics) ReferenceMiss(relation field.Relation, _ store.ID) {
	if m == nil {
		return
	}
	m.referenceMisses.WithLabelValues(relation.String()).Inc()
}

// WSOpened and WSClosed track the number of open websocket connections
func (m *Metrics) WSOpened() {
	if m != nil {
		m.wsConnections.Inc()
	}
}

func (m *Metrics) WSClosed() {
	if m != nil {
		m.wsConnections.Dec()
	}
}
