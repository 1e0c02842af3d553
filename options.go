package blogql

// options.go handles options that can be used to control the GraphQL server.
// Most of these options are just passed on to the resolver or the handler. (See
// internal/handler/options.go for details on how closures are used to handle options.)

import (
	"log/slog"
	"time"
)

// Option is a closure that sets one of the options passed to New or MustRun
type Option = func(*options)

type options struct {
	// resolver options
	noConcurrency bool

	// handler options
	logger                                     *slog.Logger
	metrics                                    *Metrics
	queryTimeout                               time.Duration
	initialTimeout, pingFrequency, pongTimeout time.Duration
}

// NoConcurrency controls whether the fields of an object are resolved concurrently (in separate goroutines)
func NoConcurrency(on bool) func(*options) {
	return func(opt *options) {
		opt.noConcurrency = on
	}
}

// Logger sets the structured logger for requests, websocket connections and references
// that do not resolve (default slog.Default())
func Logger(logger *slog.Logger) func(*options) {
	return func(opt *options) {
		opt.logger = logger
	}
}

// WithMetrics records requests, websocket connections and reference misses in Prometheus metrics
// (see NewMetrics)
func WithMetrics(m *Metrics) func(*options) {
	return func(opt *options) {
		opt.metrics = m
	}
}

// QueryTimeout limits the time taken to execute a query (zero means no limit)
func QueryTimeout(timeout time.Duration) func(*options) {
	return func(opt *options) {
		opt.queryTimeout = timeout
	}
}

// InitialTimeout sets the length time to wait from when the websocket is opened until the
// "connection_init" message is received. If the message is not received from the client
// within the time limit then the WS is closed.
func InitialTimeout(timeout time.Duration) func(*options) {
	return func(opt *options) {
		opt.initialTimeout = timeout
	}
}

// PingFrequency says how often to send a "ping" message (if the client connects with new
// GraphQL websocket protocol) or a "ka" (keep alive) message (old protocol)
func PingFrequency(freq time.Duration) func(*options) {
	return func(opt *options) {
		opt.pingFrequency = freq
	}
}

// PongTimeout set the length time to wait for a "pong" message from the client after
// a "ping" message is sent. If the message is not received from the client
// within the time limit then the WS is closed.
func PongTimeout(timeout time.Duration) func(*options) {
	return func(opt *options) {
		opt.pongTimeout = timeout
	}
}
