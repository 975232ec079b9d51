package metrics

import (
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/sprout/pkg/driver"
	"github.com/vango-dev/sprout/pkg/patch"
)

// Config configures the collector.
type Config struct {
	// Namespace is the metrics namespace (default: "sprout").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for cycle phases.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "sprout",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector records render cycles and server sessions.
//
// All methods are safe on a nil *Collector, so callers can hold an optional
// collector without checking it.
type Collector struct {
	cycles        *prometheus.CounterVec
	cyclePhase    *prometheus.HistogramVec
	cycleErrors   *prometheus.CounterVec
	patches       *prometheus.CounterVec
	liveNodes     prometheus.Histogram
	mounted       prometheus.Gauge
	sessions      prometheus.Gauge
	framesSent    prometheus.Counter
	frameBytes    prometheus.Counter
	eventsTotal   prometheus.Counter
	wsErrors      *prometheus.CounterVec
	sessionsTotal prometheus.Counter
}

// New creates a collector and registers its metrics.
//
// Metrics collected:
//   - sprout_cycles_total: Counter of cycles by kind and status
//   - sprout_cycle_phase_seconds: Histogram of diff and patch durations
//   - sprout_cycle_errors_total: Counter of failed cycles by error type
//   - sprout_patches_total: Counter of applied patches by operation
//   - sprout_live_nodes: Histogram of registered live nodes after a cycle
//   - sprout_mounted_trees: Gauge of mounted trees
//   - sprout_active_sessions: Gauge of open server sessions
//   - sprout_sessions_total: Counter of server sessions opened
//   - sprout_frames_sent_total / sprout_frame_bytes_total: mutation frames written
//   - sprout_events_total: Counter of client events received
//   - sprout_websocket_errors_total: Counter of WebSocket errors by type
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}

	return &Collector{
		cycles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cycles_total",
			Help:        "Total number of render cycles",
			ConstLabels: config.ConstLabels,
		}, []string{"kind", "status"}),

		cyclePhase: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cycle_phase_seconds",
			Help:        "Render cycle phase duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"kind", "phase"}),

		cycleErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cycle_errors_total",
			Help:        "Total number of failed render cycles",
			ConstLabels: config.ConstLabels,
		}, []string{"kind", "error_type"}),

		patches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_total",
			Help:        "Total number of patches applied",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		liveNodes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_nodes",
			Help:        "Registered live nodes after a render cycle",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{10, 100, 1000, 10000, 100000},
		}),

		mounted:       gauge("mounted_trees", "Number of mounted trees"),
		sessions:      gauge("active_sessions", "Number of active WebSocket sessions"),
		sessionsTotal: counter("sessions_total", "Total number of WebSocket sessions opened"),
		framesSent:    counter("frames_sent_total", "Total number of mutation frames sent to clients"),
		frameBytes:    counter("frame_bytes_total", "Total bytes of mutation frames sent to clients"),
		eventsTotal:   counter("events_total", "Total number of client events received"),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_errors_total",
			Help:        "Total WebSocket errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

// ObserveCycle implements driver.Observer.
func (c *Collector) ObserveCycle(cy driver.Cycle) {
	if c == nil {
		return
	}
	kind := cy.Kind.String()

	status := "success"
	if cy.Err != nil {
		status = "error"
		c.cycleErrors.WithLabelValues(kind, categorizeError(cy.Err)).Inc()
	}
	c.cycles.WithLabelValues(kind, status).Inc()

	if cy.Kind != driver.CycleUnmount {
		c.cyclePhase.WithLabelValues(kind, "diff").Observe(cy.Diff.Seconds())
	}
	c.cyclePhase.WithLabelValues(kind, "patch").Observe(cy.Patch.Seconds())
	for op, n := range cy.Ops {
		c.patches.WithLabelValues(op.String()).Add(float64(n))
	}
	c.liveNodes.Observe(float64(cy.LiveNodes))

	if cy.Err == nil {
		switch cy.Kind {
		case driver.CycleMount:
			c.mounted.Inc()
		case driver.CycleUnmount:
			c.mounted.Dec()
		}
	}
}

// SessionOpened records a new WebSocket session.
func (c *Collector) SessionOpened() {
	if c == nil {
		return
	}
	c.sessions.Inc()
	c.sessionsTotal.Inc()
}

// SessionClosed records the end of a WebSocket session.
func (c *Collector) SessionClosed() {
	if c == nil {
		return
	}
	c.sessions.Dec()
}

// FrameSent records a mutation frame of size bytes.
func (c *Collector) FrameSent(size int) {
	if c == nil {
		return
	}
	c.framesSent.Inc()
	c.frameBytes.Add(float64(size))
}

// EventsReceived records n client events.
func (c *Collector) EventsReceived(n int) {
	if c == nil {
		return
	}
	c.eventsTotal.Add(float64(n))
}

// WebSocketError records a WebSocket error.
func (c *Collector) WebSocketError(errorType string) {
	if c == nil {
		return
	}
	c.wsErrors.WithLabelValues(errorType).Inc()
}

// categorizeError returns a low-cardinality label for err.
func categorizeError(err error) string {
	switch {
	case errors.Is(err, patch.ErrDocumentAPI):
		return "document_api"
	case errors.Is(err, patch.ErrInvalidPath):
		return "invalid_path"
	case errors.Is(err, patch.ErrDanglingReference):
		return "dangling_reference"
	case strings.Contains(err.Error(), "timeout"):
		return "timeout"
	default:
		return "internal"
	}
}
