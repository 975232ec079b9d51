package tracing

import (
	"context"
	"sort"
	"time"

	"github.com/vango-dev/sprout/pkg/driver"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for sprout applications.
const defaultTracerName = "sprout"

// Config configures the tracer.
type Config struct {
	// TracerName is the name of the tracer (default: "sprout").
	TracerName string

	// Provider defaults to the global provider.
	Provider trace.TracerProvider

	// Filter determines which cycles to trace.
	// If nil, all cycles are traced.
	Filter func(c driver.Cycle) bool

	// Attributes are added to every span.
	Attributes []attribute.KeyValue
}

// Option configures the tracer.
type Option func(*Config)

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the provider the tracer is resolved from.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Config) {
		c.Provider = tp
	}
}

// WithCycleFilter sets a filter function for cycles.
func WithCycleFilter(filter func(c driver.Cycle) bool) Option {
	return func(c *Config) {
		c.Filter = filter
	}
}

// WithAttributes adds attributes to every span.
func WithAttributes(attrs ...attribute.KeyValue) Option {
	return func(c *Config) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

// Tracer records every render cycle as a span with a child span per phase.
// Cycles are reported after they complete, so spans carry explicit
// timestamps.
type Tracer struct {
	tracer trace.Tracer
	ctx    context.Context
	filter func(driver.Cycle) bool
	attrs  []attribute.KeyValue
}

// New creates a tracer.
//
// The tracer uses the global OpenTelemetry tracer provider unless
// WithTracerProvider is given. Configure it in main() before starting:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func New(opts ...Option) *Tracer {
	config := Config{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	provider := config.Provider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &Tracer{
		tracer: provider.Tracer(config.TracerName),
		ctx:    context.Background(),
		filter: config.Filter,
		attrs:  config.Attributes,
	}
}

// WithContext returns a copy of t whose spans are children of the span in
// ctx.
func (t *Tracer) WithContext(ctx context.Context) *Tracer {
	c := *t
	c.ctx = ctx
	return &c
}

// With returns a copy of t that adds attrs to every span.
func (t *Tracer) With(attrs ...attribute.KeyValue) *Tracer {
	c := *t
	c.attrs = append(append([]attribute.KeyValue(nil), t.attrs...), attrs...)
	return &c
}

// ObserveCycle implements driver.Observer.
func (t *Tracer) ObserveCycle(c driver.Cycle) {
	if t == nil || (t.filter != nil && !t.filter(c)) {
		return
	}

	attrs := append([]attribute.KeyValue{
		attribute.String("sprout.cycle", c.Kind.String()),
		attribute.Int("sprout.patch_count", c.Patches),
		attribute.Int("sprout.live_nodes", c.LiveNodes),
	}, t.attrs...)
	attrs = append(attrs, opAttributes(c)...)

	ctx, span := t.tracer.Start(t.ctx, "sprout."+c.Kind.String(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(c.Start),
	)

	phase := c.Start
	if c.Kind != driver.CycleUnmount {
		t.phase(ctx, "sprout.diff", phase, c.Diff)
		phase = phase.Add(c.Diff)
	}
	t.phase(ctx, "sprout.patch", phase, c.Patch)

	if c.Err != nil {
		span.RecordError(c.Err)
		span.SetStatus(codes.Error, c.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(c.Start.Add(c.Duration())))
}

func (t *Tracer) phase(ctx context.Context, name string, start time.Time, d time.Duration) {
	_, span := t.tracer.Start(ctx, name, trace.WithTimestamp(start))
	span.End(trace.WithTimestamp(start.Add(d)))
}

// opAttributes returns one sprout.ops.<op> attribute per patch operation,
// in a stable order.
func opAttributes(c driver.Cycle) []attribute.KeyValue {
	names := make([]string, 0, len(c.Ops))
	counts := make(map[string]int, len(c.Ops))
	for op, n := range c.Ops {
		name := op.String()
		names = append(names, name)
		counts[name] = n
	}
	sort.Strings(names)
	attrs := make([]attribute.KeyValue, len(names))
	for i, name := range names {
		attrs[i] = attribute.Int("sprout.ops."+name, counts[name])
	}
	return attrs
}
