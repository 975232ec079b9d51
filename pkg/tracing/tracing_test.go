package tracing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/sprout/pkg/driver"
	"github.com/vango-dev/sprout/pkg/vdom"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/embedded"
	"go.opentelemetry.io/otel/trace/noop"
)

type recordedSpan struct {
	trace.Span
	name   string
	parent *recordedSpan
	start  time.Time
	end    time.Time
	attrs  map[attribute.Key]attribute.Value
	status codes.Code
	err    error
}

func (s *recordedSpan) End(opts ...trace.SpanEndOption) {
	cfg := trace.NewSpanEndConfig(opts...)
	s.end = cfg.Timestamp()
}

func (s *recordedSpan) SetStatus(code codes.Code, _ string) { s.status = code }
func (s *recordedSpan) RecordError(err error, _ ...trace.EventOption) {
	s.err = err
}

type spanKey struct{}

type recordingTracer struct {
	embedded.Tracer
	spans []*recordedSpan
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	parent, _ := ctx.Value(spanKey{}).(*recordedSpan)
	s := &recordedSpan{
		Span:   noop.Span{},
		name:   name,
		parent: parent,
		start:  cfg.Timestamp(),
		attrs:  make(map[attribute.Key]attribute.Value),
	}
	for _, kv := range cfg.Attributes() {
		s.attrs[kv.Key] = kv.Value
	}
	t.spans = append(t.spans, s)
	return context.WithValue(ctx, spanKey{}, s), s
}

type recordingProvider struct {
	embedded.TracerProvider
	tracer *recordingTracer
}

func (p *recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer { return p.tracer }

func newRecording(opts ...Option) (*Tracer, *recordingTracer) {
	rt := &recordingTracer{}
	return New(append(opts, WithTracerProvider(&recordingProvider{tracer: rt}))...), rt
}

func TestObserveCycleSpans(t *testing.T) {
	tr, rec := newRecording(WithAttributes(attribute.String("app", "counter")))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tr.ObserveCycle(driver.Cycle{
		Kind:      driver.CycleRender,
		Start:     start,
		Diff:      2 * time.Millisecond,
		Patch:     3 * time.Millisecond,
		Ops:       map[vdom.PatchOp]int{vdom.PatchSetText: 2, vdom.PatchAppend: 1},
		Patches:   3,
		LiveNodes: 7,
	})

	if len(rec.spans) != 3 {
		t.Fatalf("spans = %d, want 3", len(rec.spans))
	}
	root, diff, patch := rec.spans[0], rec.spans[1], rec.spans[2]
	if root.name != "sprout.render" || diff.name != "sprout.diff" || patch.name != "sprout.patch" {
		t.Fatalf("names = %s %s %s", root.name, diff.name, patch.name)
	}
	if diff.parent != root || patch.parent != root {
		t.Error("phase spans are not children of the cycle span")
	}

	times := []time.Time{root.start, root.end, diff.start, diff.end, patch.start, patch.end}
	want := []time.Time{
		start, start.Add(5 * time.Millisecond),
		start, start.Add(2 * time.Millisecond),
		start.Add(2 * time.Millisecond), start.Add(5 * time.Millisecond),
	}
	if d := cmp.Diff(want, times); d != "" {
		t.Errorf("timestamps (-want +got):\n%s", d)
	}

	gotAttrs := map[string]any{}
	for k, v := range root.attrs {
		gotAttrs[string(k)] = v.AsInterface()
	}
	wantAttrs := map[string]any{
		"sprout.cycle":       "render",
		"sprout.patch_count": int64(3),
		"sprout.live_nodes":  int64(7),
		"sprout.ops.Append":  int64(1),
		"sprout.ops.SetText": int64(2),
		"app":                "counter",
	}
	if d := cmp.Diff(wantAttrs, gotAttrs); d != "" {
		t.Errorf("attributes (-want +got):\n%s", d)
	}
	if root.status != codes.Ok {
		t.Errorf("status = %v, want Ok", root.status)
	}
}

func TestObserveFailedCycle(t *testing.T) {
	tr, rec := newRecording()
	boom := errors.New("boom")
	tr.ObserveCycle(driver.Cycle{Kind: driver.CycleUnmount, Start: time.Now(), Err: boom})

	if len(rec.spans) != 2 {
		t.Fatalf("spans = %d, want 2 (unmount has no diff phase)", len(rec.spans))
	}
	if root := rec.spans[0]; root.status != codes.Error || !errors.Is(root.err, boom) {
		t.Errorf("status = %v err = %v", root.status, root.err)
	}
}

func TestFilterAndDerivedTracers(t *testing.T) {
	tr, rec := newRecording(WithCycleFilter(func(c driver.Cycle) bool {
		return c.Kind == driver.CycleMount
	}))
	tr.ObserveCycle(driver.Cycle{Kind: driver.CycleRender})
	if len(rec.spans) != 0 {
		t.Fatalf("filtered cycle produced %d spans", len(rec.spans))
	}

	parentCtx, parent := rec.Start(context.Background(), "session")
	child := tr.With(attribute.String("sprout.session_id", "s1")).WithContext(parentCtx)
	child.ObserveCycle(driver.Cycle{Kind: driver.CycleMount})

	cycle := rec.spans[1]
	if cycle.parent != parent {
		t.Error("cycle span is not a child of the context span")
	}
	if got := cycle.attrs["sprout.session_id"].AsString(); got != "s1" {
		t.Errorf("session attribute = %q", got)
	}
	if len(tr.attrs) != 0 {
		t.Error("With modified the original tracer")
	}
}

func TestNilTracer(t *testing.T) {
	var tr *Tracer
	tr.ObserveCycle(driver.Cycle{})
}
