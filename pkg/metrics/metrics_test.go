package metrics

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/vango-dev/sprout/pkg/dom"
	"github.com/vango-dev/sprout/pkg/dom/memdom"
	"github.com/vango-dev/sprout/pkg/driver"
	"github.com/vango-dev/sprout/pkg/patch"
	"github.com/vango-dev/sprout/pkg/vdom"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	return m.GetGauge().GetValue()
}

func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func list(n int) *vdom.Node[string] {
	var h vdom.Html[string]
	items := make([]*vdom.Node[string], n)
	for i := range items {
		items[i] = h.Li(fmt.Sprint(i))
	}
	return h.Ul(items)
}

func TestObserveDriverCycles(t *testing.T) {
	c := New(WithRegistry(prometheus.NewRegistry()))

	doc := memdom.New()
	d := driver.New(doc, doc.Element("main"), driver.Options[string]{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Observer: c,
	})
	if err := d.Mount(list(2)); err != nil {
		t.Fatal(err)
	}
	if err := d.Render(list(3)); err != nil {
		t.Fatal(err)
	}

	if got := counterValue(t, c.cycles.WithLabelValues("mount", "success")); got != 1 {
		t.Errorf("cycles_total(mount)=%v, want 1", got)
	}
	if got := counterValue(t, c.cycles.WithLabelValues("render", "success")); got != 1 {
		t.Errorf("cycles_total(render)=%v, want 1", got)
	}
	if got := counterValue(t, c.patches.WithLabelValues(vdom.PatchAppend.String())); got != 1 {
		t.Errorf("patches_total(append)=%v, want 1", got)
	}
	if got := gaugeValue(t, c.mounted); got != 1 {
		t.Errorf("mounted_trees=%v, want 1", got)
	}
	if got := histogramCount(t, c.cyclePhase.WithLabelValues("render", "diff")); got != 1 {
		t.Errorf("cycle_phase_seconds(render, diff) count=%d, want 1", got)
	}
	if got := histogramCount(t, c.liveNodes); got != 2 {
		t.Errorf("live_nodes count=%d, want 2", got)
	}

	if err := d.Unmount(); err != nil {
		t.Fatal(err)
	}
	if got := gaugeValue(t, c.mounted); got != 0 {
		t.Errorf("mounted_trees after unmount=%v, want 0", got)
	}
}

func TestObserveFailedCycle(t *testing.T) {
	c := New(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))
	c.ObserveCycle(driver.Cycle{
		Kind:  driver.CycleRender,
		Start: time.Now(),
		Err:   fmt.Errorf("apply: %w", patch.ErrDocumentAPI),
	})

	if got := counterValue(t, c.cycles.WithLabelValues("render", "error")); got != 1 {
		t.Errorf("cycles_total(error)=%v, want 1", got)
	}
	if got := counterValue(t, c.cycleErrors.WithLabelValues("render", "document_api")); got != 1 {
		t.Errorf("cycle_errors_total(document_api)=%v, want 1", got)
	}
	if got := gaugeValue(t, c.mounted); got != 0 {
		t.Errorf("mounted_trees=%v, want 0", got)
	}
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("x: %w", patch.ErrDocumentAPI), "document_api"},
		{patch.ErrInvalidPath, "invalid_path"},
		{patch.ErrDanglingReference, "dangling_reference"},
		{errors.New("write timeout"), "timeout"},
		{dom.ErrHierarchy, "internal"},
	}
	for _, tt := range tests {
		if got := categorizeError(tt.err); got != tt.want {
			t.Errorf("categorizeError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestSessionRecorders(t *testing.T) {
	c := New(WithRegistry(prometheus.NewRegistry()))
	c.SessionOpened()
	c.SessionOpened()
	c.SessionClosed()
	c.FrameSent(100)
	c.FrameSent(20)
	c.EventsReceived(3)
	c.WebSocketError("read")

	if got := gaugeValue(t, c.sessions); got != 1 {
		t.Errorf("active_sessions=%v, want 1", got)
	}
	if got := counterValue(t, c.sessionsTotal); got != 2 {
		t.Errorf("sessions_total=%v, want 2", got)
	}
	if got := counterValue(t, c.frameBytes); got != 120 {
		t.Errorf("frame_bytes_total=%v, want 120", got)
	}
	if got := counterValue(t, c.framesSent); got != 2 {
		t.Errorf("frames_sent_total=%v, want 2", got)
	}
	if got := counterValue(t, c.eventsTotal); got != 3 {
		t.Errorf("events_total=%v, want 3", got)
	}
	if got := counterValue(t, c.wsErrors.WithLabelValues("read")); got != 1 {
		t.Errorf("websocket_errors_total(read)=%v, want 1", got)
	}
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.ObserveCycle(driver.Cycle{})
	c.SessionOpened()
	c.SessionClosed()
	c.FrameSent(1)
	c.EventsReceived(1)
	c.WebSocketError("x")
}
