package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vango-dev/sprout/internal/demo"
	"github.com/vango-dev/sprout/pkg/app"
	"github.com/vango-dev/sprout/pkg/dom/memdom"
	"github.com/vango-dev/sprout/pkg/metrics"
	"github.com/vango-dev/sprout/pkg/protocol"
	"github.com/vango-dev/sprout/pkg/wire"
)

type counterServer = Server[demo.Counter, demo.CounterMsg]

func newTestServer(t *testing.T, cfg *ServerConfig) (*counterServer, *httptest.Server) {
	t.Helper()
	if cfg == nil {
		cfg = DefaultServerConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := New(cfg, func() app.Config[demo.Counter, demo.CounterMsg] { return demo.CounterApp(0) })
	ts := httptest.NewServer(s)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
		ts.Close()
	})
	return s, ts
}

// client is a test browser: it replays frames into a memdom document.
type client struct {
	t      *testing.T
	conn   *websocket.Conn
	root   *memdom.Node
	replay *wire.Replayer
	events []protocol.Event
}

func dial(t *testing.T, ts *httptest.Server) *client {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + SocketPath
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	doc := memdom.New()
	c := &client{t: t, conn: conn, root: doc.Element("div")}
	c.replay = wire.NewReplayer(doc, c.root, func(ev protocol.Event) { c.events = append(c.events, ev) })
	return c
}

func (c *client) read() *protocol.Frame {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		c.t.Fatalf("ReadMessage: %v", err)
	}
	f, err := protocol.DecodeFrame(data)
	if err != nil {
		c.t.Fatalf("DecodeFrame: %v", err)
	}
	return f
}

func (c *client) write(f *protocol.Frame) {
	c.t.Helper()
	if err := c.conn.WriteMessage(websocket.BinaryMessage, f.Encode()); err != nil {
		c.t.Fatalf("WriteMessage: %v", err)
	}
}

// sync reads one mutations frame and applies it.
func (c *client) sync() *protocol.Frame {
	c.t.Helper()
	f := c.read()
	if f.Type != protocol.FrameMutations {
		c.t.Fatalf("frame type = %s, want Mutations", f.Type)
	}
	mf, err := protocol.DecodeMutations(f.Payload)
	if err != nil {
		c.t.Fatalf("DecodeMutations: %v", err)
	}
	if err := c.replay.Apply(mf, f.Flags.Has(protocol.FlagInitial)); err != nil {
		c.t.Fatalf("Apply: %v", err)
	}
	return f
}

// flushEvents sends the events collected by the replayer.
func (c *client) flushEvents() {
	c.t.Helper()
	c.write(protocol.NewFrame(protocol.FrameEvent, protocol.EncodeEvents(c.events)))
	c.events = nil
}

func (c *client) text(selector string) string {
	c.t.Helper()
	n := c.root.Query(selector)
	if n == nil {
		c.t.Fatalf("no %q in %s", selector, c.root.InnerHTML())
	}
	return n.TextContent()
}

func TestServePage(t *testing.T) {
	_, ts := newTestServer(t, DefaultServerConfig().WithTitle("Counter"))

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	for _, want := range []string{
		"<title>Counter</title>",
		`<div id="sprout-root">`,
		`class="counter"`,
		`src="/_sprout/client.js"`,
		`data-ws="/_sprout/ws"`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("page missing %q:\n%s", want, body)
		}
	}
}

func TestServeThinClient(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + ClientPath)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || len(body) != len(ClientJS()) {
		t.Fatalf("status = %d, %d bytes", resp.StatusCode, len(body))
	}
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+ClientPath, nil)
	req.Header.Set("If-None-Match", `W/`+etag)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotModified {
		t.Errorf("conditional status = %d, want 304", resp.StatusCode)
	}
}

func TestEtagMatches(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{"", false},
		{`"abc"`, true},
		{`W/"abc"`, true},
		{`"x", "abc"`, true},
		{`"x"`, false},
		{`*`, true},
	}
	for _, tt := range tests {
		if got := etagMatches(tt.header, `"abc"`); got != tt.want {
			t.Errorf("etagMatches(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestSessionRoundTrip(t *testing.T) {
	s, ts := newTestServer(t, nil)
	c := dial(t, ts)

	f := c.sync()
	if !f.Flags.Has(protocol.FlagInitial) {
		t.Errorf("first frame flags = %d, want initial", f.Flags)
	}
	if got := c.text("span.count"); got != "0" {
		t.Fatalf("count = %q", got)
	}
	if s.Sessions() != 1 {
		t.Errorf("Sessions() = %d", s.Sessions())
	}

	memdom.Click(c.root.Query("button.inc"))
	memdom.Click(c.root.Query("button.inc"))
	if len(c.events) != 2 {
		t.Fatalf("events = %v", c.events)
	}
	c.flushEvents()

	f = c.sync()
	if f.Flags.Has(protocol.FlagInitial) {
		t.Error("update frame marked initial")
	}
	if got := c.text("span.count"); got != "2" {
		t.Errorf("count = %q, want 2", got)
	}
	if _, disabled := c.root.Query("button.reset").Attribute("disabled"); disabled {
		t.Error("reset still disabled")
	}
}

func TestSessionPing(t *testing.T) {
	_, ts := newTestServer(t, nil)
	c := dial(t, ts)
	c.sync()

	c.write(protocol.NewFrame(protocol.FrameControl,
		protocol.EncodeControl(&protocol.Control{Type: protocol.ControlPing, Timestamp: 42})))
	f := c.read()
	if f.Type != protocol.FrameControl {
		t.Fatalf("frame type = %s", f.Type)
	}
	ctl, err := protocol.DecodeControl(f.Payload)
	if err != nil {
		t.Fatal(err)
	}
	if ctl.Type != protocol.ControlPong || ctl.Timestamp != 42 {
		t.Errorf("control = %+v", ctl)
	}
}

func TestSessionErrors(t *testing.T) {
	_, ts := newTestServer(t, nil)
	c := dial(t, ts)
	c.sync()

	expectError := func(code protocol.ErrorCode) {
		t.Helper()
		f := c.read()
		if f.Type != protocol.FrameError {
			t.Fatalf("frame type = %s, want Error", f.Type)
		}
		em, err := protocol.DecodeErrorMessage(f.Payload)
		if err != nil {
			t.Fatal(err)
		}
		if em.Code != code || em.Fatal {
			t.Errorf("error = %+v, want non-fatal %s", em, code)
		}
	}

	if err := c.conn.WriteMessage(websocket.BinaryMessage, []byte{0x01}); err != nil {
		t.Fatal(err)
	}
	expectError(protocol.CodeInvalidFrame)

	c.write(protocol.NewFrame(protocol.FrameEvent, []byte{0xff}))
	expectError(protocol.CodeInvalidEvent)

	c.write(protocol.NewFrame(protocol.FrameEvent, protocol.EncodeEvents([]protocol.Event{
		{Node: 9999, Type: "click"},
	})))
	expectError(protocol.CodeUnknownNode)

	// The session survives all of the above.
	memdom.Click(c.root.Query("button.dec"))
	c.flushEvents()
	c.sync()
	if got := c.text("span.count"); got != "-1" {
		t.Errorf("count = %q, want -1", got)
	}
}

func TestSessionLimit(t *testing.T) {
	_, ts := newTestServer(t, DefaultServerConfig().WithMaxSessions(1))
	first := dial(t, ts)
	first.sync()

	second := dial(t, ts)
	f := second.read()
	if f.Type != protocol.FrameError || !f.Flags.Has(protocol.FlagFinal) {
		t.Fatalf("frame = %s flags %d", f.Type, f.Flags)
	}
	em, err := protocol.DecodeErrorMessage(f.Payload)
	if err != nil {
		t.Fatal(err)
	}
	if em.Code != protocol.CodeSessionLimit || !em.Fatal {
		t.Errorf("error = %+v", em)
	}
}

func TestShutdownClosesSessions(t *testing.T) {
	s, ts := newTestServer(t, nil)
	c := dial(t, ts)
	c.sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	f := c.read()
	if f.Type != protocol.FrameControl || !f.Flags.Has(protocol.FlagFinal) {
		t.Fatalf("frame = %s flags %d", f.Type, f.Flags)
	}
	ctl, err := protocol.DecodeControl(f.Payload)
	if err != nil {
		t.Fatal(err)
	}
	if ctl.Type != protocol.ControlClose || ctl.Reason != protocol.CloseServerShutdown {
		t.Errorf("control = %+v", ctl)
	}
	if s.Sessions() != 0 {
		t.Errorf("Sessions() = %d after shutdown", s.Sessions())
	}

	// New sessions are refused.
	late := dial(t, ts)
	if f := late.read(); f.Type != protocol.FrameError {
		t.Errorf("late frame = %s", f.Type)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := DefaultServerConfig()
	cfg.Metrics = metrics.New(metrics.WithRegistry(reg))
	cfg.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	_, ts := newTestServer(t, cfg)

	c := dial(t, ts)
	c.sync()
	memdom.Click(c.root.Query("button.inc"))
	c.flushEvents()
	c.sync()

	resp, err := http.Get(ts.URL + MetricsPath)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	for _, want := range []string{
		"sprout_sessions_total 1",
		"sprout_active_sessions 1",
		"sprout_events_total 1",
		"sprout_frames_sent_total 2",
		`sprout_cycles_total{kind="render",status="success"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestWithDefaults(t *testing.T) {
	cfg := (&ServerConfig{MaxSessions: 3, SessionConfig: &SessionConfig{ReadTimeout: time.Second}}).withDefaults()
	if cfg.Address != ":8080" || cfg.MaxSessions != 3 {
		t.Errorf("cfg = %+v", cfg)
	}
	sc := cfg.SessionConfig
	if sc.ReadTimeout != time.Second || sc.WriteTimeout != 10*time.Second || sc.MaxEventQueue != 256 {
		t.Errorf("session config = %+v", sc)
	}
}

func TestSameOriginCheck(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://example.com/_sprout/ws", nil)
	if !SameOriginCheck(r) {
		t.Error("request without Origin rejected")
	}
	r.Header.Set("Origin", "http://example.com")
	if !SameOriginCheck(r) {
		t.Error("same origin rejected")
	}
	r.Header.Set("Origin", "http://evil.test")
	if SameOriginCheck(r) {
		t.Error("cross origin accepted")
	}
}

func TestSessionError(t *testing.T) {
	err := sessionError("abc", "read", io.ErrUnexpectedEOF)
	if got, want := err.Error(), "server: session abc: read: unexpected EOF"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("errors.Is should see the cause")
	}
}
