package vtest

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/sprout/pkg/app"
	"github.com/vango-dev/sprout/pkg/dom/memdom"
)

// Harness is an app mounted on an in-memory document. Every interaction
// flushes the app, so the document reflects the model when it returns.
type Harness[Model, Msg any] struct {
	tb   testing.TB
	app  *app.App[Model, Msg]
	doc  *memdom.Document
	root *memdom.Node
	errs []error
}

// Mount starts an app for cfg in a fresh memdom document. The app is
// stopped when the test ends. Render errors are recorded and reported by
// Errors instead of failing the test, unless cfg.OnError is set.
func Mount[Model, Msg any](tb testing.TB, cfg app.Config[Model, Msg]) *Harness[Model, Msg] {
	tb.Helper()
	h := &Harness[Model, Msg]{tb: tb, doc: memdom.New()}
	h.root = h.doc.Element("div")
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.OnError == nil {
		cfg.OnError = func(err error) { h.errs = append(h.errs, err) }
	}
	h.app = app.New(cfg)
	if err := h.app.Start(h.doc, h.root); err != nil {
		tb.Fatalf("Start() error: %v", err)
	}
	tb.Cleanup(func() { _ = h.app.Stop() })
	return h
}

// App returns the running app.
func (h *Harness[Model, Msg]) App() *app.App[Model, Msg] { return h.app }

// Document returns the document the app renders into.
func (h *Harness[Model, Msg]) Document() *memdom.Document { return h.doc }

// Root returns the mount container.
func (h *Harness[Model, Msg]) Root() *memdom.Node { return h.root }

// Model returns a copy of the current model.
func (h *Harness[Model, Msg]) Model() Model { return h.app.Model() }

// Errors returns the render errors seen so far.
func (h *Harness[Model, Msg]) Errors() []error { return h.errs }

// HTML returns the markup inside the mount container.
func (h *Harness[Model, Msg]) HTML() string { return h.root.InnerHTML() }

// Flush processes queued messages. Render errors go to Errors.
func (h *Harness[Model, Msg]) Flush() {
	h.tb.Helper()
	err := h.app.Flush()
	if errors.Is(err, app.ErrStopped) || errors.Is(err, app.ErrNotStarted) {
		h.tb.Fatalf("Flush() error: %v", err)
	}
}

// Wait waits for in-flight commands and processes their messages.
func (h *Harness[Model, Msg]) Wait() {
	h.tb.Helper()
	h.app.Wait()
	h.Flush()
}

// Send queues msg and flushes.
func (h *Harness[Model, Msg]) Send(msg Msg) {
	h.tb.Helper()
	h.app.Send(msg)
	h.Flush()
}

// Query returns the first element matching selector, or nil.
func (h *Harness[Model, Msg]) Query(selector string) *memdom.Node {
	return h.root.Query(selector)
}

// QueryAll returns every element matching selector.
func (h *Harness[Model, Msg]) QueryAll(selector string) []*memdom.Node {
	return h.root.QueryAll(selector)
}

// Find returns the first element matching selector and fails the test if
// there is none.
func (h *Harness[Model, Msg]) Find(selector string) *memdom.Node {
	h.tb.Helper()
	n := h.root.Query(selector)
	if n == nil {
		h.tb.Fatalf("no element matches %q in:\n%s", selector, truncate(h.HTML(), 500))
	}
	return n
}

// Click clicks the element matching selector.
func (h *Harness[Model, Msg]) Click(selector string) {
	h.tb.Helper()
	memdom.Click(h.Find(selector))
	h.Flush()
}

// Input types value into the element matching selector.
func (h *Harness[Model, Msg]) Input(selector, value string) {
	h.tb.Helper()
	memdom.Input(h.Find(selector), value)
	h.Flush()
}

// Toggle sets the checked state of the element matching selector.
func (h *Harness[Model, Msg]) Toggle(selector string, checked bool) {
	h.tb.Helper()
	memdom.Toggle(h.Find(selector), checked)
	h.Flush()
}

// KeyDown presses key on the element matching selector.
func (h *Harness[Model, Msg]) KeyDown(selector, key string) {
	h.tb.Helper()
	memdom.KeyDown(h.Find(selector), key)
	h.Flush()
}

// Dispatch fires an arbitrary event at the element matching selector.
func (h *Harness[Model, Msg]) Dispatch(selector, event string) {
	h.tb.Helper()
	memdom.Dispatch(h.Find(selector), event, memdom.EventInit{})
	h.Flush()
}

// Text returns the text content of the element matching selector.
func (h *Harness[Model, Msg]) Text(selector string) string {
	h.tb.Helper()
	return h.Find(selector).TextContent()
}

// ExpectHTML asserts the markup inside the mount container.
func (h *Harness[Model, Msg]) ExpectHTML(want string) {
	h.tb.Helper()
	if got := h.HTML(); got != want {
		h.tb.Errorf("html =\n%s\nwant\n%s", got, want)
	}
}

// ExpectContains asserts that the markup contains expected.
func (h *Harness[Model, Msg]) ExpectContains(expected string) {
	h.tb.Helper()
	if html := h.HTML(); !strings.Contains(html, expected) {
		h.tb.Errorf("expected document to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectText asserts the text content of the element matching selector.
func (h *Harness[Model, Msg]) ExpectText(selector, want string) {
	h.tb.Helper()
	if got := h.Text(selector); got != want {
		h.tb.Errorf("text of %q = %q, want %q", selector, got, want)
	}
}

// ExpectCount asserts how many elements match selector.
func (h *Harness[Model, Msg]) ExpectCount(selector string, want int) {
	h.tb.Helper()
	if got := len(h.QueryAll(selector)); got != want {
		h.tb.Errorf("count of %q = %d, want %d", selector, got, want)
	}
}
