package render

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/sprout/pkg/dom/memdom"
	"github.com/vango-dev/sprout/pkg/patch"
	"github.com/vango-dev/sprout/pkg/vdom"
)

type msg string

var h vdom.Html[msg]

func render(t *testing.T, n *vdom.Node[msg]) string {
	t.Helper()
	out, err := NewRenderer[msg](RendererConfig{}).RenderToString(n)
	if err != nil {
		t.Fatalf("RenderToString: %v", err)
	}
	return out
}

func TestRenderElements(t *testing.T) {
	tests := []struct {
		name string
		node *vdom.Node[msg]
		want string
	}{
		{"empty", vdom.Empty[msg](), ""},
		{"nil", nil, ""},
		{"text", vdom.Text[msg]("a < b & c"), "a &lt; b &amp; c"},
		{"element", h.Div(vdom.ID("x"), "hi"), `<div id="x">hi</div>`},
		{"void", h.Input(vdom.Type("text")), `<input type="text">`},
		{"boolean", h.Input(vdom.Disabled(true)), `<input disabled>`},
		{"boolean off", h.Input(vdom.Disabled(false)), `<input>`},
		{"key omitted", h.Li(vdom.Key(1), "a"), `<li>a</li>`},
		{"empty children skipped", h.P("a", vdom.Empty[msg](), "b"), `<p>ab</p>`},
		{"value last", h.Input(vdom.Value("5"), vdom.Min("1")), `<input min="1" value="5">`},
		{"escaped attr", h.A(vdom.Href(`/q?a=1&b="2"`)), `<a href="/q?a=1&amp;b=&#34;2&#34;"></a>`},
		{"svg", h.Svg(vdom.ViewBox("0 0 1 1"), vdom.Svg[msg]("path", vdom.D("M0"))), `<svg viewBox="0 0 1 1"><path d="M0"></path></svg>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(t, tt.node); got != tt.want {
				t.Errorf("render = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderIgnoredAttr(t *testing.T) {
	n := h.Div(vdom.AttrOf("title", vdom.AttrIgnored()), vdom.AttrOf("hidden", vdom.AttrNone()))
	if got := render(t, n); got != "<div hidden></div>" {
		t.Errorf("render = %q", got)
	}
}

func TestRenderStyle(t *testing.T) {
	n := h.Div(vdom.StyleAttr("color: red; margin: 0"), vdom.Css("color", "blue"), vdom.Css("width", vdom.Px(10)))
	want := `<div style="color: blue; margin: 0; width: 10px;"></div>`
	if got := render(t, n); got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}

func TestRenderEventMarkers(t *testing.T) {
	n := h.Button(vdom.OnSimple[msg]("click", "a"), vdom.OnSimple[msg]("click", "b"), "go")

	if got := render(t, n); got != "<button>go</button>" {
		t.Errorf("without markers = %q", got)
	}
	r := NewRenderer[msg](RendererConfig{EventMarkers: true})
	got, _ := r.RenderToString(n)
	if got != `<button data-on-click="true">go</button>` {
		t.Errorf("with markers = %q", got)
	}
}

func TestRenderPretty(t *testing.T) {
	n := h.Div(h.P("one"), h.Ul(h.Li(h.Span("two"))))
	r := NewRenderer[msg](RendererConfig{Pretty: true})
	got, err := r.RenderToString(n)
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"<div>",
		"  <p>one</p>",
		"  <ul>",
		"    <li>",
		"      <span>two</span>",
		"    </li>",
		"  </ul>",
		"</div>",
		"",
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("pretty output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderPrettyKeepsPre(t *testing.T) {
	n := h.Div(h.Pre(h.Code("a := 1")))
	r := NewRenderer[msg](RendererConfig{Pretty: true})
	got, err := r.RenderToString(n)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "<pre><code>a := 1</code></pre>") {
		t.Errorf("pre content was reformatted:\n%s", got)
	}
}

// The renderer and a patcher building into memdom must agree, so that
// server-rendered markup can be taken over.
func TestRenderMatchesPatcher(t *testing.T) {
	trees := []*vdom.Node[msg]{
		h.Div(vdom.Class("a", "b"), vdom.ID("x"), h.P("text"), vdom.Empty[msg](), h.Br()),
		h.Form(h.Input(vdom.Type("range"), vdom.Value("3"), vdom.Max("9")), h.Label(vdom.For("x"), "L")),
		h.Section(vdom.Css("display", "none"), h.Span("1"), "tail"),
		h.Ul(h.Li(vdom.Checked(true)), h.Li(vdom.Hidden(false))),
	}
	for i, tree := range trees {
		doc := memdom.New()
		root := doc.Element("main")
		p := patch.New[msg](doc, nil, patch.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
		if err := p.Apply(root, tree, vdom.Diff(nil, tree)); err != nil {
			t.Fatalf("tree %d: Apply: %v", i, err)
		}
		if diff := cmp.Diff(root.InnerHTML(), render(t, tree)); diff != "" {
			t.Errorf("tree %d mismatch (-patcher +render):\n%s", i, diff)
		}
	}
}

type failWriter struct{ n int }

var errWrite = errors.New("write failed")

func (f *failWriter) Write(p []byte) (int, error) {
	if f.n == 0 {
		return 0, errWrite
	}
	f.n--
	return len(p), nil
}

func TestRenderWriteError(t *testing.T) {
	r := NewRenderer[msg](RendererConfig{})
	for _, n := range []int{0, 1, 3} {
		err := r.RenderToWriter(&failWriter{n: n}, h.Div(h.P("a"), h.P("b")))
		if !errors.Is(err, errWrite) {
			t.Errorf("after %d writes: err = %v", n, err)
		}
	}
}

func TestEscape(t *testing.T) {
	if got := escapeHTML(`<a href='x'>"&"</a>`); got != "&lt;a href=&#39;x&#39;&gt;&#34;&amp;&#34;&lt;/a&gt;" {
		t.Errorf("escapeHTML = %q", got)
	}
	if got := escapeAttr("a\nb\tc\r"); got != "a&#10;b&#9;c&#13;" {
		t.Errorf("escapeAttr = %q", got)
	}
}

func BenchmarkRenderList(b *testing.B) {
	items := make([]*vdom.Node[msg], 200)
	for i := range items {
		items[i] = h.Li(vdom.Class("item"), vdom.Textf[msg]("item %d", i))
	}
	tree := h.Ul(items)
	r := NewRenderer[msg](RendererConfig{})
	var buf bytes.Buffer
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		_ = r.RenderToWriter(&buf, tree)
	}
}
