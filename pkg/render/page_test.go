package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vango-dev/sprout/pkg/vdom"
)

func TestRenderPage(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer[msg](RendererConfig{})
	err := r.RenderPage(&buf, PageData[msg]{
		Body:        h.H1("Hello"),
		Title:       "A & B",
		Meta:        []MetaTag{{Name: "description", Content: "demo"}},
		StyleSheets: []string{"/app.css"},
		Scripts: []ScriptTag{
			{Src: "/early.js", Defer: true},
			{Inline: "console.log(1)"},
		},
		SocketPath: "/_sprout/ws",
	})
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"<!DOCTYPE html>\n",
		`<html lang="en">`,
		"<title>A &amp; B</title>",
		`<meta name="description" content="demo">`,
		`<link rel="stylesheet" href="/app.css">`,
		`<div id="sprout-root"><h1>Hello</h1></div>`,
		`<script src="/_sprout/client.js" data-ws="/_sprout/ws" defer></script>`,
		"</body>\n</html>\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q\n%s", want, out)
		}
	}

	head := out[:strings.Index(out, "</head>")]
	if !strings.Contains(head, `<script src="/early.js" defer></script>`) {
		t.Error("deferred script not in head")
	}
	if strings.Contains(head, "console.log") {
		t.Error("blocking script rendered in head")
	}
}

func TestRenderStaticPage(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer[msg](RendererConfig{})
	err := r.RenderPage(&buf, PageData[msg]{
		Body:   h.P("x"),
		Lang:   "fr",
		RootID: "app",
		Static: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "client.js") {
		t.Error("static page loads the client")
	}
	if !strings.Contains(out, `<html lang="fr">`) || !strings.Contains(out, `<div id="app"><p>x</p></div>`) {
		t.Errorf("page = %s", out)
	}
}

func TestStreamingRendererFlushes(t *testing.T) {
	fw := &FlushableWriter{Writer: &bytes.Buffer{}}
	sr := NewStreamingRenderer[msg](fw, RendererConfig{})
	if err := sr.RenderPage(PageData[msg]{Body: vdom.Text[msg]("hi")}); err != nil {
		t.Fatal(err)
	}
	if fw.FlushCount != 3 {
		t.Errorf("flushes = %d, want 3", fw.FlushCount)
	}
	out := fw.Writer.(*bytes.Buffer).String()
	if !strings.Contains(out, `<div id="sprout-root">hi</div>`) {
		t.Errorf("page = %s", out)
	}
}

func TestStreamingRendererStopsOnError(t *testing.T) {
	fw := &FlushableWriter{Writer: &failWriter{n: 2}}
	sr := NewStreamingRenderer[msg](fw, RendererConfig{})
	if err := sr.RenderPage(PageData[msg]{Body: h.P("x")}); err == nil {
		t.Fatal("expected write error")
	}
	if fw.FlushCount != 0 {
		t.Errorf("flushed %d times after a failed write", fw.FlushCount)
	}
}
