package render

import (
	"io"

	"github.com/vango-dev/sprout/pkg/vdom"
)

// DefaultClientScript is where the server serves the thin client.
const DefaultClientScript = "/_sprout/client.js"

// DefaultRootID is the id of the element the view is mounted in.
const DefaultRootID = "sprout-root"

// PageData contains all data needed to render a complete HTML page.
type PageData[Msg any] struct {
	// Body is the view, rendered inside the mount container.
	Body *vdom.Node[Msg]

	Title string
	Meta  []MetaTag
	Links []LinkTag

	// Scripts are placed in the head when deferred or async, otherwise at
	// the end of the body.
	Scripts []ScriptTag

	// Styles contains inline CSS.
	Styles []string

	// StyleSheets contains paths to external stylesheets.
	StyleSheets []string

	// Lang defaults to "en".
	Lang string

	// RootID defaults to DefaultRootID.
	RootID string

	// ClientScript is the path of the thin client. With Static set no
	// client is loaded.
	ClientScript string

	// SocketPath is passed to the thin client as data-ws.
	SocketPath string

	// Static renders a page without the thin client, for export.
	Static bool
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name      string
	Content   string
	Property  string // OpenGraph
	HTTPEquiv string
	Charset   string
}

// LinkTag represents a link element in the document head.
type LinkTag struct {
	Rel         string
	Href        string
	Type        string
	Sizes       string
	CrossOrigin string
	Media       string
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string
	Type   string
	Defer  bool
	Async  bool
	Module bool   // type="module"
	Inline string // inline script content
}

// RenderPage renders a complete HTML document to w.
func (r *Renderer[Msg]) RenderPage(w io.Writer, page PageData[Msg]) error {
	ew := &errWriter{w: w}
	r.pageStart(ew, page)
	r.pageBody(ew, page)
	r.pageEnd(ew, page)
	return ew.err
}

func (r *Renderer[Msg]) pageStart(w *errWriter, page PageData[Msg]) {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	w.write("<!DOCTYPE html>\n")
	w.write(`<html lang="` + escapeAttr(lang) + `">` + "\n")
	r.renderHead(w, page)
	w.write("<body>\n")
}

func (r *Renderer[Msg]) pageBody(w *errWriter, page PageData[Msg]) {
	id := page.RootID
	if id == "" {
		id = DefaultRootID
	}
	w.write(`<div id="` + escapeAttr(id) + `">`)
	r.renderNode(w, page.Body, 0)
	w.write("</div>\n")
}

func (r *Renderer[Msg]) pageEnd(w *errWriter, page PageData[Msg]) {
	for _, s := range page.Scripts {
		if !s.Defer && !s.Async {
			renderScriptTag(w, s)
		}
	}
	if !page.Static {
		renderClientScript(w, page.ClientScript, page.SocketPath, page.RootID)
	}
	w.write("</body>\n</html>\n")
}

func (r *Renderer[Msg]) renderHead(w *errWriter, page PageData[Msg]) {
	w.write("<head>\n")
	w.write(`  <meta charset="utf-8">` + "\n")
	w.write(`  <meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")
	if page.Title != "" {
		w.write("  <title>" + escapeHTML(page.Title) + "</title>\n")
	}
	for _, m := range page.Meta {
		renderMetaTag(w, m)
	}
	for _, l := range page.Links {
		renderLinkTag(w, l)
	}
	for _, href := range page.StyleSheets {
		renderLinkTag(w, LinkTag{Rel: "stylesheet", Href: href})
	}
	for _, style := range page.Styles {
		w.write("  <style>" + style + "</style>\n")
	}
	for _, s := range page.Scripts {
		if s.Defer || s.Async {
			renderScriptTag(w, s)
		}
	}
	w.write("</head>\n")
}

// attrs writes name="value" pairs, skipping empty values.
func attrs(w *errWriter, pairs ...string) {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		w.write(" " + pairs[i] + `="` + escapeAttr(pairs[i+1]) + `"`)
	}
}

func renderMetaTag(w *errWriter, m MetaTag) {
	w.write("  <meta")
	attrs(w,
		"charset", m.Charset,
		"name", m.Name,
		"property", m.Property,
		"http-equiv", m.HTTPEquiv,
		"content", m.Content)
	w.write(">\n")
}

func renderLinkTag(w *errWriter, l LinkTag) {
	w.write("  <link")
	attrs(w,
		"rel", l.Rel,
		"href", l.Href,
		"type", l.Type,
		"sizes", l.Sizes,
		"crossorigin", l.CrossOrigin,
		"media", l.Media)
	w.write(">\n")
}

func renderScriptTag(w *errWriter, s ScriptTag) {
	typ := s.Type
	if s.Module {
		typ = "module"
	}
	w.write("  <script")
	attrs(w, "src", s.Src, "type", typ)
	if s.Defer {
		w.write(" defer")
	}
	if s.Async {
		w.write(" async")
	}
	w.write(">" + s.Inline + "</script>\n")
}

// renderClientScript loads the thin client, which finds the socket path and
// a non-default mount container through its data attributes.
func renderClientScript(w *errWriter, src, socket, root string) {
	if src == "" {
		src = DefaultClientScript
	}
	w.write("  <script")
	attrs(w, "src", src, "data-ws", socket, "data-root", root)
	w.write(" defer></script>\n")
}
