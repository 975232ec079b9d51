package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/vango-dev/sprout/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables indented output. Whitespace between inline elements is
	// not changed, but block children each get their own line.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// EventMarkers adds a data-on-<event> attribute for every listener, for
	// stylesheets and scripts that need to know what is interactive.
	EventMarkers bool
}

// Renderer serialises vdom trees to HTML.
//
// The output matches what the patcher builds: attributes in table order with
// value last, Ignored attributes omitted and the style table merged into the
// style attribute. Empty nodes produce nothing.
type Renderer[Msg any] struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer[Msg any](config RendererConfig) *Renderer[Msg] {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer[Msg]{config: config}
}

// RenderToString renders a tree to an HTML string.
func (r *Renderer[Msg]) RenderToString(node *vdom.Node[Msg]) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a tree to w.
func (r *Renderer[Msg]) RenderToWriter(w io.Writer, node *vdom.Node[Msg]) error {
	ew := &errWriter{w: w}
	r.renderNode(ew, node, 0)
	return ew.err
}

// errWriter keeps the first write error and drops later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) write(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}

func (r *Renderer[Msg]) renderNode(w *errWriter, node *vdom.Node[Msg], depth int) {
	switch vdom.KindOf(node) {
	case vdom.KindElement:
		r.renderElement(w, node, depth)
	case vdom.KindText:
		w.write(escapeHTML(node.Text))
	}
}

// renderElement writes node at depth. A negative depth places it inline
// in its parent, without indentation or line breaks, even in pretty mode.
func (r *Renderer[Msg]) renderElement(w *errWriter, node *vdom.Node[Msg], depth int) {
	tag := node.Tag
	laidOut := r.config.Pretty && depth >= 0
	if laidOut && depth > 0 {
		r.writeIndent(w, depth)
	}

	w.write("<")
	w.write(tag)
	r.renderAttributes(w, node)
	w.write(">")

	if node.Namespace.IsHTML() && vdom.IsVoidElement(tag) {
		if laidOut {
			w.write("\n")
		}
		return
	}

	block := laidOut && hasElementChildren(node) && !keepsLine(tag)
	if block {
		w.write("\n")
	}
	for _, child := range node.Children {
		switch {
		case block && child.IsText():
			r.writeIndent(w, depth+1)
			r.renderNode(w, child, depth+1)
			w.write("\n")
		case block:
			r.renderNode(w, child, depth+1)
		default:
			r.renderNode(w, child, -1)
		}
	}
	if block {
		r.writeIndent(w, depth)
	}

	w.write("</")
	w.write(tag)
	w.write(">")
	if laidOut {
		w.write("\n")
	}
}

// renderAttributes writes the effective attributes, then the merged style
// attribute, then event markers.
func (r *Renderer[Msg]) renderAttributes(w *errWriter, node *vdom.Node[Msg]) {
	var inline string
	for _, a := range vdom.EffectiveAttrs(node) {
		if a.Key == "style" {
			inline = a.Value
			continue
		}
		w.write(" ")
		w.write(a.Key)
		if a.Value != "" {
			w.write(`="`)
			w.write(escapeAttr(a.Value))
			w.write(`"`)
		}
	}

	if style := styleText(inline, vdom.EffectiveStyle(node)); style != "" {
		w.write(` style="`)
		w.write(escapeAttr(style))
		w.write(`"`)
	}

	if r.config.EventMarkers {
		seen := make(map[string]bool, len(node.Listeners))
		for _, l := range node.Listeners {
			if l.Event == "" || seen[l.Event] {
				continue
			}
			seen[l.Event] = true
			w.write(fmt.Sprintf(` data-on-%s="true"`, escapeAttr(l.Event)))
		}
	}
}

// styleText merges an inline style attribute with style table entries. Later
// declarations of a property replace earlier ones in place.
func styleText(inline string, props []vdom.AttrPair) string {
	var keys []string
	values := make(map[string]string)
	put := func(k, v string) {
		if _, ok := values[k]; !ok {
			keys = append(keys, k)
		}
		values[k] = v
	}
	for _, decl := range strings.Split(inline, ";") {
		if k, v, ok := strings.Cut(decl, ":"); ok {
			put(strings.TrimSpace(k), strings.TrimSpace(v))
		}
	}
	for _, p := range props {
		put(p.Key, p.Value)
	}

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(values[k])
		sb.WriteByte(';')
	}
	return sb.String()
}

func hasElementChildren[Msg any](node *vdom.Node[Msg]) bool {
	for _, c := range node.Children {
		if c.IsElement() {
			return true
		}
	}
	return false
}

func (r *Renderer[Msg]) writeIndent(w *errWriter, depth int) {
	w.write(strings.Repeat(r.config.Indent, depth))
}
