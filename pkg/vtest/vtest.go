package vtest

import (
	"slices"
	"strings"
	"testing"

	"github.com/vango-dev/sprout/pkg/render"
	"github.com/vango-dev/sprout/pkg/vdom"
)

// RenderToString renders a tree to HTML. It returns "" if rendering fails.
//
// Example:
//
//	html := vtest.RenderToString(view(&model))
//	if !strings.Contains(html, "expected text") {
//	    t.Error("missing expected text")
//	}
func RenderToString[Msg any](node *vdom.Node[Msg]) string {
	html, err := render.NewRenderer[Msg](render.RendererConfig{}).RenderToString(node)
	if err != nil {
		return ""
	}
	return html
}

// ExpectContains fails t unless the rendered tree contains expected.
func ExpectContains[Msg any](t testing.TB, node *vdom.Node[Msg], expected string) {
	t.Helper()
	if html := RenderToString(node); !strings.Contains(html, expected) {
		t.Errorf("rendered view does not contain %q:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains fails t if the rendered tree contains unexpected.
func ExpectNotContains[Msg any](t testing.TB, node *vdom.Node[Msg], unexpected string) {
	t.Helper()
	if html := RenderToString(node); strings.Contains(html, unexpected) {
		t.Errorf("rendered view contains %q:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement fails t unless some element of the tree has tag.
func ExpectElement[Msg any](t testing.TB, node *vdom.Node[Msg], tag string) {
	t.Helper()
	found := walk(node, func(n *vdom.Node[Msg]) bool { return n.Tag == tag })
	if !found {
		t.Errorf("view has no <%s> element:\n%s", tag, truncate(RenderToString(node), 500))
	}
}

// ExpectAttribute fails t unless some element would carry attr=value on the
// live document. For class, value may be any one of the classes.
//
// Example:
//
//	vtest.ExpectAttribute(t, view(&model), "class", "btn-primary")
func ExpectAttribute[Msg any](t testing.TB, node *vdom.Node[Msg], attr, value string) {
	t.Helper()
	found := walk(node, func(n *vdom.Node[Msg]) bool {
		for _, a := range vdom.EffectiveAttrs(n) {
			if a.Key != attr {
				continue
			}
			if a.Value == value || (attr == "class" && slices.Contains(strings.Fields(a.Value), value)) {
				return true
			}
		}
		return false
	})
	if !found {
		t.Errorf("no element has %s=%q:\n%s", attr, value, truncate(RenderToString(node), 500))
	}
}

// walk reports whether match holds for any element in the tree.
func walk[Msg any](n *vdom.Node[Msg], match func(*vdom.Node[Msg]) bool) bool {
	if !n.IsElement() {
		return false
	}
	if match(n) {
		return true
	}
	for _, c := range n.Children {
		if walk(c, match) {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
