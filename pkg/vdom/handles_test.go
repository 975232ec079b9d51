package vdom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/sprout/pkg/dom/memdom"
)

func TestHandleHelpers(t *testing.T) {
	tree := h.Div(h.P("a"), h.P("b"))
	tree.SetHandle(1)
	tree.Children[1].SetHandle(2)

	handles := CollectHandles(tree)
	if len(handles) != 2 || handles[2] != tree.Children[1] {
		t.Errorf("CollectHandles = %v", handles)
	}
	if FindByHandle(tree, 2) != tree.Children[1] || FindByHandle(tree, 9) != nil {
		t.Error("FindByHandle misbehaved")
	}

	ClearHandles(tree)
	if len(CollectHandles(tree)) != 0 {
		t.Error("ClearHandles left handles behind")
	}

	var nilNode *Node[testMsg]
	nilNode.SetHandle(3)
	if nilNode.Handle() != 0 {
		t.Error("nil node should report handle 0")
	}
}

func TestCountElements(t *testing.T) {
	tree := h.Div(h.P("a"), Empty[testMsg](), h.Ul(h.Li(), h.Li()))
	if got := CountElements(tree); got != 5 {
		t.Errorf("CountElements = %d, want 5", got)
	}
}

func TestWalkPathsAndPruning(t *testing.T) {
	tree := h.Div(h.P("a"), h.Ul(h.Li("x")))
	var paths [][]int
	Walk(tree, func(n *Node[testMsg], path []int) bool {
		paths = append(paths, append([]int(nil), path...))
		return n.Tag != "ul"
	})
	want := [][]int{{}, {0}, {0, 0}, {1}}
	if diff := cmp.Diff(want, paths, cmp.Transformer("nilToEmpty", func(p []int) []int {
		if p == nil {
			return []int{}
		}
		return p
	})); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestFromLive(t *testing.T) {
	doc := memdom.New()
	root := doc.Element("div")
	root.SetAttribute("id", "app")
	root.SetAttribute("style", "color: red; margin: 0")
	p := doc.Element("p")
	text, _ := doc.CreateTextNode("hello")
	p.AppendChild(text)
	root.AppendChild(p)

	n := FromLive[testMsg](root)
	if n.Tag != "div" || !n.Namespace.IsHTML() {
		t.Fatalf("root = %v ns %q", n, n.Namespace)
	}
	if v, _ := n.Attrs.Effective("id"); v != "app" {
		t.Errorf("id = %q", v)
	}
	if _, ok := n.Attrs.Get("style"); ok {
		t.Error("style attribute should move to the style table")
	}
	if diff := cmp.Diff([]string{"color", "margin"}, n.Style.Keys()); diff != "" {
		t.Errorf("style keys mismatch (-want +got):\n%s", diff)
	}
	if n.TextContent() != "hello" {
		t.Errorf("TextContent = %q", n.TextContent())
	}

	// A tree adopted from the live document diffs cleanly against the view
	// that produced it.
	view := h.Div(ID("app"), Css("color", "red"), Css("margin", "0"), h.P("hello"))
	assertOps(t, Diff(n, view))
}
