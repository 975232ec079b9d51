package vdom

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindEmpty, "Empty"},
		{KindElement, "Element"},
		{KindText, "Text"},
		{Kind(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestZeroNodeIsEmpty(t *testing.T) {
	var n Node[testMsg]
	if !n.IsEmpty() || n.IsElement() || n.IsText() {
		t.Error("zero Node should be Empty")
	}
}

func TestPredicatesAreTotal(t *testing.T) {
	var nilNode *Node[testMsg]
	nodes := []*Node[testMsg]{nilNode, Empty[testMsg](), Text[testMsg]("t"), h.Div()}
	for _, n := range nodes {
		// None of these may panic.
		_ = n.IsEmpty()
		_ = n.IsElement()
		_ = n.IsText()
		_, _ = n.AsText()
		_, _ = n.AsElement()
		_ = n.TextContent()
		_ = n.String()
	}

	if s, ok := Text[testMsg]("hi").AsText(); !ok || s != "hi" {
		t.Errorf("AsText = %q, %v", s, ok)
	}
	if _, ok := h.Div().AsText(); ok {
		t.Error("AsText on element should fail")
	}
	if el, ok := h.Div().AsElement(); !ok || el.Tag != "div" {
		t.Error("AsElement on element should succeed")
	}
	if _, ok := nilNode.AsElement(); ok {
		t.Error("AsElement on nil should fail")
	}
}

func TestBuilders(t *testing.T) {
	n := Element[testMsg]("", "div").
		AddAttr("id", AttrSome("x")).
		AddClass("a").
		AddClass("b").
		AddStyle("color", CSSSome("red")).
		AddListener(click("go")).
		AddText("hello").
		AddChild(nil).
		SetKey("k")

	if v, _ := n.Attrs.Effective("class"); v != "a b" {
		t.Errorf("class = %q, want %q", v, "a b")
	}
	if len(n.Children) != 2 || !n.Children[1].IsEmpty() {
		t.Errorf("children = %v, nil child should be appended as Empty", n.Children)
	}
	if len(n.Listeners) != 1 || n.Key != "k" {
		t.Errorf("listeners = %d, key = %q", len(n.Listeners), n.Key)
	}

	n.ReplaceText("bye")
	if len(n.Children) != 1 || n.TextContent() != "bye" {
		t.Errorf("ReplaceText left %v", n.Children)
	}

	// Builders on non-elements are no-ops.
	txt := Text[testMsg]("t").AddAttr("id", AttrSome("x")).AddChild(h.Div())
	if txt.Attrs.Len() != 0 || len(txt.Children) != 0 {
		t.Error("builders should not modify text nodes")
	}
	if txt.ReplaceText("u").Text != "u" {
		t.Error("ReplaceText should update text nodes")
	}
}

func TestTextContent(t *testing.T) {
	n := h.Div("a", h.Span("b", h.Em("c")), Empty[testMsg](), "d")
	if got := n.TextContent(); got != "abcd" {
		t.Errorf("TextContent = %q, want abcd", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := h.Div(ID("x"), Css("color", "red"), h.P("one"))
	orig.SetHandle(7)
	c := orig.Clone()

	c.Attrs.Set("id", AttrSome("y"))
	c.Style.Set("color", CSSSome("blue"))
	c.Children[0].Children[0].Text = "changed"
	c.Children = append(c.Children, h.P("two"))

	if v, _ := orig.Attrs.Effective("id"); v != "x" {
		t.Error("attrs shared")
	}
	if v, _ := orig.Style.Effective("color"); v != "red" {
		t.Error("style shared")
	}
	if orig.TextContent() != "one" || len(orig.Children) != 1 {
		t.Error("children shared")
	}
	if c.Handle() != 7 {
		t.Errorf("clone handle = %d, want 7", c.Handle())
	}
}

func TestAt(t *testing.T) {
	n := h.Div(h.Ul(h.Li("a"), h.Li("b")))
	got, ok := n.At([]int{0, 1, 0})
	if !ok || got.Text != "b" {
		t.Errorf("At([0 1 0]) = %v, %v", got, ok)
	}
	if root, ok := n.At(nil); !ok || root != n {
		t.Error("At(nil) should return the root")
	}
	for _, bad := range [][]int{{1}, {0, 5}, {0, 0, 0, 0}, {-1}} {
		if _, ok := n.At(bad); ok {
			t.Errorf("At(%v) should fail", bad)
		}
	}
}

func TestNamespaceURI(t *testing.T) {
	if Namespace("").URI() != string(NamespaceHTML) {
		t.Error("zero namespace should resolve to HTML")
	}
	if !Namespace("").IsHTML() || NamespaceSVG.IsHTML() {
		t.Error("IsHTML misclassified")
	}
}
