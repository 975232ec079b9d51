package vdom

import "testing"

func TestIfReturnsEmpty(t *testing.T) {
	if n := If(true, h.P()); !n.IsElement() {
		t.Error("If(true) should return the node")
	}
	if n := If(false, h.P()); n == nil || !n.IsEmpty() {
		t.Error("If(false) should return Empty, not nil")
	}
	if n := Unless(true, h.P()); !n.IsEmpty() {
		t.Error("Unless(true) should return Empty")
	}
}

func TestWhenIsLazy(t *testing.T) {
	called := false
	n := When(false, func() *Node[testMsg] {
		called = true
		return h.P()
	})
	if called || !n.IsEmpty() {
		t.Error("When(false) must not call fn")
	}
}

func TestIfKeepsSiblingIndices(t *testing.T) {
	view := func(show bool) *Node[testMsg] {
		return h.Div(If(show, h.P("banner")), h.Span("body"))
	}
	assertOps(t, Diff(view(false), view(true)), `Replace [0] Empty -> <p>`)
}

func TestIfElseAndEither(t *testing.T) {
	a, b := h.P(), h.Span()
	if IfElse(false, a, b) != b {
		t.Error("IfElse(false) should return the second node")
	}
	if Either(Empty[testMsg](), b) != b || Either(a, b) != a {
		t.Error("Either misbehaved")
	}
	if Either[testMsg](nil, b) != b {
		t.Error("Either should treat nil as empty")
	}
}

func TestRange(t *testing.T) {
	items := []string{"a", "b", "skip", "c"}
	nodes := Range(items, func(s string, i int) *Node[testMsg] {
		if s == "skip" {
			return nil
		}
		return h.Li(Data("i", string(rune('0'+i))), s)
	})
	if len(nodes) != 3 {
		t.Fatalf("len = %d, want 3", len(nodes))
	}
	if v, _ := nodes[2].Attrs.Effective("data-i"); v != "3" {
		t.Errorf("index = %q, want 3", v)
	}
}

func TestKeyed(t *testing.T) {
	type todo struct {
		ID    int
		Title string
	}
	todos := []todo{{1, "one"}, {7, "seven"}}
	nodes := Keyed(todos,
		func(t todo) string { return string(rune('0' + t.ID)) },
		func(t todo) *Node[testMsg] { return h.Li(t.Title) },
	)
	if nodes[0].Key != "1" || nodes[1].Key != "7" {
		t.Errorf("keys = %q, %q", nodes[0].Key, nodes[1].Key)
	}
}

func TestRepeat(t *testing.T) {
	if Repeat(0, func(int) *Node[testMsg] { return h.P() }) != nil {
		t.Error("Repeat(0) should be nil")
	}
	if got := len(Repeat(4, func(int) *Node[testMsg] { return h.P() })); got != 4 {
		t.Errorf("len = %d, want 4", got)
	}
}
