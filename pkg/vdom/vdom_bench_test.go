package vdom

import (
	"strconv"
	"testing"
)

func benchList(n int, offset int) *Node[testMsg] {
	items := make([]*Node[testMsg], n)
	for i := range items {
		k := strconv.Itoa((i + offset) % n)
		items[i] = h.Li(Key(k), Class("item"), click("x"), k)
	}
	return h.Ul(items)
}

func BenchmarkCreateElement(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = h.Div(ID("root"), Class("card", "wide"), Css("color", "red"),
			h.H1("Title"),
			h.P("Body", h.Strong("bold")),
			h.Button(click("go"), "Go"),
		)
	}
}

func BenchmarkDiffIdentical(b *testing.B) {
	prev, next := benchList(1000, 0), benchList(1000, 0)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Diff(prev, next)
	}
}

func BenchmarkDiffTextChange(b *testing.B) {
	prev := benchList(1000, 0)
	next := benchList(1000, 0)
	next.Children[500].Children[0].Text = "changed"
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Diff(prev, next)
	}
}

func BenchmarkDiffKeyedRotate(b *testing.B) {
	prev, next := benchList(1000, 0), benchList(1000, 1)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Diff(prev, next, WithKeyed())
	}
}

func BenchmarkMapMsg(b *testing.B) {
	tree := benchList(200, 0)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = MapMsg(tree, func(m testMsg) string { return string(m) })
	}
}
