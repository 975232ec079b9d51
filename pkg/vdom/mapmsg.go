package vdom

import "github.com/vango-dev/sprout/pkg/dom"

// MapMsg converts a tree producing A messages into one producing B messages,
// so a child component's view can be embedded in a parent's view.
//
// The result is a deep copy with the same tags, attributes, styles, keys,
// text and live handles. Every listener and hook is wrapped to pass its
// message through f.
func MapMsg[A, B any](n *Node[A], f func(A) B) *Node[B] {
	if n == nil {
		return nil
	}
	out := &Node[B]{
		Kind:      n.Kind,
		Tag:       n.Tag,
		Namespace: n.Namespace,
		Attrs:     n.Attrs.Clone(),
		Style:     n.Style.Clone(),
		Key:       n.Key,
		Text:      n.Text,
		handle:    n.handle,
	}
	if len(n.Refs) > 0 {
		out.Refs = append([]*Ref(nil), n.Refs...)
	}
	if len(n.Listeners) > 0 {
		out.Listeners = make([]Listener[B], len(n.Listeners))
		for i, l := range n.Listeners {
			out.Listeners[i] = Listener[B]{Event: l.Event, Handler: mapHandler(l.Handler, f)}
		}
	}
	out.Hooks = Hooks[B]{
		DidMount:    mapHooks(n.Hooks.DidMount, f),
		DidUpdate:   mapHooks(n.Hooks.DidUpdate, f),
		WillUnmount: mapHooks(n.Hooks.WillUnmount, f),
	}
	if len(n.Children) > 0 {
		out.Children = make([]*Node[B], len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = MapMsg(c, f)
		}
	}
	return out
}

func mapHandler[A, B any](h func(dom.Event) (A, bool), f func(A) B) func(dom.Event) (B, bool) {
	if h == nil {
		return nil
	}
	return func(e dom.Event) (B, bool) {
		m, ok := h(e)
		if !ok {
			var zero B
			return zero, false
		}
		return f(m), true
	}
}

func mapHooks[A, B any](hs []Hook[A], f func(A) B) []Hook[B] {
	if len(hs) == 0 {
		return nil
	}
	out := make([]Hook[B], len(hs))
	for i, h := range hs {
		h := h
		out[i] = func(el dom.Element) (B, bool) {
			m, ok := h(el)
			if !ok {
				var zero B
				return zero, false
			}
			return f(m), true
		}
	}
	return out
}
