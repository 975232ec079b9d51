package vdom

import (
	"strings"

	"github.com/vango-dev/sprout/pkg/dom"
)

// Handle identifies a live node in the patcher's handle table. Zero means
// the node has no live counterpart.
type Handle uint64

// Handle returns the live handle of the node.
func (n *Node[Msg]) Handle() Handle {
	if n == nil {
		return 0
	}
	return n.handle
}

// SetHandle is called by the patcher when it creates or adopts the live
// counterpart of n.
func (n *Node[Msg]) SetHandle(h Handle) {
	if n != nil {
		n.handle = h
	}
}

// CollectHandles returns a map of handle to node for all nodes with handles.
func CollectHandles[Msg any](node *Node[Msg]) map[Handle]*Node[Msg] {
	result := make(map[Handle]*Node[Msg])
	Walk(node, func(n *Node[Msg], _ []int) bool {
		if n.handle != 0 {
			result[n.handle] = n
		}
		return true
	})
	return result
}

// FindByHandle finds a node by its handle in the tree.
func FindByHandle[Msg any](node *Node[Msg], h Handle) *Node[Msg] {
	if node == nil || h == 0 {
		return nil
	}
	if node.handle == h {
		return node
	}
	for _, child := range node.Children {
		if found := FindByHandle(child, h); found != nil {
			return found
		}
	}
	return nil
}

// ClearHandles removes all handles from the tree.
func ClearHandles[Msg any](node *Node[Msg]) {
	Walk(node, func(n *Node[Msg], _ []int) bool {
		n.handle = 0
		return true
	})
}

// CountElements returns the number of element nodes in the tree.
func CountElements[Msg any](node *Node[Msg]) int {
	count := 0
	Walk(node, func(n *Node[Msg], _ []int) bool {
		if n.IsElement() {
			count++
		}
		return true
	})
	return count
}

// Walk visits the tree in pre-order with the path of each node. Returning
// false from fn skips the node's children. The path must not be retained.
func Walk[Msg any](node *Node[Msg], fn func(n *Node[Msg], path []int) bool) {
	var path []int
	var walk func(n *Node[Msg])
	walk = func(n *Node[Msg]) {
		if n == nil || !fn(n, path) {
			return
		}
		for i, c := range n.Children {
			path = append(path, i)
			walk(c)
			path = path[:len(path)-1]
		}
	}
	walk(node)
}

// FromLive builds a tree mirroring a live node, for taking over content that
// was rendered outside the current driver (for example server-rendered
// HTML). Attributes become Some values and the style attribute is split into
// the style table. Handles are not assigned.
func FromLive[Msg any](live dom.Node) *Node[Msg] {
	if live == nil {
		return Empty[Msg]()
	}
	switch live.Type() {
	case dom.TextNode:
		return Text[Msg](live.TextContent())
	case dom.ElementNode:
		el, ok := dom.AsElement(live)
		if !ok {
			return Empty[Msg]()
		}
		var ns Namespace
		if uri := el.NamespaceURI(); uri != string(NamespaceHTML) {
			ns = Namespace(uri)
		}
		n := Element[Msg](ns, el.TagName())
		for _, name := range el.AttributeNames() {
			v, _ := el.Attribute(name)
			if name == "style" {
				for _, decl := range strings.Split(v, ";") {
					if k, val, ok := strings.Cut(decl, ":"); ok {
						n.Style.Set(strings.TrimSpace(k), CSSSome(strings.TrimSpace(val)))
					}
				}
				continue
			}
			n.Attrs.Set(name, AttrSome(v))
		}
		for _, c := range live.ChildNodes() {
			n.Children = append(n.Children, FromLive[Msg](c))
		}
		return n
	default:
		return Empty[Msg]()
	}
}
