package vdom

import (
	"fmt"
	"strings"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindEmpty    Kind = iota // Placeholder, renders nothing
	KindElement              // <div>, <button>, etc.
	KindText                 // Plain text node
	KindNoChange             // Keeps the previous node at this position
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindNoChange:
		return "NoChange"
	default:
		return "Unknown"
	}
}

// Namespace is an element namespace URI. The zero value means HTML.
type Namespace string

const (
	NamespaceHTML   Namespace = "http://www.w3.org/1999/xhtml"
	NamespaceSVG    Namespace = "http://www.w3.org/2000/svg"
	NamespaceMathML Namespace = "http://www.w3.org/1998/Math/MathML"
	NamespaceXUL    Namespace = "http://www.mozilla.org/keymaster/gatekeeper/there.is.only.xul"
	NamespaceXBL    Namespace = "http://www.mozilla.org/xbl"
)

// URI returns the namespace URI, resolving the zero value to HTML.
func (ns Namespace) URI() string {
	if ns == "" {
		return string(NamespaceHTML)
	}
	return string(ns)
}

// IsHTML reports whether ns is the HTML namespace.
func (ns Namespace) IsHTML() bool {
	return ns == "" || ns == NamespaceHTML
}

// Node is the virtual DOM node: an element, a text node or an empty
// placeholder. Msg is the message type produced by listeners and hooks.
//
// The zero Node is Empty.
type Node[Msg any] struct {
	Kind      Kind
	Tag       string    // Element tag name (e.g., "div")
	Namespace Namespace // Element namespace; zero means HTML
	Attrs     Attrs
	Style     Style
	Listeners []Listener[Msg]
	Children  []*Node[Msg]
	Key       string // Reconciliation key
	Text      string // For KindText
	Hooks     Hooks[Msg]
	Refs      []*Ref

	// handle links the node to its live counterpart. It is set by the
	// patcher and carried from old to new nodes by Diff.
	handle Handle
}

// Empty creates an empty placeholder.
func Empty[Msg any]() *Node[Msg] {
	return &Node[Msg]{Kind: KindEmpty}
}

// NoChange creates a node that Diff replaces with the previous node at the
// same position, live counterpart included, without comparing or patching
// it. Views return it for subtrees they know to be unchanged. Without a
// previous node it becomes Empty.
func NoChange[Msg any]() *Node[Msg] {
	return &Node[Msg]{Kind: KindNoChange}
}

// IsNoChange reports whether n is a NoChange placeholder.
func (n *Node[Msg]) IsNoChange() bool { return n != nil && n.Kind == KindNoChange }

// reuse turns n into prev, or into Empty when prev is nil.
func (n *Node[Msg]) reuse(prev *Node[Msg]) {
	if prev == nil {
		*n = Node[Msg]{Kind: KindEmpty}
		return
	}
	*n = *prev
}

// Text creates a text node.
func Text[Msg any](content string) *Node[Msg] {
	return &Node[Msg]{Kind: KindText, Text: content}
}

// Textf creates a formatted text node.
func Textf[Msg any](format string, args ...any) *Node[Msg] {
	return Text[Msg](fmt.Sprintf(format, args...))
}

// Element creates an element with no attributes or children.
func Element[Msg any](ns Namespace, tag string) *Node[Msg] {
	return &Node[Msg]{Kind: KindElement, Tag: tag, Namespace: ns}
}

// IsEmpty reports whether n is an empty placeholder. A nil node is empty.
func (n *Node[Msg]) IsEmpty() bool { return n == nil || n.Kind == KindEmpty }

// IsElement reports whether n is an element.
func (n *Node[Msg]) IsElement() bool { return n != nil && n.Kind == KindElement }

// IsText reports whether n is a text node.
func (n *Node[Msg]) IsText() bool { return n != nil && n.Kind == KindText }

// AsText returns the text of a text node.
func (n *Node[Msg]) AsText() (string, bool) {
	if !n.IsText() {
		return "", false
	}
	return n.Text, true
}

// AsElement returns n if it is an element.
func (n *Node[Msg]) AsElement() (*Node[Msg], bool) {
	if !n.IsElement() {
		return nil, false
	}
	return n, true
}

// KindOf returns the kind of n, treating nil as Empty.
func KindOf[Msg any](n *Node[Msg]) Kind {
	if n == nil {
		return KindEmpty
	}
	return n.Kind
}

// AddAttr sets an attribute. It is a no-op on non-elements.
func (n *Node[Msg]) AddAttr(key string, value AttrValue) *Node[Msg] {
	if n.IsElement() {
		n.Attrs.Set(key, value)
	}
	return n
}

// AddClass appends a class to the class attribute.
func (n *Node[Msg]) AddClass(class string) *Node[Msg] {
	if n.IsElement() && class != "" {
		n.Attrs.AddMultiple("class", []string{class})
	}
	return n
}

// AddStyle sets a style property. It is a no-op on non-elements.
func (n *Node[Msg]) AddStyle(name string, value CSSValue) *Node[Msg] {
	if n.IsElement() {
		n.Style.Set(name, value)
	}
	return n
}

// AddListener appends a listener. It is a no-op on non-elements.
func (n *Node[Msg]) AddListener(l Listener[Msg]) *Node[Msg] {
	if n.IsElement() && l.Event != "" && l.Handler != nil {
		n.Listeners = append(n.Listeners, l)
	}
	return n
}

// AddChild appends a child. A nil child is appended as Empty so that child
// indices stay stable. It is a no-op on non-elements.
func (n *Node[Msg]) AddChild(child *Node[Msg]) *Node[Msg] {
	if !n.IsElement() {
		return n
	}
	if child == nil {
		child = Empty[Msg]()
	}
	n.Children = append(n.Children, child)
	return n
}

// AddText appends a text child.
func (n *Node[Msg]) AddText(text string) *Node[Msg] {
	return n.AddChild(Text[Msg](text))
}

// ReplaceText replaces the children of an element with a single text node,
// or the payload of a text node.
func (n *Node[Msg]) ReplaceText(text string) *Node[Msg] {
	switch {
	case n.IsText():
		n.Text = text
	case n.IsElement():
		n.Children = []*Node[Msg]{Text[Msg](text)}
	}
	return n
}

// SetKey sets the reconciliation key.
func (n *Node[Msg]) SetKey(key string) *Node[Msg] {
	if n != nil {
		n.Key = key
	}
	return n
}

// TextContent returns the concatenated text of all descendant text nodes.
func (n *Node[Msg]) TextContent() string {
	switch {
	case n.IsText():
		return n.Text
	case n.IsElement():
		var sb strings.Builder
		n.writeText(&sb)
		return sb.String()
	default:
		return ""
	}
}

func (n *Node[Msg]) writeText(sb *strings.Builder) {
	for _, c := range n.Children {
		if c.IsText() {
			sb.WriteString(c.Text)
		} else if c.IsElement() {
			c.writeText(sb)
		}
	}
}

// Clone returns a deep copy of the tree, including live handles.
// Listener and hook closures are shared.
func (n *Node[Msg]) Clone() *Node[Msg] {
	if n == nil {
		return nil
	}
	c := &Node[Msg]{
		Kind:      n.Kind,
		Tag:       n.Tag,
		Namespace: n.Namespace,
		Attrs:     n.Attrs.Clone(),
		Style:     n.Style.Clone(),
		Key:       n.Key,
		Text:      n.Text,
		Hooks:     n.Hooks.clone(),
		handle:    n.handle,
	}
	if len(n.Listeners) > 0 {
		c.Listeners = append([]Listener[Msg](nil), n.Listeners...)
	}
	if len(n.Refs) > 0 {
		c.Refs = append([]*Ref(nil), n.Refs...)
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node[Msg], len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// At resolves a child-index path from n.
func (n *Node[Msg]) At(path []int) (*Node[Msg], bool) {
	cur := n
	for _, i := range path {
		if !cur.IsElement() || i < 0 || i >= len(cur.Children) {
			return nil, false
		}
		cur = cur.Children[i]
	}
	return cur, cur != nil
}

// String returns a short description of the node for logs.
func (n *Node[Msg]) String() string {
	switch KindOf(n) {
	case KindText:
		return fmt.Sprintf("%q", n.Text)
	case KindElement:
		if n.Key != "" {
			return fmt.Sprintf("<%s key=%q>", n.Tag, n.Key)
		}
		return "<" + n.Tag + ">"
	case KindNoChange:
		return "NoChange"
	default:
		return "Empty"
	}
}
