package memdom

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/vango-dev/sprout/pkg/dom"
)

// Node is an in-memory element or text node. It implements dom.Element;
// element-only methods called on a text node return dom.ErrHierarchy.
type Node struct {
	doc      *Document
	id       uint64
	typ      dom.NodeType
	parent   *Node
	children []*Node

	text string

	tag       string
	ns        string
	attrNames []string
	attrs     map[string]string
	props     map[string]any
	styleKeys []string
	style     map[string]string
	subs      []*Subscription
}

var _ dom.Element = (*Node)(nil)

// ID returns the document-unique id of the node.
func (n *Node) ID() uint64 { return n.id }

// Document returns the owning document.
func (n *Node) Document() *Document { return n.doc }

func (n *Node) Type() dom.NodeType { return n.typ }

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() dom.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// ParentNode is Parent with the concrete type.
func (n *Node) ParentNode() *Node { return n.parent }

func (n *Node) ChildNodes() []dom.Node {
	out := make([]dom.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Children returns the concrete children. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *Node) own(child dom.Node) (*Node, error) {
	c, ok := child.(*Node)
	if !ok || c == nil || c.doc != n.doc {
		return nil, dom.ErrWrongDocument
	}
	return c, nil
}

func (n *Node) canAdopt(c *Node) error {
	if n.typ != dom.ElementNode {
		return fmt.Errorf("%w: text nodes cannot have children", dom.ErrHierarchy)
	}
	for p := n; p != nil; p = p.parent {
		if p == c {
			return fmt.Errorf("%w: node is an ancestor of the parent", dom.ErrHierarchy)
		}
	}
	return nil
}

func (n *Node) indexOf(c *Node) int {
	return slices.Index(n.children, c)
}

func (n *Node) detach() {
	if n.parent == nil {
		return
	}
	p := n.parent
	if i := p.indexOf(n); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	n.parent = nil
}

// AppendChild appends child, moving it if it is already attached.
func (n *Node) AppendChild(child dom.Node) error {
	if err := n.doc.fail(MutAppend); err != nil {
		return err
	}
	c, err := n.own(child)
	if err != nil {
		return err
	}
	if err := n.canAdopt(c); err != nil {
		return err
	}
	c.detach()
	c.parent = n
	n.children = append(n.children, c)
	n.doc.emit(Mutation{Kind: MutAppend, Target: n, Node: c})
	return nil
}

// InsertBefore inserts child before ref. A nil ref appends.
func (n *Node) InsertBefore(child, ref dom.Node) error {
	if ref == nil {
		return n.AppendChild(child)
	}
	if err := n.doc.fail(MutInsertBefore); err != nil {
		return err
	}
	c, err := n.own(child)
	if err != nil {
		return err
	}
	r, err := n.own(ref)
	if err != nil {
		return err
	}
	if r.parent != n {
		return dom.ErrNotFound
	}
	if err := n.canAdopt(c); err != nil {
		return err
	}
	if c == r {
		return nil
	}
	c.detach()
	i := n.indexOf(r)
	c.parent = n
	n.children = slices.Insert(n.children, i, c)
	n.doc.emit(Mutation{Kind: MutInsertBefore, Target: n, Node: c, Ref: r})
	return nil
}

func (n *Node) RemoveChild(child dom.Node) error {
	if err := n.doc.fail(MutRemove); err != nil {
		return err
	}
	c, err := n.own(child)
	if err != nil {
		return err
	}
	if c.parent != n {
		return dom.ErrNotFound
	}
	c.detach()
	n.doc.emit(Mutation{Kind: MutRemove, Target: n, Node: c})
	return nil
}

func (n *Node) ReplaceChild(newChild, oldChild dom.Node) error {
	if err := n.doc.fail(MutReplace); err != nil {
		return err
	}
	nc, err := n.own(newChild)
	if err != nil {
		return err
	}
	oc, err := n.own(oldChild)
	if err != nil {
		return err
	}
	if oc.parent != n {
		return dom.ErrNotFound
	}
	if err := n.canAdopt(nc); err != nil {
		return err
	}
	if nc == oc {
		return nil
	}
	nc.detach()
	i := n.indexOf(oc)
	n.children[i] = nc
	nc.parent = n
	oc.parent = nil
	n.doc.emit(Mutation{Kind: MutReplace, Target: n, Node: nc, Ref: oc})
	return nil
}

// TextContent returns the concatenated text of the subtree.
func (n *Node) TextContent() string {
	if n.typ == dom.TextNode {
		return n.text
	}
	var sb strings.Builder
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	for _, c := range n.children {
		if c.typ == dom.TextNode {
			sb.WriteString(c.text)
		} else {
			c.writeText(sb)
		}
	}
}

// SetTextContent sets the text of a text node, or replaces the children of an
// element with a single text node.
func (n *Node) SetTextContent(text string) error {
	if err := n.doc.fail(MutSetText); err != nil {
		return err
	}
	if n.typ == dom.TextNode {
		n.text = text
	} else {
		for _, c := range n.children {
			c.parent = nil
		}
		n.children = nil
		if text != "" {
			t := n.doc.newNode(dom.TextNode)
			t.text = text
			t.parent = n
			n.children = []*Node{t}
		}
	}
	n.doc.emit(Mutation{Kind: MutSetText, Target: n, Value: text})
	return nil
}

func (n *Node) TagName() string { return n.tag }

func (n *Node) NamespaceURI() string { return n.ns }

func (n *Node) Attribute(name string) (string, bool) {
	if name == "style" {
		if len(n.styleKeys) == 0 {
			return "", false
		}
		return n.styleText(), true
	}
	v, ok := n.attrs[name]
	return v, ok
}

// AttributeNames returns attribute names in insertion order.
func (n *Node) AttributeNames() []string {
	names := slices.Clone(n.attrNames)
	if len(n.styleKeys) > 0 {
		names = append(names, "style")
	}
	return names
}

func (n *Node) SetAttribute(name, value string) error {
	if n.typ != dom.ElementNode {
		return dom.ErrHierarchy
	}
	if err := n.doc.fail(MutSetAttr); err != nil {
		return err
	}
	if !validName(name) {
		return fmt.Errorf("%w: attribute %q", dom.ErrInvalidCharacter, name)
	}
	if name == "style" {
		n.styleKeys, n.style = nil, nil
		for _, decl := range strings.Split(value, ";") {
			k, v, ok := strings.Cut(decl, ":")
			if !ok {
				continue
			}
			n.putStyle(strings.TrimSpace(k), strings.TrimSpace(v))
		}
	} else {
		if n.attrs == nil {
			n.attrs = make(map[string]string)
		}
		if _, ok := n.attrs[name]; !ok {
			n.attrNames = append(n.attrNames, name)
		}
		n.attrs[name] = value
	}
	n.doc.emit(Mutation{Kind: MutSetAttr, Target: n, Name: name, Value: value})
	return nil
}

func (n *Node) RemoveAttribute(name string) error {
	if n.typ != dom.ElementNode {
		return dom.ErrHierarchy
	}
	if err := n.doc.fail(MutRemoveAttr); err != nil {
		return err
	}
	if name == "style" {
		n.styleKeys, n.style = nil, nil
	} else if _, ok := n.attrs[name]; ok {
		delete(n.attrs, name)
		n.attrNames = slices.DeleteFunc(n.attrNames, func(s string) bool { return s == name })
	}
	n.doc.emit(Mutation{Kind: MutRemoveAttr, Target: n, Name: name})
	return nil
}

// SetProperty sets a DOM property. The value and checked properties shadow
// their attributes once set.
func (n *Node) SetProperty(name string, value any) error {
	if n.typ != dom.ElementNode {
		return dom.ErrHierarchy
	}
	if err := n.doc.fail(MutSetProp); err != nil {
		return err
	}
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[name] = value
	n.doc.emit(Mutation{Kind: MutSetProp, Target: n, Name: name, Value: propString(value), Prop: value})
	return nil
}

// Property returns a DOM property, falling back to the attribute for value
// and checked.
func (n *Node) Property(name string) any {
	if v, ok := n.props[name]; ok {
		return v
	}
	switch name {
	case "value":
		return n.attrs["value"]
	case "checked":
		_, ok := n.attrs["checked"]
		return ok
	}
	return nil
}

func propString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func (n *Node) StyleProperty(name string) (string, bool) {
	v, ok := n.style[name]
	return v, ok
}

func (n *Node) putStyle(name, value string) {
	if n.style == nil {
		n.style = make(map[string]string)
	}
	if _, ok := n.style[name]; !ok {
		n.styleKeys = append(n.styleKeys, name)
	}
	n.style[name] = value
}

func (n *Node) SetStyleProperty(name, value string) error {
	if n.typ != dom.ElementNode {
		return dom.ErrHierarchy
	}
	if err := n.doc.fail(MutSetStyle); err != nil {
		return err
	}
	n.putStyle(name, value)
	n.doc.emit(Mutation{Kind: MutSetStyle, Target: n, Name: name, Value: value})
	return nil
}

func (n *Node) RemoveStyleProperty(name string) error {
	if n.typ != dom.ElementNode {
		return dom.ErrHierarchy
	}
	if err := n.doc.fail(MutRemoveStyle); err != nil {
		return err
	}
	if _, ok := n.style[name]; ok {
		delete(n.style, name)
		n.styleKeys = slices.DeleteFunc(n.styleKeys, func(s string) bool { return s == name })
	}
	n.doc.emit(Mutation{Kind: MutRemoveStyle, Target: n, Name: name})
	return nil
}

func (n *Node) styleText() string {
	var sb strings.Builder
	for i, k := range n.styleKeys {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(n.style[k])
		sb.WriteByte(';')
	}
	return sb.String()
}

// Listeners returns the number of listeners registered for event.
func (n *Node) Listeners(event string) int {
	count := 0
	for _, s := range n.subs {
		if s.event == event {
			count++
		}
	}
	return count
}

func (n *Node) AddEventListener(event string, fn func(dom.Event)) (dom.Subscription, error) {
	if n.typ != dom.ElementNode {
		return nil, dom.ErrHierarchy
	}
	if err := n.doc.fail(MutListen); err != nil {
		return nil, err
	}
	n.doc.nextID++
	sub := &Subscription{id: n.doc.nextID, event: event, fn: fn, node: n}
	n.subs = append(n.subs, sub)
	n.doc.stats.ListenersAdded++
	n.doc.emit(Mutation{Kind: MutListen, Target: n, Name: event, Sub: sub})
	return sub, nil
}

func (n *Node) RemoveEventListener(s dom.Subscription) error {
	if err := n.doc.fail(MutUnlisten); err != nil {
		return err
	}
	sub, ok := s.(*Subscription)
	if !ok || sub.node != n {
		return dom.ErrNotFound
	}
	i := slices.Index(n.subs, sub)
	if i < 0 {
		return dom.ErrNotFound
	}
	n.subs = slices.Delete(n.subs, i, i+1)
	sub.removed = true
	n.doc.stats.ListenersRemoved++
	n.doc.emit(Mutation{Kind: MutUnlisten, Target: n, Name: sub.event, Sub: sub})
	return nil
}

// String returns a short description such as <div#3> or "text"#4.
func (n *Node) String() string {
	if n.typ == dom.TextNode {
		return fmt.Sprintf("%q#%d", n.text, n.id)
	}
	return fmt.Sprintf("<%s#%d>", n.tag, n.id)
}
