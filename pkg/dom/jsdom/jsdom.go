//go:build js && wasm

package jsdom

import (
	"errors"
	"fmt"
	"syscall/js"

	"github.com/vango-dev/sprout/pkg/dom"
)

// idProp is the expando property that links a JS node to its wrapper.
const idProp = "__sproutID"

// Document wraps the browser document.
type Document struct {
	doc    js.Value
	nodes  map[int]*Node
	nextID int
}

var _ dom.Document = (*Document)(nil)

// New wraps the global document.
func New() *Document {
	return Wrap(js.Global().Get("document"))
}

// Wrap wraps the given document object.
func Wrap(doc js.Value) *Document {
	return &Document{doc: doc, nodes: make(map[int]*Node)}
}

// Supported reports whether a browser document is available.
func Supported() bool { return true }

// ElementByID returns the element with the given id.
func (d *Document) ElementByID(id string) (dom.Element, error) {
	v := d.doc.Call("getElementById", id)
	if !v.Truthy() {
		return nil, fmt.Errorf("jsdom: element #%s: %w", id, dom.ErrNotFound)
	}
	return d.wrap(v), nil
}

// Body returns the document body.
func (d *Document) Body() dom.Element {
	return d.wrap(d.doc.Get("body"))
}

// wrap returns the unique wrapper for v, so wrappers compare equal with ==.
func (d *Document) wrap(v js.Value) *Node {
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	if id := v.Get(idProp); id.Type() == js.TypeNumber {
		if n, ok := d.nodes[id.Int()]; ok {
			return n
		}
	}
	d.nextID++
	v.Set(idProp, d.nextID)
	n := &Node{doc: d, v: v, id: d.nextID}
	d.nodes[d.nextID] = n
	return n
}

// Forget drops the wrapper of a node that will not be used again.
func (d *Document) Forget(n dom.Node) {
	if jn, ok := n.(*Node); ok {
		delete(d.nodes, jn.id)
	}
}

func (d *Document) CreateElement(tag string) (el dom.Element, err error) {
	defer catch(&err)
	return d.wrap(d.doc.Call("createElement", tag)), nil
}

func (d *Document) CreateElementNS(namespace, tag string) (el dom.Element, err error) {
	defer catch(&err)
	var ns any = namespace
	if namespace == "" {
		ns = nil
	}
	return d.wrap(d.doc.Call("createElementNS", ns, tag)), nil
}

func (d *Document) CreateTextNode(text string) (n dom.Node, err error) {
	defer catch(&err)
	return d.wrap(d.doc.Call("createTextNode", text)), nil
}

// catch converts a thrown JS exception into an error.
func catch(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if jsErr, ok := r.(js.Error); ok {
		*err = fmt.Errorf("jsdom: %s", jsErr.Error())
		return
	}
	if e, ok := r.(error); ok {
		*err = e
		return
	}
	panic(r)
}

// Node wraps a JS node.
type Node struct {
	doc *Document
	v   js.Value
	id  int
}

var _ dom.Element = (*Node)(nil)

// Value returns the underlying JS value.
func (n *Node) Value() js.Value { return n.v }

func (n *Node) Type() dom.NodeType { return dom.NodeType(n.v.Get("nodeType").Int()) }

func (n *Node) Parent() dom.Node {
	p := n.doc.wrap(n.v.Get("parentNode"))
	if p == nil {
		return nil
	}
	return p
}

func (n *Node) ChildNodes() []dom.Node {
	list := n.v.Get("childNodes")
	out := make([]dom.Node, list.Length())
	for i := range out {
		out[i] = n.doc.wrap(list.Index(i))
	}
	return out
}

func (n *Node) unwrap(o dom.Node) (js.Value, error) {
	jn, ok := o.(*Node)
	if !ok || jn == nil || jn.doc != n.doc {
		return js.Value{}, dom.ErrWrongDocument
	}
	return jn.v, nil
}

func (n *Node) AppendChild(child dom.Node) (err error) {
	defer catch(&err)
	c, err := n.unwrap(child)
	if err != nil {
		return err
	}
	n.v.Call("appendChild", c)
	return nil
}

func (n *Node) InsertBefore(child, ref dom.Node) (err error) {
	defer catch(&err)
	c, err := n.unwrap(child)
	if err != nil {
		return err
	}
	r := js.Null()
	if ref != nil {
		if r, err = n.unwrap(ref); err != nil {
			return err
		}
	}
	n.v.Call("insertBefore", c, r)
	return nil
}

func (n *Node) RemoveChild(child dom.Node) (err error) {
	defer catch(&err)
	c, err := n.unwrap(child)
	if err != nil {
		return err
	}
	n.v.Call("removeChild", c)
	return nil
}

func (n *Node) ReplaceChild(newChild, oldChild dom.Node) (err error) {
	defer catch(&err)
	nc, err := n.unwrap(newChild)
	if err != nil {
		return err
	}
	oc, err := n.unwrap(oldChild)
	if err != nil {
		return err
	}
	n.v.Call("replaceChild", nc, oc)
	return nil
}

func (n *Node) TextContent() string { return n.v.Get("textContent").String() }

func (n *Node) SetTextContent(text string) (err error) {
	defer catch(&err)
	n.v.Set("textContent", text)
	return nil
}

func (n *Node) TagName() string { return n.v.Get("localName").String() }

func (n *Node) NamespaceURI() string {
	ns := n.v.Get("namespaceURI")
	if ns.IsNull() {
		return ""
	}
	return ns.String()
}

func (n *Node) Attribute(name string) (string, bool) {
	v := n.v.Call("getAttribute", name)
	if v.IsNull() {
		return "", false
	}
	return v.String(), true
}

func (n *Node) AttributeNames() []string {
	list := n.v.Call("getAttributeNames")
	out := make([]string, list.Length())
	for i := range out {
		out[i] = list.Index(i).String()
	}
	return out
}

func (n *Node) SetAttribute(name, value string) (err error) {
	defer catch(&err)
	n.v.Call("setAttribute", name, value)
	return nil
}

func (n *Node) RemoveAttribute(name string) (err error) {
	defer catch(&err)
	n.v.Call("removeAttribute", name)
	return nil
}

func (n *Node) SetProperty(name string, value any) (err error) {
	defer catch(&err)
	n.v.Set(name, value)
	return nil
}

func (n *Node) Property(name string) any {
	v := n.v.Get(name)
	switch v.Type() {
	case js.TypeBoolean:
		return v.Bool()
	case js.TypeNumber:
		return v.Float()
	case js.TypeString:
		return v.String()
	case js.TypeUndefined, js.TypeNull:
		return nil
	default:
		return v
	}
}

func (n *Node) style() js.Value { return n.v.Get("style") }

func (n *Node) StyleProperty(name string) (string, bool) {
	v := n.style().Call("getPropertyValue", name).String()
	return v, v != ""
}

func (n *Node) SetStyleProperty(name, value string) (err error) {
	defer catch(&err)
	n.style().Call("setProperty", name, value)
	return nil
}

func (n *Node) RemoveStyleProperty(name string) (err error) {
	defer catch(&err)
	n.style().Call("removeProperty", name)
	return nil
}

// Subscription owns the js.Func of one listener.
type Subscription struct {
	event string
	fn    js.Func
	node  *Node
}

func (s *Subscription) Event() string { return s.event }

func (n *Node) AddEventListener(event string, fn func(dom.Event)) (sub dom.Subscription, err error) {
	defer catch(&err)
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			fn(&Event{doc: n.doc, v: args[0]})
		}
		return nil
	})
	n.v.Call("addEventListener", event, cb)
	return &Subscription{event: event, fn: cb, node: n}, nil
}

func (n *Node) RemoveEventListener(s dom.Subscription) (err error) {
	defer catch(&err)
	sub, ok := s.(*Subscription)
	if !ok || sub.node != n {
		return errors.Join(dom.ErrNotFound, fmt.Errorf("jsdom: foreign subscription for %q", s.Event()))
	}
	n.v.Call("removeEventListener", sub.event, sub.fn)
	sub.fn.Release()
	return nil
}

// Event wraps a JS event.
type Event struct {
	doc *Document
	v   js.Value
}

func (e *Event) Type() string { return e.v.Get("type").String() }

func (e *Event) Target() dom.Node {
	t := e.doc.wrap(e.v.Get("target"))
	if t == nil {
		return nil
	}
	return t
}

func (e *Event) Value() string {
	v := e.v.Get("target").Get("value")
	if v.Type() != js.TypeString {
		return ""
	}
	return v.String()
}

func (e *Event) Key() string {
	k := e.v.Get("key")
	if k.Type() != js.TypeString {
		return ""
	}
	return k.String()
}

func (e *Event) Checked() bool {
	c := e.v.Get("target").Get("checked")
	return c.Type() == js.TypeBoolean && c.Bool()
}

func (e *Event) PreventDefault() { e.v.Call("preventDefault") }
