package memdom

import "github.com/vango-dev/sprout/pkg/dom"

// Subscription is a registered listener.
type Subscription struct {
	id    uint64
	event string
	fn    func(dom.Event)
	node  *Node

	removed bool
}

// Event returns the event name.
func (s *Subscription) Event() string { return s.event }

// ID returns the document-unique subscription id.
func (s *Subscription) ID() uint64 { return s.id }

// Node returns the element the listener is registered on.
func (s *Subscription) Node() *Node { return s.node }

// Event is a synthetic event.
type Event struct {
	typ       string
	target    *Node
	key       string
	prevented bool
	stopped   bool
}

var _ dom.Event = (*Event)(nil)

func (e *Event) Type() string { return e.typ }

func (e *Event) Target() dom.Node {
	if e.target == nil {
		return nil
	}
	return e.target
}

// Value reads the target's value property.
func (e *Event) Value() string {
	if e.target == nil {
		return ""
	}
	return propString(e.target.Property("value"))
}

func (e *Event) Key() string { return e.key }

// Checked reads the target's checked property.
func (e *Event) Checked() bool {
	if e.target == nil {
		return false
	}
	b, _ := e.target.Property("checked").(bool)
	return b
}

func (e *Event) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether a listener called PreventDefault.
func (e *Event) DefaultPrevented() bool { return e.prevented }

// StopPropagation stops bubbling after the current node.
func (e *Event) StopPropagation() { e.stopped = true }

// EventInit carries optional event fields.
type EventInit struct {
	Key string

	// NoBubble restricts delivery to the target.
	NoBubble bool
}

// Dispatch fires an event of type typ at target and bubbles it through the
// ancestors. Listeners registered during dispatch are not invoked for it.
func Dispatch(target *Node, typ string, init EventInit) *Event {
	ev := &Event{typ: typ, target: target, key: init.Key}
	for n := target; n != nil && !ev.stopped; n = n.parent {
		subs := append([]*Subscription(nil), n.subs...)
		for _, s := range subs {
			if s.event == typ && !s.removed {
				s.fn(ev)
			}
		}
		if init.NoBubble {
			break
		}
	}
	return ev
}

// Click dispatches a click event.
func Click(target *Node) *Event {
	return Dispatch(target, "click", EventInit{})
}

// Input sets the value property of target and dispatches an input event.
func Input(target *Node, value string) *Event {
	_ = target.SetProperty("value", value)
	return Dispatch(target, "input", EventInit{})
}

// Toggle sets the checked property of target and dispatches a change event.
func Toggle(target *Node, checked bool) *Event {
	_ = target.SetProperty("checked", checked)
	return Dispatch(target, "change", EventInit{})
}

// KeyDown dispatches a keydown event with the given key.
func KeyDown(target *Node, key string) *Event {
	return Dispatch(target, "keydown", EventInit{Key: key})
}
