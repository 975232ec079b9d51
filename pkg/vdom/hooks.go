package vdom

import "github.com/vango-dev/sprout/pkg/dom"

// Hook runs against the live element of a node at a lifecycle point and may
// produce a message.
type Hook[Msg any] func(dom.Element) (Msg, bool)

// Hooks holds the lifecycle hooks of an element.
type Hooks[Msg any] struct {
	// DidMount runs after the element has been inserted into the document.
	DidMount []Hook[Msg]

	// DidUpdate runs after an existing element has been patched.
	DidUpdate []Hook[Msg]

	// WillUnmount runs before the element is detached.
	WillUnmount []Hook[Msg]
}

// Empty reports whether no hook is registered.
func (h Hooks[Msg]) Empty() bool {
	return len(h.DidMount) == 0 && len(h.DidUpdate) == 0 && len(h.WillUnmount) == 0
}

func (h Hooks[Msg]) clone() Hooks[Msg] {
	return Hooks[Msg]{
		DidMount:    cloneHooks(h.DidMount),
		DidUpdate:   cloneHooks(h.DidUpdate),
		WillUnmount: cloneHooks(h.WillUnmount),
	}
}

func cloneHooks[Msg any](hs []Hook[Msg]) []Hook[Msg] {
	if len(hs) == 0 {
		return nil
	}
	return append([]Hook[Msg](nil), hs...)
}

// HookPhase selects a lifecycle point.
type HookPhase uint8

const (
	PhaseDidMount HookPhase = iota
	PhaseDidUpdate
	PhaseWillUnmount
)

// HookArg is an element-constructor argument registering a hook.
type HookArg[Msg any] struct {
	Phase HookPhase
	Hook  Hook[Msg]
}

// DidMount registers a hook run after the element is inserted.
func DidMount[Msg any](fn func(dom.Element) (Msg, bool)) HookArg[Msg] {
	return HookArg[Msg]{Phase: PhaseDidMount, Hook: fn}
}

// DidUpdate registers a hook run after the element is patched in place.
func DidUpdate[Msg any](fn func(dom.Element) (Msg, bool)) HookArg[Msg] {
	return HookArg[Msg]{Phase: PhaseDidUpdate, Hook: fn}
}

// WillUnmount registers a hook run before the element is detached.
func WillUnmount[Msg any](fn func(dom.Element) (Msg, bool)) HookArg[Msg] {
	return HookArg[Msg]{Phase: PhaseWillUnmount, Hook: fn}
}

// AddHook registers a hook on an element.
func (n *Node[Msg]) AddHook(h HookArg[Msg]) *Node[Msg] {
	if !n.IsElement() || h.Hook == nil {
		return n
	}
	switch h.Phase {
	case PhaseDidMount:
		n.Hooks.DidMount = append(n.Hooks.DidMount, h.Hook)
	case PhaseDidUpdate:
		n.Hooks.DidUpdate = append(n.Hooks.DidUpdate, h.Hook)
	case PhaseWillUnmount:
		n.Hooks.WillUnmount = append(n.Hooks.WillUnmount, h.Hook)
	}
	return n
}

// Ref gives application code access to the live element of a node. The
// patcher sets it after every render in which the node is present.
type Ref struct {
	el dom.Element
}

// NewRef creates an empty reference.
func NewRef() *Ref { return &Ref{} }

// Get returns the live element, if the node is mounted.
func (r *Ref) Get() (dom.Element, bool) {
	if r == nil || r.el == nil {
		return nil, false
	}
	return r.el, true
}

// Set is called by the patcher.
func (r *Ref) Set(el dom.Element) { r.el = el }

// Clear is called by the patcher when the node is unmounted.
func (r *Ref) Clear() { r.el = nil }
