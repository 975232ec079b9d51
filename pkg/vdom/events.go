package vdom

import "github.com/vango-dev/sprout/pkg/dom"

// Listener binds an event name to a handler. A handler may decline to
// produce a message by returning false.
//
// Two listeners are considered the same by Diff when their event names
// match; closures are never compared.
type Listener[Msg any] struct {
	Event   string
	Handler func(dom.Event) (Msg, bool)
}

// On creates a listener that always produces a message.
func On[Msg any](event string, handler func(dom.Event) Msg) Listener[Msg] {
	if handler == nil {
		return Listener[Msg]{}
	}
	return Listener[Msg]{Event: event, Handler: func(e dom.Event) (Msg, bool) {
		return handler(e), true
	}}
}

// OnOptional creates a listener whose handler may decline to produce a message.
func OnOptional[Msg any](event string, handler func(dom.Event) (Msg, bool)) Listener[Msg] {
	return Listener[Msg]{Event: event, Handler: handler}
}

// OnSimple creates a listener that produces msg for every event.
func OnSimple[Msg any](event string, msg Msg) Listener[Msg] {
	return Listener[Msg]{Event: event, Handler: func(dom.Event) (Msg, bool) {
		return msg, true
	}}
}

// OnInputValue produces a message from the target's value on input events.
func OnInputValue[Msg any](handler func(value string) Msg) Listener[Msg] {
	return On("input", func(e dom.Event) Msg { return handler(e.Value()) })
}

// OnCheck produces a message from the target's checked state on change events.
func OnCheck[Msg any](handler func(checked bool) Msg) Listener[Msg] {
	return On("change", func(e dom.Event) Msg { return handler(e.Checked()) })
}

// OnKey produces msg on keydown events for the given key only.
func OnKey[Msg any](key string, msg Msg) Listener[Msg] {
	return OnOptional("keydown", func(e dom.Event) (Msg, bool) {
		if e.Key() != key {
			var zero Msg
			return zero, false
		}
		return msg, true
	})
}

// PreventDefault wraps l so that the default action is cancelled before the
// handler runs.
func PreventDefault[Msg any](l Listener[Msg]) Listener[Msg] {
	h := l.Handler
	if h == nil {
		return l
	}
	l.Handler = func(e dom.Event) (Msg, bool) {
		e.PreventDefault()
		return h(e)
	}
	return l
}

// Mouse events

// OnClick handles click events.
func OnClick[Msg any](handler func(dom.Event) Msg) Listener[Msg] { return On("click", handler) }

// OnDblClick handles double-click events.
func OnDblClick[Msg any](handler func(dom.Event) Msg) Listener[Msg] { return On("dblclick", handler) }

// OnMouseDown handles mousedown events.
func OnMouseDown[Msg any](handler func(dom.Event) Msg) Listener[Msg] {
	return On("mousedown", handler)
}

// OnMouseUp handles mouseup events.
func OnMouseUp[Msg any](handler func(dom.Event) Msg) Listener[Msg] { return On("mouseup", handler) }

// OnMouseEnter handles mouseenter events.
func OnMouseEnter[Msg any](handler func(dom.Event) Msg) Listener[Msg] {
	return On("mouseenter", handler)
}

// OnMouseLeave handles mouseleave events.
func OnMouseLeave[Msg any](handler func(dom.Event) Msg) Listener[Msg] {
	return On("mouseleave", handler)
}

// OnContextMenu handles contextmenu (right-click) events.
func OnContextMenu[Msg any](handler func(dom.Event) Msg) Listener[Msg] {
	return On("contextmenu", handler)
}

// Keyboard events

// OnKeyDown handles keydown events.
func OnKeyDown[Msg any](handler func(dom.Event) Msg) Listener[Msg] { return On("keydown", handler) }

// OnKeyUp handles keyup events.
func OnKeyUp[Msg any](handler func(dom.Event) Msg) Listener[Msg] { return On("keyup", handler) }

// Form events

// OnInput handles input events (fired when value changes).
func OnInput[Msg any](handler func(dom.Event) Msg) Listener[Msg] { return On("input", handler) }

// OnChange handles change events (fired when value is committed).
func OnChange[Msg any](handler func(dom.Event) Msg) Listener[Msg] { return On("change", handler) }

// OnSubmit handles form submit events. The default action is prevented.
func OnSubmit[Msg any](handler func(dom.Event) Msg) Listener[Msg] {
	return PreventDefault(On("submit", handler))
}

// OnFocus handles focus events.
func OnFocus[Msg any](handler func(dom.Event) Msg) Listener[Msg] { return On("focus", handler) }

// OnBlur handles blur events.
func OnBlur[Msg any](handler func(dom.Event) Msg) Listener[Msg] { return On("blur", handler) }

// Drag events

// OnDragStart handles dragstart events.
func OnDragStart[Msg any](handler func(dom.Event) Msg) Listener[Msg] {
	return On("dragstart", handler)
}

// OnDragOver handles dragover events.
func OnDragOver[Msg any](handler func(dom.Event) Msg) Listener[Msg] {
	return On("dragover", handler)
}

// OnDrop handles drop events.
func OnDrop[Msg any](handler func(dom.Event) Msg) Listener[Msg] { return On("drop", handler) }

// Pointer events

// OnPointerDown handles pointerdown events.
func OnPointerDown[Msg any](handler func(dom.Event) Msg) Listener[Msg] {
	return On("pointerdown", handler)
}

// OnPointerUp handles pointerup events.
func OnPointerUp[Msg any](handler func(dom.Event) Msg) Listener[Msg] {
	return On("pointerup", handler)
}

// OnPointerMove handles pointermove events.
func OnPointerMove[Msg any](handler func(dom.Event) Msg) Listener[Msg] {
	return On("pointermove", handler)
}

// Other events

// OnScroll handles scroll events.
func OnScroll[Msg any](handler func(dom.Event) Msg) Listener[Msg] { return On("scroll", handler) }

// OnLoad handles load events.
func OnLoad[Msg any](handler func(dom.Event) Msg) Listener[Msg] { return On("load", handler) }

// OnError handles error events.
func OnError[Msg any](handler func(dom.Event) Msg) Listener[Msg] { return On("error", handler) }

// OnToggle handles toggle events (for details element).
func OnToggle[Msg any](handler func(dom.Event) Msg) Listener[Msg] { return On("toggle", handler) }

// OnTransitionEnd handles transitionend events.
func OnTransitionEnd[Msg any](handler func(dom.Event) Msg) Listener[Msg] {
	return On("transitionend", handler)
}

// OnAnimationEnd handles animationend events.
func OnAnimationEnd[Msg any](handler func(dom.Event) Msg) Listener[Msg] {
	return On("animationend", handler)
}
