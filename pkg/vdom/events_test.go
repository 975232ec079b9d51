package vdom

import (
	"testing"

	"github.com/vango-dev/sprout/pkg/dom"
)

type fakeEvent struct {
	typ       string
	value     string
	key       string
	checked   bool
	prevented bool
}

func (e *fakeEvent) Type() string     { return e.typ }
func (e *fakeEvent) Target() dom.Node { return nil }
func (e *fakeEvent) Value() string    { return e.value }
func (e *fakeEvent) Key() string      { return e.key }
func (e *fakeEvent) Checked() bool    { return e.checked }
func (e *fakeEvent) PreventDefault()  { e.prevented = true }

func TestTypedListenerNames(t *testing.T) {
	noop := func(dom.Event) testMsg { return "" }
	tests := []struct {
		l    Listener[testMsg]
		want string
	}{
		{OnClick(noop), "click"},
		{OnDblClick(noop), "dblclick"},
		{OnMouseEnter(noop), "mouseenter"},
		{OnKeyDown(noop), "keydown"},
		{OnInput(noop), "input"},
		{OnChange(noop), "change"},
		{OnSubmit(noop), "submit"},
		{OnBlur(noop), "blur"},
		{OnPointerMove(noop), "pointermove"},
		{OnTransitionEnd(noop), "transitionend"},
	}
	for _, tt := range tests {
		if tt.l.Event != tt.want {
			t.Errorf("Event = %q, want %q", tt.l.Event, tt.want)
		}
		if tt.l.Handler == nil {
			t.Errorf("%s: nil handler", tt.want)
		}
	}
}

func TestOnNilHandler(t *testing.T) {
	l := On[testMsg]("click", nil)
	if l.Event != "" || l.Handler != nil {
		t.Error("On with a nil handler should produce the zero listener")
	}
	if n := h.Div(l); len(n.Listeners) != 0 {
		t.Error("zero listener should not be attached")
	}
}

func TestOnInputValue(t *testing.T) {
	l := OnInputValue(func(v string) testMsg { return testMsg("typed:" + v) })
	msg, ok := l.Handler(&fakeEvent{typ: "input", value: "abc"})
	if !ok || msg != "typed:abc" {
		t.Errorf("got %q, %v", msg, ok)
	}
}

func TestOnCheck(t *testing.T) {
	l := OnCheck(func(c bool) testMsg {
		if c {
			return "on"
		}
		return "off"
	})
	if l.Event != "change" {
		t.Errorf("Event = %q, want change", l.Event)
	}
	if msg, _ := l.Handler(&fakeEvent{checked: true}); msg != "on" {
		t.Errorf("got %q, want on", msg)
	}
}

func TestOnKeyFilters(t *testing.T) {
	l := OnKey[testMsg]("Enter", "submit")
	if _, ok := l.Handler(&fakeEvent{key: "a"}); ok {
		t.Error("other keys should not produce a message")
	}
	if msg, ok := l.Handler(&fakeEvent{key: "Enter"}); !ok || msg != "submit" {
		t.Errorf("got %q, %v", msg, ok)
	}
}

func TestPreventDefault(t *testing.T) {
	e := &fakeEvent{}
	l := PreventDefault(OnSimple[testMsg]("click", "x"))
	if msg, ok := l.Handler(e); !ok || msg != "x" {
		t.Errorf("got %q, %v", msg, ok)
	}
	if !e.prevented {
		t.Error("default action not prevented")
	}

	e = &fakeEvent{}
	OnSubmit(func(dom.Event) testMsg { return "" }).Handler(e)
	if !e.prevented {
		t.Error("OnSubmit should prevent the default action")
	}
}
