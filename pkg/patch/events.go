package patch

import (
	"runtime/debug"

	"github.com/vango-dev/sprout/pkg/dom"
	"github.com/vango-dev/sprout/pkg/vdom"
)

// listen subscribes one live listener for event that runs every handler n
// has for it, in order. An existing subscription for the same event is
// cancelled first.
func (p *Patcher[Msg]) listen(n *vdom.Node[Msg], el dom.Element, event string) error {
	var handlers []func(dom.Event) (Msg, bool)
	for _, l := range n.Listeners {
		if l.Event == event && l.Handler != nil {
			handlers = append(handlers, l.Handler)
		}
	}
	h := n.Handle()
	if err := p.unlisten(h, event); err != nil {
		return err
	}
	if len(handlers) == 0 {
		return nil
	}

	sub, err := el.AddEventListener(event, func(e dom.Event) {
		p.fire(event, handlers, e)
	})
	if err != nil {
		return docErr(err)
	}
	if p.bindings[h] == nil {
		p.bindings[h] = make(map[string]binding)
	}
	p.bindings[h][event] = binding{el: el, sub: sub}
	return nil
}

// unlisten cancels the subscription for event on h, if any.
func (p *Patcher[Msg]) unlisten(h vdom.Handle, event string) error {
	b, ok := p.bindings[h][event]
	if !ok {
		return nil
	}
	delete(p.bindings[h], event)
	if len(p.bindings[h]) == 0 {
		delete(p.bindings, h)
	}
	return docErr(b.el.RemoveEventListener(b.sub))
}

func (p *Patcher[Msg]) fire(event string, handlers []func(dom.Event) (Msg, bool), e dom.Event) {
	var msgs []Msg
	for _, h := range handlers {
		if msg, ok := p.call(event, h, e); ok {
			msgs = append(msgs, msg)
		}
	}
	p.send(msgs)
}

// call runs one handler. A panicking handler is logged and produces no
// message.
func (p *Patcher[Msg]) call(event string, h func(dom.Event) (Msg, bool), e dom.Event) (msg Msg, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("event handler panic",
				"event", event,
				"panic", r,
				"stack", string(debug.Stack()))
			ok = false
		}
	}()
	return h(e)
}

// unmount runs will-unmount hooks for the subtree of n in pre-order.
func (p *Patcher[Msg]) unmount(n *vdom.Node[Msg]) {
	var msgs []Msg
	vdom.Walk(n, func(c *vdom.Node[Msg], _ []int) bool {
		if !c.IsElement() {
			return false
		}
		if len(c.Hooks.WillUnmount) == 0 {
			return true
		}
		if el, ok := dom.AsElement(p.nodes[c.Handle()]); ok {
			msgs = p.runHooks(c.Hooks.WillUnmount, el, msgs)
		}
		return true
	})
	p.send(msgs)
}

func (p *Patcher[Msg]) runHooks(hooks []vdom.Hook[Msg], el dom.Element, msgs []Msg) []Msg {
	for _, h := range hooks {
		if msg, ok := p.callHook(h, el); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

func (p *Patcher[Msg]) callHook(h vdom.Hook[Msg], el dom.Element) (msg Msg, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("lifecycle hook panic", "tag", el.TagName(), "panic", r)
			ok = false
		}
	}()
	return h(el)
}

func (p *Patcher[Msg]) send(msgs []Msg) {
	if p.dispatch == nil {
		return
	}
	for _, m := range msgs {
		p.dispatch(m)
	}
}

// eventNames returns the distinct event names in first-occurrence order.
func eventNames[Msg any](ls []vdom.Listener[Msg]) []string {
	var names []string
	seen := make(map[string]bool, len(ls))
	for _, l := range ls {
		if l.Event != "" && !seen[l.Event] {
			seen[l.Event] = true
			names = append(names, l.Event)
		}
	}
	return names
}
