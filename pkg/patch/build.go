package patch

import (
	"slices"

	"github.com/vango-dev/sprout/pkg/dom"
	"github.com/vango-dev/sprout/pkg/vdom"
)

// Build creates the detached live subtree of n and registers a handle for
// every non-Empty node in it. It returns nil for an Empty node. On failure
// every handle registered for n is released.
func (p *Patcher[Msg]) Build(n *vdom.Node[Msg]) (dom.Node, error) {
	live, err := p.build(n)
	if err != nil {
		p.release(n)
		return nil, err
	}
	return live, nil
}

func (p *Patcher[Msg]) build(n *vdom.Node[Msg]) (dom.Node, error) {
	switch vdom.KindOf(n) {
	case vdom.KindText:
		t, err := p.doc.CreateTextNode(n.Text)
		if err != nil {
			return nil, docErr(err)
		}
		p.register(n, t)
		return t, nil

	case vdom.KindElement:
		var el dom.Element
		var err error
		if n.Namespace.IsHTML() {
			el, err = p.doc.CreateElement(n.Tag)
		} else {
			el, err = p.doc.CreateElementNS(n.Namespace.URI(), n.Tag)
		}
		if err != nil {
			return nil, docErr(err)
		}
		p.register(n, el)

		// EffectiveAttrs puts value last so that min/max are already set.
		for _, a := range vdom.EffectiveAttrs(n) {
			if err := setAttr(el, a.Key, a.Value); err != nil {
				return nil, err
			}
		}
		for _, s := range vdom.EffectiveStyle(n) {
			if err := el.SetStyleProperty(s.Key, s.Value); err != nil {
				return nil, docErr(err)
			}
		}
		for _, event := range eventNames(n.Listeners) {
			if err := p.listen(n, el, event); err != nil {
				return nil, err
			}
		}
		for _, c := range n.Children {
			if c.IsEmpty() {
				continue
			}
			child, err := p.build(c)
			if err != nil {
				return nil, err
			}
			if err := el.AppendChild(child); err != nil {
				return nil, docErr(err)
			}
		}
		return el, nil

	default:
		return nil, nil
	}
}

func (p *Patcher[Msg]) register(n *vdom.Node[Msg], live dom.Node) {
	p.next++
	n.SetHandle(p.next)
	p.nodes[p.next] = live
	p.created[p.next] = true
}

// release forgets every handle in the subtree of n, cancels its
// subscriptions and clears its refs. The live nodes are left in place.
func (p *Patcher[Msg]) release(n *vdom.Node[Msg]) {
	vdom.Walk(n, func(c *vdom.Node[Msg], _ []int) bool {
		h := c.Handle()
		if h == 0 {
			return true
		}
		for event := range p.bindings[h] {
			if err := p.unlisten(h, event); err != nil {
				p.logger.Debug("unsubscribe failed", "event", event, "error", err)
			}
		}
		for _, r := range c.Refs {
			r.Clear()
		}
		delete(p.nodes, h)
		delete(p.created, h)
		c.SetHandle(0)
		return true
	})
}

// Adopt registers live as the counterpart of n and pairs their non-Empty
// children in order, for taking over content rendered elsewhere. n is
// usually vdom.FromLive(live). Listeners are not attached; the next diff
// adds them. Adopted nodes count as mounted in the next cycle.
func (p *Patcher[Msg]) Adopt(n *vdom.Node[Msg], live dom.Node) error {
	if n.IsEmpty() {
		return nil
	}
	if live == nil {
		return invalidPath(nil, "adopt %s: no live node", n)
	}
	p.register(n, live)
	kids := live.ChildNodes()
	i := 0
	for _, c := range n.Children {
		if c.IsEmpty() {
			continue
		}
		if i >= len(kids) {
			return invalidPath(nil, "adopt %s: live node has %d children", n, len(kids))
		}
		if err := p.Adopt(c, kids[i]); err != nil {
			return err
		}
		i++
	}
	return nil
}

// Detach runs will-unmount hooks for tree, removes its live node from the
// document and releases every handle in it.
func (p *Patcher[Msg]) Detach(tree *vdom.Node[Msg]) error {
	if tree.IsEmpty() {
		return nil
	}
	p.unmount(tree)
	if live, ok := p.nodes[tree.Handle()]; ok {
		if parent := live.Parent(); parent != nil {
			if err := parent.RemoveChild(live); err != nil {
				return &PatchError{Op: vdom.PatchRemove, Err: docErr(err)}
			}
		}
	}
	p.release(tree)
	return nil
}

// Reset cancels every subscription and forgets every handle, leaving the
// document as it is. A driver calls it before rebuilding from scratch when a
// failed cycle left the document out of step with its tree.
func (p *Patcher[Msg]) Reset() {
	for h, byEvent := range p.bindings {
		for event := range byEvent {
			if err := p.unlisten(h, event); err != nil {
				p.logger.Debug("unsubscribe failed", "event", event, "error", err)
			}
		}
	}
	clear(p.nodes)
	clear(p.created)
}

// setAttr sets an attribute. value and checked are properties as well: once
// the user has edited a control, only the property reflects the view.
func setAttr(el dom.Element, key, value string) error {
	if err := el.SetAttribute(key, value); err != nil {
		return docErr(err)
	}
	switch key {
	case "value":
		return docErr(el.SetProperty("value", value))
	case "checked":
		return docErr(el.SetProperty("checked", true))
	}
	return nil
}

// orderAttrs moves the attributes that follow key in the effective order of
// n behind it, so a patched element lists its attributes as a fresh build
// would. Only the attribute list is touched; properties keep their state.
func orderAttrs[Msg any](el dom.Element, n *vdom.Node[Msg], key string) error {
	attrs := vdom.EffectiveAttrs(n)
	i := slices.IndexFunc(attrs, func(a vdom.AttrPair) bool { return a.Key == key })
	if i < 0 {
		return nil
	}
	for _, a := range attrs[i+1:] {
		v, ok := el.Attribute(a.Key)
		if !ok {
			continue
		}
		if err := el.RemoveAttribute(a.Key); err != nil {
			return docErr(err)
		}
		if err := el.SetAttribute(a.Key, v); err != nil {
			return docErr(err)
		}
	}
	return nil
}

func removeAttr(el dom.Element, key string) error {
	if err := el.RemoveAttribute(key); err != nil {
		return docErr(err)
	}
	switch key {
	case "value":
		return docErr(el.SetProperty("value", ""))
	case "checked":
		return docErr(el.SetProperty("checked", false))
	}
	return nil
}
