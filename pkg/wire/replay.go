package wire

import (
	"fmt"

	"github.com/vango-dev/sprout/pkg/dom"
	"github.com/vango-dev/sprout/pkg/protocol"
)

// Replayer applies mutation frames to a document: the client half of the
// protocol. The JavaScript client does the same against the browser DOM.
type Replayer struct {
	doc  dom.Document
	root dom.Element
	send func(protocol.Event)

	nodes map[protocol.NodeID]dom.Node
	subs  map[listenKey]dom.Subscription
	seq   uint64
	last  uint64
}

// NewReplayer creates a replayer mounting into root. send receives the
// events of nodes the server listens to.
func NewReplayer(doc dom.Document, root dom.Element, send func(protocol.Event)) *Replayer {
	p := &Replayer{doc: doc, root: root, send: send}
	p.reset()
	return p
}

func (p *Replayer) reset() {
	p.nodes = map[protocol.NodeID]dom.Node{protocol.RootID: p.root}
	p.subs = make(map[listenKey]dom.Subscription)
}

// Len returns the number of nodes the replayer knows, the root included.
func (p *Replayer) Len() int { return len(p.nodes) }

// Apply replays one frame. With initial set the container is emptied first,
// discarding any server-rendered markup.
func (p *Replayer) Apply(mf *protocol.MutationsFrame, initial bool) error {
	if initial {
		if err := dom.RemoveChildren(p.root); err != nil {
			return err
		}
		p.reset()
	} else if mf.Seq <= p.last {
		return fmt.Errorf("wire: frame %d after %d", mf.Seq, p.last)
	}
	p.last = mf.Seq
	for i, m := range mf.Mutations {
		if err := p.apply(m); err != nil {
			return fmt.Errorf("wire: mutation %d (%s): %w", i, m, err)
		}
	}
	return nil
}

func (p *Replayer) node(id protocol.NodeID) (dom.Node, error) {
	n, ok := p.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: #%d", ErrUnknownNode, id)
	}
	return n, nil
}

func (p *Replayer) element(id protocol.NodeID) (dom.Element, error) {
	n, err := p.node(id)
	if err != nil {
		return nil, err
	}
	el, ok := dom.AsElement(n)
	if !ok {
		return nil, fmt.Errorf("wire: #%d is not an element", id)
	}
	return el, nil
}

func (p *Replayer) apply(m protocol.Mutation) error {
	switch m.Op {
	case protocol.OpCreateElement:
		var el dom.Element
		var err error
		if m.NS == "" {
			el, err = p.doc.CreateElement(m.Name)
		} else {
			el, err = p.doc.CreateElementNS(m.NS, m.Name)
		}
		if err != nil {
			return err
		}
		p.nodes[m.Node] = el
		return nil
	case protocol.OpCreateText:
		t, err := p.doc.CreateTextNode(m.Value)
		if err != nil {
			return err
		}
		p.nodes[m.Node] = t
		return nil
	case protocol.OpSetText:
		n, err := p.node(m.Node)
		if err != nil {
			return err
		}
		return n.SetTextContent(m.Value)
	case protocol.OpRelease:
		delete(p.nodes, m.Node)
		for k := range p.subs {
			if k.node == m.Node {
				delete(p.subs, k)
			}
		}
		return nil
	case protocol.OpAppend, protocol.OpInsertBefore, protocol.OpRemove, protocol.OpReplace:
		return p.tree(m)
	}

	el, err := p.element(m.Node)
	if err != nil {
		return err
	}
	switch m.Op {
	case protocol.OpSetAttr:
		return el.SetAttribute(m.Name, m.Value)
	case protocol.OpRemoveAttr:
		return el.RemoveAttribute(m.Name)
	case protocol.OpSetStyle:
		return el.SetStyleProperty(m.Name, m.Value)
	case protocol.OpRemoveStyle:
		return el.RemoveStyleProperty(m.Name)
	case protocol.OpSetProp:
		return el.SetProperty(m.Name, m.Value)
	case protocol.OpSetPropBool:
		return el.SetProperty(m.Name, m.Flag)
	case protocol.OpListen:
		return p.listen(m.Node, el, m.Name)
	case protocol.OpUnlisten:
		k := listenKey{node: m.Node, event: m.Name}
		sub, ok := p.subs[k]
		if !ok {
			return nil
		}
		delete(p.subs, k)
		return el.RemoveEventListener(sub)
	}
	return fmt.Errorf("%w 0x%02x", protocol.ErrUnknownOp, uint8(m.Op))
}

func (p *Replayer) tree(m protocol.Mutation) error {
	parent, err := p.node(m.Parent)
	if err != nil {
		return err
	}
	child, err := p.node(m.Node)
	if err != nil {
		return err
	}
	switch m.Op {
	case protocol.OpAppend:
		return parent.AppendChild(child)
	case protocol.OpRemove:
		return parent.RemoveChild(child)
	}
	ref, err := p.node(m.Ref)
	if err != nil {
		return err
	}
	if m.Op == protocol.OpInsertBefore {
		return parent.InsertBefore(child, ref)
	}
	return parent.ReplaceChild(child, ref)
}

func (p *Replayer) listen(id protocol.NodeID, el dom.Element, event string) error {
	k := listenKey{node: id, event: event}
	if _, ok := p.subs[k]; ok {
		return nil
	}
	sub, err := el.AddEventListener(event, func(e dom.Event) {
		p.seq++
		ev := protocol.Event{Seq: p.seq, Node: id, Type: e.Type(), Value: e.Value(), Key: e.Key()}
		if el, ok := dom.AsElement(e.Target()); ok {
			if t, _ := el.Attribute("type"); t == "checkbox" || t == "radio" {
				ev.Checked = e.Checked()
			}
		}
		if p.send != nil {
			p.send(ev)
		}
	})
	if err != nil {
		return err
	}
	p.subs[k] = sub
	return nil
}
