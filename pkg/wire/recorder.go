package wire

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/vango-dev/sprout/pkg/dom"
	"github.com/vango-dev/sprout/pkg/dom/memdom"
	"github.com/vango-dev/sprout/pkg/protocol"
)

// ErrUnknownNode is returned by Dispatch for an id the recorder does not
// know, usually a node released after the client sent the event.
var ErrUnknownNode = errors.New("wire: unknown node")

type listenKey struct {
	node  protocol.NodeID
	event string
}

// Recorder mirrors every mutation of a shadow document as a protocol
// operation. The shadow document is what the driver renders into; the client
// replays the operations against the real one.
//
// A Recorder is not safe for concurrent use. Render, Dispatch and Flush must
// be called from one goroutine.
type Recorder struct {
	doc    *memdom.Document
	root   *memdom.Node
	logger *slog.Logger

	ids     map[*memdom.Node]protocol.NodeID
	nodes   map[protocol.NodeID]*memdom.Node
	listens map[listenKey]int
	next    protocol.NodeID

	// unlistened maps a listener removed in this batch to its pending
	// operation, so that re-adding it cancels both.
	unlistened map[listenKey]int

	pending []protocol.Mutation
	// detached holds nodes created or removed since the last Flush; the ones
	// still outside the tree at Flush are released.
	detached []*memdom.Node
	seq      uint64
	muted    bool
}

// New creates a recorder with an empty shadow document whose mount container
// has protocol.RootID.
func New(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default().With("component", "wire")
	}
	doc := memdom.New()
	r := &Recorder{
		doc:     doc,
		root:    doc.Element("div"),
		logger:  logger,
		ids:     make(map[*memdom.Node]protocol.NodeID),
		nodes:   make(map[protocol.NodeID]*memdom.Node),
		listens: make(map[listenKey]int),
		next:    protocol.RootID,

		unlistened: make(map[listenKey]int),
	}
	r.ids[r.root] = protocol.RootID
	r.nodes[protocol.RootID] = r.root
	doc.Observe(r.record)
	return r
}

// Document returns the shadow document.
func (r *Recorder) Document() *memdom.Document { return r.doc }

// Root returns the shadow mount container.
func (r *Recorder) Root() *memdom.Node { return r.root }

// Len returns the number of nodes with an id, the root included.
func (r *Recorder) Len() int { return len(r.nodes) }

// Pending returns the number of operations waiting for Flush.
func (r *Recorder) Pending() int {
	n := 0
	for _, m := range r.pending {
		if m.Op != 0 {
			n++
		}
	}
	return n
}

// ID returns the id of a shadow node.
func (r *Recorder) ID(n *memdom.Node) (protocol.NodeID, bool) {
	id, ok := r.ids[n]
	return id, ok
}

// Node returns the shadow node with id.
func (r *Recorder) Node(id protocol.NodeID) (*memdom.Node, bool) {
	n, ok := r.nodes[id]
	return n, ok
}

func (r *Recorder) assign(n *memdom.Node) protocol.NodeID {
	r.next++
	r.ids[n] = r.next
	r.nodes[r.next] = n
	return r.next
}

func (r *Recorder) id(n *memdom.Node) protocol.NodeID {
	if n == nil {
		return 0
	}
	id, ok := r.ids[n]
	if !ok {
		r.logger.Warn("mutation on untracked node", "node", n.String())
	}
	return id
}

func (r *Recorder) emit(m protocol.Mutation) {
	r.pending = append(r.pending, m)
}

// record translates one shadow mutation.
func (r *Recorder) record(m memdom.Mutation) {
	switch m.Kind {
	case memdom.MutCreateElement:
		ns := m.Value
		if ns == dom.NamespaceHTML {
			ns = ""
		}
		r.emit(protocol.Mutation{Op: protocol.OpCreateElement, Node: r.assign(m.Node), NS: ns, Name: m.Name})
		r.detached = append(r.detached, m.Node)
	case memdom.MutCreateText:
		r.emit(protocol.Mutation{Op: protocol.OpCreateText, Node: r.assign(m.Node), Value: m.Value})
		r.detached = append(r.detached, m.Node)

	case memdom.MutSetAttr:
		r.emit(protocol.Mutation{Op: protocol.OpSetAttr, Node: r.id(m.Target), Name: m.Name, Value: m.Value})
	case memdom.MutRemoveAttr:
		r.emit(protocol.Mutation{Op: protocol.OpRemoveAttr, Node: r.id(m.Target), Name: m.Name})
	case memdom.MutSetStyle:
		r.emit(protocol.Mutation{Op: protocol.OpSetStyle, Node: r.id(m.Target), Name: m.Name, Value: m.Value})
	case memdom.MutRemoveStyle:
		r.emit(protocol.Mutation{Op: protocol.OpRemoveStyle, Node: r.id(m.Target), Name: m.Name})
	case memdom.MutSetText:
		r.emit(protocol.Mutation{Op: protocol.OpSetText, Node: r.id(m.Target), Value: m.Value})
	case memdom.MutSetProp:
		if r.muted {
			return
		}
		if b, ok := m.Prop.(bool); ok {
			r.emit(protocol.Mutation{Op: protocol.OpSetPropBool, Node: r.id(m.Target), Name: m.Name, Flag: b})
			return
		}
		r.emit(protocol.Mutation{Op: protocol.OpSetProp, Node: r.id(m.Target), Name: m.Name, Value: m.Value})

	case memdom.MutAppend:
		r.emit(protocol.Mutation{Op: protocol.OpAppend, Parent: r.id(m.Target), Node: r.id(m.Node)})
	case memdom.MutInsertBefore:
		r.emit(protocol.Mutation{Op: protocol.OpInsertBefore, Parent: r.id(m.Target), Node: r.id(m.Node), Ref: r.id(m.Ref)})
	case memdom.MutRemove:
		r.emit(protocol.Mutation{Op: protocol.OpRemove, Parent: r.id(m.Target), Node: r.id(m.Node)})
		r.detached = append(r.detached, m.Node)
	case memdom.MutReplace:
		r.emit(protocol.Mutation{Op: protocol.OpReplace, Parent: r.id(m.Target), Node: r.id(m.Node), Ref: r.id(m.Ref)})
		r.detached = append(r.detached, m.Ref)

	case memdom.MutListen:
		k := listenKey{node: r.id(m.Target), event: m.Name}
		r.listens[k]++
		if r.listens[k] != 1 {
			return
		}
		if i, ok := r.unlistened[k]; ok {
			delete(r.unlistened, k)
			r.pending[i].Op = 0
			return
		}
		r.emit(protocol.Mutation{Op: protocol.OpListen, Node: k.node, Name: k.event})
	case memdom.MutUnlisten:
		k := listenKey{node: r.id(m.Target), event: m.Name}
		if r.listens[k] == 0 {
			return
		}
		r.listens[k]--
		if r.listens[k] == 0 {
			delete(r.listens, k)
			r.unlistened[k] = len(r.pending)
			r.emit(protocol.Mutation{Op: protocol.OpUnlisten, Node: k.node, Name: k.event})
		}
	}
}

// Flush releases nodes that ended up outside the tree and returns the
// pending operations as one frame. It returns nil when nothing changed.
func (r *Recorder) Flush() *protocol.MutationsFrame {
	r.releaseDetached()
	clear(r.unlistened)
	ops := r.pending[:0]
	for _, m := range r.pending {
		if m.Op != 0 {
			ops = append(ops, m)
		}
	}
	r.pending = nil
	if len(ops) == 0 {
		return nil
	}
	r.seq++
	return &protocol.MutationsFrame{Seq: r.seq, Mutations: ops}
}

func (r *Recorder) releaseDetached() {
	candidates := r.detached
	r.detached = nil
	for _, n := range candidates {
		top := n
		for p := n.ParentNode(); p != nil; p = p.ParentNode() {
			top = p
		}
		if top == r.root {
			continue
		}
		r.release(top)
	}
}

// release forgets top and its subtree.
func (r *Recorder) release(top *memdom.Node) {
	var walk func(n *memdom.Node)
	walk = func(n *memdom.Node) {
		id, ok := r.ids[n]
		if !ok {
			return
		}
		delete(r.ids, n)
		delete(r.nodes, id)
		for k := range r.listens {
			if k.node == id {
				delete(r.listens, k)
			}
		}
		r.emit(protocol.Mutation{Op: protocol.OpRelease, Node: id})
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(top)
}

// Dispatch delivers a client event to the shadow node it names. The value
// and checked properties reported by the client are applied first, without
// echoing them back. The event does not bubble: the client reports it once
// for every listening node on the path.
func (r *Recorder) Dispatch(ev protocol.Event) error {
	n, ok := r.nodes[ev.Node]
	if !ok {
		return fmt.Errorf("%w: #%d", ErrUnknownNode, ev.Node)
	}
	if n.Type() == dom.ElementNode {
		r.muted = true
		err := r.syncProps(n, ev)
		r.muted = false
		if err != nil {
			return err
		}
	}
	memdom.Dispatch(n, ev.Type, memdom.EventInit{Key: ev.Key, NoBubble: true})
	return nil
}

func (r *Recorder) syncProps(n *memdom.Node, ev protocol.Event) error {
	switch ev.Type {
	case "input", "change":
	default:
		return nil
	}
	if err := n.SetProperty("value", ev.Value); err != nil {
		return err
	}
	if t, _ := n.Attribute("type"); t == "checkbox" || t == "radio" {
		return n.SetProperty("checked", ev.Checked)
	}
	return nil
}
