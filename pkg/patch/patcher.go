package patch

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/vango-dev/sprout/pkg/dom"
	"github.com/vango-dev/sprout/pkg/vdom"
)

// Option configures a Patcher.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger. The default is slog.Default() with
// component=patch.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Patcher applies patches to one live document. It is not safe for
// concurrent use.
type Patcher[Msg any] struct {
	doc      dom.Document
	dispatch func(Msg)
	logger   *slog.Logger

	nodes    map[vdom.Handle]dom.Node
	bindings map[vdom.Handle]map[string]binding
	next     vdom.Handle

	// created holds handles registered since the last finished cycle.
	created map[vdom.Handle]bool
}

type binding struct {
	el  dom.Element
	sub dom.Subscription
}

// New creates a Patcher creating nodes in doc. Messages produced by
// listeners and hooks are passed to dispatch, which may be nil.
func New[Msg any](doc dom.Document, dispatch func(Msg), opts ...Option) *Patcher[Msg] {
	o := options{logger: slog.Default().With("component", "patch")}
	for _, opt := range opts {
		opt(&o)
	}
	return &Patcher[Msg]{
		doc:      doc,
		dispatch: dispatch,
		logger:   o.logger,
		nodes:    make(map[vdom.Handle]dom.Node),
		bindings: make(map[vdom.Handle]map[string]binding),
		created:  make(map[vdom.Handle]bool),
	}
}

// SetDispatch replaces the message callback.
func (p *Patcher[Msg]) SetDispatch(dispatch func(Msg)) {
	p.dispatch = dispatch
}

// Live returns the live node registered for h.
func (p *Patcher[Msg]) Live(h vdom.Handle) (dom.Node, bool) {
	n, ok := p.nodes[h]
	return n, ok
}

// Len returns the number of registered live nodes.
func (p *Patcher[Msg]) Len() int { return len(p.nodes) }

// Subscriptions returns the number of active event subscriptions.
func (p *Patcher[Msg]) Subscriptions() int {
	n := 0
	for _, byEvent := range p.bindings {
		n += len(byEvent)
	}
	return n
}

// cycle is the state of one Apply call.
type cycle[Msg any] struct {
	root    dom.Element
	tree    *vdom.Node[Msg]
	rebuilt [][]int
}

// under reports whether path is at or below a subtree rebuilt in this cycle.
func (c *cycle[Msg]) under(path []int) bool {
	for _, r := range c.rebuilt {
		if len(path) >= len(r) && slices.Equal(path[:len(r)], r) {
			return true
		}
	}
	return false
}

// Apply applies patches in order. root is the mount container and tree the
// new tree the patches were computed for; path [] addresses the top node
// inside root.
//
// On success every non-Empty node of tree has a live handle. The first
// failing patch aborts the cycle and is returned as a *PatchError.
func (p *Patcher[Msg]) Apply(root dom.Element, tree *vdom.Node[Msg], patches []vdom.Patch[Msg]) error {
	c := &cycle[Msg]{root: root, tree: tree}
	for _, pt := range patches {
		if err := p.apply(c, pt); err != nil {
			return &PatchError{Op: pt.Op, Path: pt.Path, Err: err}
		}
	}
	return p.finish(c)
}

func (p *Patcher[Msg]) apply(c *cycle[Msg], pt vdom.Patch[Msg]) error {
	if c.under(pt.Path) {
		// The rebuilt subtree already reflects the new tree.
		if pt.Op == vdom.PatchReplace || pt.Op == vdom.PatchRemove {
			p.release(pt.Old)
		}
		return nil
	}
	switch pt.Op {
	case vdom.PatchReplace:
		return p.replace(c, pt)
	case vdom.PatchAppend, vdom.PatchInsert:
		return p.insert(c, pt)
	case vdom.PatchRemove:
		return p.remove(pt)
	case vdom.PatchMove:
		return p.move(c, pt)
	case vdom.PatchSetText, vdom.PatchSetAttr, vdom.PatchRemoveAttr,
		vdom.PatchSetStyle, vdom.PatchRemoveStyle,
		vdom.PatchAddListener, vdom.PatchRemoveListener:
		return p.update(c, pt)
	default:
		return invalidPath(pt.Path, "unknown op %d", pt.Op)
	}
}

// replace swaps the child at pt.Path. Empty on either side turns it into an
// insertion or a removal.
func (p *Patcher[Msg]) replace(c *cycle[Msg], pt vdom.Patch[Msg]) error {
	parent, pos, rebuilt, err := p.container(c, pt.Path)
	if err != nil {
		return err
	}
	if rebuilt {
		p.release(pt.Old)
		return nil
	}

	var oldLive dom.Node
	if !pt.Old.IsEmpty() {
		if live, ok := p.nodes[pt.Old.Handle()]; ok && live.Parent() == parent {
			oldLive = live
		}
	}
	var newLive dom.Node
	if !pt.Node.IsEmpty() {
		if newLive, err = p.Build(pt.Node); err != nil {
			return err
		}
	}

	p.unmount(pt.Old)
	switch {
	case oldLive != nil && newLive != nil:
		err = parent.ReplaceChild(newLive, oldLive)
	case oldLive != nil:
		err = parent.RemoveChild(oldLive)
	case newLive != nil:
		err = insertAt(parent, newLive, pos)
	}
	if err != nil {
		p.release(pt.Node)
		return docErr(err)
	}
	p.release(pt.Old)
	return nil
}

// insert handles Append and Insert.
func (p *Patcher[Msg]) insert(c *cycle[Msg], pt vdom.Patch[Msg]) error {
	if pt.Node.IsEmpty() {
		return nil
	}
	parent, pos, rebuilt, err := p.container(c, pt.Path)
	if err != nil || rebuilt {
		return err
	}
	live, err := p.Build(pt.Node)
	if err != nil {
		return err
	}
	if err := insertAt(parent, live, pos); err != nil {
		p.release(pt.Node)
		return docErr(err)
	}
	return nil
}

// remove detaches the old child. A child whose live node is already gone is
// only released.
func (p *Patcher[Msg]) remove(pt vdom.Patch[Msg]) error {
	if pt.Old.IsEmpty() {
		return nil
	}
	p.unmount(pt.Old)
	if live, ok := p.nodes[pt.Old.Handle()]; ok {
		if parent := live.Parent(); parent != nil {
			if err := parent.RemoveChild(live); err != nil {
				return docErr(err)
			}
		}
	}
	p.release(pt.Old)
	return nil
}

func (p *Patcher[Msg]) move(c *cycle[Msg], pt vdom.Patch[Msg]) error {
	if pt.Node.IsEmpty() {
		return nil
	}
	parent, pos, rebuilt, err := p.container(c, pt.Path)
	if err != nil || rebuilt {
		return err
	}
	live, rebuilt, err := p.resolve(c, pt.Path)
	if err != nil || rebuilt {
		return err
	}
	return docErr(insertAt(parent, live, pos))
}

// update applies text, attribute, style and listener patches.
func (p *Patcher[Msg]) update(c *cycle[Msg], pt vdom.Patch[Msg]) error {
	live, rebuilt, err := p.resolve(c, pt.Path)
	if err != nil || rebuilt {
		return err
	}
	if pt.Op == vdom.PatchSetText {
		return docErr(live.SetTextContent(pt.Value))
	}

	n, _ := c.tree.At(pt.Path)
	el, ok := dom.AsElement(live)
	if !ok {
		return invalidPath(pt.Path, "%s target is not an element", pt.Op)
	}
	switch pt.Op {
	case vdom.PatchSetAttr:
		_, had := el.Attribute(pt.Key)
		if err := setAttr(el, pt.Key, pt.Value); err != nil || had {
			return err
		}
		return orderAttrs(el, n, pt.Key)
	case vdom.PatchRemoveAttr:
		return removeAttr(el, pt.Key)
	case vdom.PatchSetStyle:
		return docErr(el.SetStyleProperty(pt.Key, pt.Value))
	case vdom.PatchRemoveStyle:
		return docErr(el.RemoveStyleProperty(pt.Key))
	case vdom.PatchAddListener:
		return p.listen(n, el, pt.Key)
	case vdom.PatchRemoveListener:
		return p.unlisten(n.Handle(), pt.Key)
	}
	return nil
}

// resolve returns the live node at path in the new tree. A node whose live
// counterpart is missing or no longer attached below the root is rebuilt
// from the new tree; rebuilt reports whether that happened.
func (p *Patcher[Msg]) resolve(c *cycle[Msg], path []int) (live dom.Node, rebuilt bool, err error) {
	n, ok := c.tree.At(path)
	if !ok {
		return nil, false, invalidPath(path, "no such node")
	}
	if n.IsEmpty() {
		return nil, false, invalidPath(path, "target is Empty")
	}
	if live, ok := p.attached(c, n.Handle()); ok {
		return live, false, nil
	}
	live, err = p.rebuild(c, path, n)
	return live, true, err
}

// container returns the live parent of the child at path and the child's
// live position: the number of non-Empty siblings before it in the new tree.
// rebuilt reports that the parent itself was rebuilt, child included.
func (p *Patcher[Msg]) container(c *cycle[Msg], path []int) (parent dom.Node, pos int, rebuilt bool, err error) {
	if len(path) == 0 {
		return c.root, 0, false, nil
	}
	parentPath, i := path[:len(path)-1], path[len(path)-1]
	parent, rebuilt, err = p.resolve(c, parentPath)
	if err != nil || rebuilt {
		return parent, 0, rebuilt, err
	}
	pn, _ := c.tree.At(parentPath)
	if i < 0 || i >= len(pn.Children) {
		return nil, 0, false, invalidPath(path, "child index out of range")
	}
	for _, s := range pn.Children[:i] {
		if !s.IsEmpty() {
			pos++
		}
	}
	return parent, pos, false, nil
}

// attached returns the live node of h if it is connected below the root.
func (p *Patcher[Msg]) attached(c *cycle[Msg], h vdom.Handle) (dom.Node, bool) {
	live, ok := p.nodes[h]
	if !ok {
		return nil, false
	}
	root := dom.Node(c.root)
	for n := live.Parent(); n != nil; n = n.Parent() {
		if n == root {
			return live, true
		}
	}
	return nil, false
}

// rebuild recreates the subtree at path from the new tree and inserts it at
// its live position.
func (p *Patcher[Msg]) rebuild(c *cycle[Msg], path []int, n *vdom.Node[Msg]) (dom.Node, error) {
	parent, pos, rebuilt, err := p.container(c, path)
	if err != nil {
		return nil, err
	}
	if rebuilt {
		live, ok := p.nodes[n.Handle()]
		if !ok {
			return nil, fmt.Errorf("%w at %s", ErrDanglingReference, formatPath(path))
		}
		return live, nil
	}

	p.logger.Warn("rebuilding detached node", "path", formatPath(path), "node", n.String())
	p.release(n)
	live, err := p.Build(n)
	if err != nil {
		return nil, err
	}
	if err := insertAt(parent, live, pos); err != nil {
		p.release(n)
		return nil, docErr(err)
	}
	c.rebuilt = append(c.rebuilt, slices.Clone(path))
	return live, nil
}

// insertAt inserts child into parent so that it ends up at index pos.
func insertAt(parent, child dom.Node, pos int) error {
	kids := parent.ChildNodes()
	if pos < len(kids) {
		if kids[pos] == child {
			return nil
		}
		return parent.InsertBefore(child, kids[pos])
	}
	return parent.AppendChild(child)
}

// finish verifies that the tree is fully live, then sets refs and runs
// did-mount and did-update hooks.
func (p *Patcher[Msg]) finish(c *cycle[Msg]) error {
	var err error
	var msgs []Msg
	vdom.Walk(c.tree, func(n *vdom.Node[Msg], path []int) bool {
		if n.IsEmpty() {
			return false
		}
		live, ok := p.nodes[n.Handle()]
		if !ok {
			if err == nil {
				err = &PatchError{Path: slices.Clone(path), Err: ErrDanglingReference}
			}
			return false
		}
		el, ok := dom.AsElement(live)
		if !ok {
			return false
		}
		for _, r := range n.Refs {
			r.Set(el)
		}
		hooks := n.Hooks.DidUpdate
		if p.created[n.Handle()] {
			hooks = n.Hooks.DidMount
		}
		msgs = p.runHooks(hooks, el, msgs)
		return true
	})
	clear(p.created)
	p.send(msgs)
	return err
}
