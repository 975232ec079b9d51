package vdom

// DiffOption configures Diff.
type DiffOption func(*diffConfig)

type diffConfig struct {
	keyed bool
}

// WithKeyed enables keyed reconciliation of children. Child lists in which
// no child on either side has a key are still diffed positionally.
func WithKeyed() DiffOption {
	return func(c *diffConfig) { c.keyed = true }
}

// Diff compares two trees and returns the patches needed to transform the
// live counterpart of prev into next. A nil node is treated as Empty.
//
// Live handles of matched nodes are carried from prev to next, so next can
// serve as prev for the following render.
func Diff[Msg any](prev, next *Node[Msg], opts ...DiffOption) []Patch[Msg] {
	d := &differ[Msg]{}
	for _, opt := range opts {
		opt(&d.cfg)
	}
	d.diff(prev, next, nil)
	return d.patches
}

type differ[Msg any] struct {
	cfg     diffConfig
	patches []Patch[Msg]
}

func (d *differ[Msg]) emit(p Patch[Msg]) {
	d.patches = append(d.patches, p)
}

// Compatible reports whether a and b can be patched in place: both Empty,
// both Text, or Elements with the same tag and namespace. A NoChange b is
// compatible with anything.
func Compatible[Msg any](a, b *Node[Msg]) bool {
	ka, kb := KindOf(a), KindOf(b)
	if kb == KindNoChange {
		return true
	}
	if ka != kb {
		return false
	}
	if ka == KindElement {
		return a.Tag == b.Tag && a.Namespace.URI() == b.Namespace.URI()
	}
	return true
}

// diff recursively compares nodes and appends patches.
func (d *differ[Msg]) diff(prev, next *Node[Msg], path []int) {
	if next.IsNoChange() {
		next.reuse(prev)
		return
	}
	if !Compatible(prev, next) {
		d.emit(Patch[Msg]{Op: PatchReplace, Path: path, Node: next, Old: prev})
		return
	}

	switch KindOf(next) {
	case KindText:
		next.handle = prev.handle
		if prev.Text != next.Text {
			d.emit(Patch[Msg]{Op: PatchSetText, Path: path, Value: next.Text, Node: next})
		}
	case KindElement:
		next.handle = prev.handle
		d.diffAttrs(prev, next, path)
		d.diffStyle(prev, next, path)
		d.diffListeners(prev, next, path)
		d.diffChildren(prev, next, path)
	}
}

// diffAttrs compares effective attribute values. Missing and Ignored
// entries are both absent.
func (d *differ[Msg]) diffAttrs(prev, next *Node[Msg], path []int) {
	next.Attrs.Each(func(key string, v AttrValue) {
		text, ok := v.Text()
		if !ok {
			return
		}
		if old, had := prev.Attrs.Effective(key); had && old == text {
			return
		}
		d.emit(Patch[Msg]{Op: PatchSetAttr, Path: path, Key: key, Value: text, Node: next})
	})
	prev.Attrs.Each(func(key string, v AttrValue) {
		if _, had := v.Text(); !had {
			return
		}
		if _, has := next.Attrs.Effective(key); !has {
			d.emit(Patch[Msg]{Op: PatchRemoveAttr, Path: path, Key: key, Node: next})
		}
	})
}

// diffStyle compares effective style values.
func (d *differ[Msg]) diffStyle(prev, next *Node[Msg], path []int) {
	next.Style.Each(func(name string, v CSSValue) {
		text, ok := v.Text()
		if !ok {
			return
		}
		if old, had := prev.Style.Effective(name); had && old == text {
			return
		}
		d.emit(Patch[Msg]{Op: PatchSetStyle, Path: path, Key: name, Value: text, Node: next})
	})
	prev.Style.Each(func(name string, v CSSValue) {
		if v.IsIgnored() {
			return
		}
		if _, has := next.Style.Effective(name); !has {
			d.emit(Patch[Msg]{Op: PatchRemoveStyle, Path: path, Key: name, Node: next})
		}
	})
}

// diffListeners always re-registers: closures cannot be compared, so every
// event name present in next is removed (if it was in prev) and added again.
func (d *differ[Msg]) diffListeners(prev, next *Node[Msg], path []int) {
	if len(prev.Listeners) == 0 && len(next.Listeners) == 0 {
		return
	}
	prevNames := eventNames(prev.Listeners)
	nextNames := eventNames(next.Listeners)

	had := make(map[string]bool, len(prevNames))
	for _, name := range prevNames {
		had[name] = true
	}
	has := make(map[string]bool, len(nextNames))
	for _, name := range nextNames {
		has[name] = true
		if had[name] {
			d.emit(Patch[Msg]{Op: PatchRemoveListener, Path: path, Key: name, Node: next, Old: prev})
		}
		d.emit(Patch[Msg]{Op: PatchAddListener, Path: path, Key: name, Node: next})
	}
	for _, name := range prevNames {
		if !has[name] {
			d.emit(Patch[Msg]{Op: PatchRemoveListener, Path: path, Key: name, Node: next, Old: prev})
		}
	}
}

// eventNames returns the distinct event names in first-occurrence order.
func eventNames[Msg any](ls []Listener[Msg]) []string {
	var names []string
	seen := make(map[string]bool, len(ls))
	for _, l := range ls {
		if !seen[l.Event] {
			seen[l.Event] = true
			names = append(names, l.Event)
		}
	}
	return names
}

// diffChildren compares and patches child nodes.
func (d *differ[Msg]) diffChildren(prev, next *Node[Msg], path []int) {
	if d.cfg.keyed && (hasKeys(prev.Children) || hasKeys(next.Children)) {
		d.diffKeyedChildren(prev.Children, next.Children, path)
		return
	}
	d.diffUnkeyedChildren(prev.Children, next.Children, path)
}

// diffUnkeyedChildren handles children using positional matching. Appends
// are emitted in ascending order and removals tail-first, so indices of
// earlier children stay valid while patches are applied.
func (d *differ[Msg]) diffUnkeyedChildren(prev, next []*Node[Msg], path []int) {
	n := min(len(prev), len(next))
	for i := 0; i < n; i++ {
		d.diff(prev[i], next[i], childPath(path, i))
	}
	for i := n; i < len(next); i++ {
		if next[i].IsNoChange() {
			next[i].reuse(nil)
		}
		d.emit(Patch[Msg]{Op: PatchAppend, Path: childPath(path, i), Index: i, Node: next[i]})
	}
	for i := len(prev) - 1; i >= n; i-- {
		d.emit(Patch[Msg]{Op: PatchRemove, Path: path, Index: i, Old: prev[i]})
	}
}

// diffKeyedChildren matches children by key, then pairs the remaining
// unkeyed children in order. Unmatched old children are removed tail-first;
// new children are then visited in order, inserting unmatched ones and
// moving matched ones that are not already next in line.
func (d *differ[Msg]) diffKeyedChildren(prev, next []*Node[Msg], path []int) {
	match := make([]int, len(next))
	used := make([]bool, len(prev))

	prevByKey := make(map[string]int)
	for j, c := range prev {
		if k := getKey(c); k != "" {
			if _, dup := prevByKey[k]; !dup {
				prevByKey[k] = j
			}
		}
	}
	var freePrev []int
	for j, c := range prev {
		if getKey(c) == "" {
			freePrev = append(freePrev, j)
		}
	}

	free := 0
	for i, c := range next {
		match[i] = -1
		if k := getKey(c); k != "" {
			if j, ok := prevByKey[k]; ok && !used[j] && Compatible(prev[j], c) {
				match[i] = j
				used[j] = true
			}
			continue
		}
		if free < len(freePrev) {
			j := freePrev[free]
			free++
			if Compatible(prev[j], c) {
				match[i] = j
				used[j] = true
			}
		}
	}

	for j := len(prev) - 1; j >= 0; j-- {
		if !used[j] {
			d.emit(Patch[Msg]{Op: PatchRemove, Path: path, Index: j, Old: prev[j]})
		}
	}

	// pending holds matched old positions that have a live node, in old order.
	var pending []int
	for j, c := range prev {
		if used[j] && !c.IsEmpty() {
			pending = append(pending, j)
		}
	}
	placed := make([]bool, len(prev))
	head := 0
	for i, c := range next {
		cp := childPath(path, i)
		j := match[i]
		reused := c.IsNoChange()
		if j < 0 {
			if reused {
				c.reuse(nil)
			}
			d.emit(Patch[Msg]{Op: PatchInsert, Path: cp, Index: i, Node: c})
			continue
		}
		if reused {
			c.reuse(prev[j])
		}
		if !c.IsEmpty() {
			for head < len(pending) && placed[pending[head]] {
				head++
			}
			if head < len(pending) && pending[head] != j {
				d.emit(Patch[Msg]{Op: PatchMove, Path: cp, Index: i, From: j, Node: c})
			}
			placed[j] = true
		}
		if !reused {
			d.diff(prev[j], c, cp)
		}
	}
}

// childPath returns a fresh copy of path extended with i, so patches never
// share backing arrays.
func childPath(path []int, i int) []int {
	p := make([]int, len(path)+1)
	copy(p, path)
	p[len(path)] = i
	return p
}

// getKey extracts the key from a node.
func getKey[Msg any](node *Node[Msg]) string {
	if node == nil {
		return ""
	}
	return node.Key
}

// hasKeys returns true if any child has a key.
func hasKeys[Msg any](children []*Node[Msg]) bool {
	for _, child := range children {
		if getKey(child) != "" {
			return true
		}
	}
	return false
}
