package memdom

import (
	"fmt"
	"strings"

	"github.com/vango-dev/sprout/pkg/dom"
)

// MutationKind identifies a document operation.
type MutationKind string

const (
	MutCreateElement MutationKind = "createElement"
	MutCreateText    MutationKind = "createTextNode"
	MutSetAttr       MutationKind = "setAttribute"
	MutRemoveAttr    MutationKind = "removeAttribute"
	MutSetProp       MutationKind = "setProperty"
	MutSetStyle      MutationKind = "setStyleProperty"
	MutRemoveStyle   MutationKind = "removeStyleProperty"
	MutSetText       MutationKind = "setTextContent"
	MutAppend        MutationKind = "appendChild"
	MutInsertBefore  MutationKind = "insertBefore"
	MutRemove        MutationKind = "removeChild"
	MutReplace       MutationKind = "replaceChild"
	MutListen        MutationKind = "addEventListener"
	MutUnlisten      MutationKind = "removeEventListener"
)

// Mutation describes one successful document operation.
type Mutation struct {
	Kind MutationKind

	// Target is the node the operation was invoked on (the parent for tree ops).
	Target *Node

	// Node is the created, inserted, removed or replacing node.
	Node *Node

	// Ref is the reference node for insertBefore and the replaced node for replaceChild.
	Ref *Node

	Name  string
	Value string

	// Prop is the raw value for setProperty; Value holds its string form.
	Prop any

	// Sub is set for listen/unlisten.
	Sub *Subscription
}

// Stats counts document operations.
type Stats struct {
	ElementsCreated  int
	TextsCreated     int
	ListenersAdded   int
	ListenersRemoved int
	Mutations        int
}

// Document is an in-memory dom.Document.
//
// Document is not safe for concurrent use.
type Document struct {
	nextID    uint64
	stats     Stats
	failures  map[MutationKind]error
	observers []func(Mutation)
}

var _ dom.Document = (*Document)(nil)

// New creates an empty document.
func New() *Document {
	return &Document{}
}

// Stats returns the operation counters.
func (d *Document) Stats() Stats { return d.stats }

// ResetStats zeroes the operation counters.
func (d *Document) ResetStats() { d.stats = Stats{} }

// FailNext makes the next operation of the given kind fail with err.
// A nil err clears a pending failure.
func (d *Document) FailNext(kind MutationKind, err error) {
	if d.failures == nil {
		d.failures = make(map[MutationKind]error)
	}
	if err == nil {
		delete(d.failures, kind)
		return
	}
	d.failures[kind] = err
}

// Observe registers fn to be called after every successful mutation.
func (d *Document) Observe(fn func(Mutation)) {
	d.observers = append(d.observers, fn)
}

// fail consumes an injected failure for kind.
func (d *Document) fail(kind MutationKind) error {
	if err, ok := d.failures[kind]; ok {
		delete(d.failures, kind)
		return err
	}
	return nil
}

func (d *Document) emit(m Mutation) {
	d.stats.Mutations++
	for _, fn := range d.observers {
		fn(m)
	}
}

func (d *Document) newNode(typ dom.NodeType) *Node {
	d.nextID++
	return &Node{doc: d, id: d.nextID, typ: typ}
}

// CreateElement creates an HTML element. The tag is lower-cased.
func (d *Document) CreateElement(tag string) (dom.Element, error) {
	el, err := d.createElement(dom.NamespaceHTML, strings.ToLower(tag))
	if err != nil {
		return nil, err
	}
	return el, nil
}

// CreateElementNS creates an element in namespace. An empty namespace is
// the null namespace; prefixed names require a non-empty namespace.
func (d *Document) CreateElementNS(namespace, tag string) (dom.Element, error) {
	el, err := d.createElement(namespace, tag)
	if err != nil {
		return nil, err
	}
	return el, nil
}

// Element creates an HTML element and panics on error. Intended for tests.
func (d *Document) Element(tag string) *Node {
	el, err := d.createElement(dom.NamespaceHTML, strings.ToLower(tag))
	if err != nil {
		panic(err)
	}
	return el
}

func (d *Document) createElement(namespace, tag string) (*Node, error) {
	if err := d.fail(MutCreateElement); err != nil {
		return nil, err
	}
	if !validName(tag) {
		return nil, fmt.Errorf("%w: %q", dom.ErrInvalidCharacter, tag)
	}
	if strings.Contains(tag, ":") && namespace == "" {
		return nil, fmt.Errorf("%w: prefixed name %q without namespace", dom.ErrNamespace, tag)
	}
	n := d.newNode(dom.ElementNode)
	n.tag = tag
	n.ns = namespace
	d.stats.ElementsCreated++
	d.emit(Mutation{Kind: MutCreateElement, Node: n, Name: tag, Value: namespace})
	return n, nil
}

// CreateTextNode creates a text node.
func (d *Document) CreateTextNode(text string) (dom.Node, error) {
	if err := d.fail(MutCreateText); err != nil {
		return nil, err
	}
	n := d.newNode(dom.TextNode)
	n.text = text
	d.stats.TextsCreated++
	d.emit(Mutation{Kind: MutCreateText, Node: n, Value: text})
	return n, nil
}

// validName reports whether s is an acceptable element or attribute name.
func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == ':':
		case r >= 0x80:
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
