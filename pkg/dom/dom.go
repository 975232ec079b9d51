package dom

import "errors"

// NodeType is the live node type discriminator.
type NodeType uint8

const (
	ElementNode NodeType = 1 // <div>, <svg>, etc.
	TextNode    NodeType = 3 // Plain text node
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	default:
		return "Unknown"
	}
}

// Well-known namespace URIs.
const (
	NamespaceHTML   = "http://www.w3.org/1999/xhtml"
	NamespaceSVG    = "http://www.w3.org/2000/svg"
	NamespaceMathML = "http://www.w3.org/1998/Math/MathML"
)

// Sentinel errors reported by document implementations.
var (
	// ErrInvalidCharacter is returned when a tag or attribute name is not a valid XML name.
	ErrInvalidCharacter = errors.New("dom: invalid character in name")

	// ErrNamespace is returned when a qualified name does not fit its namespace.
	ErrNamespace = errors.New("dom: namespace error")

	// ErrHierarchy is returned when a node cannot be inserted where requested.
	ErrHierarchy = errors.New("dom: hierarchy request error")

	// ErrNotFound is returned when a reference node is not a child of the parent.
	ErrNotFound = errors.New("dom: node not found")

	// ErrWrongDocument is returned when a node belongs to another document implementation.
	ErrWrongDocument = errors.New("dom: wrong document")
)

// Document creates live nodes.
type Document interface {
	// CreateElement creates an HTML element.
	CreateElement(tag string) (Element, error)

	// CreateElementNS creates an element in the given namespace.
	CreateElementNS(namespace, tag string) (Element, error)

	// CreateTextNode creates a text node.
	CreateTextNode(text string) (Node, error)
}

// Node is a live document node.
type Node interface {
	Type() NodeType

	// Parent returns the parent element, or nil when the node is detached.
	Parent() Node

	// ChildNodes returns a snapshot of the node's children.
	ChildNodes() []Node

	AppendChild(child Node) error
	InsertBefore(child, ref Node) error
	RemoveChild(child Node) error
	ReplaceChild(newChild, oldChild Node) error

	TextContent() string
	SetTextContent(text string) error
}

// Element is a live document element.
type Element interface {
	Node

	TagName() string
	NamespaceURI() string

	Attribute(name string) (string, bool)
	AttributeNames() []string
	SetAttribute(name, value string) error
	RemoveAttribute(name string) error

	// SetProperty sets a DOM property such as "value" or "checked".
	SetProperty(name string, value any) error
	Property(name string) any

	StyleProperty(name string) (string, bool)
	SetStyleProperty(name, value string) error
	RemoveStyleProperty(name string) error

	AddEventListener(event string, fn func(Event)) (Subscription, error)
	RemoveEventListener(sub Subscription) error
}

// Event is a live event delivered to a listener.
type Event interface {
	Type() string
	Target() Node

	// Value is the target's current "value" property, if any.
	Value() string

	// Key is the key name for keyboard events.
	Key() string

	// Checked is the target's current "checked" property, if any.
	Checked() bool

	PreventDefault()
}

// Subscription identifies one registered event listener.
type Subscription interface {
	Event() string
}

// AsElement projects a node onto Element.
func AsElement(n Node) (Element, bool) {
	if n == nil || n.Type() != ElementNode {
		return nil, false
	}
	el, ok := n.(Element)
	return el, ok
}

// IndexOf returns the position of child within parent, or -1.
func IndexOf(parent, child Node) int {
	if parent == nil || child == nil {
		return -1
	}
	for i, c := range parent.ChildNodes() {
		if c == child {
			return i
		}
	}
	return -1
}

// RemoveChildren detaches every child of n.
func RemoveChildren(n Node) error {
	kids := n.ChildNodes()
	for i := len(kids) - 1; i >= 0; i-- {
		if err := n.RemoveChild(kids[i]); err != nil {
			return err
		}
	}
	return nil
}
