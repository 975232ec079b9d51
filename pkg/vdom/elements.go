package vdom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// El creates an HTML element. Arguments can be: nil, Attr, []Attr, Attrs,
// StyleProp, []StyleProp, Style, Listener, []Listener, HookArg, *Ref, *Node,
// []*Node and string (a text child). Other arguments are ignored.
func El[Msg any](tag string, args ...any) *Node[Msg] {
	return createElement[Msg]("", tag, args)
}

// ElNS creates an element in the given namespace.
func ElNS[Msg any](ns Namespace, tag string, args ...any) *Node[Msg] {
	return createElement[Msg](ns, tag, args)
}

// Svg creates an element in the SVG namespace.
func Svg[Msg any](tag string, args ...any) *Node[Msg] {
	return createElement[Msg](NamespaceSVG, tag, args)
}

// createElement creates a new Node with the given tag and arguments.
func createElement[Msg any](ns Namespace, tag string, args []any) *Node[Msg] {
	node := Element[Msg](ns, tag)
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional arguments)
			continue

		case Attr:
			addAttr(node, v)

		case []Attr:
			for _, a := range v {
				addAttr(node, a)
			}

		case Attrs:
			node.Attrs.Merge(v)

		case StyleProp:
			if v.Name != "" {
				node.Style.Set(v.Name, v.Value)
			}

		case []StyleProp:
			for _, p := range v {
				if p.Name != "" {
					node.Style.Set(p.Name, p.Value)
				}
			}

		case Style:
			node.Style.Merge(v)

		case Listener[Msg]:
			node.AddListener(v)

		case []Listener[Msg]:
			for _, l := range v {
				node.AddListener(l)
			}

		case HookArg[Msg]:
			node.AddHook(v)

		case *Ref:
			if v != nil {
				node.Refs = append(node.Refs, v)
			}

		case *Node[Msg]:
			node.AddChild(v)

		case []*Node[Msg]:
			for _, child := range v {
				node.AddChild(child)
			}

		case string:
			// Shorthand for text node
			node.Children = append(node.Children, Text[Msg](v))
		}
	}
	return node
}

// addAttr applies one constructor attribute. The key attribute sets the
// reconciliation key, and class values accumulate.
func addAttr[Msg any](node *Node[Msg], a Attr) {
	switch a.Key {
	case "":
		return
	case "key":
		if text, ok := a.Value.Text(); ok {
			node.Key = text
		}
	case "class":
		if text, ok := a.Value.Text(); ok {
			node.Attrs.AddMultiple("class", []string{text})
			if _, set := node.Attrs.Get("class"); !set {
				node.Attrs.Set("class", a.Value)
			}
		} else if _, set := node.Attrs.Get("class"); !set {
			node.Attrs.Set("class", a.Value)
		}
	default:
		node.Attrs.Set(a.Key, a.Value)
	}
}

// Html is a zero-size factory for HTML elements producing messages of type
// Msg:
//
//	var h vdom.Html[Msg]
//	h.Div(vdom.Class("card"), h.H1("Title"))
type Html[Msg any] struct{}

func (Html[Msg]) el(tag string, args []any) *Node[Msg] { return createElement[Msg]("", tag, args) }

// Document structure elements

func (h Html[Msg]) Head(args ...any) *Node[Msg]  { return h.el("head", args) }
func (h Html[Msg]) Body(args ...any) *Node[Msg]  { return h.el("body", args) }
func (h Html[Msg]) Title(args ...any) *Node[Msg] { return h.el("title", args) }

// Content sectioning elements

func (h Html[Msg]) Header(args ...any) *Node[Msg]  { return h.el("header", args) }
func (h Html[Msg]) Footer(args ...any) *Node[Msg]  { return h.el("footer", args) }
func (h Html[Msg]) Main(args ...any) *Node[Msg]    { return h.el("main", args) }
func (h Html[Msg]) Nav(args ...any) *Node[Msg]     { return h.el("nav", args) }
func (h Html[Msg]) Section(args ...any) *Node[Msg] { return h.el("section", args) }
func (h Html[Msg]) Article(args ...any) *Node[Msg] { return h.el("article", args) }
func (h Html[Msg]) Aside(args ...any) *Node[Msg]   { return h.el("aside", args) }
func (h Html[Msg]) H1(args ...any) *Node[Msg]      { return h.el("h1", args) }
func (h Html[Msg]) H2(args ...any) *Node[Msg]      { return h.el("h2", args) }
func (h Html[Msg]) H3(args ...any) *Node[Msg]      { return h.el("h3", args) }
func (h Html[Msg]) H4(args ...any) *Node[Msg]      { return h.el("h4", args) }

// Text content elements

func (h Html[Msg]) Div(args ...any) *Node[Msg]        { return h.el("div", args) }
func (h Html[Msg]) P(args ...any) *Node[Msg]          { return h.el("p", args) }
func (h Html[Msg]) Span(args ...any) *Node[Msg]       { return h.el("span", args) }
func (h Html[Msg]) Pre(args ...any) *Node[Msg]        { return h.el("pre", args) }
func (h Html[Msg]) Blockquote(args ...any) *Node[Msg] { return h.el("blockquote", args) }
func (h Html[Msg]) Ul(args ...any) *Node[Msg]         { return h.el("ul", args) }
func (h Html[Msg]) Ol(args ...any) *Node[Msg]         { return h.el("ol", args) }
func (h Html[Msg]) Li(args ...any) *Node[Msg]         { return h.el("li", args) }
func (h Html[Msg]) Hr(args ...any) *Node[Msg]         { return h.el("hr", args) }

// Inline text semantics

func (h Html[Msg]) A(args ...any) *Node[Msg]      { return h.el("a", args) }
func (h Html[Msg]) Strong(args ...any) *Node[Msg] { return h.el("strong", args) }
func (h Html[Msg]) Em(args ...any) *Node[Msg]     { return h.el("em", args) }
func (h Html[Msg]) Small(args ...any) *Node[Msg]  { return h.el("small", args) }
func (h Html[Msg]) Code(args ...any) *Node[Msg]   { return h.el("code", args) }
func (h Html[Msg]) Br(args ...any) *Node[Msg]     { return h.el("br", args) }

// Form elements

func (h Html[Msg]) Form(args ...any) *Node[Msg]     { return h.el("form", args) }
func (h Html[Msg]) Input(args ...any) *Node[Msg]    { return h.el("input", args) }
func (h Html[Msg]) Textarea(args ...any) *Node[Msg] { return h.el("textarea", args) }
func (h Html[Msg]) Select(args ...any) *Node[Msg]   { return h.el("select", args) }
func (h Html[Msg]) Option(args ...any) *Node[Msg]   { return h.el("option", args) }
func (h Html[Msg]) Button(args ...any) *Node[Msg]   { return h.el("button", args) }
func (h Html[Msg]) Label(args ...any) *Node[Msg]    { return h.el("label", args) }
func (h Html[Msg]) Fieldset(args ...any) *Node[Msg] { return h.el("fieldset", args) }

// Table elements

func (h Html[Msg]) Table(args ...any) *Node[Msg] { return h.el("table", args) }
func (h Html[Msg]) Thead(args ...any) *Node[Msg] { return h.el("thead", args) }
func (h Html[Msg]) Tbody(args ...any) *Node[Msg] { return h.el("tbody", args) }
func (h Html[Msg]) Tr(args ...any) *Node[Msg]    { return h.el("tr", args) }
func (h Html[Msg]) Th(args ...any) *Node[Msg]    { return h.el("th", args) }
func (h Html[Msg]) Td(args ...any) *Node[Msg]    { return h.el("td", args) }

// Media elements

func (h Html[Msg]) Img(args ...any) *Node[Msg]    { return h.el("img", args) }
func (h Html[Msg]) Canvas(args ...any) *Node[Msg] { return h.el("canvas", args) }

// Interactive elements

func (h Html[Msg]) Details(args ...any) *Node[Msg] { return h.el("details", args) }
func (h Html[Msg]) Summary(args ...any) *Node[Msg] { return h.el("summary", args) }
func (h Html[Msg]) Dialog(args ...any) *Node[Msg]  { return h.el("dialog", args) }

// Svg creates an <svg> element in the SVG namespace. Descendants must be
// created with the package-level Svg function.
func (h Html[Msg]) Svg(args ...any) *Node[Msg] { return createElement[Msg](NamespaceSVG, "svg", args) }

// Text creates a text node.
func (h Html[Msg]) Text(s string) *Node[Msg] { return Text[Msg](s) }

// Textf creates a formatted text node.
func (h Html[Msg]) Textf(format string, args ...any) *Node[Msg] { return Textf[Msg](format, args...) }

// Empty creates an empty placeholder.
func (h Html[Msg]) Empty() *Node[Msg] { return Empty[Msg]() }

// Custom creates an element with a custom tag name.
func (h Html[Msg]) Custom(tag string, args ...any) *Node[Msg] { return h.el(tag, args) }
