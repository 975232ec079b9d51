package memdom

import (
	"html"
	"strings"

	"github.com/vango-dev/sprout/pkg/dom"
)

// voidElements are elements serialised without a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// OuterHTML serialises the node and its subtree. Properties are not
// serialised; only attributes and style are.
func (n *Node) OuterHTML() string {
	var sb strings.Builder
	n.writeHTML(&sb)
	return sb.String()
}

// InnerHTML serialises the children of the node.
func (n *Node) InnerHTML() string {
	var sb strings.Builder
	for _, c := range n.children {
		c.writeHTML(&sb)
	}
	return sb.String()
}

func (n *Node) writeHTML(sb *strings.Builder) {
	if n.typ == dom.TextNode {
		sb.WriteString(html.EscapeString(n.text))
		return
	}
	sb.WriteByte('<')
	sb.WriteString(n.tag)
	for _, name := range n.AttributeNames() {
		v, _ := n.Attribute(name)
		sb.WriteByte(' ')
		sb.WriteString(name)
		if v != "" {
			sb.WriteString(`="`)
			sb.WriteString(html.EscapeString(v))
			sb.WriteByte('"')
		}
	}
	sb.WriteByte('>')
	if n.ns == dom.NamespaceHTML && voidElements[n.tag] && len(n.children) == 0 {
		return
	}
	for _, c := range n.children {
		c.writeHTML(sb)
	}
	sb.WriteString("</")
	sb.WriteString(n.tag)
	sb.WriteByte('>')
}
