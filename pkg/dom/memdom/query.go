package memdom

import (
	"strings"

	"github.com/vango-dev/sprout/pkg/dom"
)

// compound is one whitespace-separated part of a selector, for example
// button.primary#save[type=submit].
type compound struct {
	tag     string
	id      string
	classes []string
	attrs   [][2]string // name, value; value "" means presence
	hasVal  []bool
}

func parseCompound(s string) compound {
	var c compound
	i := 0
	readIdent := func() string {
		start := i
		for i < len(s) && s[i] != '.' && s[i] != '#' && s[i] != '[' {
			i++
		}
		return s[start:i]
	}
	c.tag = readIdent()
	for i < len(s) {
		switch s[i] {
		case '.':
			i++
			c.classes = append(c.classes, readIdent())
		case '#':
			i++
			c.id = readIdent()
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				end = len(s) - i
			}
			body := s[i+1 : i+end]
			i += end + 1
			name, val, ok := strings.Cut(body, "=")
			c.attrs = append(c.attrs, [2]string{name, strings.Trim(val, `"'`)})
			c.hasVal = append(c.hasVal, ok)
		default:
			i++
		}
	}
	return c
}

func (c compound) match(n *Node) bool {
	if n.typ != dom.ElementNode {
		return false
	}
	if c.tag != "" && c.tag != "*" && !strings.EqualFold(c.tag, n.tag) {
		return false
	}
	if c.id != "" {
		if v, ok := n.attrs["id"]; !ok || v != c.id {
			return false
		}
	}
	if len(c.classes) > 0 {
		have := strings.Fields(n.attrs["class"])
		for _, want := range c.classes {
			found := false
			for _, h := range have {
				if h == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	for i, kv := range c.attrs {
		v, ok := n.Attribute(kv[0])
		if !ok || (c.hasVal[i] && v != kv[1]) {
			return false
		}
	}
	return true
}

// QueryAll returns the descendants of n matching selector in document order.
// Supported: tag, #id, .class, [attr], [attr=value] and descendant combinators.
func (n *Node) QueryAll(selector string) []*Node {
	parts := strings.Fields(selector)
	if len(parts) == 0 {
		return nil
	}
	chain := make([]compound, len(parts))
	for i, p := range parts {
		chain[i] = parseCompound(p)
	}
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		for _, c := range cur.children {
			if matchChain(c, n, chain) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// Query returns the first match of selector below n, or nil.
func (n *Node) Query(selector string) *Node {
	if all := n.QueryAll(selector); len(all) > 0 {
		return all[0]
	}
	return nil
}

// matchChain matches the last compound against el and the rest against its
// ancestors below root.
func matchChain(el, root *Node, chain []compound) bool {
	last := len(chain) - 1
	if !chain[last].match(el) {
		return false
	}
	j := last - 1
	for p := el.parent; j >= 0 && p != nil && p != root; p = p.parent {
		if chain[j].match(p) {
			j--
		}
	}
	return j < 0
}
