package vdom

import "sort"

var booleanAttrs = map[string]bool{
	"allowfullscreen": true,
	"async":           true,
	"autofocus":       true,
	"autoplay":        true,
	"checked":         true,
	"controls":        true,
	"default":         true,
	"defer":           true,
	"disabled":        true,
	"formnovalidate":  true,
	"hidden":          true,
	"inert":           true,
	"ismap":           true,
	"loop":            true,
	"multiple":        true,
	"muted":           true,
	"novalidate":      true,
	"open":            true,
	"playsinline":     true,
	"readonly":        true,
	"required":        true,
	"reversed":        true,
	"selected":        true,
}

// IsBooleanAttr reports whether name is an HTML boolean attribute.
func IsBooleanAttr(name string) bool {
	return booleanAttrs[name]
}

// AttrPair is an attribute as it appears on the live element.
type AttrPair struct {
	Key   string
	Value string
}

// EffectiveAttrs returns the attributes that should be present on the live
// element for the given node, in table order.
//
// Ignored entries are omitted. The value attribute is moved last: some
// elements (input type=range with min/max) clamp the value against
// attributes that must already be set.
func EffectiveAttrs[Msg any](node *Node[Msg]) []AttrPair {
	if !node.IsElement() || node.Attrs.Len() == 0 {
		return nil
	}
	out := make([]AttrPair, 0, node.Attrs.Len())
	var value *AttrPair
	node.Attrs.Each(func(k string, v AttrValue) {
		text, ok := v.Text()
		if !ok {
			return
		}
		if k == "value" {
			value = &AttrPair{Key: k, Value: text}
			return
		}
		out = append(out, AttrPair{Key: k, Value: text})
	})
	if value != nil {
		out = append(out, *value)
	}
	return out
}

// EffectiveStyle returns the style properties present on the live element.
func EffectiveStyle[Msg any](node *Node[Msg]) []AttrPair {
	if !node.IsElement() || node.Style.Len() == 0 {
		return nil
	}
	out := make([]AttrPair, 0, node.Style.Len())
	node.Style.Each(func(k string, v CSSValue) {
		if text, ok := v.Text(); ok {
			out = append(out, AttrPair{Key: k, Value: text})
		}
	})
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
