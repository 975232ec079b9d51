package vdom

import (
	"slices"
	"strings"
)

// table is an insertion-ordered string-keyed map. The zero value is ready
// to use. Overwriting a key keeps its original position.
type table[V any] struct {
	keys []string
	vals map[string]V
}

func (t *table[V]) set(key string, v V) {
	if t.vals == nil {
		t.vals = make(map[string]V)
	}
	if _, ok := t.vals[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.vals[key] = v
}

func (t *table[V]) get(key string) (V, bool) {
	v, ok := t.vals[key]
	return v, ok
}

func (t *table[V]) delete(key string) bool {
	if _, ok := t.vals[key]; !ok {
		return false
	}
	delete(t.vals, key)
	t.keys = slices.DeleteFunc(t.keys, func(k string) bool { return k == key })
	return true
}

func (t *table[V]) merge(o *table[V]) {
	for _, k := range o.keys {
		t.set(k, o.vals[k])
	}
}

func (t *table[V]) clone() table[V] {
	if len(t.keys) == 0 {
		return table[V]{}
	}
	c := table[V]{keys: slices.Clone(t.keys), vals: make(map[string]V, len(t.vals))}
	for k, v := range t.vals {
		c.vals[k] = v
	}
	return c
}

type attrState uint8

const (
	attrIgnored attrState = iota
	attrSome
	attrNone
)

// AttrValue is a three-state attribute value: Some(text) renders as given,
// None renders as present with an empty value, and Ignored is omitted from
// the live document. The zero value is Ignored.
type AttrValue struct {
	state attrState
	text  string
}

// AttrSome returns a value rendered as text.
func AttrSome(text string) AttrValue { return AttrValue{state: attrSome, text: text} }

// AttrNone returns a value rendered as an empty attribute (disabled, checked).
func AttrNone() AttrValue { return AttrValue{state: attrNone} }

// AttrIgnored returns a value that is omitted from the live document.
func AttrIgnored() AttrValue { return AttrValue{} }

// AttrBool returns None when b is true and Ignored otherwise.
func AttrBool(b bool) AttrValue {
	if b {
		return AttrNone()
	}
	return AttrIgnored()
}

func (v AttrValue) IsSome() bool    { return v.state == attrSome }
func (v AttrValue) IsNone() bool    { return v.state == attrNone }
func (v AttrValue) IsIgnored() bool { return v.state == attrIgnored }

// Text returns the rendered text and whether the value is present at all.
func (v AttrValue) Text() (string, bool) {
	switch v.state {
	case attrSome:
		return v.text, true
	case attrNone:
		return "", true
	default:
		return "", false
	}
}

// String returns a debug representation.
func (v AttrValue) String() string {
	switch v.state {
	case attrSome:
		return "Some(" + v.text + ")"
	case attrNone:
		return "None"
	default:
		return "Ignored"
	}
}

// Attrs is an ordered attribute table.
type Attrs struct {
	t table[AttrValue]
}

// NewAttrs builds a table from attrs in order.
func NewAttrs(attrs ...Attr) Attrs {
	var a Attrs
	for _, at := range attrs {
		if at.Key != "" {
			a.Set(at.Key, at.Value)
		}
	}
	return a
}

// Set sets key to value, keeping the position of an existing key.
func (a *Attrs) Set(key string, value AttrValue) { a.t.set(key, value) }

// Get returns the stored value of key.
func (a *Attrs) Get(key string) (AttrValue, bool) { return a.t.get(key) }

// Delete removes key and reports whether it was present.
func (a *Attrs) Delete(key string) bool { return a.t.delete(key) }

// Len returns the number of entries, Ignored included.
func (a *Attrs) Len() int { return len(a.t.keys) }

// Keys returns the keys in insertion order.
func (a *Attrs) Keys() []string { return slices.Clone(a.t.keys) }

// Each calls fn for every entry in insertion order.
func (a *Attrs) Each(fn func(key string, value AttrValue)) {
	for _, k := range a.t.keys {
		fn(k, a.t.vals[k])
	}
}

// Effective returns the rendered text of key and whether it is present in the
// live document. Missing and Ignored entries are absent.
func (a *Attrs) Effective(key string) (string, bool) {
	v, ok := a.t.get(key)
	if !ok {
		return "", false
	}
	return v.Text()
}

// Merge copies every entry of other into a. Values from other win; existing
// keys keep their position and new keys are appended in other's order.
func (a *Attrs) Merge(other Attrs) { a.t.merge(&other.t) }

// AddMultiple appends the non-empty items to key, space separated.
func (a *Attrs) AddMultiple(key string, items []string) {
	parts := make([]string, 0, len(items)+1)
	if cur, ok := a.Effective(key); ok && cur != "" {
		parts = append(parts, cur)
	}
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			parts = append(parts, it)
		}
	}
	if len(parts) == 0 {
		return
	}
	a.Set(key, AttrSome(strings.Join(parts, " ")))
}

// Clone returns an independent copy.
func (a *Attrs) Clone() Attrs { return Attrs{t: a.t.clone()} }

// String renders the table as an HTML attribute fragment, e.g.
// id="a" disabled. Ignored entries are skipped; values are not escaped.
func (a *Attrs) String() string {
	var sb strings.Builder
	for _, k := range a.t.keys {
		v := a.t.vals[k]
		if v.IsIgnored() {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(k)
		if v.IsSome() {
			sb.WriteString(`="`)
			sb.WriteString(v.text)
			sb.WriteByte('"')
		}
	}
	return sb.String()
}

// CSSValue is a two-state style value: Some(text) or Ignored. The zero value
// is Ignored.
type CSSValue struct {
	set  bool
	text string
}

// CSSSome returns a value rendered as text.
func CSSSome(text string) CSSValue { return CSSValue{set: true, text: text} }

// CSSIgnored returns a value that is omitted from the live document.
func CSSIgnored() CSSValue { return CSSValue{} }

func (v CSSValue) IsIgnored() bool { return !v.set }

// Text returns the value and whether it is present.
func (v CSSValue) Text() (string, bool) { return v.text, v.set }

func (v CSSValue) String() string {
	if !v.set {
		return "Ignored"
	}
	return "Some(" + v.text + ")"
}

// Style is an ordered style property table.
type Style struct {
	t table[CSSValue]
}

// NewStyle builds a table from props in order.
func NewStyle(props ...StyleProp) Style {
	var s Style
	for _, p := range props {
		if p.Name != "" {
			s.Set(p.Name, p.Value)
		}
	}
	return s
}

func (s *Style) Set(name string, value CSSValue) { s.t.set(name, value) }

func (s *Style) Get(name string) (CSSValue, bool) { return s.t.get(name) }

func (s *Style) Delete(name string) bool { return s.t.delete(name) }

func (s *Style) Len() int { return len(s.t.keys) }

func (s *Style) Keys() []string { return slices.Clone(s.t.keys) }

func (s *Style) Each(fn func(name string, value CSSValue)) {
	for _, k := range s.t.keys {
		fn(k, s.t.vals[k])
	}
}

// Effective returns the value of name and whether it is present.
func (s *Style) Effective(name string) (string, bool) {
	v, ok := s.t.get(name)
	if !ok {
		return "", false
	}
	return v.Text()
}

// Merge is right-biased and order-preserving, like Attrs.Merge.
func (s *Style) Merge(other Style) { s.t.merge(&other.t) }

func (s *Style) Clone() Style { return Style{t: s.t.clone()} }

// String renders the table as an inline style, e.g. color:red;margin:0;
// Ignored entries are skipped.
func (s *Style) String() string {
	var sb strings.Builder
	for _, k := range s.t.keys {
		v := s.t.vals[k]
		if !v.set {
			continue
		}
		sb.WriteString(k)
		sb.WriteByte(':')
		sb.WriteString(v.text)
		sb.WriteByte(';')
	}
	return sb.String()
}
