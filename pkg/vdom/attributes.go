package vdom

import (
	"fmt"
	"strconv"
	"strings"
)

// Attr is a single attribute passed to element constructors.
type Attr struct {
	Key   string
	Value AttrValue
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// attr creates an Attr rendered with the given text.
func attr(key, value string) Attr {
	return Attr{Key: key, Value: AttrSome(value)}
}

// flag creates a boolean attribute: present and empty, or absent.
func flag(key string, on bool) Attr {
	return Attr{Key: key, Value: AttrBool(on)}
}

// AttrOf creates an attribute with an explicit three-state value.
func AttrOf(key string, value AttrValue) Attr {
	return Attr{Key: key, Value: value}
}

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
// Repeated Class arguments on one element accumulate.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// StyleAttr sets the raw style attribute. Prefer Css, which diffs per property.
func StyleAttr(style string) Attr { return attr("style", style) }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Key sets the reconciliation key of the element. It is not rendered.
// The key is converted to a string using fmt.Sprint.
func Key(key any) Attr { return attr("key", fmt.Sprint(key)) }

// Accessibility attributes

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// AriaHidden sets the aria-hidden attribute.
func AriaHidden(hidden bool) Attr { return attr("aria-hidden", strconv.FormatBool(hidden)) }

// AriaExpanded sets the aria-expanded attribute.
func AriaExpanded(expanded bool) Attr {
	return attr("aria-expanded", strconv.FormatBool(expanded))
}

// AriaChecked sets the aria-checked attribute.
func AriaChecked(checked bool) Attr { return attr("aria-checked", strconv.FormatBool(checked)) }

// AriaLive sets the aria-live attribute.
func AriaLive(mode string) Attr { return attr("aria-live", mode) }

// AriaControls sets the aria-controls attribute.
func AriaControls(id string) Attr { return attr("aria-controls", id) }

// TabIndex sets the tabindex attribute.
func TabIndex(index int) Attr { return attr("tabindex", strconv.Itoa(index)) }

// Hidden sets or omits the hidden attribute.
func Hidden(on bool) Attr { return flag("hidden", on) }

// TitleAttr sets the title attribute (named to avoid conflict with Title element).
func TitleAttr(title string) Attr { return attr("title", title) }

// Lang sets the lang attribute.
func Lang(lang string) Attr { return attr("lang", lang) }

// Link attributes

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Target sets the target attribute.
func Target(target string) Attr { return attr("target", target) }

// Rel sets the rel attribute.
func Rel(rel string) Attr { return attr("rel", rel) }

// Form input attributes

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Value sets the value attribute. The patcher also synchronises the live
// value property, so the input reflects it even after the user typed.
func Value(value string) Attr { return attr("value", value) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return attr("placeholder", text) }

// For sets the for attribute (for labels).
func For(id string) Attr { return attr("for", id) }

// Autocomplete sets the autocomplete attribute.
func Autocomplete(value string) Attr { return attr("autocomplete", value) }

// Form state attributes

// Disabled sets or omits the disabled attribute.
func Disabled(on bool) Attr { return flag("disabled", on) }

// Readonly sets or omits the readonly attribute.
func Readonly(on bool) Attr { return flag("readonly", on) }

// Required sets or omits the required attribute.
func Required(on bool) Attr { return flag("required", on) }

// Checked sets or omits the checked attribute. The patcher also synchronises
// the live checked property.
func Checked(on bool) Attr { return flag("checked", on) }

// Selected sets or omits the selected attribute.
func Selected(on bool) Attr { return flag("selected", on) }

// Autofocus sets or omits the autofocus attribute.
func Autofocus(on bool) Attr { return flag("autofocus", on) }

// Form validation attributes

// Pattern sets the pattern attribute.
func Pattern(pattern string) Attr { return attr("pattern", pattern) }

// MinLength sets the minlength attribute.
func MinLength(n int) Attr { return attr("minlength", strconv.Itoa(n)) }

// MaxLength sets the maxlength attribute.
func MaxLength(n int) Attr { return attr("maxlength", strconv.Itoa(n)) }

// Min sets the min attribute.
func Min(value string) Attr { return attr("min", value) }

// Max sets the max attribute.
func Max(value string) Attr { return attr("max", value) }

// Media attributes

// Src sets the src attribute.
func Src(url string) Attr { return attr("src", url) }

// Alt sets the alt attribute.
func Alt(text string) Attr { return attr("alt", text) }

// Width sets the width attribute.
func Width(w int) Attr { return attr("width", strconv.Itoa(w)) }

// Height sets the height attribute.
func Height(h int) Attr { return attr("height", strconv.Itoa(h)) }

// Table attributes

// Colspan sets the colspan attribute.
func Colspan(n int) Attr { return attr("colspan", strconv.Itoa(n)) }

// Rowspan sets the rowspan attribute.
func Rowspan(n int) Attr { return attr("rowspan", strconv.Itoa(n)) }

// SVG attributes

// ViewBox sets the viewBox attribute.
func ViewBox(box string) Attr { return attr("viewBox", box) }

// Fill sets the fill attribute.
func Fill(color string) Attr { return attr("fill", color) }

// Stroke sets the stroke attribute.
func Stroke(color string) Attr { return attr("stroke", color) }

// D sets the d attribute of a path.
func D(path string) Attr { return attr("d", path) }

// Conditional attributes

// ClassIf adds a class conditionally. When the condition is false the class
// attribute is Ignored, which removes it if nothing else sets it.
func ClassIf(condition bool, class string) Attr {
	if condition {
		return attr("class", class)
	}
	return Attr{Key: "class", Value: AttrIgnored()}
}

// AttrIf adds any attribute conditionally. When the condition is false the
// attribute is Ignored.
func AttrIf(condition bool, a Attr) Attr {
	if condition {
		return a
	}
	return Attr{Key: a.Key, Value: AttrIgnored()}
}

// Classes merges multiple class values.
// Accepts string, []string, and map[string]bool. Map keys are visited in
// sorted order so the result is deterministic.
func Classes(classes ...any) Attr {
	var result []string
	for _, c := range classes {
		switch v := c.(type) {
		case string:
			if v != "" {
				result = append(result, v)
			}
		case []string:
			for _, s := range v {
				if s != "" {
					result = append(result, s)
				}
			}
		case map[string]bool:
			for _, class := range sortedKeys(v) {
				if v[class] && class != "" {
					result = append(result, class)
				}
			}
		}
	}
	return attr("class", strings.Join(result, " "))
}

// StyleProp is a single style property passed to element constructors.
type StyleProp struct {
	Name  string
	Value CSSValue
}

// Css sets one style property.
func Css(name, value string) StyleProp { return StyleProp{Name: name, Value: CSSSome(value)} }

// CssIf sets one style property conditionally. When the condition is false
// the property is Ignored.
func CssIf(condition bool, name, value string) StyleProp {
	if condition {
		return Css(name, value)
	}
	return StyleProp{Name: name, Value: CSSIgnored()}
}

// Px formats n as a CSS pixel length.
func Px(n int) string { return strconv.Itoa(n) + "px" }
