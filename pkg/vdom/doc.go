// Package vdom provides the virtual DOM of sprout.
//
// A view is a pure function from application state to a tree of Node values.
// After every update the new tree is diffed against the previous one and
// the resulting patches are applied to the live document by package patch.
//
// # Core Types
//
// Node is an element, a text node, or an Empty placeholder. Elements carry
// ordered Attrs and Style tables, Listeners, Hooks and Children. Attribute
// values are three-state (Some, None, Ignored) so boolean attributes and
// conditionally absent attributes are distinct; style values are two-state
// (Some, Ignored).
//
// Node is generic over the application's message type. MapMsg converts a
// child component's tree into the parent's message type.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	var h vdom.Html[Msg]
//	h.Div(vdom.Class("card"), vdom.ID("main"),
//	    h.H1("Title"),
//	    h.P(vdom.Css("color", "gray"), "Content"),
//	    vdom.OnClick(func(dom.Event) Msg { return Clicked }),
//	)
//
// # Diffing
//
// Diff compares two trees and returns Patch values addressed by child-index
// paths. Children are matched by position; WithKeyed enables matching by Key
// with Move and Insert patches. Listener closures cannot be compared, so
// every listener is re-registered on each diff.
//
// # Handles
//
// The patcher records the live node of every non-Empty node as a Handle.
// Diff carries handles from old to new nodes, so the tree just rendered is
// ready to serve as the old tree of the next render.
package vdom
