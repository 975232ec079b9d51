// Package vtest provides testing helpers for sprout apps.
//
// Mount starts an app on an in-memory document and returns a Harness that
// drives it the way a user would:
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.Mount(t, counterConfig())
//	    h.Click("button.inc")
//	    h.Click("button.inc")
//	    h.ExpectText("span.count", "2")
//	}
//
// Every interaction flushes the app, so assertions see the rendered result.
// Commands started with Perform run on their own goroutines; call Wait to
// let them finish and process their messages.
//
// # Render Assertions
//
// Views can also be checked without mounting, on their server-rendered HTML:
//
//	vtest.ExpectContains(t, view(&model), "Welcome")
//	vtest.ExpectAttribute(t, view(&model), "class", "btn-primary")
package vtest
