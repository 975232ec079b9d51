// Package tracing records render cycles as OpenTelemetry spans.
//
//	t := tracing.New(tracing.WithTracerName("my-app"))
//	d := driver.New(doc, root, driver.Options[Msg]{Observer: t})
//
// Each cycle becomes a sprout.mount, sprout.render or sprout.unmount span
// with sprout.diff and sprout.patch children. Failed cycles record the error
// and set the span status.
package tracing
