// Package memdom is an in-memory implementation of the dom interfaces.
//
// It is used by tests, by headless rendering, and as the shadow document of
// server-driven sessions. Beyond the dom contract it provides:
//
//   - name and namespace validation that mirrors browser failures
//   - operation counters (Stats) and fault injection (FailNext)
//   - mutation observers (Observe), consumed by the wire package
//   - synthetic event dispatch with bubbling (Dispatch, Click, Input)
//   - HTML serialisation and a small selector engine for assertions
package memdom
