// Package driver mounts a vdom tree into a live container and keeps it in
// sync across renders.
//
// A Driver is Unmounted until Mount succeeds. Each Render diffs the current
// tree against the new one and applies the patches through a patch.Patcher.
// When a cycle fails the previous tree stays current and the error is
// returned; the next Render diffs from it again.
//
// The driver is not safe for concurrent use. The app package serialises
// cycles.
package driver
