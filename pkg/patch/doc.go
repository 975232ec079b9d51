// Package patch applies vdom patches to a live document.
//
// A Patcher owns the table mapping vdom handles to live nodes and the table
// of event subscriptions. Apply walks a patch list in order; creation of new
// subtrees is shared between Replace, Append and Insert through Build.
//
// Element-level patches resolve their target through its handle. A target
// whose live node is missing or no longer attached below the mount root is
// rebuilt from the new tree, and later patches below it are skipped. Any
// other document failure aborts the cycle with a *PatchError wrapping
// ErrDocumentAPI.
//
// After every cycle the patcher sets element refs and runs did-mount hooks
// for nodes created in the cycle and did-update hooks for the rest.
// Will-unmount hooks run before a subtree is detached.
package patch
