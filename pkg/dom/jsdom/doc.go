//go:build js && wasm

// Package jsdom implements the dom interfaces over the browser document
// through syscall/js.
//
// Every JS node is given a single Go wrapper (tracked by an expando property),
// so nodes returned by ChildNodes or Parent compare equal to the ones
// returned at creation. Thrown exceptions are recovered and returned as errors.
package jsdom
