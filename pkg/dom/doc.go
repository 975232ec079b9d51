// Package dom defines the live document boundary of sprout.
//
// The patcher is the only component that issues mutation calls through these
// interfaces. Three implementations exist:
//
//   - memdom: an in-memory document used by tests, headless rendering and as the
//     server-side shadow document
//   - jsdom: the browser document through syscall/js (js/wasm builds only)
//   - wire: a memdom document whose mutations are mirrored to a remote client
//
// Every mutating method returns an error. A browser refusing a mutation (for
// example createElement with an invalid name) is reported instead of thrown, so
// the patcher can abort the render cycle.
package dom
