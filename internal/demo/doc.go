// Package demo contains the example apps used by the CLI, the server and
// the tests: a counter, a keyed todo list and a showcase composing both.
package demo
