//go:build !js || !wasm

// Package jsdom implements the dom interfaces over the browser document.
// On targets other than js/wasm every constructor reports ErrUnsupported.
package jsdom

import (
	"errors"

	"github.com/vango-dev/sprout/pkg/dom"
)

// ErrUnsupported is returned on targets without a browser document.
var ErrUnsupported = errors.New("jsdom: browser document requires GOOS=js GOARCH=wasm")

// Document is unavailable on this target.
type Document struct{}

// New returns a Document whose methods all fail.
func New() *Document { return &Document{} }

// Supported reports whether a browser document is available.
func Supported() bool { return false }

func (d *Document) ElementByID(string) (dom.Element, error) { return nil, ErrUnsupported }

func (d *Document) CreateElement(string) (dom.Element, error) { return nil, ErrUnsupported }

func (d *Document) CreateElementNS(string, string) (dom.Element, error) { return nil, ErrUnsupported }

func (d *Document) CreateTextNode(string) (dom.Node, error) { return nil, ErrUnsupported }

func (d *Document) Forget(dom.Node) {}
