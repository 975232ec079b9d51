//go:build !js || !wasm

package main

import (
	"fmt"
	"os"

	"github.com/vango-dev/sprout/pkg/dom/jsdom"
)

func main() {
	fmt.Fprintln(os.Stderr, jsdom.ErrUnsupported)
	os.Exit(1)
}
