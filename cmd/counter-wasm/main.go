//go:build js && wasm

// Command counter-wasm runs the counter demo in the browser, patching the
// page's DOM directly.
//
//	GOOS=js GOARCH=wasm go build -o counter.wasm ./cmd/counter-wasm
//
// The page needs wasm_exec.js and an element with id "sprout-root"; its
// server-rendered content is taken over rather than cleared.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/vango-dev/sprout/internal/demo"
	"github.com/vango-dev/sprout/pkg/app"
	"github.com/vango-dev/sprout/pkg/dom/jsdom"
	"github.com/vango-dev/sprout/pkg/render"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("component", "counter-wasm")

	doc := jsdom.New()
	root, err := doc.ElementByID(render.DefaultRootID)
	if err != nil {
		logger.Error("mount point not found", "id", render.DefaultRootID, "error", err)
		os.Exit(1)
	}

	cfg := demo.CounterApp(0)
	cfg.Logger = logger
	cfg.TakeOver = true
	cfg.OnError = func(err error) {
		logger.Error("render failed", "error", err)
	}

	a := app.New(cfg)
	if err := a.Start(doc, root); err != nil {
		logger.Error("start failed", "error", err)
		os.Exit(1)
	}
	logger.Info("mounted")

	// The page owns the lifetime of the module.
	a.Run(context.Background())
}
