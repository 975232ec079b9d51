package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vango-dev/sprout/pkg/render"
)

// Page is one exported HTML document.
type Page[Msg any] struct {
	// Name is the object name, such as "index.html".
	Name string

	// Data is rendered with Static set: exported pages do not load the
	// thin client.
	Data render.PageData[Msg]
}

// Options configures Pages.
type Options struct {
	// Renderer configures the HTML output.
	Renderer render.RendererConfig

	// Logger defaults to slog.Default() with component=export.
	Logger *slog.Logger
}

// Pages renders every page and writes it to store. It stops at the first
// failure and returns the objects written so far.
func Pages[Msg any](ctx context.Context, store Store, pages []Page[Msg], opts Options) ([]Object, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "export")
	}
	r := render.NewRenderer[Msg](opts.Renderer)

	out := make([]Object, 0, len(pages))
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		start := time.Now()

		data := p.Data
		data.Static = true
		var buf bytes.Buffer
		if err := r.RenderPage(&buf, data); err != nil {
			return out, fmt.Errorf("export: render %s: %w", p.Name, err)
		}
		obj, err := store.Put(ctx, p.Name, "text/html; charset=utf-8", &buf)
		if err != nil {
			return out, fmt.Errorf("export: write %s: %w", p.Name, err)
		}
		logger.Info("exported page",
			"name", obj.Name,
			"bytes", obj.Size,
			"url", obj.URL,
			"duration", time.Since(start))
		out = append(out, *obj)
	}
	return out, nil
}
