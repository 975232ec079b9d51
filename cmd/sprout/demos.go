package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/vango-dev/sprout/internal/demo"
	"github.com/vango-dev/sprout/internal/errors"
	"github.com/vango-dev/sprout/pkg/app"
	"github.com/vango-dev/sprout/pkg/dom/memdom"
	"github.com/vango-dev/sprout/pkg/export"
	"github.com/vango-dev/sprout/pkg/render"
	"github.com/vango-dev/sprout/pkg/server"
	"github.com/vango-dev/sprout/pkg/vdom"
)

// sampleTodos seeds the todo and showcase demos.
var sampleTodos = []string{
	"Water the seedlings",
	"Repot the basil",
	"Label the trays",
	"Order compost",
	"Check the drip line",
}

// runOptions carries the settings every command applies to a demo.
type runOptions struct {
	// keyed turns on keyed reconciliation for demos that do not use it.
	keyed    bool
	renderer render.RendererConfig
	logger   *slog.Logger
}

// demoApp hides the model and message types of a demo behind closures, so
// commands can treat every demo alike.
type demoApp struct {
	name  string
	title string

	// page renders the initial view as a complete document.
	page func(w io.Writer, static bool, opts runOptions) error

	// serve runs the demo in server-driven mode until ctx is done.
	serve func(ctx context.Context, sc *server.ServerConfig, opts runOptions) error

	// export writes the initial view to store as name.
	export func(ctx context.Context, store export.Store, name string, opts runOptions) ([]export.Object, error)

	// diff returns the patches between the views of states from and to.
	// Listener re-registration is left out unless listeners is set.
	diff func(from, to int, keyed, listeners bool) []string
}

var demos = map[string]demoApp{
	"counter": newDemo("counter", "Counter",
		func() app.Config[demo.Counter, demo.CounterMsg] { return demo.CounterApp(0) },
		func(n int) *vdom.Node[demo.CounterMsg] {
			return demo.ViewCounter(&demo.Counter{Count: n})
		}),
	"todo": newDemo("todo", "Todos",
		func() app.Config[demo.Todos, demo.TodoMsg] { return demo.TodoApp(sampleTodos[:3]...) },
		func(n int) *vdom.Node[demo.TodoMsg] {
			m := demo.NewTodos(sampleTodos[:clamp(n, len(sampleTodos))]...)
			return demo.ViewTodos(&m)
		}),
	"showcase": newDemo("showcase", "Sprout showcase",
		func() app.Config[demo.Model, demo.Msg] {
			return demo.ShowcaseApp(demo.StaticLoader(sampleTodos...))
		},
		func(n int) *vdom.Node[demo.Msg] {
			return demo.ViewShowcase(&demo.Model{
				Counter: demo.Counter{Count: n},
				Todos:   demo.NewTodos(sampleTodos[:clamp(n, len(sampleTodos))]...),
			})
		}),
}

func clamp(n, max int) int {
	if n < 0 {
		return 0
	}
	if n > max {
		return max
	}
	return n
}

// demoNames returns the registered demo names, sorted.
func demoNames() []string {
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// lookupDemo returns the demo called name.
func lookupDemo(name string) (demoApp, error) {
	d, ok := demos[name]
	if !ok {
		return demoApp{}, errors.New("E142").
			WithDetail(fmt.Sprintf("No demo called %q.", name)).
			WithSuggestion("Use one of: " + strings.Join(demoNames(), ", "))
	}
	return d, nil
}

func newDemo[Model, Msg any](name, title string, factory func() app.Config[Model, Msg], state func(n int) *vdom.Node[Msg]) demoApp {
	configure := func(opts runOptions) func() app.Config[Model, Msg] {
		return func() app.Config[Model, Msg] {
			cfg := factory()
			cfg.Keyed = cfg.Keyed || opts.keyed
			if cfg.Logger == nil {
				cfg.Logger = opts.logger
			}
			return cfg
		}
	}
	return demoApp{
		name:  name,
		title: title,
		page: func(w io.Writer, static bool, opts runOptions) error {
			tree, err := initialView(configure(opts)())
			if err != nil {
				return err
			}
			return render.NewRenderer[Msg](opts.renderer).RenderPage(w, render.PageData[Msg]{
				Body:         tree,
				Title:        title,
				ClientScript: server.ClientPath,
				SocketPath:   server.SocketPath,
				Static:       static,
			})
		},
		serve: func(ctx context.Context, sc *server.ServerConfig, opts runOptions) error {
			if sc.Title == "" {
				sc.Title = title
			}
			return server.New(sc, configure(opts)).ListenAndServe(ctx)
		},
		export: func(ctx context.Context, store export.Store, page string, opts runOptions) ([]export.Object, error) {
			tree, err := initialView(configure(opts)())
			if err != nil {
				return nil, err
			}
			return export.Pages(ctx, store, []export.Page[Msg]{{
				Name: page,
				Data: render.PageData[Msg]{Body: tree, Title: title},
			}}, export.Options{Renderer: opts.renderer, Logger: opts.logger})
		},
		diff: func(from, to int, keyed, listeners bool) []string {
			var opts []vdom.DiffOption
			if keyed {
				opts = append(opts, vdom.WithKeyed())
			}
			patches := vdom.Diff(state(from), state(to), opts...)
			out := make([]string, 0, len(patches))
			for _, p := range patches {
				if !listeners && (p.Op == vdom.PatchAddListener || p.Op == vdom.PatchRemoveListener) {
					continue
				}
				out = append(out, p.String())
			}
			return out
		},
	}
}

// initialView starts cfg on a detached memdom document and returns the
// tree of its first render. Commands started by Init are cancelled.
func initialView[Model, Msg any](cfg app.Config[Model, Msg]) (*vdom.Node[Msg], error) {
	doc := memdom.New()
	a := app.New(cfg)
	if err := a.Start(doc, doc.Element("div")); err != nil {
		return nil, err
	}
	tree := a.Driver().Tree()
	if err := a.Stop(); err != nil && cfg.Logger != nil {
		cfg.Logger.Debug("stop after render", "error", err)
	}
	return tree, nil
}
