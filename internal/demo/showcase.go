package demo

import (
	"context"
	"strconv"
	"time"

	"github.com/vango-dev/sprout/pkg/app"
	"github.com/vango-dev/sprout/pkg/vdom"
)

// Msg is a message of the showcase app: exactly one field is set.
type Msg struct {
	Counter *CounterMsg
	Todo    *TodoMsg

	// Loaded carries the result of the load command.
	Loaded []string

	// Rendered is reported after every render that asked for it.
	Rendered time.Duration
}

// Model is the model of the showcase app, which composes the counter and
// the todo list.
type Model struct {
	Counter Counter
	Todos   Todos
	Loading bool
	Renders int
	Last    time.Duration
}

// Loader fetches the initial todos.
type Loader func(ctx context.Context) ([]string, error)

// StaticLoader returns a loader that yields items.
func StaticLoader(items ...string) Loader {
	return func(context.Context) ([]string, error) { return items, nil }
}

// ShowcaseApp returns the app served by the CLI. load runs as a command
// during Init; a nil load starts with an empty list.
func ShowcaseApp(load Loader) app.Config[Model, Msg] {
	return app.Config[Model, Msg]{
		Init: func(orders *app.Orders[Msg]) Model {
			m := Model{}
			if load != nil {
				m.Loading = true
				orders.Perform(func(ctx context.Context) (Msg, bool) {
					items, err := load(ctx)
					if err != nil {
						return Msg{Loaded: []string{}}, true
					}
					return Msg{Loaded: items}, true
				})
			}
			return m
		},
		Update: UpdateShowcase,
		View:   ViewShowcase,
		Keyed:  true,
	}
}

func counterMsg(m CounterMsg) Msg { return Msg{Counter: &m} }
func todoMsg(m TodoMsg) Msg       { return Msg{Todo: &m} }

// UpdateShowcase routes msg to the child it belongs to.
func UpdateShowcase(msg Msg, m *Model, orders *app.Orders[Msg]) {
	switch {
	case msg.Counter != nil:
		UpdateCounter(*msg.Counter, &m.Counter, app.Proxy(orders, counterMsg))
	case msg.Todo != nil:
		UpdateTodos(*msg.Todo, &m.Todos, app.Proxy(orders, todoMsg))
	case msg.Loaded != nil:
		m.Loading = false
		for _, text := range msg.Loaded {
			m.Todos.add(text)
		}
		orders.AfterRender(func(ri app.RenderInfo) (Msg, bool) {
			return Msg{Rendered: ri.TimestampDelta}, true
		})
	default:
		m.Renders++
		m.Last = msg.Rendered
		orders.SkipRender()
	}
}

// ViewShowcase renders both children.
func ViewShowcase(m *Model) *vdom.Node[Msg] {
	var h vdom.Html[Msg]
	return h.Main(
		vdom.Class("showcase"),
		h.Section(
			vdom.Class("panel"),
			h.H1("Counter"),
			vdom.MapMsg(ViewCounter(&m.Counter), counterMsg),
		),
		h.Section(
			vdom.Class("panel"),
			vdom.IfElse(m.Loading,
				h.P(vdom.Class("loading"), "Loading…"),
				vdom.MapMsg(ViewTodos(&m.Todos), todoMsg),
			),
		),
		h.Footer(vdom.Data("renders", strconv.Itoa(m.Renders))),
	)
}
