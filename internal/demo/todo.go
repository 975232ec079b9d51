package demo

import (
	"strconv"
	"strings"

	"github.com/vango-dev/sprout/pkg/app"
	"github.com/vango-dev/sprout/pkg/vdom"
)

// Filter selects which todos are shown.
type Filter uint8

const (
	ShowAll Filter = iota
	ShowActive
	ShowDone
)

// String returns the string representation of the filter.
func (f Filter) String() string {
	switch f {
	case ShowActive:
		return "active"
	case ShowDone:
		return "done"
	default:
		return "all"
	}
}

// TodoAction is the kind of a TodoMsg.
type TodoAction uint8

const (
	SetDraft TodoAction = iota + 1
	AddTodo
	ToggleTodo
	RemoveTodo
	ClearDone
	SetFilter
)

// TodoMsg is a message of the todo app. ID, Text and Filter are used by the
// actions that need them.
type TodoMsg struct {
	Action TodoAction
	ID     int
	Text   string
	Filter Filter
}

// Item is one todo.
type Item struct {
	ID   int
	Text string
	Done bool
}

// Todos is the model of the todo app.
type Todos struct {
	Items  []Item
	Draft  string
	Filter Filter
	NextID int
}

// TodoApp returns the todo app seeded with items. Its list is rendered with
// keyed reconciliation, so reordering and removal keep each row's DOM.
func TodoApp(items ...string) app.Config[Todos, TodoMsg] {
	return app.Config[Todos, TodoMsg]{
		Init: func(*app.Orders[TodoMsg]) Todos {
			return NewTodos(items...)
		},
		Update: UpdateTodos,
		View:   ViewTodos,
		Keyed:  true,
	}
}

// NewTodos returns a list holding items, numbered from 1.
func NewTodos(items ...string) Todos {
	var m Todos
	for _, text := range items {
		m.add(text)
	}
	return m
}

func (m *Todos) add(text string) {
	m.NextID++
	m.Items = append(m.Items, Item{ID: m.NextID, Text: text})
}

// Remaining returns the number of items not done.
func (m *Todos) Remaining() int {
	n := 0
	for _, it := range m.Items {
		if !it.Done {
			n++
		}
	}
	return n
}

// Visible returns the items the filter selects.
func (m *Todos) Visible() []Item {
	var out []Item
	for _, it := range m.Items {
		switch {
		case m.Filter == ShowActive && it.Done:
		case m.Filter == ShowDone && !it.Done:
		default:
			out = append(out, it)
		}
	}
	return out
}

// UpdateTodos applies msg to the list.
func UpdateTodos(msg TodoMsg, m *Todos, orders *app.Orders[TodoMsg]) {
	switch msg.Action {
	case SetDraft:
		m.Draft = msg.Text
	case AddTodo:
		text := strings.TrimSpace(m.Draft)
		if text == "" {
			orders.SkipRender()
			return
		}
		m.add(text)
		m.Draft = ""
	case ToggleTodo:
		for i := range m.Items {
			if m.Items[i].ID == msg.ID {
				m.Items[i].Done = !m.Items[i].Done
			}
		}
	case RemoveTodo:
		m.Items = deleteItem(m.Items, msg.ID)
	case ClearDone:
		kept := m.Items[:0]
		for _, it := range m.Items {
			if !it.Done {
				kept = append(kept, it)
			}
		}
		m.Items = kept
	case SetFilter:
		m.Filter = msg.Filter
	}
}

func deleteItem(items []Item, id int) []Item {
	for i, it := range items {
		if it.ID == id {
			return append(items[:i:i], items[i+1:]...)
		}
	}
	return items
}

// ViewTodos renders the list.
func ViewTodos(m *Todos) *vdom.Node[TodoMsg] {
	var h vdom.Html[TodoMsg]
	return h.Section(
		vdom.Class("todos"),
		h.Header(
			h.H1("Todos"),
			h.Input(
				vdom.Class("new-todo"),
				vdom.Placeholder("What needs to be done?"),
				vdom.Value(m.Draft),
				vdom.OnInputValue(func(v string) TodoMsg { return TodoMsg{Action: SetDraft, Text: v} }),
				vdom.OnKey("Enter", TodoMsg{Action: AddTodo}),
			),
			h.Button(vdom.Class("add"), vdom.OnSimple("click", TodoMsg{Action: AddTodo}), "Add"),
		),
		h.Ul(
			vdom.Class("todo-list"),
			vdom.Keyed(m.Visible(), func(it Item) string { return strconv.Itoa(it.ID) }, viewItem),
		),
		vdom.If(len(m.Items) > 0, viewFooter(m)),
	)
}

func viewItem(it Item) *vdom.Node[TodoMsg] {
	var h vdom.Html[TodoMsg]
	return h.Li(
		vdom.ClassIf(it.Done, "done"),
		h.Input(
			vdom.Type("checkbox"),
			vdom.Class("toggle"),
			vdom.Checked(it.Done),
			vdom.OnSimple("change", TodoMsg{Action: ToggleTodo, ID: it.ID}),
		),
		h.Label(it.Text),
		h.Button(vdom.Class("remove"), vdom.OnSimple("click", TodoMsg{Action: RemoveTodo, ID: it.ID}), "×"),
	)
}

func viewFooter(m *Todos) *vdom.Node[TodoMsg] {
	var h vdom.Html[TodoMsg]
	left := m.Remaining()
	word := "items"
	if left == 1 {
		word = "item"
	}
	filter := func(f Filter, label string) *vdom.Node[TodoMsg] {
		return h.Button(
			vdom.Class("filter", f.String()),
			vdom.ClassIf(m.Filter == f, "selected"),
			vdom.OnSimple("click", TodoMsg{Action: SetFilter, Filter: f}),
			label,
		)
	}
	return h.Footer(
		h.Span(vdom.Class("remaining"), h.Strong(strconv.Itoa(left)), " "+word+" left"),
		h.Nav(
			filter(ShowAll, "All"),
			filter(ShowActive, "Active"),
			filter(ShowDone, "Done"),
		),
		vdom.If(left < len(m.Items),
			h.Button(vdom.Class("clear"), vdom.OnSimple("click", TodoMsg{Action: ClearDone}), "Clear done"),
		),
	)
}
