package demo

import (
	"strconv"

	"github.com/vango-dev/sprout/pkg/app"
	"github.com/vango-dev/sprout/pkg/vdom"
)

// CounterMsg is a message of the counter app.
type CounterMsg uint8

const (
	Increment CounterMsg = iota + 1
	Decrement
	Reset
)

// String returns the string representation of the message.
func (m CounterMsg) String() string {
	switch m {
	case Increment:
		return "Increment"
	case Decrement:
		return "Decrement"
	case Reset:
		return "Reset"
	default:
		return "CounterMsg(" + strconv.Itoa(int(m)) + ")"
	}
}

// Counter is the model of the counter app.
type Counter struct {
	Count int
}

// CounterApp returns the counter app starting at start.
func CounterApp(start int) app.Config[Counter, CounterMsg] {
	return app.Config[Counter, CounterMsg]{
		Init:   func(*app.Orders[CounterMsg]) Counter { return Counter{Count: start} },
		Update: UpdateCounter,
		View:   ViewCounter,
	}
}

// UpdateCounter applies msg to the counter.
func UpdateCounter(msg CounterMsg, m *Counter, orders *app.Orders[CounterMsg]) {
	switch msg {
	case Increment:
		m.Count++
	case Decrement:
		m.Count--
	case Reset:
		if m.Count == 0 {
			orders.SkipRender()
		}
		m.Count = 0
	}
}

// ViewCounter renders the counter.
func ViewCounter(m *Counter) *vdom.Node[CounterMsg] {
	var h vdom.Html[CounterMsg]
	return h.Div(
		vdom.Class("counter"),
		h.Button(vdom.Class("dec"), vdom.OnSimple("click", Decrement), "-"),
		h.Span(
			vdom.Class("count"),
			vdom.ClassIf(m.Count < 0, "negative"),
			vdom.CssIf(m.Count < 0, "color", "crimson"),
			strconv.Itoa(m.Count),
		),
		h.Button(vdom.Class("inc"), vdom.OnSimple("click", Increment), "+"),
		h.Button(vdom.Class("reset"), vdom.Disabled(m.Count == 0), vdom.OnSimple("click", Reset), "Reset"),
	)
}
