package driver

import (
	"time"

	"github.com/vango-dev/sprout/pkg/vdom"
)

// CycleKind identifies the driver operation that produced a Cycle.
type CycleKind uint8

const (
	CycleMount CycleKind = iota
	CycleRender
	CycleUnmount
)

// String returns the string representation of the CycleKind.
func (k CycleKind) String() string {
	switch k {
	case CycleMount:
		return "mount"
	case CycleRender:
		return "render"
	case CycleUnmount:
		return "unmount"
	default:
		return "unknown"
	}
}

// Cycle reports one driver operation.
type Cycle struct {
	Kind      CycleKind
	Start     time.Time
	Diff      time.Duration // Time spent computing patches
	Patch     time.Duration // Time spent applying them
	Ops       map[vdom.PatchOp]int
	Patches   int
	LiveNodes int // Registered live nodes after the cycle
	Err       error
}

// Duration returns the total time of the cycle.
func (c Cycle) Duration() time.Duration { return c.Diff + c.Patch }

// Observer receives a report after every cycle. Metrics and tracing
// implement it.
type Observer interface {
	ObserveCycle(Cycle)
}

// Observers fans a report out to several observers.
type Observers []Observer

// ObserveCycle implements Observer.
func (os Observers) ObserveCycle(c Cycle) {
	for _, o := range os {
		if o != nil {
			o.ObserveCycle(c)
		}
	}
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Cycle)

// ObserveCycle implements Observer.
func (f ObserverFunc) ObserveCycle(c Cycle) { f(c) }
