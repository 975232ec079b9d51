package driver

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vango-dev/sprout/pkg/dom"
	"github.com/vango-dev/sprout/pkg/patch"
	"github.com/vango-dev/sprout/pkg/vdom"
)

// Sentinel errors for driver state.
var (
	// ErrNotMounted is returned by Render and Unmount before Mount succeeds.
	ErrNotMounted = errors.New("driver: not mounted")

	// ErrAlreadyMounted is returned by Mount on a mounted driver.
	ErrAlreadyMounted = errors.New("driver: already mounted")

	// ErrNilRoot is returned by Mount when the driver has no container.
	ErrNilRoot = errors.New("driver: nil root")
)

// Options configures a Driver.
type Options[Msg any] struct {
	// Logger defaults to slog.Default() with component=driver.
	Logger *slog.Logger

	// Keyed enables keyed reconciliation of children.
	Keyed bool

	// TakeOver adopts the container's existing content on Mount instead of
	// clearing it, so server-rendered markup is patched rather than rebuilt.
	TakeOver bool

	// Observer receives a report after every cycle.
	Observer Observer

	// Dispatch receives messages from listeners and hooks.
	Dispatch func(Msg)
}

// Driver owns the tree mounted in one container.
type Driver[Msg any] struct {
	root     dom.Element
	patcher  *patch.Patcher[Msg]
	logger   *slog.Logger
	observer Observer
	diffOpts []vdom.DiffOption
	takeOver bool

	tree    *vdom.Node[Msg]
	mounted bool

	// dirty is set when a cycle failed partway. The document then matches
	// neither the current tree nor the failed one, so the next cycle
	// rebuilds the container from scratch.
	dirty bool
}

// New creates an unmounted driver rendering into root with nodes from doc.
func New[Msg any](doc dom.Document, root dom.Element, opts Options[Msg]) *Driver[Msg] {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "driver")
	}
	d := &Driver[Msg]{
		root:     root,
		patcher:  patch.New(doc, opts.Dispatch, patch.WithLogger(logger)),
		logger:   logger,
		observer: opts.Observer,
		takeOver: opts.TakeOver,
	}
	if opts.Keyed {
		d.diffOpts = append(d.diffOpts, vdom.WithKeyed())
	}
	return d
}

// SetDispatch replaces the message callback.
func (d *Driver[Msg]) SetDispatch(dispatch func(Msg)) {
	d.patcher.SetDispatch(dispatch)
}

// Root returns the container.
func (d *Driver[Msg]) Root() dom.Element { return d.root }

// Tree returns the current tree, or nil when unmounted.
func (d *Driver[Msg]) Tree() *vdom.Node[Msg] { return d.tree }

// Mounted reports whether Mount has succeeded and Unmount has not been called.
func (d *Driver[Msg]) Mounted() bool { return d.mounted }

// Patcher returns the underlying patcher.
func (d *Driver[Msg]) Patcher() *patch.Patcher[Msg] { return d.patcher }

// Mount renders tree into the container. Existing content is removed unless
// TakeOver is set, in which case the first child is adopted and diffed
// against tree.
func (d *Driver[Msg]) Mount(tree *vdom.Node[Msg]) error {
	if d.mounted {
		return ErrAlreadyMounted
	}
	if d.root == nil {
		return ErrNilRoot
	}
	if d.dirty {
		d.patcher.Reset()
	}

	prev, err := d.prepare()
	if err != nil {
		return err
	}
	if err := d.cycle(CycleMount, prev, tree); err != nil {
		return err
	}
	d.mounted = true
	return nil
}

// prepare clears the container or adopts its content.
func (d *Driver[Msg]) prepare() (*vdom.Node[Msg], error) {
	kids := d.root.ChildNodes()
	if !d.takeOver || d.dirty || len(kids) == 0 {
		if err := dom.RemoveChildren(d.root); err != nil {
			return nil, fmt.Errorf("driver: clear root: %w", err)
		}
		return nil, nil
	}

	for _, extra := range kids[1:] {
		if err := d.root.RemoveChild(extra); err != nil {
			return nil, fmt.Errorf("driver: clear root: %w", err)
		}
	}
	prev := vdom.FromLive[Msg](kids[0])
	if err := d.patcher.Adopt(prev, kids[0]); err != nil {
		return nil, fmt.Errorf("driver: take over: %w", err)
	}
	d.logger.Debug("took over existing content", "elements", vdom.CountElements(prev))
	return prev, nil
}

// Render patches the container from the current tree to tree. On failure
// the current tree is kept and the next Render rebuilds the container.
func (d *Driver[Msg]) Render(tree *vdom.Node[Msg]) error {
	if !d.mounted {
		return ErrNotMounted
	}
	prev := d.tree
	if d.dirty {
		if err := d.reset(); err != nil {
			return err
		}
		prev = nil
	}
	return d.cycle(CycleRender, prev, tree)
}

// reset drops the live state left by a failed cycle and empties the
// container.
func (d *Driver[Msg]) reset() error {
	d.logger.Warn("rebuilding container after failed render")
	d.patcher.Reset()
	if err := dom.RemoveChildren(d.root); err != nil {
		return fmt.Errorf("driver: clear root: %w", err)
	}
	return nil
}

// Dirty reports whether the last cycle failed, so that the next one
// rebuilds the container.
func (d *Driver[Msg]) Dirty() bool { return d.dirty }

func (d *Driver[Msg]) cycle(kind CycleKind, prev, next *vdom.Node[Msg]) error {
	c := Cycle{Kind: kind, Start: time.Now()}

	patches := vdom.Diff(prev, next, d.diffOpts...)
	c.Diff = time.Since(c.Start)
	c.Ops = vdom.CountOps(patches)
	c.Patches = len(patches)

	err := d.patcher.Apply(d.root, next, patches)
	c.Patch = time.Since(c.Start) - c.Diff
	c.LiveNodes = d.patcher.Len()
	c.Err = err
	d.observe(c)

	if err != nil {
		d.dirty = true
		d.logger.Error("render failed",
			"cycle", kind.String(),
			"patches", c.Patches,
			"error", err)
		return err
	}
	d.dirty = false
	d.tree = next
	d.logger.Debug("render cycle",
		"cycle", kind.String(),
		"patches", c.Patches,
		"duration", c.Duration())
	return nil
}

// Unmount runs will-unmount hooks, empties the container and returns the
// driver to the unmounted state.
func (d *Driver[Msg]) Unmount() error {
	if !d.mounted {
		return ErrNotMounted
	}
	c := Cycle{Kind: CycleUnmount, Start: time.Now()}
	var err error
	if d.dirty {
		d.patcher.Reset()
	} else {
		err = d.patcher.Detach(d.tree)
	}
	if err == nil {
		err = dom.RemoveChildren(d.root)
	}
	c.Patch = time.Since(c.Start)
	c.LiveNodes = d.patcher.Len()
	c.Err = err
	d.observe(c)
	if err != nil {
		return fmt.Errorf("driver: unmount: %w", err)
	}
	d.tree = nil
	d.mounted = false
	d.dirty = false
	return nil
}

func (d *Driver[Msg]) observe(c Cycle) {
	if d.observer != nil {
		d.observer.ObserveCycle(c)
	}
}
