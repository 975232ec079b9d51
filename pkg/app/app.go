package app

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/vango-dev/sprout/pkg/dom"
	"github.com/vango-dev/sprout/pkg/driver"
	"github.com/vango-dev/sprout/pkg/vdom"
)

var (
	// ErrNotStarted is returned by Flush and Stop before Start.
	ErrNotStarted = errors.New("app: not started")

	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("app: already started")

	// ErrStopped is returned by Start and Flush after Stop.
	ErrStopped = errors.New("app: stopped")
)

// Config describes an application: its model, how messages change it and how
// it is viewed.
type Config[Model, Msg any] struct {
	// Init returns the initial model. It may use orders like Update does.
	Init func(orders *Orders[Msg]) Model

	// Update applies msg to the model.
	Update func(msg Msg, model *Model, orders *Orders[Msg])

	// View returns the tree for the model. It must not keep the pointer.
	View func(model *Model) *vdom.Node[Msg]

	// OnError receives render failures. The failing view is dropped and the
	// previous one stays mounted.
	OnError func(error)

	// Logger defaults to slog.Default() with component=app.
	Logger *slog.Logger

	Keyed    bool
	TakeOver bool
	Observer driver.Observer
}

// App runs the update/view loop for one mounted tree.
//
// Send may be called from any goroutine. Update and View only run inside
// Flush, which Run calls whenever messages are queued.
type App[Model, Msg any] struct {
	cfg    Config[Model, Msg]
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	cmds   sync.WaitGroup

	qmu   sync.Mutex
	queue []Msg
	wake  chan struct{}

	smu     sync.Mutex
	subs    map[reflect.Type][]subscription[Msg]
	lastSub uint64

	// mu serializes Start, Flush and Stop.
	mu         sync.Mutex
	model      Model
	driver     *driver.Driver[Msg]
	after      []func(RenderInfo) (Msg, bool)
	lastRender time.Time
	started    bool
	stopped    bool
}

type subscription[Msg any] struct {
	id      uint64
	handler func(any) (Msg, bool)
}

// New returns an app for cfg. Init, Update and View are required.
func New[Model, Msg any](cfg Config[Model, Msg]) *App[Model, Msg] {
	if cfg.Init == nil || cfg.Update == nil || cfg.View == nil {
		panic("app: Config needs Init, Update and View")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default().With("component", "app")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &App[Model, Msg]{
		cfg:    cfg,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		wake:   make(chan struct{}, 1),
		subs:   make(map[reflect.Type][]subscription[Msg]),
	}
}

// Start initializes the model, mounts its view into root and processes the
// messages Init queued.
func (a *App[Model, Msg]) Start(doc dom.Document, root dom.Element) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return ErrStopped
	}
	if a.started {
		return ErrAlreadyStarted
	}

	a.driver = driver.New(doc, root, driver.Options[Msg]{
		Logger:   a.logger,
		Keyed:    a.cfg.Keyed,
		TakeOver: a.cfg.TakeOver,
		Observer: a.cfg.Observer,
		Dispatch: a.Send,
	})

	should := Render
	a.model = a.cfg.Init(a.orders(&should))
	if err := a.driver.Mount(a.cfg.View(&a.model)); err != nil {
		return err
	}
	a.started = true
	a.rendered()
	return a.drain()
}

// Send queues msg for the next Flush. It never blocks.
func (a *App[Model, Msg]) Send(msg Msg) {
	a.qmu.Lock()
	a.queue = append(a.queue, msg)
	a.qmu.Unlock()
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued messages.
func (a *App[Model, Msg]) Pending() int {
	a.qmu.Lock()
	defer a.qmu.Unlock()
	return len(a.queue)
}

// Flush processes queued messages until the queue is empty, rendering once
// per batch. It returns the render errors it met; they have also been passed
// to OnError.
func (a *App[Model, Msg]) Flush() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return ErrStopped
	}
	if !a.started {
		return ErrNotStarted
	}
	return a.drain()
}

// Run flushes whenever messages arrive until ctx is done, then stops the app.
func (a *App[Model, Msg]) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			if err := a.Stop(); err != nil && !errors.Is(err, ErrStopped) {
				a.logger.Warn("stop failed", "error", err)
			}
			return ctx.Err()
		case <-a.wake:
			if err := a.Flush(); errors.Is(err, ErrStopped) {
				return err
			}
		}
	}
}

// Wake receives a value whenever messages are queued. It is for callers that
// drive Flush from their own loop instead of Run; do not use both.
func (a *App[Model, Msg]) Wake() <-chan struct{} {
	return a.wake
}

// Notify delivers v to the subscribers of its dynamic type and queues their
// messages. It may be called from any goroutine.
func (a *App[Model, Msg]) Notify(v any) {
	if v == nil {
		return
	}
	a.smu.Lock()
	subs := slices.Clone(a.subs[reflect.TypeOf(v)])
	a.smu.Unlock()
	for _, sub := range subs {
		if msg, ok := a.handle(sub.handler, v); ok {
			a.Send(msg)
		}
	}
}

// handle runs one subscription handler, logging a panic.
func (a *App[Model, Msg]) handle(fn func(any) (Msg, bool), v any) (msg Msg, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("subscription panic", "notification", reflect.TypeOf(v).String(), "panic", r)
			ok = false
		}
	}()
	return fn(v)
}

// Subscriptions returns the number of active subscriptions.
func (a *App[Model, Msg]) Subscriptions() int {
	a.smu.Lock()
	defer a.smu.Unlock()
	n := 0
	for _, subs := range a.subs {
		n += len(subs)
	}
	return n
}

// Wait blocks until every command and stream has finished.
func (a *App[Model, Msg]) Wait() {
	a.cmds.Wait()
}

// Stop cancels running commands, waits for them and unmounts the view. It
// must not be called from Update.
func (a *App[Model, Msg]) Stop() error {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return ErrStopped
	}
	a.stopped = true
	a.cancel()
	a.mu.Unlock()

	a.smu.Lock()
	clear(a.subs)
	a.smu.Unlock()

	a.cmds.Wait()

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.started {
		return nil
	}
	return a.driver.Unmount()
}

// Model returns a copy of the current model.
func (a *App[Model, Msg]) Model() Model {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.model
}

// Driver returns the driver, or nil before Start.
func (a *App[Model, Msg]) Driver() *driver.Driver[Msg] {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.driver
}

func (a *App[Model, Msg]) take() (Msg, bool) {
	a.qmu.Lock()
	defer a.qmu.Unlock()
	if len(a.queue) == 0 {
		var zero Msg
		return zero, false
	}
	msg := a.queue[0]
	var zero Msg
	a.queue[0] = zero
	a.queue = a.queue[1:]
	return msg, true
}

// drain is Flush with a.mu held. Messages queued while rendering, by hooks
// or after-render callbacks, start another batch.
func (a *App[Model, Msg]) drain() error {
	var errs []error
	for {
		processed, dirty := false, false
		for {
			msg, ok := a.take()
			if !ok {
				break
			}
			processed = true
			should := Render
			a.cfg.Update(msg, &a.model, a.orders(&should))
			switch should {
			case ForceRenderNow:
				if err := a.render(); err != nil {
					errs = append(errs, err)
				}
				dirty = false
			case Render:
				dirty = true
			}
		}
		if dirty {
			if err := a.render(); err != nil {
				errs = append(errs, err)
			}
		}
		if !processed {
			return errors.Join(errs...)
		}
	}
}

func (a *App[Model, Msg]) render() error {
	if err := a.driver.Render(a.cfg.View(&a.model)); err != nil {
		if a.cfg.OnError != nil {
			a.cfg.OnError(err)
		}
		return err
	}
	a.rendered()
	return nil
}

// rendered records the render time and runs after-render callbacks.
func (a *App[Model, Msg]) rendered() {
	now := time.Now()
	info := RenderInfo{Timestamp: now}
	if !a.lastRender.IsZero() {
		info.TimestampDelta = now.Sub(a.lastRender)
	}
	a.lastRender = now

	after := a.after
	a.after = nil
	for _, fn := range after {
		if msg, ok := fn(info); ok {
			a.Send(msg)
		}
	}
}

func (a *App[Model, Msg]) orders(should *ShouldRender) *Orders[Msg] {
	return &Orders[Msg]{
		send:        a.Send,
		perform:     a.perform,
		stream:      a.stream,
		subscribe:   a.subscribe,
		notify:      a.Notify,
		afterRender: func(fn func(RenderInfo) (Msg, bool)) { a.after = append(a.after, fn) },
		should:      should,
	}
}

// perform runs cmd with a context of its own, cancelled by the handle or
// when the app stops.
func (a *App[Model, Msg]) perform(cmd func(context.Context) (Msg, bool)) *Handle {
	if a.stopped {
		return newHandle(nil)
	}
	ctx, cancel := context.WithCancel(a.ctx)
	a.cmds.Add(1)
	go func() {
		defer a.cmds.Done()
		defer cancel()
		msg, ok := a.call(ctx, cmd)
		if ok && ctx.Err() == nil {
			a.Send(msg)
		}
	}()
	return newHandle(cancel)
}

// call runs a command, logging a panic instead of crashing the app.
func (a *App[Model, Msg]) call(ctx context.Context, cmd func(context.Context) (Msg, bool)) (msg Msg, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("command panic", "panic", r)
			ok = false
		}
	}()
	return cmd(ctx)
}

func (a *App[Model, Msg]) stream(s Stream[Msg]) *Handle {
	if a.stopped {
		return newHandle(nil)
	}
	ctx, cancel := context.WithCancel(a.ctx)
	a.cmds.Add(1)
	go func() {
		defer a.cmds.Done()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				a.logger.Error("stream panic", "panic", r)
			}
		}()
		s(ctx, func(msg Msg) {
			if ctx.Err() == nil {
				a.Send(msg)
			}
		})
	}()
	return newHandle(cancel)
}

func (a *App[Model, Msg]) subscribe(t reflect.Type, fn func(any) (Msg, bool)) *Handle {
	if a.stopped {
		return newHandle(nil)
	}
	a.smu.Lock()
	defer a.smu.Unlock()
	a.lastSub++
	id := a.lastSub
	a.subs[t] = append(a.subs[t], subscription[Msg]{id: id, handler: fn})
	return newHandle(func() {
		a.smu.Lock()
		defer a.smu.Unlock()
		a.subs[t] = slices.DeleteFunc(a.subs[t], func(s subscription[Msg]) bool { return s.id == id })
		if len(a.subs[t]) == 0 {
			delete(a.subs, t)
		}
	})
}
