package app

import (
	"context"
	"reflect"
	"time"
)

// ShouldRender controls rendering after an update.
type ShouldRender uint8

const (
	// Render schedules one render for the current batch of messages.
	Render ShouldRender = iota
	// ForceRenderNow renders right after this update, before the rest of the batch.
	ForceRenderNow
	// Skip leaves the view untouched for this update.
	Skip
)

// RenderInfo is passed to after-render callbacks.
type RenderInfo struct {
	Timestamp time.Time

	// TimestampDelta is the time since the previous render; zero after the
	// first one.
	TimestampDelta time.Duration
}

// Orders lets Update request effects: more messages, commands, streams,
// notifications, render control and after-render callbacks. An Orders is
// only valid during the Init or Update call it was passed to; the handles it
// returns stay valid.
type Orders[Msg any] struct {
	send        func(Msg)
	perform     func(func(context.Context) (Msg, bool)) *Handle
	stream      func(Stream[Msg]) *Handle
	subscribe   func(reflect.Type, func(any) (Msg, bool)) *Handle
	notify      func(any)
	afterRender func(func(RenderInfo) (Msg, bool))
	should      *ShouldRender
}

// Send queues msg. It is processed after the current message, before the
// batch is rendered.
func (o *Orders[Msg]) Send(msg Msg) *Orders[Msg] {
	o.send(msg)
	return o
}

// Perform runs cmd on its own goroutine and queues its message, if any. The
// context is cancelled when the app stops.
func (o *Orders[Msg]) Perform(cmd func(ctx context.Context) (Msg, bool)) *Orders[Msg] {
	if cmd != nil {
		o.perform(cmd)
	}
	return o
}

// PerformWithHandle is Perform returning a handle that cancels the
// command's context and discards its message.
func (o *Orders[Msg]) PerformWithHandle(cmd func(ctx context.Context) (Msg, bool)) *Handle {
	if cmd == nil {
		return newHandle(nil)
	}
	return o.perform(cmd)
}

// Cmd is Perform for commands that always produce a message.
func (o *Orders[Msg]) Cmd(cmd func(ctx context.Context) Msg) *Orders[Msg] {
	if cmd == nil {
		return o
	}
	return o.Perform(func(ctx context.Context) (Msg, bool) { return cmd(ctx), true })
}

// Stream runs s on its own goroutine until the app stops.
func (o *Orders[Msg]) Stream(s Stream[Msg]) *Orders[Msg] {
	o.StreamWithHandle(s)
	return o
}

// StreamWithHandle runs s until the app stops or the handle is cancelled.
func (o *Orders[Msg]) StreamWithHandle(s Stream[Msg]) *Handle {
	if s == nil {
		return newHandle(nil)
	}
	return o.stream(s)
}

// Notify delivers v to the subscribers of its dynamic type. Their messages
// are queued after the ones already sent by this update.
func (o *Orders[Msg]) Notify(v any) *Orders[Msg] {
	if v != nil {
		o.notify(v)
	}
	return o
}

// Subscribe registers handler for notifications of type T, sent with
// Orders.Notify or App.Notify by any component. The subscription lasts
// until the app stops or the handle is cancelled.
func Subscribe[T, Msg any](o *Orders[Msg], handler func(T) (Msg, bool)) *Handle {
	if handler == nil {
		return newHandle(nil)
	}
	return o.subscribe(reflect.TypeOf((*T)(nil)).Elem(), func(v any) (Msg, bool) {
		return handler(v.(T))
	})
}

// Render requests a render for this update. It is the default.
func (o *Orders[Msg]) Render() *Orders[Msg] {
	*o.should = Render
	return o
}

// ForceRenderNow renders immediately after this update.
func (o *Orders[Msg]) ForceRenderNow() *Orders[Msg] {
	*o.should = ForceRenderNow
	return o
}

// SkipRender leaves the view untouched for this update.
func (o *Orders[Msg]) SkipRender() *Orders[Msg] {
	*o.should = Skip
	return o
}

// AfterRender registers fn to run once after the next render. Its message,
// if any, is queued.
func (o *Orders[Msg]) AfterRender(fn func(RenderInfo) (Msg, bool)) *Orders[Msg] {
	if fn != nil {
		o.afterRender(fn)
	}
	return o
}

// Proxy returns orders for a child component whose messages are wrapped by
// f before reaching the parent. Render control is shared with o.
func Proxy[Child, Parent any](o *Orders[Parent], f func(Child) Parent) *Orders[Child] {
	return &Orders[Child]{
		send: func(c Child) { o.send(f(c)) },
		perform: func(cmd func(context.Context) (Child, bool)) *Handle {
			return o.perform(func(ctx context.Context) (Parent, bool) {
				return mapResult(f)(cmd(ctx))
			})
		},
		stream: func(s Stream[Child]) *Handle {
			return o.stream(func(ctx context.Context, send func(Parent)) {
				s(ctx, func(c Child) { send(f(c)) })
			})
		},
		subscribe: func(t reflect.Type, fn func(any) (Child, bool)) *Handle {
			return o.subscribe(t, func(v any) (Parent, bool) {
				return mapResult(f)(fn(v))
			})
		},
		notify: o.notify,
		afterRender: func(fn func(RenderInfo) (Child, bool)) {
			o.afterRender(func(ri RenderInfo) (Parent, bool) {
				return mapResult(f)(fn(ri))
			})
		},
		should: o.should,
	}
}

func mapResult[A, B any](f func(A) B) func(A, bool) (B, bool) {
	return func(a A, ok bool) (B, bool) {
		if !ok {
			var zero B
			return zero, false
		}
		return f(a), true
	}
}
