package app

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Stream produces messages until ctx is done. send may be called from the
// stream's goroutine only while ctx is live; the stream must return once ctx
// is done.
type Stream[Msg any] func(ctx context.Context, send func(Msg))

// Interval sends fn() every d.
func Interval[Msg any](d time.Duration, fn func() Msg) Stream[Msg] {
	return func(ctx context.Context, send func(Msg)) {
		t := time.NewTicker(d)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				send(fn())
			}
		}
	}
}

// Channel forwards every value received from ch, mapped by fn, until ch is
// closed.
func Channel[T, Msg any](ch <-chan T, fn func(T) Msg) Stream[Msg] {
	return func(ctx context.Context, send func(Msg)) {
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-ch:
				if !ok {
					return
				}
				send(fn(v))
			}
		}
	}
}

// Backoff sends fn(retry) for retry = 1, 2, ... after truncated exponential
// waits: about a second, then doubling with jitter, never longer than maxWait.
// It is meant for reconnect loops that cancel the stream once they succeed.
// A maxWait of zero means backoff.DefaultMaxInterval.
func Backoff[Msg any](maxWait time.Duration, fn func(retry int) Msg) Stream[Msg] {
	if maxWait <= 0 {
		maxWait = backoff.DefaultMaxInterval
	}
	return func(ctx context.Context, send func(Msg)) {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = min(time.Second, maxWait)
		b.Multiplier = 2
		b.MaxInterval = maxWait
		b.MaxElapsedTime = 0
		b.Reset()

		t := time.NewTimer(b.NextBackOff())
		defer t.Stop()
		for retry := 1; ; retry++ {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				send(fn(retry))
				t.Reset(b.NextBackOff())
			}
		}
	}
}
