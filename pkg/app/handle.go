package app

import "sync"

// Handle stops a command, stream or subscription started through Orders.
// Dropping a Handle does not stop anything; they all end with the app.
type Handle struct {
	once   sync.Once
	cancel func()
}

func newHandle(cancel func()) *Handle {
	return &Handle{cancel: cancel}
}

// Cancel stops what the handle refers to. A cancelled command's message is
// discarded. Cancel may be called more than once and from any goroutine.
func (h *Handle) Cancel() {
	if h == nil || h.cancel == nil {
		return
	}
	h.once.Do(h.cancel)
}
