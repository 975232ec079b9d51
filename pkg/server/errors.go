package server

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionClosed is returned for writes after a session has closed.
	ErrSessionClosed = errors.New("server: session closed")

	// ErrMaxSessionsReached rejects a connection once MaxSessions are open.
	ErrMaxSessionsReached = errors.New("server: max sessions reached")

	// ErrInvalidFrame is reported to a client whose message does not decode.
	ErrInvalidFrame = errors.New("server: invalid frame")

	// ErrServerClosed is returned by ListenAndServe after Shutdown, and
	// rejects connections that arrive during it.
	ErrServerClosed = errors.New("server: closed")
)

// SessionError is the error a session ended with. Op is the step that
// failed: start, read, flush or write.
type SessionError struct {
	SessionID string
	Op        string
	Err       error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("server: session %s: %s: %v", e.SessionID, e.Op, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

func sessionError(id, op string, err error) *SessionError {
	return &SessionError{SessionID: id, Op: op, Err: err}
}
