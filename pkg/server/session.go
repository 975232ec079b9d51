package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/sprout/pkg/app"
	"github.com/vango-dev/sprout/pkg/driver"
	"github.com/vango-dev/sprout/pkg/metrics"
	"github.com/vango-dev/sprout/pkg/protocol"
	"github.com/vango-dev/sprout/pkg/tracing"
	"github.com/vango-dev/sprout/pkg/wire"
	"go.opentelemetry.io/otel/attribute"
)

// Session is one connected client. The app renders into a shadow document
// whose mutations are recorded and sent as frames; client events are
// dispatched on the shadow nodes they name.
//
// Everything except reading the socket happens on the goroutine that calls
// run, so the app, the recorder and the connection writer need no locks.
type Session[Model, Msg any] struct {
	id      string
	conn    *websocket.Conn
	config  *SessionConfig
	logger  *slog.Logger
	metrics *metrics.Collector

	rec *wire.Recorder
	app *app.App[Model, Msg]

	incoming chan []byte
	readErr  chan error
	done     chan struct{}

	closeOnce sync.Once
	closed    bool
	lastSeq   uint64 // last client event sequence
}

func newSession[Model, Msg any](id string, conn *websocket.Conn, cfg app.Config[Model, Msg], sc *ServerConfig, logger *slog.Logger) *Session[Model, Msg] {
	s := &Session[Model, Msg]{
		id:       id,
		conn:     conn,
		config:   sc.SessionConfig,
		logger:   logger,
		metrics:  sc.Metrics,
		rec:      wire.New(logger.With("component", "wire")),
		incoming: make(chan []byte, sc.SessionConfig.MaxEventQueue),
		readErr:  make(chan error, 1),
		done:     make(chan struct{}),
	}

	var observers driver.Observers
	if cfg.Observer != nil {
		observers = append(observers, cfg.Observer)
	}
	if sc.Metrics != nil {
		observers = append(observers, sc.Metrics)
	}
	if sc.Tracer != nil {
		observers = append(observers, sessionTracer(sc.Tracer, id))
	}
	if len(observers) > 0 {
		cfg.Observer = observers
	}
	onError := cfg.OnError
	cfg.OnError = func(err error) {
		if onError != nil {
			onError(err)
		}
		s.sendError(protocol.NewError(protocol.CodeRenderFailed, err.Error()))
	}
	// The recorder's shadow document starts empty; the client discards the
	// server-rendered markup when the initial frame arrives.
	cfg.TakeOver = false
	s.app = app.New(cfg)
	return s
}

func sessionTracer(t *tracing.Tracer, id string) *tracing.Tracer {
	return t.With(attribute.String("sprout.session_id", id))
}

// ID returns the session ID.
func (s *Session[Model, Msg]) ID() string { return s.id }

// run starts the app, sends the initial frame and serves the connection
// until it closes or ctx is done.
func (s *Session[Model, Msg]) run(ctx context.Context) error {
	defer s.close()

	if err := s.app.Start(s.rec.Document(), s.rec.Root()); err != nil {
		s.sendError(protocol.NewFatalError(protocol.CodeRenderFailed, err.Error()))
		return sessionError(s.id, "start", err)
	}
	if err := s.sendMutations(protocol.FlagInitial); err != nil {
		return err
	}

	go s.readLoop()

	heartbeat := time.NewTicker(s.config.HeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			s.sendClose(protocol.CloseServerShutdown, "server shutting down")
			return nil

		case msg := <-s.incoming:
			if err := s.handleMessage(msg); errors.Is(err, errClientClosed) {
				return nil
			} else if err != nil {
				return err
			}

		case <-s.app.Wake():
			if err := s.update(); err != nil {
				return err
			}

		case <-heartbeat.C:
			if err := s.sendControl(&protocol.Control{
				Type:      protocol.ControlPing,
				Timestamp: uint64(time.Now().UnixMilli()),
			}); err != nil {
				return err
			}

		case err := <-s.readErr:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return sessionError(s.id, "read", err)
		}
	}
}

// readLoop reads messages and hands them to the session loop. It stops when
// the connection fails or the session closes.
func (s *Session[Model, Msg]) readLoop() {
	for {
		_ = s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		mt, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
				s.metrics.WebSocketError("read")
			}
			s.readErr <- err
			return
		}
		if mt != websocket.BinaryMessage {
			s.logger.Warn("ignoring non-binary message", "type", mt)
			continue
		}
		select {
		case s.incoming <- msg:
		case <-s.done:
			return
		}
	}
}

// handleMessage processes one client frame. It returns an error only when
// the session must end.
func (s *Session[Model, Msg]) handleMessage(msg []byte) error {
	frame, err := protocol.DecodeFrame(msg)
	if err != nil {
		s.logger.Error("frame decode error", "error", err)
		s.sendError(protocol.NewError(protocol.CodeInvalidFrame, err.Error()))
		return nil
	}

	switch frame.Type {
	case protocol.FrameEvent:
		return s.handleEvents(frame.Payload)

	case protocol.FrameControl:
		c, err := protocol.DecodeControl(frame.Payload)
		if err != nil {
			s.logger.Error("control decode error", "error", err)
			s.sendError(protocol.NewError(protocol.CodeInvalidFrame, err.Error()))
			return nil
		}
		switch c.Type {
		case protocol.ControlPing:
			return s.sendControl(&protocol.Control{Type: protocol.ControlPong, Timestamp: c.Timestamp})
		case protocol.ControlPong:
			s.logger.Debug("received pong")
		case protocol.ControlClose:
			s.logger.Info("client closing", "reason", c.Reason, "message", c.Message)
			return errClientClosed
		}
		return nil

	default:
		s.logger.Warn("unexpected frame type", "type", frame.Type)
		s.sendError(protocol.NewError(protocol.CodeInvalidFrame, ErrInvalidFrame.Error()))
		return nil
	}
}

// errClientClosed ends run without an error.
var errClientClosed = errors.New("client closed")

func (s *Session[Model, Msg]) handleEvents(payload []byte) error {
	events, err := protocol.DecodeEvents(payload)
	if err != nil {
		s.logger.Error("event decode error", "error", err)
		s.sendError(protocol.NewError(protocol.CodeInvalidEvent, "invalid event format"))
		return nil
	}
	s.metrics.EventsReceived(len(events))

	for _, ev := range events {
		if ev.Seq != 0 && ev.Seq <= s.lastSeq {
			s.logger.Debug("dropping replayed event", "seq", ev.Seq, "last", s.lastSeq)
			continue
		}
		s.lastSeq = ev.Seq
		if err := s.rec.Dispatch(ev); err != nil {
			// The node was released after the client sent the event.
			s.logger.Debug("event for unknown node", "node", ev.Node, "type", ev.Type)
			s.sendError(protocol.NewError(protocol.CodeUnknownNode, err.Error()))
		}
	}
	return s.update()
}

// update processes queued messages and sends the resulting mutations.
func (s *Session[Model, Msg]) update() error {
	if err := s.app.Flush(); errors.Is(err, app.ErrStopped) {
		return sessionError(s.id, "flush", err)
	}
	return s.sendMutations(0)
}

// sendMutations writes the recorder's pending operations. The initial frame
// is sent even when empty, so that the client clears the page.
func (s *Session[Model, Msg]) sendMutations(flags protocol.FrameFlags) error {
	mf := s.rec.Flush()
	if mf == nil {
		if !flags.Has(protocol.FlagInitial) {
			return nil
		}
		mf = &protocol.MutationsFrame{}
	}
	f := &protocol.Frame{Type: protocol.FrameMutations, Flags: flags, Payload: protocol.EncodeMutations(mf)}
	data := f.Encode()
	if err := s.write(data); err != nil {
		return err
	}
	s.metrics.FrameSent(len(data))
	s.logger.Debug("mutations sent", "seq", mf.Seq, "ops", len(mf.Mutations), "bytes", len(data))
	return nil
}

func (s *Session[Model, Msg]) sendControl(c *protocol.Control) error {
	return s.write(protocol.NewFrame(protocol.FrameControl, protocol.EncodeControl(c)).Encode())
}

// sendError reports em to the client. Write failures surface on the next
// write, so they are only logged here.
func (s *Session[Model, Msg]) sendError(em *protocol.ErrorMessage) {
	f := protocol.NewFrame(protocol.FrameError, protocol.EncodeErrorMessage(em))
	if em.Fatal {
		f.Flags = protocol.FlagFinal
	}
	if err := s.write(f.Encode()); err != nil {
		s.logger.Debug("error frame not sent", "error", err)
	}
}

func (s *Session[Model, Msg]) sendClose(reason protocol.CloseReason, message string) {
	c := &protocol.Control{Type: protocol.ControlClose, Reason: reason, Message: message}
	f := protocol.NewFrame(protocol.FrameControl, protocol.EncodeControl(c))
	f.Flags = protocol.FlagFinal
	if err := s.write(f.Encode()); err != nil {
		s.logger.Debug("close frame not sent", "error", err)
	}
}

func (s *Session[Model, Msg]) write(data []byte) error {
	if s.closed {
		return sessionError(s.id, "write", ErrSessionClosed)
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		s.metrics.WebSocketError("write")
		return sessionError(s.id, "write", err)
	}
	return nil
}

// close stops the app and closes the connection. It runs once.
func (s *Session[Model, Msg]) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if err := s.app.Stop(); err != nil && !errors.Is(err, app.ErrStopped) {
			s.logger.Warn("app stop failed", "error", err)
		}
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
		_ = s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.closed = true
		_ = s.conn.Close()
	})
}
