package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vango-dev/sprout/pkg/app"
	"github.com/vango-dev/sprout/pkg/dom/memdom"
	"github.com/vango-dev/sprout/pkg/protocol"
	"github.com/vango-dev/sprout/pkg/render"
	"github.com/vango-dev/sprout/pkg/vdom"
)

// Server serves one app in server-driven mode: the page is rendered on the
// server and every browser tab gets a session that runs its own instance of
// the app and streams DOM mutations over a WebSocket.
type Server[Model, Msg any] struct {
	config  *ServerConfig
	factory func() app.Config[Model, Msg]
	logger  *slog.Logger

	router   chi.Router
	upgrader websocket.Upgrader

	// ctx is cancelled by Shutdown; sessions close when it is done.
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*Session[Model, Msg]
	wg       sync.WaitGroup

	httpServer *http.Server
}

// New creates a server. factory is called once per page render and once per
// session; every call must return a fresh configuration.
func New[Model, Msg any](config *ServerConfig, factory func() app.Config[Model, Msg]) *Server[Model, Msg] {
	config = config.withDefaults()
	logger := config.Logger
	if logger == nil {
		logger = slog.Default().With("component", "server")
	}
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server[Model, Msg]{
		config:   config,
		factory:  factory,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[string]*Session[Model, Msg]),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
	}
	s.router = s.routes()
	return s
}

func (s *Server[Model, Msg]) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.servePage)
	r.Get(ClientPath, s.serveThinClient)
	r.Head(ClientPath, s.serveThinClient)
	r.Get(SocketPath, s.HandleWebSocket)

	metricsHandler := s.config.MetricsHandler
	if metricsHandler == nil && s.config.Metrics != nil {
		metricsHandler = promhttp.Handler()
	}
	if metricsHandler != nil {
		r.Method(http.MethodGet, MetricsPath, metricsHandler)
	}
	return r
}

// requestLogger logs every plain HTTP request at debug level.
func (s *Server[Model, Msg]) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}

// Router returns the chi router, for mounting additional routes.
func (s *Server[Model, Msg]) Router() chi.Router { return s.router }

// ServeHTTP implements http.Handler.
func (s *Server[Model, Msg]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Config returns the effective configuration.
func (s *Server[Model, Msg]) Config() *ServerConfig { return s.config }

// Sessions returns the number of open sessions.
func (s *Server[Model, Msg]) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// InitialView returns the view of a freshly initialised app. Commands
// started by Init are cancelled, so their results are not part of it.
func (s *Server[Model, Msg]) InitialView() (*vdom.Node[Msg], error) {
	cfg := s.appConfig()
	doc := memdom.New()
	a := app.New(cfg)
	if err := a.Start(doc, doc.Element("div")); err != nil {
		return nil, err
	}
	tree := a.Driver().Tree()
	if err := a.Stop(); err != nil {
		s.logger.Debug("stop after page render", "error", err)
	}
	return tree, nil
}

func (s *Server[Model, Msg]) appConfig() app.Config[Model, Msg] {
	cfg := s.factory()
	if cfg.Logger == nil {
		cfg.Logger = s.logger
	}
	return cfg
}

func (s *Server[Model, Msg]) servePage(w http.ResponseWriter, r *http.Request) {
	tree, err := s.InitialView()
	if err != nil {
		s.logger.Error("page render failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")

	sr := render.NewStreamingRenderer[Msg](w, render.RendererConfig{})
	err = sr.RenderPage(render.PageData[Msg]{
		Body:         tree,
		Title:        s.config.Title,
		Lang:         s.config.Lang,
		Styles:       s.config.Styles,
		StyleSheets:  s.config.StyleSheets,
		ClientScript: ClientPath,
		SocketPath:   SocketPath,
	})
	if err != nil {
		s.logger.Warn("page write failed", "error", err)
	}
}

// HandleWebSocket upgrades the request and runs a session until the client
// leaves or the server shuts down.
func (s *Server[Model, Msg]) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		s.config.Metrics.WebSocketError("upgrade")
		return
	}
	conn.SetReadLimit(s.config.SessionConfig.MaxMessageSize)

	sess, err := s.register(conn)
	if err != nil {
		s.logger.Warn("session rejected", "error", err)
		code := protocol.CodeSessionLimit
		if errors.Is(err, ErrServerClosed) {
			code = protocol.CodeServerError
		}
		reject(conn, s.config.SessionConfig.WriteTimeout, protocol.NewFatalError(code, err.Error()))
		return
	}
	defer s.unregister(sess)

	if err := sess.run(s.ctx); err != nil {
		s.logger.Warn("session ended", "session_id", sess.ID(), "error", err)
	}
}

func (s *Server[Model, Msg]) register(conn *websocket.Conn) (*Session[Model, Msg], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return nil, ErrServerClosed
	}
	if s.config.MaxSessions > 0 && len(s.sessions) >= s.config.MaxSessions {
		return nil, ErrMaxSessionsReached
	}
	id := newSessionID()
	sess := newSession(id, conn, s.appConfig(), s.config, s.logger.With("session_id", id))
	s.sessions[id] = sess
	s.wg.Add(1)
	s.config.Metrics.SessionOpened()
	s.logger.Info("session opened", "session_id", id)
	return sess, nil
}

func (s *Server[Model, Msg]) unregister(sess *Session[Model, Msg]) {
	s.mu.Lock()
	delete(s.sessions, sess.ID())
	s.mu.Unlock()
	s.config.Metrics.SessionClosed()
	s.logger.Info("session closed", "session_id", sess.ID())
	s.wg.Done()
}

// reject sends a fatal error frame and closes conn.
func reject(conn *websocket.Conn, timeout time.Duration, em *protocol.ErrorMessage) {
	f := protocol.NewFrame(protocol.FrameError, protocol.EncodeErrorMessage(em))
	f.Flags = protocol.FlagFinal
	_ = conn.SetWriteDeadline(time.Now().Add(timeout))
	_ = conn.WriteMessage(websocket.BinaryMessage, f.Encode())
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, em.Message))
	_ = conn.Close()
}

// ListenAndServe serves on the configured address until ctx is done, then
// shuts down gracefully within ShutdownTimeout.
func (s *Server[Model, Msg]) ListenAndServe(ctx context.Context) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}
	srv := s.httpServer
	s.mu.Unlock()

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "address", s.config.Address)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return ErrServerClosed
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown closes every session with a server-shutdown reason, stops the
// HTTP server if ListenAndServe started one and waits for sessions to end.
func (s *Server[Model, Msg]) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down", "sessions", s.Sessions())
	s.cancel()

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return err
	case <-ctx.Done():
		return errors.Join(err, ctx.Err())
	}
}

func newSessionID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
