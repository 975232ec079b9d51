package server

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/vango-dev/sprout/pkg/metrics"
	"github.com/vango-dev/sprout/pkg/tracing"
)

// Paths served by the server.
const (
	ClientPath  = "/_sprout/client.js"
	SocketPath  = "/_sprout/ws"
	MetricsPath = "/metrics"
)

// SessionConfig holds configuration for individual sessions.
type SessionConfig struct {
	// Timeouts

	// ReadTimeout is the maximum time to wait for a message from the client.
	// Heartbeat pongs count as messages.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HeartbeatInterval is the time between heartbeat pings.
	// Default: 30 seconds.
	HeartbeatInterval time.Duration

	// Limits

	// MaxMessageSize is the maximum size of an incoming WebSocket message.
	// Default: 64KB.
	MaxMessageSize int64

	// MaxEventQueue is the number of client messages buffered between the
	// reader and the session loop.
	// Default: 256.
	MaxEventQueue int
}

// DefaultSessionConfig returns a SessionConfig with sensible defaults.
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		MaxMessageSize:    64 * 1024, // 64KB
		MaxEventQueue:     256,
	}
}

// Clone returns a copy of the SessionConfig.
func (c *SessionConfig) Clone() *SessionConfig {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// ServerConfig holds configuration for the HTTP/WebSocket server.
type ServerConfig struct {
	// Address is the address to listen on (e.g., ":8080" or "localhost:3000").
	// Default: ":8080".
	Address string

	// WebSocket buffer sizes

	// ReadBufferSize is the WebSocket read buffer size.
	// Default: 4096.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	// Default: 4096.
	WriteBufferSize int

	// CheckOrigin is called to validate the request origin.
	// Default: SameOriginCheck.
	CheckOrigin func(r *http.Request) bool

	// SessionConfig is the configuration for individual sessions.
	// Default: DefaultSessionConfig().
	SessionConfig *SessionConfig

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 30 seconds.
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout bounds reading request headers.
	// Default: 10 seconds.
	ReadHeaderTimeout time.Duration

	// MaxSessions is the maximum number of concurrent sessions.
	// 0 means no limit.
	MaxSessions int

	// Page

	// Title is the document title of the served page.
	Title string

	// Lang defaults to "en".
	Lang string

	// Styles contains inline CSS for the served page.
	Styles []string

	// StyleSheets contains paths to external stylesheets.
	StyleSheets []string

	// Observability

	// Logger defaults to slog.Default() with component=server.
	Logger *slog.Logger

	// Metrics receives session, frame and render cycle metrics.
	Metrics *metrics.Collector

	// MetricsHandler is served at /metrics. When nil and Metrics is set,
	// promhttp.Handler() is used.
	MetricsHandler http.Handler

	// Tracer records the render cycles of every session.
	Tracer *tracing.Tracer
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
// CheckOrigin enforces same-origin by default.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:           ":8080",
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		CheckOrigin:       SameOriginCheck,
		SessionConfig:     DefaultSessionConfig(),
		ShutdownTimeout:   30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// withDefaults fills the unset fields of c from DefaultServerConfig.
func (c *ServerConfig) withDefaults() *ServerConfig {
	defaults := DefaultServerConfig()
	if c == nil {
		return defaults
	}
	out := c.Clone()
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = defaults.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = defaults.WriteBufferSize
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = defaults.CheckOrigin
	}
	if out.SessionConfig == nil {
		out.SessionConfig = defaults.SessionConfig
	}
	sc, ds := out.SessionConfig, defaults.SessionConfig
	if sc.ReadTimeout == 0 {
		sc.ReadTimeout = ds.ReadTimeout
	}
	if sc.WriteTimeout == 0 {
		sc.WriteTimeout = ds.WriteTimeout
	}
	if sc.HeartbeatInterval == 0 {
		sc.HeartbeatInterval = ds.HeartbeatInterval
	}
	if sc.MaxMessageSize == 0 {
		sc.MaxMessageSize = ds.MaxMessageSize
	}
	if sc.MaxEventQueue == 0 {
		sc.MaxEventQueue = ds.MaxEventQueue
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	return out
}

// SameOriginCheck validates that the WebSocket request origin matches the host.
// This is the default for CheckOrigin.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// No Origin header (e.g., same-origin request or curl)
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	host := r.Host
	if host == "" {
		return false
	}

	// Compare the host portion (includes port if present)
	return originURL.Host == host
}

// Clone returns a copy of the ServerConfig.
func (c *ServerConfig) Clone() *ServerConfig {
	if c == nil {
		return nil
	}
	clone := *c
	if c.SessionConfig != nil {
		clone.SessionConfig = c.SessionConfig.Clone()
	}
	clone.Styles = append([]string(nil), c.Styles...)
	clone.StyleSheets = append([]string(nil), c.StyleSheets...)
	return &clone
}

// WithAddress sets the server address and returns the config for chaining.
func (c *ServerConfig) WithAddress(addr string) *ServerConfig {
	c.Address = addr
	return c
}

// WithSessionConfig sets the session configuration and returns the config for chaining.
func (c *ServerConfig) WithSessionConfig(sc *SessionConfig) *ServerConfig {
	c.SessionConfig = sc
	return c
}

// WithMaxSessions sets the maximum sessions and returns the config for chaining.
func (c *ServerConfig) WithMaxSessions(max int) *ServerConfig {
	c.MaxSessions = max
	return c
}

// WithTitle sets the page title and returns the config for chaining.
func (c *ServerConfig) WithTitle(title string) *ServerConfig {
	c.Title = title
	return c
}
