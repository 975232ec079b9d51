// Package server runs sprout apps in server-driven mode.
//
// The browser receives server-rendered HTML and a small script. The script
// opens a WebSocket and from then on the app runs on the server: each
// connection gets a Session with its own app instance, rendering into a
// shadow document recorded by package wire. Every batch of DOM operations
// is sent as a mutations frame, and the events the view listens to come
// back as event frames.
//
// # Routes
//
//	GET  /                    server-rendered page
//	GET  /_sprout/client.js   thin client (ETag revalidated)
//	GET  /_sprout/ws          WebSocket session
//	GET  /metrics             Prometheus metrics, when configured
//
// # Session Lifecycle
//
// A session runs two goroutines:
//   - the read loop, which reads WebSocket messages and queues them
//   - the session loop, which owns the app and the recorder
//
// The session loop decodes event frames, dispatches each event on the
// shadow node it names, flushes the app and writes the resulting frame. It
// also answers pings, sends heartbeat pings every HeartbeatInterval and
// flushes messages produced by commands.
//
// The first frame of a session carries FlagInitial. The client empties its
// root before applying it, so the server-rendered markup is replaced by
// nodes the session knows.
//
// # Errors
//
// Malformed frames, malformed events and events for released nodes are
// reported with a non-fatal error frame and the session continues. Render
// failures are reported with CodeRenderFailed and the previous view stays
// in place. A rejected connection receives a fatal error frame.
//
// # Usage
//
//	srv := server.New(server.DefaultServerConfig().WithAddress(":3000"),
//		func() app.Config[Model, Msg] { return myApp() })
//	if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, server.ErrServerClosed) {
//		log.Fatal(err)
//	}
package server
