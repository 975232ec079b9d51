// Package protocol implements the binary protocol between a server-driven
// session and the thin client.
//
// The server owns the application and a shadow document. Each render cycle
// produces a batch of DOM mutations that the client replays against the
// real document; the client sends back the events of nodes the server
// listens to.
//
// # Wire Format
//
// Every message is one frame: a 6-byte header (type, flags, big-endian
// payload length) followed by the payload.
//
//   - FrameEvent (0x01): client → server, a batch of Event
//   - FrameMutations (0x02): server → client, a MutationsFrame
//   - FrameControl (0x03): ping, pong and close
//   - FrameError (0x05): an ErrorMessage
//
// # Encoding
//
// Integers are protobuf-style varints unless noted, strings are a varint
// length followed by UTF-8 bytes, booleans are one byte (0x00 or 0x01).
//
// # Mutations
//
// Nodes are named by NodeID. The mount container is RootID; the server
// assigns every other id in a create operation before any operation refers
// to it. A mutation is its op byte followed by its operands:
//
//	CreateElement  node ns tag
//	SetAttr        node name value
//	InsertBefore   parent node ref
//	Release        node
//
// After Release the id is never sent again and the client may drop it.
//
// # Events
//
// An event carries the listening node, the DOM event name and the few
// properties handlers read (value, key, checked). Events for unknown or
// released nodes are ignored by the server.
package protocol
