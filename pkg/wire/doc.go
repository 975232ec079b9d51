// Package wire connects a driver running on the server to a document in the
// client.
//
// The driver renders into the shadow document of a Recorder. Every mutation
// is translated into a protocol operation naming nodes by id, and Flush
// returns the operations of one cycle as a frame. On the other side a
// Replayer applies frames to a real document and reports events back, which
// Recorder.Dispatch fires on the shadow nodes.
package wire
