package protocol

import (
	"errors"
	"fmt"
	"io"
)

const (
	// FrameHeaderSize is the size of the frame header in bytes.
	FrameHeaderSize = 6

	// MaxPayloadSize bounds a frame payload. A full mount of a large view
	// fits comfortably.
	MaxPayloadSize = 8 * 1024 * 1024
)

// FrameType identifies the type of frame.
type FrameType uint8

const (
	FrameEvent     FrameType = 0x01 // Client → Server events
	FrameMutations FrameType = 0x02 // Server → Client DOM mutations
	FrameControl   FrameType = 0x03 // Ping, pong, close
	FrameError     FrameType = 0x05 // Error message
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FrameEvent:
		return "Event"
	case FrameMutations:
		return "Mutations"
	case FrameControl:
		return "Control"
	case FrameError:
		return "Error"
	default:
		return fmt.Sprintf("FrameType(%d)", uint8(ft))
	}
}

// Valid reports whether ft is a known frame type.
func (ft FrameType) Valid() bool {
	switch ft {
	case FrameEvent, FrameMutations, FrameControl, FrameError:
		return true
	}
	return false
}

// FrameFlags are optional flags for frame processing.
type FrameFlags uint8

const (
	// FlagInitial marks the mutations of the first render of a session.
	FlagInitial FrameFlags = 0x01
	// FlagFinal marks the last frame a peer sends before closing.
	FlagFinal FrameFlags = 0x04
)

// Has returns true if the flags contain the specified flag.
func (ff FrameFlags) Has(flag FrameFlags) bool {
	return ff&flag != 0
}

// Frame errors.
var (
	ErrFrameTooLarge    = errors.New("protocol: frame payload too large")
	ErrInvalidFrameType = errors.New("protocol: invalid frame type")
)

// Frame is a header plus payload.
//
// Wire format:
//
//	┌────────────┬───────────┬─────────────────────────────┐
//	│ Frame Type │ Flags     │ Payload Length              │
//	│ (1 byte)   │ (1 byte)  │ (4 bytes, big-endian)       │
//	└────────────┴───────────┴─────────────────────────────┘
//	│ Payload (Payload Length bytes)                       │
//	└──────────────────────────────────────────────────────┘
type Frame struct {
	Type    FrameType
	Flags   FrameFlags
	Payload []byte
}

// NewFrame creates a frame with no flags.
func NewFrame(ft FrameType, payload []byte) *Frame {
	return &Frame{Type: ft, Payload: payload}
}

// Encode encodes the frame including its header.
func (f *Frame) Encode() []byte {
	e := &Encoder{buf: make([]byte, 0, FrameHeaderSize+len(f.Payload))}
	f.EncodeTo(e)
	return e.Bytes()
}

// EncodeTo appends the frame to e.
func (f *Frame) EncodeTo(e *Encoder) {
	e.WriteByte(byte(f.Type))
	e.WriteByte(byte(f.Flags))
	e.WriteUint32(uint32(len(f.Payload)))
	e.WriteBytes(f.Payload)
}

// DecodeFrame decodes exactly one frame from data. The payload is copied.
func DecodeFrame(data []byte) (*Frame, error) {
	ft, flags, length, err := DecodeFrameHeader(data)
	if err != nil {
		return nil, err
	}
	if len(data) < FrameHeaderSize+length {
		return nil, io.ErrUnexpectedEOF
	}
	if len(data) > FrameHeaderSize+length {
		return nil, ErrTrailingData
	}
	payload := make([]byte, length)
	copy(payload, data[FrameHeaderSize:])
	return &Frame{Type: ft, Flags: flags, Payload: payload}, nil
}

// DecodeFrameHeader validates and decodes the frame header.
func DecodeFrameHeader(data []byte) (FrameType, FrameFlags, int, error) {
	if len(data) < FrameHeaderSize {
		return 0, 0, 0, io.ErrUnexpectedEOF
	}
	ft := FrameType(data[0])
	if !ft.Valid() {
		return 0, 0, 0, fmt.Errorf("%w: 0x%02x", ErrInvalidFrameType, data[0])
	}
	length := uint32(data[2])<<24 | uint32(data[3])<<16 | uint32(data[4])<<8 | uint32(data[5])
	if length > MaxPayloadSize {
		return 0, 0, 0, ErrFrameTooLarge
	}
	return ft, FrameFlags(data[1]), int(length), nil
}

// ReadFrame reads a complete frame from r.
func ReadFrame(r io.Reader) (*Frame, error) {
	header := make([]byte, FrameHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	ft, flags, length, err := DecodeFrameHeader(header)
	if err != nil {
		return nil, err
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return &Frame{Type: ft, Flags: flags, Payload: payload}, nil
}

// WriteFrame writes a complete frame to w.
func WriteFrame(w io.Writer, f *Frame) error {
	if len(f.Payload) > MaxPayloadSize {
		return ErrFrameTooLarge
	}
	_, err := w.Write(f.Encode())
	return err
}
