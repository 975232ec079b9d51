package protocol

import "fmt"

// ControlType identifies the type of control message.
type ControlType uint8

const (
	ControlPing  ControlType = 0x01 // Client/server ping
	ControlPong  ControlType = 0x02 // Response to ping
	ControlClose ControlType = 0x20 // Session close
)

// String returns the string representation of the control type.
func (ct ControlType) String() string {
	switch ct {
	case ControlPing:
		return "Ping"
	case ControlPong:
		return "Pong"
	case ControlClose:
		return "Close"
	default:
		return fmt.Sprintf("ControlType(%d)", uint8(ct))
	}
}

// CloseReason indicates why a session is being closed.
type CloseReason uint8

const (
	CloseNormal         CloseReason = 0x00
	CloseGoingAway      CloseReason = 0x01
	CloseServerShutdown CloseReason = 0x03
	CloseError          CloseReason = 0x04
)

// String returns the string representation of the close reason.
func (cr CloseReason) String() string {
	switch cr {
	case CloseNormal:
		return "Normal"
	case CloseGoingAway:
		return "GoingAway"
	case CloseServerShutdown:
		return "ServerShutdown"
	case CloseError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Control is a control message. Timestamp is used by Ping and Pong, Reason
// and Message by Close.
type Control struct {
	Type      ControlType
	Timestamp uint64 // Unix milliseconds
	Reason    CloseReason
	Message   string
}

// EncodeControl encodes a control message.
func EncodeControl(c *Control) []byte {
	e := NewEncoder()
	e.WriteByte(byte(c.Type))
	switch c.Type {
	case ControlPing, ControlPong:
		e.WriteUint64(c.Timestamp)
	case ControlClose:
		e.WriteByte(byte(c.Reason))
		e.WriteString(c.Message)
	}
	return e.Bytes()
}

// DecodeControl decodes a control message.
func DecodeControl(data []byte) (*Control, error) {
	d := NewDecoder(data)
	b, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	c := &Control{Type: ControlType(b)}
	switch c.Type {
	case ControlPing, ControlPong:
		if c.Timestamp, err = d.ReadUint64(); err != nil {
			return nil, err
		}
	case ControlClose:
		r, err := d.ReadByte()
		if err != nil {
			return nil, err
		}
		c.Reason = CloseReason(r)
		if c.Message, err = d.ReadString(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("protocol: unknown control type 0x%02x", b)
	}
	return c, d.Finish()
}
