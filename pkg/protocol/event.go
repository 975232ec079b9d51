package protocol

import "errors"

// MaxEventsPerFrame bounds the events a client may batch in one frame.
const MaxEventsPerFrame = 256

// ErrTooManyEvents is returned for an event frame over MaxEventsPerFrame.
var ErrTooManyEvents = errors.New("protocol: too many events in frame")

// Event is a DOM event observed by the client on a node the server listens
// to. Only the fields the event handlers read are carried.
type Event struct {
	Seq     uint64 // Client sequence number, increasing
	Node    NodeID
	Type    string // DOM event name, e.g. "click"
	Value   string // target.value, if any
	Key     string // KeyboardEvent.key, if any
	Checked bool   // target.checked, if any
}

// EncodeEvents encodes a batch of events.
func EncodeEvents(events []Event) []byte {
	e := NewEncoder()
	e.WriteUvarint(uint64(len(events)))
	for i := range events {
		encodeEvent(e, &events[i])
	}
	return e.Bytes()
}

func encodeEvent(e *Encoder, ev *Event) {
	e.WriteUvarint(ev.Seq)
	e.WriteUvarint(uint64(ev.Node))
	e.WriteString(ev.Type)
	e.WriteString(ev.Value)
	e.WriteString(ev.Key)
	e.WriteBool(ev.Checked)
}

// DecodeEvents decodes a batch of events.
func DecodeEvents(data []byte) ([]Event, error) {
	d := NewDecoder(data)
	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	if count > MaxEventsPerFrame {
		return nil, ErrTooManyEvents
	}
	events := make([]Event, count)
	for i := range events {
		if err := decodeEvent(d, &events[i]); err != nil {
			return nil, err
		}
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return events, nil
}

func decodeEvent(d *Decoder, ev *Event) error {
	var err error
	if ev.Seq, err = d.ReadUvarint(); err != nil {
		return err
	}
	node, err := d.ReadUvarint()
	if err != nil {
		return err
	}
	ev.Node = NodeID(node)
	if ev.Type, err = d.ReadString(); err != nil {
		return err
	}
	if ev.Value, err = d.ReadString(); err != nil {
		return err
	}
	if ev.Key, err = d.ReadString(); err != nil {
		return err
	}
	ev.Checked, err = d.ReadBool()
	return err
}
