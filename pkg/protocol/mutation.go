package protocol

import (
	"errors"
	"fmt"
)

// ErrUnknownOp is returned for an operation code this version cannot decode.
var ErrUnknownOp = errors.New("protocol: unknown mutation op")

// NodeID identifies a live node shared by server and client. The mount
// container is RootID; ids are never reused within a session.
type NodeID uint64

// RootID is the id of the mount container.
const RootID NodeID = 1

// MutationOp is a DOM operation sent to the client.
type MutationOp uint8

const (
	OpCreateElement MutationOp = 0x01 // Node, NS, Name (tag)
	OpCreateText    MutationOp = 0x02 // Node, Value
	OpSetAttr       MutationOp = 0x03 // Node, Name, Value
	OpRemoveAttr    MutationOp = 0x04 // Node, Name
	OpSetStyle      MutationOp = 0x05 // Node, Name, Value
	OpRemoveStyle   MutationOp = 0x06 // Node, Name
	OpSetText       MutationOp = 0x07 // Node, Value
	OpSetProp       MutationOp = 0x08 // Node, Name, Value
	OpSetPropBool   MutationOp = 0x09 // Node, Name, Flag
	OpAppend        MutationOp = 0x0A // Parent, Node
	OpInsertBefore  MutationOp = 0x0B // Parent, Node, Ref
	OpRemove        MutationOp = 0x0C // Parent, Node
	OpReplace       MutationOp = 0x0D // Parent, Node (new), Ref (old)
	OpListen        MutationOp = 0x0E // Node, Name (event)
	OpUnlisten      MutationOp = 0x0F // Node, Name (event)
	OpRelease       MutationOp = 0x10 // Node; the client may forget it
)

var opNames = map[MutationOp]string{
	OpCreateElement: "CreateElement",
	OpCreateText:    "CreateText",
	OpSetAttr:       "SetAttr",
	OpRemoveAttr:    "RemoveAttr",
	OpSetStyle:      "SetStyle",
	OpRemoveStyle:   "RemoveStyle",
	OpSetText:       "SetText",
	OpSetProp:       "SetProp",
	OpSetPropBool:   "SetPropBool",
	OpAppend:        "Append",
	OpInsertBefore:  "InsertBefore",
	OpRemove:        "Remove",
	OpReplace:       "Replace",
	OpListen:        "Listen",
	OpUnlisten:      "Unlisten",
	OpRelease:       "Release",
}

// String returns the name of the operation.
func (op MutationOp) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("MutationOp(%d)", uint8(op))
}

// Mutation is one DOM operation. Which fields are used depends on Op.
type Mutation struct {
	Op     MutationOp
	Node   NodeID
	Parent NodeID
	Ref    NodeID
	NS     string
	Name   string
	Value  string
	Flag   bool
}

// String formats the mutation for logs and the diff command.
func (m Mutation) String() string {
	switch m.Op {
	case OpCreateElement:
		if m.NS != "" {
			return fmt.Sprintf("%s #%d <%s> ns=%s", m.Op, m.Node, m.Name, m.NS)
		}
		return fmt.Sprintf("%s #%d <%s>", m.Op, m.Node, m.Name)
	case OpCreateText, OpSetText:
		return fmt.Sprintf("%s #%d %q", m.Op, m.Node, m.Value)
	case OpSetAttr, OpSetStyle, OpSetProp:
		return fmt.Sprintf("%s #%d %s=%q", m.Op, m.Node, m.Name, m.Value)
	case OpSetPropBool:
		return fmt.Sprintf("%s #%d %s=%t", m.Op, m.Node, m.Name, m.Flag)
	case OpRemoveAttr, OpRemoveStyle, OpListen, OpUnlisten:
		return fmt.Sprintf("%s #%d %s", m.Op, m.Node, m.Name)
	case OpAppend, OpRemove:
		return fmt.Sprintf("%s #%d in #%d", m.Op, m.Node, m.Parent)
	case OpInsertBefore, OpReplace:
		return fmt.Sprintf("%s #%d in #%d at #%d", m.Op, m.Node, m.Parent, m.Ref)
	default:
		return fmt.Sprintf("%s #%d", m.Op, m.Node)
	}
}

// MutationsFrame is a batch of mutations produced by one render cycle.
type MutationsFrame struct {
	Seq       uint64
	Mutations []Mutation
}

// EncodeMutations encodes a batch to bytes.
func EncodeMutations(mf *MutationsFrame) []byte {
	e := NewEncoder()
	EncodeMutationsTo(e, mf)
	return e.Bytes()
}

// EncodeMutationsTo encodes a batch using the provided encoder.
func EncodeMutationsTo(e *Encoder, mf *MutationsFrame) {
	e.WriteUvarint(mf.Seq)
	e.WriteUvarint(uint64(len(mf.Mutations)))
	for i := range mf.Mutations {
		encodeMutation(e, &mf.Mutations[i])
	}
}

func encodeMutation(e *Encoder, m *Mutation) {
	e.WriteByte(byte(m.Op))
	switch m.Op {
	case OpCreateElement:
		e.WriteUvarint(uint64(m.Node))
		e.WriteString(m.NS)
		e.WriteString(m.Name)
	case OpCreateText, OpSetText:
		e.WriteUvarint(uint64(m.Node))
		e.WriteString(m.Value)
	case OpSetAttr, OpSetStyle, OpSetProp:
		e.WriteUvarint(uint64(m.Node))
		e.WriteString(m.Name)
		e.WriteString(m.Value)
	case OpSetPropBool:
		e.WriteUvarint(uint64(m.Node))
		e.WriteString(m.Name)
		e.WriteBool(m.Flag)
	case OpRemoveAttr, OpRemoveStyle, OpListen, OpUnlisten:
		e.WriteUvarint(uint64(m.Node))
		e.WriteString(m.Name)
	case OpAppend, OpRemove:
		e.WriteUvarint(uint64(m.Parent))
		e.WriteUvarint(uint64(m.Node))
	case OpInsertBefore, OpReplace:
		e.WriteUvarint(uint64(m.Parent))
		e.WriteUvarint(uint64(m.Node))
		e.WriteUvarint(uint64(m.Ref))
	case OpRelease:
		e.WriteUvarint(uint64(m.Node))
	}
}

// DecodeMutations decodes a batch. Unknown operations are an error.
func DecodeMutations(data []byte) (*MutationsFrame, error) {
	d := NewDecoder(data)
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	mf := &MutationsFrame{Seq: seq, Mutations: make([]Mutation, count)}
	for i := range mf.Mutations {
		if err := decodeMutation(d, &mf.Mutations[i]); err != nil {
			return nil, fmt.Errorf("protocol: mutation %d: %w", i, err)
		}
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return mf, nil
}

func decodeMutation(d *Decoder, m *Mutation) error {
	op, err := d.ReadByte()
	if err != nil {
		return err
	}
	m.Op = MutationOp(op)

	id := func(dst *NodeID) {
		if err != nil {
			return
		}
		var v uint64
		v, err = d.ReadUvarint()
		*dst = NodeID(v)
	}
	str := func(dst *string) {
		if err != nil {
			return
		}
		*dst, err = d.ReadString()
	}

	switch m.Op {
	case OpCreateElement:
		id(&m.Node)
		str(&m.NS)
		str(&m.Name)
	case OpCreateText, OpSetText:
		id(&m.Node)
		str(&m.Value)
	case OpSetAttr, OpSetStyle, OpSetProp:
		id(&m.Node)
		str(&m.Name)
		str(&m.Value)
	case OpSetPropBool:
		id(&m.Node)
		str(&m.Name)
		if err == nil {
			m.Flag, err = d.ReadBool()
		}
	case OpRemoveAttr, OpRemoveStyle, OpListen, OpUnlisten:
		id(&m.Node)
		str(&m.Name)
	case OpAppend, OpRemove:
		id(&m.Parent)
		id(&m.Node)
	case OpInsertBefore, OpReplace:
		id(&m.Parent)
		id(&m.Node)
		id(&m.Ref)
	case OpRelease:
		id(&m.Node)
	default:
		return fmt.Errorf("%w 0x%02x", ErrUnknownOp, op)
	}
	return err
}
