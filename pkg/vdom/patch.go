package vdom

import (
	"fmt"
	"strings"
)

// PatchOp is the type of patch operation.
type PatchOp uint8

const (
	PatchReplace        PatchOp = 0x01 // Replace node entirely
	PatchSetText        PatchOp = 0x02 // Update text content
	PatchSetAttr        PatchOp = 0x03 // Set/update attribute
	PatchRemoveAttr     PatchOp = 0x04 // Remove attribute
	PatchSetStyle       PatchOp = 0x05 // Set/update style property
	PatchRemoveStyle    PatchOp = 0x06 // Remove style property
	PatchAddListener    PatchOp = 0x07 // Register listeners for an event name
	PatchRemoveListener PatchOp = 0x08 // Unregister listeners for an event name
	PatchAppend         PatchOp = 0x09 // Append child
	PatchInsert         PatchOp = 0x0A // Insert child at position (keyed)
	PatchRemove         PatchOp = 0x0B // Remove child
	PatchMove           PatchOp = 0x0C // Move child to new position (keyed)
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case PatchReplace:
		return "Replace"
	case PatchSetText:
		return "SetText"
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchSetStyle:
		return "SetStyle"
	case PatchRemoveStyle:
		return "RemoveStyle"
	case PatchAddListener:
		return "AddListener"
	case PatchRemoveListener:
		return "RemoveListener"
	case PatchAppend:
		return "Append"
	case PatchInsert:
		return "Insert"
	case PatchRemove:
		return "Remove"
	case PatchMove:
		return "Move"
	default:
		return "Unknown"
	}
}

// AllPatchOps lists every operation, in code order.
var AllPatchOps = []PatchOp{
	PatchReplace, PatchSetText, PatchSetAttr, PatchRemoveAttr, PatchSetStyle,
	PatchRemoveStyle, PatchAddListener, PatchRemoveListener, PatchAppend,
	PatchInsert, PatchRemove, PatchMove,
}

// Patch represents a single live document operation.
//
// Path addresses the target in the new tree as child indices from the diff
// root. For Remove, Path is the parent and Index the child's index in the old
// tree. For Append, Insert and Move, Path is the child's path in the new tree
// and Index its new position.
type Patch[Msg any] struct {
	Op    PatchOp
	Path  []int
	Index int        // Child position (Append/Insert/Move: new, Remove: old)
	From  int        // Old child position (Move)
	Key   string     // Attribute, style property or event name
	Value string     // New attribute, style or text value
	Node  *Node[Msg] // New node (Replace/Append/Insert/Move, element for listener patches)
	Old   *Node[Msg] // Old node (Replace/Remove, element for RemoveListener)
}

// String returns a one-line description, e.g. SetAttr [0,2] class="x".
func (p Patch[Msg]) String() string {
	var sb strings.Builder
	sb.WriteString(p.Op.String())
	sb.WriteString(" ")
	sb.WriteString(formatPath(p.Path))
	switch p.Op {
	case PatchSetText:
		fmt.Fprintf(&sb, " %q", p.Value)
	case PatchSetAttr, PatchSetStyle:
		fmt.Fprintf(&sb, " %s=%q", p.Key, p.Value)
	case PatchRemoveAttr, PatchRemoveStyle, PatchAddListener, PatchRemoveListener:
		fmt.Fprintf(&sb, " %s", p.Key)
	case PatchReplace:
		fmt.Fprintf(&sb, " %s -> %s", p.Old.String(), p.Node.String())
	case PatchAppend, PatchInsert:
		fmt.Fprintf(&sb, " %s", p.Node.String())
	case PatchRemove:
		fmt.Fprintf(&sb, " #%d %s", p.Index, p.Old.String())
	case PatchMove:
		fmt.Fprintf(&sb, " #%d -> #%d", p.From, p.Index)
	}
	return sb.String()
}

func formatPath(path []int) string {
	if len(path) == 0 {
		return "[]"
	}
	return strings.ReplaceAll(fmt.Sprint(path), " ", ",")
}

// CountOps tallies patches by operation.
func CountOps[Msg any](patches []Patch[Msg]) map[PatchOp]int {
	counts := make(map[PatchOp]int)
	for _, p := range patches {
		counts[p.Op]++
	}
	return counts
}
