package vdom

import (
	"fmt"
	"strings"
)

// PatchOp is the type of patch operation.
type PatchOp uint8

const (
	OpCreate  PatchOp = 0x01 // Attach a new node
	OpUpdate  PatchOp = 0x02 // Sync attributes or text in place
	OpDelete  PatchOp = 0x03 // Detach a node
	OpReplace PatchOp = 0x04 // Swap a node for an unrelated one, same position
	OpMove    PatchOp = 0x05 // Relocate a keyed node within its sibling list
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case OpCreate:
		return "Create"
	case OpUpdate:
		return "Update"
	case OpDelete:
		return "Delete"
	case OpReplace:
		return "Replace"
	case OpMove:
		return "Move"
	default:
		return "Unknown"
	}
}

// Patch is a single operation required to transform the previous tree into
// the next one. From and To are sibling positions in the previous and next
// child-list coordinate spaces at the moment the operation is decided;
// consumers translate them into actual structural moves. They are -1 when
// the operation carries no position (root patches, Update, Replace).
type Patch struct {
	Op     PatchOp
	Node   *VNode // Create/Move: the next-tree node; Delete: the detached node
	Old    *VNode // Update/Replace: the superseded previous node
	New    *VNode // Update/Replace: the authoritative next node
	Parent *VNode // Create/Move: the next-tree parent; nil at the root
	From   int    // Move/Delete: position in the previous child list
	To     int    // Move/Create: position in the next child list
}

// Result is the outcome of a reconcile pass.
type Result struct {
	Patches []Patch // In application order
	Node    *VNode  // Authoritative node after the pass; nil after a pure delete
}

// String renders the patch for logs and the diff command.
func (p Patch) String() string {
	switch p.Op {
	case OpCreate:
		if p.To < 0 {
			return fmt.Sprintf("Create %s", describe(p.Node))
		}
		return fmt.Sprintf("Create %s at %d", describe(p.Node), p.To)
	case OpUpdate:
		return fmt.Sprintf("Update %s", describe(p.New))
	case OpDelete:
		if p.From < 0 {
			return fmt.Sprintf("Delete %s", describe(p.Node))
		}
		return fmt.Sprintf("Delete %s at %d", describe(p.Node), p.From)
	case OpReplace:
		return fmt.Sprintf("Replace %s with %s", describe(p.Old), describe(p.New))
	case OpMove:
		return fmt.Sprintf("Move %s %d -> %d", describe(p.Node), p.From, p.To)
	default:
		return "Unknown"
	}
}

// describe renders a short identity for a node: tag[key=k], text "...".
func describe(v *VNode) string {
	if v == nil {
		return "<nil>"
	}
	switch v.Kind {
	case KindText:
		text := v.Text
		if len(text) > 16 {
			text = text[:16] + "..."
		}
		return fmt.Sprintf("text %q", text)
	case KindFragment:
		return fmt.Sprintf("fragment(%d)", len(v.Children))
	default:
		var b strings.Builder
		b.WriteString(v.Tag)
		if v.Key != "" {
			b.WriteString("[key=")
			b.WriteString(v.Key)
			b.WriteString("]")
		}
		return b.String()
	}
}

func createPatch(node, parent *VNode, to int) Patch {
	return Patch{Op: OpCreate, Node: node, Parent: parent, From: -1, To: to}
}

func updatePatch(old, next *VNode) Patch {
	return Patch{Op: OpUpdate, Old: old, New: next, From: -1, To: -1}
}

func deletePatch(node *VNode, from int) Patch {
	return Patch{Op: OpDelete, Node: node, From: from, To: -1}
}

func replacePatch(old, next *VNode) Patch {
	return Patch{Op: OpReplace, Old: old, New: next, From: -1, To: -1}
}

func movePatch(node, parent *VNode, from, to int) Patch {
	return Patch{Op: OpMove, Node: node, Parent: parent, From: from, To: to}
}
