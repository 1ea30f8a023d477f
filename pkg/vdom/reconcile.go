package vdom

import (
	"reflect"
	"strings"
)

// Reconcile compares two trees and returns the patches needed to transform
// prev into next, together with the authoritative node after the pass.
//
// Both trees are read-only to the reconciler with one exception: whenever a
// prev/next pair is matched as the same logical node, prev's Ref is carried
// onto next before any patches for the pair are emitted. Consumers rely on
// this to keep bindings alive across reorders.
func Reconcile(prev, next *VNode) Result {
	var patches []Patch
	reconcile(prev, next, &patches)
	return Result{Patches: patches, Node: next}
}

// Diff is shorthand for Reconcile(prev, next).Patches.
func Diff(prev, next *VNode) []Patch {
	var patches []Patch
	reconcile(prev, next, &patches)
	return patches
}

// reconcile recursively compares a pair of nodes and appends patches.
func reconcile(prev, next *VNode, patches *[]Patch) {
	// Both nil - nothing to do
	if prev == nil && next == nil {
		return
	}

	// Node added
	if prev == nil {
		*patches = append(*patches, createPatch(next, nil, -1))
		return
	}

	// Node removed
	if next == nil {
		*patches = append(*patches, deletePatch(prev, -1))
		return
	}

	// Different logical node - replace, and never look below: the whole
	// subtree is superseded by the replacement.
	if !sameNode(prev, next) {
		*patches = append(*patches, replacePatch(prev, next))
		return
	}

	// Same logical node: the binding survives the pass.
	next.Ref = prev.Ref

	switch prev.Kind {
	case KindText:
		if prev.Text != next.Text {
			*patches = append(*patches, updatePatch(prev, next))
		}
	case KindElement:
		if !attrsEqual(prev.Attrs, next.Attrs) {
			*patches = append(*patches, updatePatch(prev, next))
		}
		reconcileChildren(prev, next, patches)
	case KindFragment:
		reconcileChildren(prev, next, patches)
	}
}

// sameNode reports whether prev and next are the same logical node: same
// kind, same tag, and the same identity key. Two unkeyed nodes of the same
// kind and tag count as the same; a keyed node never matches an unkeyed one.
func sameNode(prev, next *VNode) bool {
	return prev.Kind == next.Kind && prev.Tag == next.Tag && getKey(prev) == getKey(next)
}

// reconcileChildren dispatches a pair of child lists to keyed or positional
// reconciliation. parent is the next-tree node that owns the new list.
func reconcileChildren(prev, next *VNode, patches *[]Patch) {
	oldCh := compact(prev.Children)
	newCh := compact(next.Children)

	switch {
	case len(oldCh) == 0 && len(newCh) == 0:
		// Nothing on either side.
	case len(oldCh) == 0:
		for i, child := range newCh {
			*patches = append(*patches, createPatch(child, next, i))
		}
	case len(newCh) == 0:
		for i, child := range oldCh {
			*patches = append(*patches, deletePatch(child, i))
		}
	case hasKeys(oldCh) || hasKeys(newCh):
		reconcileKeyed(next, oldCh, newCh, patches)
	default:
		reconcilePositional(next, oldCh, newCh, patches)
	}
}

// reconcilePositional matches unkeyed children by index. Reorders degrade to
// in-place updates and tail churn; an unkeyed list never produces a Move.
func reconcilePositional(parent *VNode, oldCh, newCh []*VNode, patches *[]Patch) {
	maxLen := len(oldCh)
	if len(newCh) > maxLen {
		maxLen = len(newCh)
	}

	for i := 0; i < maxLen; i++ {
		switch {
		case i >= len(oldCh):
			*patches = append(*patches, createPatch(newCh[i], parent, i))
		case i >= len(newCh):
			*patches = append(*patches, deletePatch(oldCh[i], i))
		default:
			reconcile(oldCh[i], newCh[i], patches)
		}
	}
}

// compact drops nil entries from a child list. Malformed producers can leave
// nil holes; the reconciler and every consumer see the compacted list, so
// patch coordinates stay consistent. Allocates only when a hole exists.
func compact(children []*VNode) []*VNode {
	for i, child := range children {
		if child != nil {
			continue
		}
		out := make([]*VNode, i, len(children))
		copy(out, children[:i])
		for _, rest := range children[i+1:] {
			if rest != nil {
				out = append(out, rest)
			}
		}
		return out
	}
	return children
}

// getKey extracts the identity key of a node. Keys are carried by element
// nodes only; the Key field wins, with a "key" attribute honored for
// hand-built literals.
func getKey(node *VNode) string {
	if node == nil || node.Kind != KindElement {
		return ""
	}
	if node.Key != "" {
		return node.Key
	}
	if node.Attrs == nil {
		return ""
	}
	if key, ok := node.Attrs["key"].(string); ok {
		return key
	}
	return ""
}

// hasKeys returns true if any child carries an identity key.
func hasKeys(children []*VNode) bool {
	for _, child := range children {
		if getKey(child) != "" {
			return true
		}
	}
	return false
}

// isEventHandler returns true if the key is an event handler (starts with "on").
// Case-insensitive to catch onclick, ONCLICK, onClick, OnLoad, etc.
func isEventHandler(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}

// attrsEqual reports shallow equality of two attribute maps. Event handlers
// and the "key" pseudo-attribute are excluded: handlers are not serializable
// state, and the key already participates in identity.
func attrsEqual(prev, next Attrs) bool {
	for key, prevVal := range prev {
		if isEventHandler(key) || key == "key" {
			continue
		}
		nextVal, exists := next[key]
		if !exists || !valueEqual(prevVal, nextVal) {
			return false
		}
	}
	for key := range next {
		if isEventHandler(key) || key == "key" {
			continue
		}
		if _, exists := prev[key]; !exists {
			return false
		}
	}
	return true
}

// valueEqual compares two attribute values for equality.
func valueEqual(a, b any) bool {
	// Fast path for common types
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return av == bv
		}
		return false
	case int:
		if bv, ok := b.(int); ok {
			return av == bv
		}
		return false
	case int64:
		if bv, ok := b.(int64); ok {
			return av == bv
		}
		return false
	case float64:
		if bv, ok := b.(float64); ok {
			return av == bv
		}
		return false
	case bool:
		if bv, ok := b.(bool); ok {
			return av == bv
		}
		return false
	case nil:
		return b == nil
	}
	// Fallback to reflect for complex types
	return reflect.DeepEqual(a, b)
}
