// Package vdom provides the virtual tree model and the reconciler for weft.
//
// A virtual tree is an immutable description of UI state built from VNode
// values. Reconcile compares two trees and produces the ordered Patch
// sequence that transforms the first into the second: create, update,
// delete, replace, and move operations that consumers replay against
// whatever live structure they maintain.
//
// # Core Types
//
// VNode is the fundamental building block representing elements, text
// leaves, and fragments. Attrs holds attributes and event handlers. Attr
// and EventHandler are used by the element factories.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Ul(Class("fruit"),
//	    Li(Key("a"), Text("Apple")),
//	    Li(Key("b"), Text("Banana")),
//	    OnClick(handler),
//	)
//
// # Reconciliation
//
// Reconcile walks both trees together. Matched nodes update in place and
// carry their consumer binding (VNode.Ref) forward; mismatched nodes are
// replaced wholesale. Keyed child lists reconcile with a double-ended
// cursor scan that recognizes stable heads and tails, reversals, and
// rotations without building a key index, falling back to a lazily built
// index for arbitrary shuffles. Unkeyed child lists match by position and
// never produce a Move.
package vdom
