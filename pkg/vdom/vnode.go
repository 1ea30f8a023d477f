package vdom

import "strings"

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // <div>, <li>, etc.
	KindText                  // Plain text leaf
	KindFragment              // Grouping without a wrapper element
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// VNode is one node of a virtual tree. Trees are treated as immutable by the
// reconciler: Ref is the only field it ever writes (see Reconcile).
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag name (e.g., "div")
	Attrs    Attrs    // Attributes and event handlers
	Children []*VNode // Child nodes
	Key      string   // Reconciliation key; "" means unkeyed
	Text     string   // For KindText
	Ref      any      // Consumer binding, carried across matched pairs
}

// Attrs holds attributes and event handlers. Handlers live under lowercase
// "on"-prefixed keys and are excluded from attribute equality.
type Attrs map[string]any

// Event is the payload delivered to a handler when a consumer dispatches an
// event against the live tree.
type Event struct {
	Type  string // "click", "input", etc.
	Value any    // Consumer-supplied payload
}

// Handler is the function form stored under on* attribute keys.
type Handler func(Event)

// Handlers returns the event handlers declared on this node, keyed by event
// name without the "on" prefix. Returns nil if the node has none.
func (v *VNode) Handlers() map[string]Handler {
	if v == nil || v.Kind != KindElement {
		return nil
	}
	var out map[string]Handler
	for key, val := range v.Attrs {
		if !strings.HasPrefix(key, "on") {
			continue
		}
		h, ok := val.(Handler)
		if !ok {
			continue
		}
		if out == nil {
			out = make(map[string]Handler)
		}
		out[strings.ToLower(key[2:])] = h
	}
	return out
}

// Interactive returns true if this node declares at least one event handler.
func (v *VNode) Interactive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for key := range v.Attrs {
		if strings.HasPrefix(key, "on") {
			return true
		}
	}
	return false
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// EventHandler pairs an event attribute name with its handler.
type EventHandler struct {
	Event   string // "onclick", "oninput", etc.
	Handler Handler
}
