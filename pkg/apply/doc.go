// Package apply realizes patch streams against a live instance tree.
//
// A Tree mounts a virtual tree as Instances, one per node, and binds each
// node to its instance through VNode.Ref. When the next render has been
// reconciled, Apply replays the resulting patches: created subtrees mount,
// matched nodes update in place, moved children reorder, and deleted
// subtrees tear down bottom-up with their attached resources.
//
// Instances are the stable side of the system. A node is rebuilt every
// render; its instance survives as long as the reconciler can match it,
// carrying listeners and resources across reorders and updates. Event
// dispatch goes through Instance.Dispatch, which routes by event type to
// the listeners captured from the node's on* attributes.
//
// Faults never abort a stream. A patch that references an unbound node is
// logged and skipped, a failing teardown is contained per resource, and
// Apply returns everything that went wrong joined into one error while the
// rest of the stream still applied.
package apply
