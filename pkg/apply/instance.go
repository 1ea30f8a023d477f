package apply

import (
	"fmt"
	"runtime/debug"

	"github.com/weft-ui/weft/pkg/vdom"
)

// Instance is the live realization of one mounted node. It owns the node's
// event listeners and any resources attached to it; both follow the
// instance, not the tree, so a reorder or an attribute update never tears
// them down.
type Instance struct {
	id       uint64
	tree     *Tree
	parent   *Instance
	children []*Instance

	node      *vdom.VNode
	listeners map[string]vdom.Handler
	resources []Resource
}

// Resource is anything attached to an instance that needs teardown when
// the instance is detached: a subscription, a ticker, an open handle.
type Resource interface {
	Release() error
}

// ResourceFunc adapts a plain function to the Resource interface.
type ResourceFunc func() error

func (f ResourceFunc) Release() error { return f() }

// ID returns the instance's stable identifier. IDs are unique for the
// lifetime of the tree and never reused.
func (in *Instance) ID() uint64 { return in.id }

// Node returns the node this instance currently realizes.
func (in *Instance) Node() *vdom.VNode { return in.node }

// Parent returns the owning instance, nil at the root.
func (in *Instance) Parent() *Instance { return in.parent }

// Children returns the live child instances in sibling order. The slice
// is shared; callers must not modify it.
func (in *Instance) Children() []*Instance { return in.children }

// Attach registers a resource to be released when the instance is
// detached from the tree.
func (in *Instance) Attach(r Resource) {
	if r != nil {
		in.resources = append(in.resources, r)
	}
}

// Dispatch routes an event to this instance's listener for the event type
// and reports whether a listener ran. A panicking listener is contained
// and logged; the tree stays consistent.
func (in *Instance) Dispatch(e vdom.Event) bool {
	h, ok := in.listeners[e.Type]
	if !ok {
		return false
	}
	in.safeCall(h, e)
	return true
}

func (in *Instance) safeCall(h vdom.Handler, e vdom.Event) {
	defer func() {
		if r := recover(); r != nil {
			in.tree.logger.Error("listener panic",
				"instance", in.id,
				"event", e.Type,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	h(e)
}

// syncNode points the instance at its current node and refreshes the
// listener map from the node's handlers.
func (in *Instance) syncNode(node *vdom.VNode) {
	in.node = node
	in.listeners = node.Handlers()
}

// release tears down this instance's resources, continuing past failures
// so one bad teardown cannot leak its siblings.
func (in *Instance) release() []error {
	var errs []error
	for _, r := range in.resources {
		if err := safeRelease(r); err != nil {
			errs = append(errs, fmt.Errorf("instance %d: %w", in.id, err))
		}
	}
	in.resources = nil
	in.listeners = nil
	return errs
}

func safeRelease(r Resource) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("release panic: %v", p)
		}
	}()
	return r.Release()
}

// snapshot rebuilds a plain node from the live instance. Structure comes
// from the instance's children, content from its node; an instance whose
// siblings reordered around it needs no patch of its own, so its node's
// child slice may be stale while the instance order is not.
func (in *Instance) snapshot() *vdom.VNode {
	n := &vdom.VNode{
		Kind: in.node.Kind,
		Tag:  in.node.Tag,
		Key:  in.node.Key,
		Text: in.node.Text,
	}
	if len(in.node.Attrs) > 0 {
		n.Attrs = make(vdom.Attrs, len(in.node.Attrs))
		for k, v := range in.node.Attrs {
			n.Attrs[k] = v
		}
	}
	for _, child := range in.children {
		n.Children = append(n.Children, child.snapshot())
	}
	return n
}
