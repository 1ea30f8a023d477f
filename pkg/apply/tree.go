package apply

import (
	"errors"
	"log/slog"

	"github.com/weft-ui/weft/pkg/vdom"
)

// Tree is a reference consumer of patch streams: it realizes a node tree
// as Instances, binds every mounted node through Ref, and replays
// reconcile output against the live structure. Engines use it as their
// event-routing mirror; tests use it to prove streams converge.
type Tree struct {
	root   *Instance
	byID   map[uint64]*Instance
	logger *slog.Logger
	nextID uint64

	instances int
	counts    map[vdom.PatchOp]uint64
}

// Option configures a Tree.
type Option func(*Tree)

// WithLogger sets the logger used for fault and teardown reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tree) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Mount realizes root and binds every node in it. A nil root mounts an
// empty tree; the first root-level Create populates it.
func Mount(root *vdom.VNode, opts ...Option) *Tree {
	t := &Tree{
		byID:   make(map[uint64]*Instance),
		logger: slog.Default(),
		counts: make(map[vdom.PatchOp]uint64),
	}
	for _, opt := range opts {
		opt(t)
	}
	if root != nil {
		t.root = t.mount(root, nil)
	}
	return t
}

// Root returns the root instance, nil for an empty tree.
func (t *Tree) Root() *Instance { return t.root }

// Len returns the number of live instances.
func (t *Tree) Len() int { return t.instances }

// Find returns the live instance with the given ID.
func (t *Tree) Find(id uint64) (*Instance, bool) {
	in, ok := t.byID[id]
	return in, ok
}

// Snapshot rebuilds a plain tree from the live instances. Reconciling a
// snapshot against the authoritative tree it mirrors yields no patches.
func (t *Tree) Snapshot() *vdom.VNode {
	if t.root == nil {
		return nil
	}
	return t.root.snapshot()
}

// Stats reports instance and operation counts.
func (t *Tree) Stats() Stats {
	return Stats{
		Instances: t.instances,
		Created:   t.counts[vdom.OpCreate],
		Updated:   t.counts[vdom.OpUpdate],
		Deleted:   t.counts[vdom.OpDelete],
		Replaced:  t.counts[vdom.OpReplace],
		Moved:     t.counts[vdom.OpMove],
	}
}

// Stats are cumulative counters for a tree.
type Stats struct {
	Instances int
	Created   uint64
	Updated   uint64
	Deleted   uint64
	Replaced  uint64
	Moved     uint64
}

// Apply replays one reconcile pass worth of patches in stream order.
// Faulted patches are skipped and teardown failures contained; the
// returned error joins everything that went wrong while the rest of the
// stream still applied.
func (t *Tree) Apply(patches []vdom.Patch) error {
	var errs []error
	for i := range patches {
		if err := t.apply(&patches[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *Tree) apply(p *vdom.Patch) error {
	switch p.Op {
	case vdom.OpCreate:
		return t.applyCreate(p)
	case vdom.OpUpdate:
		return t.applyUpdate(p)
	case vdom.OpDelete:
		return t.applyDelete(p)
	case vdom.OpReplace:
		return t.applyReplace(p)
	case vdom.OpMove:
		return t.applyMove(p)
	default:
		return t.fault(p, errors.New("unknown op"))
	}
}

func (t *Tree) applyCreate(p *vdom.Patch) error {
	if p.Parent == nil {
		t.root = t.mount(p.Node, nil)
		t.counts[vdom.OpCreate]++
		return nil
	}
	parent, ok := binding(p.Parent)
	if !ok {
		return t.fault(p, ErrNoParent)
	}
	in := t.mount(p.Node, parent)
	t.place(parent, in, p.Parent)
	t.counts[vdom.OpCreate]++
	return nil
}

func (t *Tree) applyUpdate(p *vdom.Patch) error {
	in, ok := binding(p.New)
	if !ok {
		return t.fault(p, ErrNotBound)
	}
	in.syncNode(p.New)
	t.counts[vdom.OpUpdate]++
	return nil
}

func (t *Tree) applyDelete(p *vdom.Patch) error {
	in, ok := binding(p.Node)
	if !ok {
		return t.fault(p, ErrNotBound)
	}
	if in.parent == nil {
		if t.root == in {
			t.root = nil
		}
	} else {
		in.parent.children = removeChild(in.parent.children, in)
	}
	errs := t.teardown(in)
	t.counts[vdom.OpDelete]++
	return t.teardownErrors(p, errs)
}

func (t *Tree) applyReplace(p *vdom.Patch) error {
	old, ok := binding(p.Old)
	if !ok {
		return t.fault(p, ErrNotBound)
	}
	parent := old.parent
	errs := t.teardown(old)
	if parent == nil {
		t.root = t.mount(p.New, nil)
	} else {
		at := indexOf(parent.children, old)
		in := t.mount(p.New, parent)
		if at >= 0 {
			parent.children[at] = in
		} else {
			parent.children = append(parent.children, in)
		}
	}
	t.counts[vdom.OpReplace]++
	return t.teardownErrors(p, errs)
}

func (t *Tree) applyMove(p *vdom.Patch) error {
	in, ok := binding(p.Node)
	if !ok {
		return t.fault(p, ErrNotBound)
	}
	parent, ok := binding(p.Parent)
	if !ok {
		return t.fault(p, ErrNoParent)
	}
	if in.parent != parent {
		return t.fault(p, ErrForeignParent)
	}
	parent.children = removeChild(parent.children, in)
	in.syncNode(p.Node)
	t.place(parent, in, p.Parent)
	t.counts[vdom.OpMove]++
	return nil
}

// mount realizes a subtree wholesale, binding each node to a fresh
// instance through Ref.
func (t *Tree) mount(node *vdom.VNode, parent *Instance) *Instance {
	t.nextID++
	in := &Instance{id: t.nextID, tree: t, parent: parent}
	in.syncNode(node)
	node.Ref = in
	t.byID[in.id] = in
	t.instances++
	for _, child := range node.Children {
		if child == nil {
			continue
		}
		in.children = append(in.children, t.mount(child, in))
	}
	return in
}

// place inserts in among parent's live children so that bound siblings
// read in the order of parentNode's child list. From/To on the patch are
// decision-time coordinates; placement goes by final order instead, so
// junk awaiting deletion never skews an index. Unbound siblings do not
// constrain placement.
func (t *Tree) place(parent *Instance, in *Instance, parentNode *vdom.VNode) {
	rank := make(map[*Instance]int, len(parentNode.Children))
	pos := 0
	for _, child := range parentNode.Children {
		if child == nil {
			continue
		}
		if sib, ok := binding(child); ok {
			rank[sib] = pos
		}
		pos++
	}

	target, ok := rank[in]
	if !ok {
		parent.children = append(parent.children, in)
		return
	}
	at := len(parent.children)
	for i, sib := range parent.children {
		if r, ok := rank[sib]; ok && r > target {
			at = i
			break
		}
	}
	parent.children = append(parent.children, nil)
	copy(parent.children[at+1:], parent.children[at:])
	parent.children[at] = in
}

// teardown releases a detached subtree bottom-up: child resources go
// before parents, every instance is unbound, and failures are collected
// rather than short-circuiting.
func (t *Tree) teardown(in *Instance) []error {
	var errs []error
	for _, child := range in.children {
		errs = append(errs, t.teardown(child)...)
	}
	errs = append(errs, in.release()...)
	if in.node != nil && in.node.Ref == in {
		in.node.Ref = nil
	}
	delete(t.byID, in.id)
	t.instances--
	in.children = nil
	in.parent = nil
	return errs
}

// Rebind walks the authoritative tree after a pass and points every
// bound instance at its current node. Listener closures change between
// renders without dirtying attribute equality, so a node that produced
// no patch can still carry new handlers.
func (t *Tree) Rebind(root *vdom.VNode) {
	if root == nil {
		return
	}
	if in, ok := binding(root); ok {
		in.syncNode(root)
	}
	for _, child := range root.Children {
		t.Rebind(child)
	}
}

func (t *Tree) fault(p *vdom.Patch, err error) error {
	f := &Fault{Op: p.Op, Detail: p.String(), Err: err}
	t.logger.Warn("patch skipped", "patch", f.Detail, "reason", err)
	return f
}

func (t *Tree) teardownErrors(p *vdom.Patch, errs []error) error {
	for _, err := range errs {
		t.logger.Warn("teardown failed", "patch", p.String(), "error", err)
	}
	return errors.Join(errs...)
}

func binding(v *vdom.VNode) (*Instance, bool) {
	if v == nil {
		return nil, false
	}
	in, ok := v.Ref.(*Instance)
	return in, ok && in != nil
}

func removeChild(children []*Instance, in *Instance) []*Instance {
	for i, c := range children {
		if c == in {
			return append(children[:i], children[i+1:]...)
		}
	}
	return children
}

func indexOf(children []*Instance, in *Instance) int {
	for i, c := range children {
		if c == in {
			return i
		}
	}
	return -1
}
