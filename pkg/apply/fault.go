package apply

import (
	"errors"
	"fmt"

	"github.com/weft-ui/weft/pkg/vdom"
)

// Reasons a patch can be skipped or partially applied.
var (
	// ErrNotBound means the patch names a node with no live instance. The
	// patch is dropped; the rest of the stream still applies.
	ErrNotBound = errors.New("node has no live binding")

	// ErrNoParent means the patch's parent node has no live instance.
	ErrNoParent = errors.New("parent has no live binding")

	// ErrForeignParent means a move named a parent the node does not
	// belong to. Moves only relocate a node among its own siblings.
	ErrForeignParent = errors.New("move crosses parents")
)

// Fault records one patch that could not be applied cleanly. Faults are
// logged and collected rather than aborting the stream: a consumer that
// stops mid-stream leaves the tree in a worse state than one that skips.
type Fault struct {
	Op     vdom.PatchOp
	Detail string // the patch's own rendering
	Err    error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("apply %s: %v (%s)", f.Op, f.Err, f.Detail)
}

func (f *Fault) Unwrap() error { return f.Err }
