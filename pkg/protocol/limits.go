package protocol

import "errors"

// Depth limits. Node trees and the patches that carry them are recursive;
// without a cap, a few hundred bytes of nesting markers can blow the stack.
const (
	// MaxNodeDepth limits the nesting depth of decoded node trees.
	MaxNodeDepth = 64

	// MaxPatchDepth limits the nesting depth of patch payloads. Patches
	// embed node trees, so this tracks MaxNodeDepth with headroom for the
	// patch envelope itself.
	MaxPatchDepth = MaxNodeDepth + 8
)

// ErrMaxDepthExceeded is returned when decoding recurses past a depth limit.
var ErrMaxDepthExceeded = errors.New("protocol: maximum depth exceeded")

// checkDepth guards one level of decode recursion.
func checkDepth(depth, max int) error {
	if depth > max {
		return ErrMaxDepthExceeded
	}
	return nil
}
