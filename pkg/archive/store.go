package archive

import (
	"context"
	"errors"
)

// Common store errors.
var (
	// ErrNotFound is returned when a requested sequence is not archived.
	ErrNotFound = errors.New("archive: frame not found")

	// ErrClosed is returned for operations on a closed store.
	ErrClosed = errors.New("archive: store is closed")
)

// Store persists encoded frames by sequence number. The engine writes
// every pass to its archive (when one is configured) so consumers can
// replay history beyond the in-memory ring, and audits can reconstruct
// the exact patch stream a tree went through.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Put archives the frame for seq. Overwrites any previous frame at
	// the same sequence.
	Put(ctx context.Context, seq uint64, frame []byte) error

	// Get returns the frame archived for seq, or ErrNotFound.
	Get(ctx context.Context, seq uint64) ([]byte, error)

	// Range returns the frames for [fromSeq, toSeq] in sequence order.
	// A gap anywhere in the range is ErrNotFound: a partial replay is
	// worse than none, the caller falls back to a snapshot.
	Range(ctx context.Context, fromSeq, toSeq uint64) ([][]byte, error)

	// Prune discards every frame with a sequence below beforeSeq.
	Prune(ctx context.Context, beforeSeq uint64) error

	// Close releases any resources held by the store.
	Close() error
}
