package engine

import (
	"sync"
	"time"
)

// historyEntry is one retained frame.
type historyEntry struct {
	seq      uint64
	frame    []byte
	storedAt time.Time
}

// History is a fixed-capacity ring of encoded patch frames addressed by
// sequence number. Consumers that fall behind replay from it; once a
// sequence is overwritten, recovery needs the archive or a fresh
// snapshot.
type History struct {
	mu       sync.RWMutex
	entries  []historyEntry
	head     int // next write position
	count    int
	capacity int
}

// DefaultHistorySize is the frame retention when none is configured.
const DefaultHistorySize = 128

// NewHistory creates a ring retaining up to capacity frames.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{
		entries:  make([]historyEntry, capacity),
		capacity: capacity,
	}
}

// Add retains a copy of the frame for seq, evicting the oldest entry when
// full. Returns true if an entry was evicted. Sequences must be added in
// increasing order; Frames assumes the ring is gapless.
func (h *History) Add(seq uint64, frame []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	cp := make([]byte, len(frame))
	copy(cp, frame)

	evicted := h.count == h.capacity
	h.entries[h.head] = historyEntry{seq: seq, frame: cp, storedAt: time.Now()}
	h.head = (h.head + 1) % h.capacity
	if !evicted {
		h.count++
	}
	return evicted
}

// Frames returns the retained frames for every sequence after afterSeq,
// in order. Returns (nil, false) when the span is not fully retained: a
// partial replay would corrupt the consumer.
func (h *History) Frames(afterSeq uint64) ([][]byte, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.count == 0 {
		// Nothing ever produced: only a consumer at zero is current.
		return nil, afterSeq == 0
	}
	minSeq, maxSeq := h.minSeqLocked(), h.maxSeqLocked()
	if afterSeq >= maxSeq {
		return nil, true // nothing missed
	}
	if afterSeq+1 < minSeq {
		return nil, false // span fell out of the ring
	}

	frames := make([][]byte, 0, maxSeq-afterSeq)
	for i := 0; i < h.count; i++ {
		idx := (h.head - h.count + i + h.capacity) % h.capacity
		if h.entries[idx].seq > afterSeq {
			frames = append(frames, h.entries[idx].frame)
		}
	}
	return frames, true
}

// CanRecover reports whether Frames(afterSeq) would succeed.
func (h *History) CanRecover(afterSeq uint64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.count == 0 {
		return false
	}
	return afterSeq+1 >= h.minSeqLocked()
}

// MinSeq returns the oldest retained sequence, zero when empty.
func (h *History) MinSeq() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.minSeqLocked()
}

// MaxSeq returns the newest retained sequence, zero when empty.
func (h *History) MaxSeq() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.maxSeqLocked()
}

// Count returns the number of retained frames.
func (h *History) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Clear drops every retained frame.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.entries {
		h.entries[i] = historyEntry{}
	}
	h.head = 0
	h.count = 0
}

func (h *History) minSeqLocked() uint64 {
	if h.count == 0 {
		return 0
	}
	idx := (h.head - h.count + h.capacity) % h.capacity
	return h.entries[idx].seq
}

func (h *History) maxSeqLocked() uint64 {
	if h.count == 0 {
		return 0
	}
	idx := (h.head - 1 + h.capacity) % h.capacity
	return h.entries[idx].seq
}
