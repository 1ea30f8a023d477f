package archive

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store for tests and single-node setups.
type MemoryStore struct {
	mu     sync.RWMutex
	frames map[uint64][]byte
	closed bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{frames: make(map[uint64][]byte)}
}

// Put archives a copy of the frame for seq.
func (s *MemoryStore) Put(_ context.Context, seq uint64, frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	cp := make([]byte, len(frame))
	copy(cp, frame)
	s.frames[seq] = cp
	return nil
}

// Get returns the frame for seq, or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, seq uint64) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	frame, ok := s.frames[seq]
	if !ok {
		return nil, ErrNotFound
	}
	return frame, nil
}

// Range returns the frames for [fromSeq, toSeq] in order, or ErrNotFound
// on any gap.
func (s *MemoryStore) Range(_ context.Context, fromSeq, toSeq uint64) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	if fromSeq > toSeq {
		return nil, nil
	}
	frames := make([][]byte, 0, toSeq-fromSeq+1)
	for seq := fromSeq; seq <= toSeq; seq++ {
		frame, ok := s.frames[seq]
		if !ok {
			return nil, ErrNotFound
		}
		frames = append(frames, frame)
	}
	return frames, nil
}

// Prune discards every frame below beforeSeq.
func (s *MemoryStore) Prune(_ context.Context, beforeSeq uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	for seq := range s.frames {
		if seq < beforeSeq {
			delete(s.frames, seq)
		}
	}
	return nil
}

// Len returns the number of archived frames.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.frames)
}

// Close marks the store closed; further operations return ErrClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.frames = nil
	return nil
}
