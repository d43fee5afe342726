// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package memo

import (
	"context"
	"sync"
)

// Store persists successful upstream results keyed by (source, argument).
// Implementations must never return a value stored under a different key
// and must make PutIfAbsent a no-op when the key already holds a value.
type Store interface {
	Get(ctx context.Context, source, argument string) (value []byte, ok bool, err error)
	PutIfAbsent(ctx context.Context, source, argument string, value []byte) error
}

type entryKey struct {
	source   string
	argument string
}

// MemoryStore is a process-lifetime Store. Writes to different keys never
// contend on a shared lock.
type MemoryStore struct {
	entries sync.Map // entryKey -> []byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get returns the value stored for (source, argument).
func (s *MemoryStore) Get(_ context.Context, source, argument string) ([]byte, bool, error) {
	v, ok := s.entries.Load(entryKey{source, argument})
	if !ok {
		return nil, false, nil
	}
	return v.([]byte), true, nil
}

// PutIfAbsent stores a copy of value unless the key is already present.
func (s *MemoryStore) PutIfAbsent(_ context.Context, source, argument string, value []byte) error {
	s.entries.LoadOrStore(entryKey{source, argument}, append([]byte(nil), value...))
	return nil
}

// Len returns the number of cached entries.
func (s *MemoryStore) Len() int {
	n := 0
	s.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
