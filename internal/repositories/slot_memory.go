package repositories

import (
	"context"
	"sync"
)

// MemorySlotStore is an in-memory implementation of SlotStore.
type MemorySlotStore struct {
	data []byte
	mu   sync.RWMutex
}

// NewMemorySlotStore creates a new instance of MemorySlotStore.
func NewMemorySlotStore() *MemorySlotStore {
	return &MemorySlotStore{}
}

// Load returns a copy of the stored snapshot.
func (s *MemorySlotStore) Load(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), s.data...), nil
}

// Save replaces the stored snapshot.
func (s *MemorySlotStore) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = append([]byte{}, data...)
	return nil
}
