package storage

import (
	"context"
	"slices"
	"sync"
)

// MemStore is an in-memory snapshot store for tests.
type MemStore struct {
	mtx  sync.Mutex
	data map[string][]byte
}

// NewMemStore creates a new MemStore.
func NewMemStore() *MemStore {
	return &MemStore{data: map[string][]byte{}}
}

// Put stores a snapshot in memory.
func (m *MemStore) Put(_ context.Context, id string, data []byte) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.data[id] = slices.Clone(data)
	return nil
}

// Get retrieves a snapshot from memory.
func (m *MemStore) Get(_ context.Context, id string) ([]byte, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	data, ok := m.data[id]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return slices.Clone(data), nil
}

// Delete removes a snapshot from memory.
func (m *MemStore) Delete(_ context.Context, id string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if _, ok := m.data[id]; !ok {
		return ErrSnapshotNotFound
	}
	delete(m.data, id)
	return nil
}

func (m *MemStore) String() string {
	return "mem"
}
