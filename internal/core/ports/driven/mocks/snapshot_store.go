package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/course-qa/internal/core/domain"
)

// MockSnapshotStore holds a snapshot in memory.
type MockSnapshotStore struct {
	mu       sync.RWMutex
	snapshot *domain.KnowledgeSnapshot

	LoadFn func() (*domain.KnowledgeSnapshot, error)
	SaveFn func(snapshot *domain.KnowledgeSnapshot) error

	Saved []*domain.KnowledgeSnapshot
}

// NewMockSnapshotStore creates a store serving the given snapshot.
// A nil snapshot makes Load report the snapshot as unavailable.
func NewMockSnapshotStore(snapshot *domain.KnowledgeSnapshot) *MockSnapshotStore {
	return &MockSnapshotStore{snapshot: snapshot}
}

func (m *MockSnapshotStore) Load(ctx context.Context) (*domain.KnowledgeSnapshot, error) {
	if m.LoadFn != nil {
		return m.LoadFn()
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snapshot == nil {
		return nil, fmt.Errorf("mock store empty: %w", domain.ErrSnapshotUnavailable)
	}
	return m.snapshot, nil
}

func (m *MockSnapshotStore) Save(ctx context.Context, snapshot *domain.KnowledgeSnapshot) error {
	if m.SaveFn != nil {
		return m.SaveFn(snapshot)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = snapshot
	m.Saved = append(m.Saved, snapshot)
	return nil
}

func (m *MockSnapshotStore) Location() string {
	return "memory://snapshot"
}
