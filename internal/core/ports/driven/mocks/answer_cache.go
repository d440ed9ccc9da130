package mocks

import (
	"context"
	"sync"
	"time"
)

// MockAnswerCache is a map-backed AnswerCache.
type MockAnswerCache struct {
	mu      sync.Mutex
	answers map[string]string

	GetFn func(key string) (string, bool, error)
	SetFn func(key, answer string, ttl time.Duration) error
}

// NewMockAnswerCache creates an empty answer cache.
func NewMockAnswerCache() *MockAnswerCache {
	return &MockAnswerCache{answers: make(map[string]string)}
}

func (m *MockAnswerCache) Get(ctx context.Context, key string) (string, bool, error) {
	if m.GetFn != nil {
		return m.GetFn(key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	answer, ok := m.answers[key]
	return answer, ok, nil
}

func (m *MockAnswerCache) Set(ctx context.Context, key, answer string, ttl time.Duration) error {
	if m.SetFn != nil {
		return m.SetFn(key, answer, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers[key] = answer
	return nil
}

// Len returns the number of cached answers (test helper).
func (m *MockAnswerCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.answers)
}
