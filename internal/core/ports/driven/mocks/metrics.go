package mocks

import (
	"sync"
	"time"

	"github.com/custodia-labs/course-qa/internal/core/domain"
)

// MockMetrics counts observations.
type MockMetrics struct {
	mu sync.Mutex

	Questions      int
	LastLinks      int
	LoadFailures   int
	Skipped        int
	UpstreamErrors map[string]int
	CacheHits      int
	CacheMisses    int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{UpstreamErrors: make(map[string]int)}
}

func (m *MockMetrics) ObserveQuestion(mode domain.AnswerMode, links int, took time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Questions++
	m.LastLinks = links
}

func (m *MockMetrics) SnapshotLoadFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadFailures++
}

func (m *MockMetrics) EntriesSkipped(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Skipped += n
}

func (m *MockMetrics) UpstreamFailed(service string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpstreamErrors[service]++
}

func (m *MockMetrics) AnswerCacheHit(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.CacheHits++
	} else {
		m.CacheMisses++
	}
}
