package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/course-qa/internal/core/domain"
)

// MockQuestionLog captures recorded entries.
type MockQuestionLog struct {
	mu      sync.Mutex
	Entries []*domain.QuestionLogEntry

	RecordFn func(entry *domain.QuestionLogEntry) error
}

func NewMockQuestionLog() *MockQuestionLog {
	return &MockQuestionLog{}
}

func (m *MockQuestionLog) Record(ctx context.Context, entry *domain.QuestionLogEntry) error {
	if m.RecordFn != nil {
		return m.RecordFn(entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, entry)
	return nil
}

// Count returns the number of recorded entries.
func (m *MockQuestionLog) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Entries)
}
