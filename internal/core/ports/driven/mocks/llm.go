package mocks

import (
	"context"
	"sync"
)

// MockLLMService is a scripted LLMService.
type MockLLMService struct {
	mu sync.Mutex

	CompleteFn func(ctx context.Context, systemPrompt, userMessage string) (string, error)
	Reply      string

	Calls     []string
	Closed    bool
	ModelName string
}

// NewMockLLMService creates an LLM mock that always replies with the given text.
func NewMockLLMService(reply string) *MockLLMService {
	return &MockLLMService{Reply: reply, ModelName: "mock-model"}
}

func (m *MockLLMService) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, userMessage)
	m.mu.Unlock()

	if m.CompleteFn != nil {
		return m.CompleteFn(ctx, systemPrompt, userMessage)
	}
	return m.Reply, nil
}

// CallCount returns how many completions were requested.
func (m *MockLLMService) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func (m *MockLLMService) Model() string {
	return m.ModelName
}

func (m *MockLLMService) Close() error {
	m.Closed = true
	return nil
}
