package driven

import (
	"context"

	"github.com/custodia-labs/course-qa/internal/core/domain"
)

// LLMService generates answer text from a system instruction and a question
type LLMService interface {
	// Complete returns the model's single text reply
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)

	// Model returns the model name being used
	Model() string

	// Close releases resources held by the LLM service
	Close() error
}

// AIServiceFactory creates LLM services from settings
type AIServiceFactory interface {
	// CreateLLMService returns nil, nil when settings are not configured
	CreateLLMService(settings *domain.LLMSettings) (LLMService, error)
}
