package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/course-qa/internal/core/domain"
)

// AnswerStrategy produces the natural-language answer for a question.
// Implementations never fail: problems degrade to a fixed fallback string.
type AnswerStrategy interface {
	Compose(ctx context.Context, question string, links []domain.Resource) string

	// Mode identifies the strategy in health reports and logs
	Mode() domain.AnswerMode
}

// AnswerCache memoises generated answers by question
type AnswerCache interface {
	// Get returns the cached answer; ok is false on a miss
	Get(ctx context.Context, key string) (answer string, ok bool, err error)

	Set(ctx context.Context, key string, answer string, ttl time.Duration) error
}

// QuestionLog records answered questions for later review
type QuestionLog interface {
	Record(ctx context.Context, entry *domain.QuestionLogEntry) error
}
