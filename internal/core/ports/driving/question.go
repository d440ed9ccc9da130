package driving

import (
	"context"

	"github.com/custodia-labs/course-qa/internal/core/domain"
)

// QuestionService answers questions against the knowledge snapshot
type QuestionService interface {
	// Answer matches the question against the snapshot and returns the ranked
	// links with an answer string.
	// Returns an error wrapping domain.ErrSnapshotUnavailable if the snapshot
	// cannot be loaded.
	Answer(ctx context.Context, req domain.QuestionRequest) (*domain.AnswerResponse, error)

	// Health reports service status; it never fails
	Health(ctx context.Context) *domain.HealthReport
}

// IngestService builds a fresh snapshot from the course site and forum
type IngestService interface {
	// Run scrapes both sources and replaces the snapshot.
	// Returns domain.ErrLockHeld if another run is in progress.
	Run(ctx context.Context) (*domain.IngestReport, error)
}
