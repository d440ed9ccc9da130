package driven

import (
	"context"

	"github.com/custodia-labs/course-qa/internal/core/domain"
)

// SnapshotStore loads and replaces the knowledge snapshot
type SnapshotStore interface {
	// Load returns the current snapshot. The result must not be older than
	// the backing document at the time Load is called, and must be treated
	// as read-only by the caller.
	// Returns an error wrapping domain.ErrSnapshotUnavailable when the
	// document is missing or malformed.
	Load(ctx context.Context) (*domain.KnowledgeSnapshot, error)

	// Save replaces the snapshot wholesale.
	Save(ctx context.Context, snapshot *domain.KnowledgeSnapshot) error

	// Location describes where the snapshot lives (for logs and reports)
	Location() string
}
