package driven

import (
	"context"

	"github.com/custodia-labs/course-qa/internal/core/domain"
)

// CourseSource fetches course resources grouped by week
type CourseSource interface {
	FetchCourse(ctx context.Context) (domain.CourseContent, error)

	// URL is the public location recorded in snapshot metadata
	URL() string
}

// ForumPage is one page of forum topics
type ForumPage struct {
	Posts   []domain.DiscoursePost
	HasNext bool
}

// ForumSource lists forum topics page by page
type ForumSource interface {
	FetchPage(ctx context.Context, page int) (*ForumPage, error)

	// URL is the public location recorded in snapshot metadata
	URL() string
}

// PostProcessor transforms forum posts after scraping.
// Processors form a pipeline: Deduplicator -> TitleCleaner -> TagNormaliser -> DateWindow.
type PostProcessor interface {
	Process(posts []domain.DiscoursePost) []domain.DiscoursePost

	// Name returns the processor name for logging/debugging.
	Name() string

	// Order returns the processor order in the pipeline (lower = earlier).
	Order() int
}

// PostProcessorPipeline chains post-processors in order.
type PostProcessorPipeline interface {
	Process(posts []domain.DiscoursePost) []domain.DiscoursePost

	// Add adds a processor to the pipeline.
	Add(processor PostProcessor)

	// List returns processor names in order.
	List() []string
}
