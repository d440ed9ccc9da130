package driven

import (
	"time"

	"github.com/custodia-labs/course-qa/internal/core/domain"
)

// Metrics receives pipeline observations.
// Every method must be safe for concurrent use.
type Metrics interface {
	ObserveQuestion(mode domain.AnswerMode, links int, took time.Duration)
	SnapshotLoadFailed()
	EntriesSkipped(n int)
	UpstreamFailed(service string)
	AnswerCacheHit(hit bool)
}

// NopMetrics discards all observations
type NopMetrics struct{}

func (NopMetrics) ObserveQuestion(domain.AnswerMode, int, time.Duration) {}
func (NopMetrics) SnapshotLoadFailed()                                   {}
func (NopMetrics) EntriesSkipped(int)                                    {}
func (NopMetrics) UpstreamFailed(string)                                 {}
func (NopMetrics) AnswerCacheHit(bool)                                   {}
