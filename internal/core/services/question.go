package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/course-qa/internal/core/domain"
	"github.com/custodia-labs/course-qa/internal/core/ports/driven"
	"github.com/custodia-labs/course-qa/internal/core/ports/driving"
)

// Ensure questionService implements QuestionService
var _ driving.QuestionService = (*questionService)(nil)

// questionService runs the load, normalise, match, rank, compose pipeline
type questionService struct {
	store      driven.SnapshotStore
	normaliser driven.ResourceNormaliser
	matcher    *Matcher
	strategy   driven.AnswerStrategy
	questions  driven.QuestionLog
	metrics    driven.Metrics
	logger     *slog.Logger
	version    string
}

// QuestionServiceConfig holds the question pipeline collaborators.
type QuestionServiceConfig struct {
	Store      driven.SnapshotStore
	Normaliser driven.ResourceNormaliser
	Strategy   driven.AnswerStrategy
	Settings   domain.MatchSettings
	Questions  driven.QuestionLog // Optional
	Metrics    driven.Metrics     // Optional
	Logger     *slog.Logger
	Version    string
}

// NewQuestionService creates a new QuestionService
func NewQuestionService(cfg QuestionServiceConfig) driving.QuestionService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = driven.NopMetrics{}
	}
	strategy := cfg.Strategy
	if strategy == nil {
		strategy = NewSummaryStrategy()
	}

	return &questionService{
		store:      cfg.Store,
		normaliser: cfg.Normaliser,
		matcher:    NewMatcher(cfg.Settings),
		strategy:   strategy,
		questions:  cfg.Questions,
		metrics:    metrics,
		logger:     logger,
		version:    cfg.Version,
	}
}

// Answer matches the question against the current snapshot
func (s *questionService) Answer(ctx context.Context, req domain.QuestionRequest) (*domain.AnswerResponse, error) {
	start := time.Now()

	snapshot, err := s.store.Load(ctx)
	if err != nil {
		s.metrics.SnapshotLoadFailed()
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	resources, skipped := s.normaliser.Normalise(snapshot)
	if len(skipped) > 0 {
		s.metrics.EntriesSkipped(len(skipped))
		for _, verr := range skipped {
			s.logger.Warn("skipping malformed snapshot entry", "error", verr)
		}
	}

	candidates := s.matcher.Match(req.Question, resources)
	links := Rank(candidates, s.matcher.Settings().EffectiveMaxResults())
	answer := s.strategy.Compose(ctx, req.Question, links)

	took := time.Since(start)
	s.metrics.ObserveQuestion(s.strategy.Mode(), len(links), took)
	s.logger.Debug("question answered",
		"candidates", len(candidates),
		"links", len(links),
		"mode", s.strategy.Mode(),
		"took", took)

	s.record(ctx, req.Question, len(links), took)

	return &domain.AnswerResponse{Answer: answer, Links: links}, nil
}

// record writes the question log entry; failures never affect the answer
func (s *questionService) record(ctx context.Context, question string, links int, took time.Duration) {
	if s.questions == nil {
		return
	}
	entry := &domain.QuestionLogEntry{
		ID:         uuid.NewString(),
		Question:   question,
		LinkCount:  links,
		AnswerMode: s.strategy.Mode(),
		Took:       took,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.questions.Record(ctx, entry); err != nil {
		s.logger.Warn("failed to record question", "error", err)
	}
}

// Health reports snapshot availability; it never returns an error
func (s *questionService) Health(ctx context.Context) *domain.HealthReport {
	report := &domain.HealthReport{
		Status:     domain.HealthOK,
		AnswerMode: s.strategy.Mode(),
		Version:    s.version,
		CheckedAt:  time.Now().UTC(),
	}

	snapshot, err := s.store.Load(ctx)
	if err != nil {
		s.metrics.SnapshotLoadFailed()
		report.Status = domain.HealthDegraded
		report.Reason = err.Error()
		return report
	}

	stats := snapshot.Stats()
	report.DataStats = &stats
	return report
}
