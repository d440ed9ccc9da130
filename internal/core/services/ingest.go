package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/custodia-labs/course-qa/internal/core/domain"
	"github.com/custodia-labs/course-qa/internal/core/ports/driven"
	"github.com/custodia-labs/course-qa/internal/core/ports/driving"
)

// IngestLockName is the lock held for the duration of an ingestion run
const IngestLockName = "course-qa:ingest"

// Ensure ingestService implements IngestService
var _ driving.IngestService = (*ingestService)(nil)

// ingestService scrapes the course site and forum into a new snapshot
type ingestService struct {
	course   driven.CourseSource
	forum    driven.ForumSource
	pipeline driven.PostProcessorPipeline
	store    driven.SnapshotStore
	lock     driven.DistributedLock
	logger   *slog.Logger

	maxPages int
	lockTTL  time.Duration
	dateFrom *time.Time
	dateTo   *time.Time
	now      func() time.Time
}

// IngestServiceConfig holds configuration for an ingestion run.
type IngestServiceConfig struct {
	Course   driven.CourseSource
	Forum    driven.ForumSource
	Pipeline driven.PostProcessorPipeline // Optional
	Store    driven.SnapshotStore
	Lock     driven.DistributedLock // Optional: skip the lock when nil
	Logger   *slog.Logger
	MaxPages int           // Forum listing pages to read (default: 3)
	LockTTL  time.Duration // TTL for the ingest lock (default: 10m)
	DateFrom *time.Time    // Recorded in snapshot metadata
	DateTo   *time.Time
}

// NewIngestService creates a new IngestService
func NewIngestService(cfg IngestServiceConfig) driving.IngestService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 3
	}
	lockTTL := cfg.LockTTL
	if lockTTL <= 0 {
		lockTTL = 10 * time.Minute
	}

	return &ingestService{
		course:   cfg.Course,
		forum:    cfg.Forum,
		pipeline: cfg.Pipeline,
		store:    cfg.Store,
		lock:     cfg.Lock,
		logger:   logger,
		maxPages: maxPages,
		lockTTL:  lockTTL,
		dateFrom: cfg.DateFrom,
		dateTo:   cfg.DateTo,
		now:      time.Now,
	}
}

// Run scrapes both sources and atomically replaces the snapshot
func (s *ingestService) Run(ctx context.Context) (*domain.IngestReport, error) {
	start := s.now()

	if s.lock != nil {
		acquired, err := s.lock.Acquire(ctx, IngestLockName, s.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire ingest lock: %w", err)
		}
		if !acquired {
			return nil, domain.ErrLockHeld
		}
		defer func() {
			// Release with a fresh context so cancellation does not leak the lock
			if err := s.lock.Release(context.Background(), IngestLockName); err != nil {
				s.logger.Warn("failed to release ingest lock", "error", err)
			}
		}()
	}

	snapshot := domain.NewKnowledgeSnapshot()
	var sources []string

	if s.course != nil {
		content, err := s.course.FetchCourse(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch course content: %w", err)
		}
		if content.Weeks != nil {
			snapshot.CourseContent = content
		}
		sources = append(sources, s.course.URL())
		s.logger.Info("course content fetched", "weeks", snapshot.CourseContent.Weeks.Len())
	}

	pages := 0
	if s.forum != nil {
		posts, n, err := s.fetchForum(ctx)
		if err != nil {
			return nil, err
		}
		pages = n
		if s.pipeline != nil {
			posts = s.pipeline.Process(posts)
		}
		snapshot.DiscoursePosts = posts
		sources = append(sources, s.forum.URL())
		s.logger.Info("forum topics fetched", "posts", len(posts), "pages", pages)
	}

	snapshot.LastUpdated = s.now().UTC()
	snapshot.Metadata = &domain.SnapshotMetadata{
		Sources:    sources,
		DateFrom:   s.dateFrom,
		DateTo:     s.dateTo,
		ForumPages: pages,
	}

	if err := s.store.Save(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	stats := snapshot.Stats()
	report := &domain.IngestReport{
		DiscoursePosts:  stats.DiscoursePosts,
		Weeks:           stats.Weeks,
		CourseResources: stats.CourseResources,
		ForumPages:      pages,
		Path:            s.store.Location(),
		Took:            s.now().Sub(start),
	}
	s.logger.Info("snapshot written",
		"path", report.Path,
		"posts", report.DiscoursePosts,
		"resources", report.CourseResources,
		"took", report.Took)
	return report, nil
}

// fetchForum reads listing pages until there is no next page or maxPages is reached.
// A failure after the first page keeps what was already read.
func (s *ingestService) fetchForum(ctx context.Context) ([]domain.DiscoursePost, int, error) {
	var posts []domain.DiscoursePost
	pages := 0
	for page := 0; page < s.maxPages; page++ {
		result, err := s.forum.FetchPage(ctx, page)
		if err != nil {
			if page == 0 || errors.Is(err, context.Canceled) {
				return nil, pages, fmt.Errorf("fetch forum page %d: %w", page, err)
			}
			s.logger.Warn("stopping forum pagination early", "page", page, "error", err)
			break
		}
		pages++
		posts = append(posts, result.Posts...)
		if !result.HasNext {
			break
		}
	}
	if posts == nil {
		posts = []domain.DiscoursePost{}
	}
	return posts, pages, nil
}
