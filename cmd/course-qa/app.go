package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"github.com/custodia-labs/course-qa/internal/adapters/driven/ai"
	"github.com/custodia-labs/course-qa/internal/adapters/driven/coursesite"
	"github.com/custodia-labs/course-qa/internal/adapters/driven/discourse"
	"github.com/custodia-labs/course-qa/internal/adapters/driven/filestore"
	"github.com/custodia-labs/course-qa/internal/adapters/driven/memory"
	"github.com/custodia-labs/course-qa/internal/adapters/driven/metrics"
	"github.com/custodia-labs/course-qa/internal/adapters/driven/postgres"
	redisadapter "github.com/custodia-labs/course-qa/internal/adapters/driven/redis"
	"github.com/custodia-labs/course-qa/internal/adapters/driving/cli"
	"github.com/custodia-labs/course-qa/internal/adapters/driving/http"
	"github.com/custodia-labs/course-qa/internal/config"
	"github.com/custodia-labs/course-qa/internal/core/domain"
	"github.com/custodia-labs/course-qa/internal/core/ports/driven"
	"github.com/custodia-labs/course-qa/internal/core/services"
	"github.com/custodia-labs/course-qa/internal/normalisers"
	"github.com/custodia-labs/course-qa/internal/postprocessors"
)

var _ cli.App = (*application)(nil)

// application wires adapters into services for the CLI commands.
// Backing services are connected on first use.
type application struct {
	cfg     *config.Config
	version string
	logger  *slog.Logger

	connectOnce sync.Once
	connectErr  error
	redis       *goredis.Client // nil without REDIS_URL
	db          *postgres.DB    // nil without DATABASE_URL
}

func newApplication(cfg *config.Config, version string) *application {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	return &application{cfg: cfg, version: version, logger: logger}
}

// connect opens the optional redis and postgres connections
func (a *application) connect(ctx context.Context) error {
	a.connectOnce.Do(func() {
		if a.cfg.RedisURL != "" {
			log.Println("Connecting to Redis...")
			client, err := redisadapter.Connect(ctx, a.cfg.RedisURL)
			if err != nil {
				a.connectErr = err
				return
			}
			a.redis = client
			log.Println("Redis connected")
		}

		if a.cfg.DatabaseURL != "" {
			log.Println("Connecting to PostgreSQL...")
			db, err := postgres.Connect(ctx, postgres.DefaultConfig(a.cfg.DatabaseURL))
			if err != nil {
				a.connectErr = err
				return
			}
			if err := db.InitSchema(ctx); err != nil {
				db.Close()
				a.connectErr = err
				return
			}
			a.db = db
			log.Println("PostgreSQL connected and schema initialized")
		}
	})
	return a.connectErr
}

// Close releases backing connections
func (a *application) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *application) Serve(ctx context.Context) error {
	if err := a.connect(ctx); err != nil {
		return err
	}

	store := filestore.NewStore(a.cfg.DataPath, a.logger)
	if a.cfg.WatchSnapshot {
		go func() {
			if err := store.Watch(ctx); err != nil {
				a.logger.Warn("snapshot watcher stopped", "error", err)
			}
		}()
	}

	collector := metrics.NewCollector(metrics.DefaultNamespace, true)

	strategy, err := a.answerStrategy(collector)
	if err != nil {
		return err
	}

	var questionLog driven.QuestionLog
	checks := map[string]http.Pinger{}
	if a.db != nil {
		questionLog = postgres.NewQuestionLog(a.db)
		checks["postgres"] = a.db
	}
	if a.redis != nil {
		checks["redis"] = redisadapter.NewLock(a.redis)
	}

	questions := services.NewQuestionService(services.QuestionServiceConfig{
		Store:      store,
		Normaliser: normalisers.NewResourceNormaliser(),
		Strategy:   strategy,
		Settings:   a.cfg.Match,
		Questions:  questionLog,
		Metrics:    collector,
		Logger:     a.logger,
		Version:    a.version,
	})

	log.Printf("Answer mode: %s, snapshot: %s", strategy.Mode(), store.Location())

	server := http.NewServer(http.Config{
		Host:           a.cfg.Host,
		Port:           a.cfg.Port,
		Version:        a.version,
		AllowedOrigins: a.cfg.AllowedOrigins,
		Logger:         a.logger,
	}, questions, collector, checks)

	return server.Run(ctx)
}

// answerStrategy builds the configured strategy; llm mode gets a shared
// redis cache when available and an in-process cache otherwise
func (a *application) answerStrategy(m driven.Metrics) (driven.AnswerStrategy, error) {
	cfg := services.LLMStrategyConfig{
		Metrics:  m,
		Logger:   a.logger,
		Timeout:  a.cfg.LLM.Timeout,
		CacheTTL: a.cfg.AnswerCacheTTL,
	}

	if a.cfg.AnswerMode == domain.AnswerModeLLM {
		llm, err := ai.NewFactory().CreateLLMService(&a.cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("create llm service: %w", err)
		}
		cfg.LLM = llm

		switch {
		case a.redis != nil:
			cfg.Cache = redisadapter.NewAnswerCache(a.redis)
		case a.cfg.AnswerCacheSize > 0:
			cfg.Cache = memory.NewAnswerCache(a.cfg.AnswerCacheSize)
		}
	}

	return services.NewAnswerStrategy(a.cfg.AnswerMode, cfg)
}

func (a *application) Ingest(ctx context.Context) (*domain.IngestReport, error) {
	if err := a.connect(ctx); err != nil {
		return nil, err
	}

	registry := normalisers.DefaultRegistry()
	ic := a.cfg.Ingest

	course, err := coursesite.NewClient(coursesite.Config{
		BaseURL:    ic.CourseBaseURL,
		SidebarURL: ic.CourseSidebarURL,
		Titles:     registry,
		Logger:     a.logger,
	})
	if err != nil {
		return nil, &domain.ConfigurationError{Key: "COURSE_BASE_URL", Reason: err.Error()}
	}

	forum, err := discourse.NewClient(discourse.Config{
		BaseURL:           ic.DiscourseBaseURL,
		Category:          ic.DiscourseCategory,
		Cookie:            ic.DiscourseCookie,
		RequestsPerSecond: ic.DiscourseRate,
		Titles:            registry,
		Logger:            a.logger,
	})
	if err != nil {
		return nil, &domain.ConfigurationError{Key: "DISCOURSE_CATEGORY", Reason: err.Error()}
	}

	var lock driven.DistributedLock
	switch {
	case a.redis != nil:
		lock = redisadapter.NewLock(a.redis)
		log.Println("Using Redis distributed lock")
	case a.db != nil:
		lock = postgres.NewAdvisoryLock(a.db)
		log.Println("Using PostgreSQL advisory lock")
	default:
		lock = memory.NewLock()
	}

	ingest := services.NewIngestService(services.IngestServiceConfig{
		Course:   course,
		Forum:    forum,
		Pipeline: postprocessors.DefaultPipeline(registry, ic.DateFrom, ic.DateTo),
		Store:    filestore.NewStore(a.cfg.DataPath, a.logger),
		Lock:     lock,
		Logger:   a.logger,
		MaxPages: ic.MaxDiscoursePages,
		LockTTL:  ic.LockTTL,
		DateFrom: ic.DateFrom,
		DateTo:   ic.DateTo,
	})

	return ingest.Run(ctx)
}

func (a *application) RecentQuestions(ctx context.Context, limit int) ([]*domain.QuestionLogEntry, error) {
	if err := a.connect(ctx); err != nil {
		return nil, err
	}
	if a.db == nil {
		return nil, &domain.ConfigurationError{Key: "DATABASE_URL", Reason: "required to list questions"}
	}
	return postgres.NewQuestionLog(a.db).Recent(ctx, limit)
}
