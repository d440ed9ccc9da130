package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/crypto/blake2b"

	"github.com/custodia-labs/course-qa/internal/core/domain"
	"github.com/custodia-labs/course-qa/internal/core/ports/driven"
)

const (
	// NoMatchAnswer is the summary answer when nothing matched
	NoMatchAnswer = "No matching resources found for your question."

	// FallbackAnswer replaces a generated answer whenever generation fails
	FallbackAnswer = "Sorry, I couldn't generate an answer right now. Please check the linked resources."

	// AnswerSystemPrompt is sent with every generated answer request
	AnswerSystemPrompt = "You are a teaching assistant for an online course. " +
		"Answer the student's question briefly and accurately. " +
		"If you are not sure, say so and point them to the course forum."

	llmServiceName = "llm"
)

// Ensure both strategies implement AnswerStrategy
var (
	_ driven.AnswerStrategy = (*SummaryStrategy)(nil)
	_ driven.AnswerStrategy = (*LLMStrategy)(nil)
)

// SummaryStrategy answers with the number of links found.
type SummaryStrategy struct{}

// NewSummaryStrategy creates the self-contained answer strategy.
func NewSummaryStrategy() *SummaryStrategy {
	return &SummaryStrategy{}
}

func (s *SummaryStrategy) Compose(_ context.Context, _ string, links []domain.Resource) string {
	switch len(links) {
	case 0:
		return NoMatchAnswer
	case 1:
		return "Found 1 relevant resource"
	default:
		return fmt.Sprintf("Found %d relevant resources", len(links))
	}
}

func (s *SummaryStrategy) Mode() domain.AnswerMode {
	return domain.AnswerModeSummary
}

// LLMStrategy asks an LLM for the answer, guarded by a timeout, a circuit
// breaker and an optional answer cache. It makes one attempt per question.
type LLMStrategy struct {
	llm      driven.LLMService
	cache    driven.AnswerCache
	breaker  *gobreaker.CircuitBreaker
	metrics  driven.Metrics
	logger   *slog.Logger
	timeout  time.Duration
	cacheTTL time.Duration
}

// LLMStrategyConfig configures the LLM answer strategy.
type LLMStrategyConfig struct {
	LLM      driven.LLMService
	Cache    driven.AnswerCache // Optional
	Metrics  driven.Metrics     // Optional
	Logger   *slog.Logger
	Timeout  time.Duration // Per call (default: 25s)
	CacheTTL time.Duration // Lifetime of cached answers (default: 1h)

	// BreakerFailures consecutive failures open the circuit (default: 5)
	BreakerFailures uint32
	// BreakerCooldown is how long the circuit stays open (default: 30s)
	BreakerCooldown time.Duration
}

// NewLLMStrategy creates the externally augmented answer strategy.
func NewLLMStrategy(cfg LLMStrategyConfig) *LLMStrategy {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = driven.NopMetrics{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultLLMTimeout
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	cooldown := cfg.BreakerCooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "llm-answer",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &LLMStrategy{
		llm:      cfg.LLM,
		cache:    cfg.Cache,
		breaker:  breaker,
		metrics:  metrics,
		logger:   logger,
		timeout:  timeout,
		cacheTTL: cacheTTL,
	}
}

func (s *LLMStrategy) Mode() domain.AnswerMode {
	return domain.AnswerModeLLM
}

// Compose returns the generated answer, or FallbackAnswer on any failure.
func (s *LLMStrategy) Compose(ctx context.Context, question string, _ []domain.Resource) string {
	key := s.cacheKey(question)
	if answer, ok := s.cached(ctx, key); ok {
		return answer
	}

	answer, err := s.generate(ctx, question)
	if err != nil {
		s.metrics.UpstreamFailed(llmServiceName)
		s.logger.Warn("answer generation failed, using fallback", "error", err)
		return FallbackAnswer
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, answer, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache answer", "error", err)
		}
	}
	return answer
}

func (s *LLMStrategy) generate(ctx context.Context, question string) (string, error) {
	if s.llm == nil {
		return "", &domain.UpstreamError{Service: llmServiceName, Err: errors.New("not configured")}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.breaker.Execute(func() (interface{}, error) {
		text, err := s.llm.Complete(ctx, AnswerSystemPrompt, question)
		if err != nil {
			return nil, err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, errors.New("empty completion")
		}
		return text, nil
	})
	if err != nil {
		return "", &domain.UpstreamError{Service: llmServiceName, Err: err}
	}
	return out.(string), nil
}

func (s *LLMStrategy) cached(ctx context.Context, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	answer, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("answer cache lookup failed", "error", err)
		return "", false
	}
	s.metrics.AnswerCacheHit(ok)
	return answer, ok
}

// cacheKey identifies a question for a given model.
// Questions differing only in case or surrounding space share an answer.
func (s *LLMStrategy) cacheKey(question string) string {
	model := ""
	if s.llm != nil {
		model = s.llm.Model()
	}
	sum := blake2b.Sum256([]byte(model + "\x00" + strings.ToLower(strings.TrimSpace(question))))
	return "answer:" + hex.EncodeToString(sum[:])
}

// NewAnswerStrategy picks the strategy for mode.
// LLM mode without a configured LLM is a configuration error.
func NewAnswerStrategy(mode domain.AnswerMode, cfg LLMStrategyConfig) (driven.AnswerStrategy, error) {
	switch mode {
	case domain.AnswerModeSummary, "":
		return NewSummaryStrategy(), nil
	case domain.AnswerModeLLM:
		if cfg.LLM == nil {
			return nil, &domain.ConfigurationError{Key: "LLM_API_KEY", Reason: "required when ANSWER_MODE=llm"}
		}
		return NewLLMStrategy(cfg), nil
	default:
		return nil, &domain.ConfigurationError{Key: "ANSWER_MODE", Reason: fmt.Sprintf("unknown mode %q", mode)}
	}
}
