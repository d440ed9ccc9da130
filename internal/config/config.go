// Package config reads course-qa settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/course-qa/internal/core/domain"
)

// Config is the full process configuration
type Config struct {
	Host           string
	Port           int
	DataPath       string
	WatchSnapshot  bool
	AllowedOrigins []string
	LogLevel       slog.Level

	AnswerMode domain.AnswerMode
	Match      domain.MatchSettings
	LLM        domain.LLMSettings

	AnswerCacheTTL  time.Duration
	AnswerCacheSize int

	RedisURL    string
	DatabaseURL string

	Ingest IngestConfig
}

// IngestConfig holds scraper settings
type IngestConfig struct {
	CourseBaseURL     string
	CourseSidebarURL  string
	DiscourseBaseURL  string
	DiscourseCategory string
	DiscourseCookie   string
	MaxDiscoursePages int
	DiscourseRate     float64
	DateFrom          *time.Time
	DateTo            *time.Time
	LockTTL           time.Duration
}

// Load reads configuration from the process environment
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads configuration through getenv. Every invalid value is
// reported, joined, as *domain.ConfigurationError.
func LoadFrom(getenv func(string) string) (*Config, error) {
	e := &env{getenv: getenv}

	cfg := &Config{
		Host:           e.getEnv("HOST", "0.0.0.0"),
		Port:           e.getEnvInt("PORT", 8000),
		DataPath:       e.getEnv("DATA_PATH", "data/tds_data.json"),
		WatchSnapshot:  e.getEnvBool("WATCH_SNAPSHOT", true),
		AllowedOrigins: e.getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		LogLevel:       e.getEnvLevel("LOG_LEVEL", slog.LevelInfo),

		AnswerMode: domain.AnswerMode(strings.ToLower(e.getEnv("ANSWER_MODE", string(domain.AnswerModeSummary)))),
		Match: domain.MatchSettings{
			TitleThreshold: e.getEnvInt("TITLE_THRESHOLD", domain.DefaultTitleThreshold),
			TagThreshold:   e.getEnvInt("TAG_THRESHOLD", domain.DefaultTagThreshold),
			MaxResults:     e.getEnvInt("MAX_RESULTS", domain.MaxResultsCap),
		},
		LLM: domain.LLMSettings{
			Provider: domain.AIProvider(strings.ToLower(e.getEnv("LLM_PROVIDER", string(domain.AIProviderOpenAI)))),
			Model:    e.getEnv("LLM_MODEL", ""),
			APIKey:   e.getEnv("LLM_API_KEY", ""),
			BaseURL:  e.getEnv("LLM_BASE_URL", ""),
			Timeout:  e.getEnvDuration("LLM_TIMEOUT", domain.DefaultLLMTimeout),
		},

		AnswerCacheTTL:  e.getEnvDuration("ANSWER_CACHE_TTL", time.Hour),
		AnswerCacheSize: e.getEnvInt("ANSWER_CACHE_SIZE", 512),

		RedisURL:    e.getEnv("REDIS_URL", ""),
		DatabaseURL: e.getEnv("DATABASE_URL", ""),

		Ingest: IngestConfig{
			CourseBaseURL:     e.getEnv("COURSE_BASE_URL", "https://tds.s-anand.net/"),
			CourseSidebarURL:  e.getEnv("COURSE_SIDEBAR_URL", ""),
			DiscourseBaseURL:  e.getEnv("DISCOURSE_BASE_URL", "https://discourse.onlinedegree.iitm.ac.in"),
			DiscourseCategory: e.getEnv("DISCOURSE_CATEGORY", "courses/tds-kb/34"),
			DiscourseCookie:   e.getEnv("DISCOURSE_COOKIE", ""),
			MaxDiscoursePages: e.getEnvInt("MAX_DISCOURSE_PAGES", 3),
			DiscourseRate:     e.getEnvFloat("DISCOURSE_RATE", 1),
			DateFrom:          e.getEnvDate("FORUM_DATE_FROM"),
			DateTo:            e.getEnvDate("FORUM_DATE_TO"),
			LockTTL:           e.getEnvDuration("INGEST_LOCK_TTL", 10*time.Minute),
		},
	}

	cfg.validate(e)
	if len(e.errs) > 0 {
		return nil, errors.Join(e.errs...)
	}
	return cfg, nil
}

func (c *Config) validate(e *env) {
	if strings.TrimSpace(c.DataPath) == "" {
		e.fail("DATA_PATH", "must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		e.fail("PORT", fmt.Sprintf("%d out of range", c.Port))
	}
	if !c.AnswerMode.Valid() {
		e.fail("ANSWER_MODE", fmt.Sprintf("unknown mode %q (want summary or llm)", c.AnswerMode))
	}
	if c.Match.TitleThreshold < 0 || c.Match.TitleThreshold > 100 {
		e.fail("TITLE_THRESHOLD", "must be between 0 and 100")
	}
	if c.Match.TagThreshold < 0 || c.Match.TagThreshold > 100 {
		e.fail("TAG_THRESHOLD", "must be between 0 and 100")
	}
	if c.Match.MaxResults < 1 || c.Match.MaxResults > domain.MaxResultsCap {
		e.fail("MAX_RESULTS", fmt.Sprintf("must be between 1 and %d", domain.MaxResultsCap))
	}
	if c.LLM.Timeout <= 0 {
		e.fail("LLM_TIMEOUT", "must be positive")
	}
	if c.AnswerMode == domain.AnswerModeLLM {
		if !c.LLM.Provider.IsValid() {
			e.fail("LLM_PROVIDER", fmt.Sprintf("unknown provider %q", c.LLM.Provider))
		} else if c.LLM.Provider.RequiresAPIKey() && c.LLM.APIKey == "" {
			e.fail("LLM_API_KEY", "required when ANSWER_MODE=llm")
		}
	}
	if c.AnswerCacheSize < 0 {
		e.fail("ANSWER_CACHE_SIZE", "must not be negative")
	}
	if c.Ingest.MaxDiscoursePages < 1 {
		e.fail("MAX_DISCOURSE_PAGES", "must be at least 1")
	}
	if c.Ingest.DiscourseRate <= 0 {
		e.fail("DISCOURSE_RATE", "must be positive")
	}
	if c.Ingest.DateFrom != nil && c.Ingest.DateTo != nil && c.Ingest.DateTo.Before(*c.Ingest.DateFrom) {
		e.fail("FORUM_DATE_TO", "is before FORUM_DATE_FROM")
	}
	for key, raw := range map[string]string{
		"COURSE_BASE_URL":    c.Ingest.CourseBaseURL,
		"DISCOURSE_BASE_URL": c.Ingest.DiscourseBaseURL,
	} {
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			e.fail(key, fmt.Sprintf("invalid url %q", raw))
		}
	}
}

// env wraps a lookup function and collects parse failures
type env struct {
	getenv func(string) string
	errs   []error
}

func (e *env) fail(key, reason string) {
	e.errs = append(e.errs, &domain.ConfigurationError{Key: key, Reason: reason})
}

func (e *env) getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(e.getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func (e *env) getEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(e.getenv(key))
	if value == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		e.fail(key, fmt.Sprintf("not an integer: %q", value))
		return defaultValue
	}
	return result
}

func (e *env) getEnvFloat(key string, defaultValue float64) float64 {
	value := strings.TrimSpace(e.getenv(key))
	if value == "" {
		return defaultValue
	}
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		e.fail(key, fmt.Sprintf("not a number: %q", value))
		return defaultValue
	}
	return result
}

func (e *env) getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(e.getenv(key))) {
	case "":
		return defaultValue
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		e.fail(key, "not a boolean")
		return defaultValue
	}
}

// getEnvDuration accepts Go durations ("25s") or bare seconds ("25")
func (e *env) getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(e.getenv(key))
	if value == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		e.fail(key, fmt.Sprintf("not a duration: %q", value))
		return defaultValue
	}
	return d
}

func (e *env) getEnvList(key string, defaultValue []string) []string {
	value := strings.TrimSpace(e.getenv(key))
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func (e *env) getEnvLevel(key string, defaultValue slog.Level) slog.Level {
	value := strings.TrimSpace(e.getenv(key))
	if value == "" {
		return defaultValue
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		e.fail(key, fmt.Sprintf("unknown level %q", value))
		return defaultValue
	}
	return level
}

// getEnvDate parses YYYY-MM-DD or RFC 3339; unset yields nil
func (e *env) getEnvDate(key string) *time.Time {
	value := strings.TrimSpace(e.getenv(key))
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	e.fail(key, fmt.Sprintf("not a date: %q", value))
	return nil
}
