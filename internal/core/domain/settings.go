package domain

import (
	"fmt"
	"time"
)

// AnswerMode selects how the answer string is produced
type AnswerMode string

const (
	// AnswerModeSummary reports the number of matched resources
	AnswerModeSummary AnswerMode = "summary"
	// AnswerModeLLM asks an external text-generation service
	AnswerModeLLM AnswerMode = "llm"
)

// Valid reports whether the mode is known
func (m AnswerMode) Valid() bool {
	return m == AnswerModeSummary || m == AnswerModeLLM
}

const (
	DefaultTitleThreshold = 70
	DefaultTagThreshold   = 80
	// MaxResultsCap bounds every ranked response
	MaxResultsCap = 10
	// DefaultLLMTimeout bounds a single answer-generation call
	DefaultLLMTimeout = 25 * time.Second
)

// MatchSettings holds the tunable matcher and ranker parameters.
// The title and tag thresholds are independent on purpose.
type MatchSettings struct {
	TitleThreshold int `json:"title_threshold"`
	TagThreshold   int `json:"tag_threshold"`
	MaxResults     int `json:"max_results"`
}

// DefaultMatchSettings returns sensible defaults
func DefaultMatchSettings() MatchSettings {
	return MatchSettings{
		TitleThreshold: DefaultTitleThreshold,
		TagThreshold:   DefaultTagThreshold,
		MaxResults:     MaxResultsCap,
	}
}

// EffectiveMaxResults clamps MaxResults into [1, MaxResultsCap]
func (s MatchSettings) EffectiveMaxResults() int {
	if s.MaxResults <= 0 || s.MaxResults > MaxResultsCap {
		return MaxResultsCap
	}
	return s.MaxResults
}

// Validate checks thresholds are on the 0-100 similarity scale
func (s MatchSettings) Validate() error {
	if s.TitleThreshold < 0 || s.TitleThreshold > 100 {
		return fmt.Errorf("%w: title threshold %d out of range 0-100", ErrInvalidInput, s.TitleThreshold)
	}
	if s.TagThreshold < 0 || s.TagThreshold > 100 {
		return fmt.Errorf("%w: tag threshold %d out of range 0-100", ErrInvalidInput, s.TagThreshold)
	}
	return nil
}

// AIProvider identifies the text-generation provider
type AIProvider string

const (
	// AIProviderOpenAI covers OpenAI and any OpenAI-compatible proxy
	AIProviderOpenAI AIProvider = "openai"
	AIProviderOllama AIProvider = "ollama"
)

// RequiresAPIKey returns true if the provider needs a bearer credential
func (p AIProvider) RequiresAPIKey() bool {
	switch p {
	case AIProviderOllama:
		return false // Self-hosted, no API key needed
	default:
		return true
	}
}

// IsValid returns true if the provider is known
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderOllama:
		return true
	default:
		return false
	}
}

// LLMSettings configures the answer-generation service
type LLMSettings struct {
	Provider AIProvider    `json:"provider"`
	Model    string        `json:"model"`
	APIKey   string        `json:"-"` // Never serialize to JSON
	BaseURL  string        `json:"base_url,omitempty"`
	Timeout  time.Duration `json:"timeout"`
}

// IsConfigured returns true if LLM settings are properly configured
func (l *LLMSettings) IsConfigured() bool {
	if l.Provider == "" {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}
