package domain

import (
	"errors"
	"fmt"
)

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates required configuration is missing or invalid
	ErrConfiguration = errors.New("configuration error")

	// ErrSnapshotUnavailable indicates the knowledge snapshot is missing or malformed
	ErrSnapshotUnavailable = errors.New("snapshot unavailable")

	// ErrServiceUnavailable indicates an upstream service could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrLockHeld indicates another process holds the requested lock
	ErrLockHeld = errors.New("lock held by another process")

	// ErrInvalidProvider indicates an unknown AI provider was specified
	ErrInvalidProvider = errors.New("invalid provider")
)

// ConfigurationError is a fatal startup error naming the offending setting
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Key, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// ValidationError reports a malformed snapshot entry that was skipped
type ValidationError struct {
	Section string // "discourse_posts" or the week label
	Index   int
	Field   string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid entry %s[%d]: %s %s", e.Section, e.Index, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// UpstreamError wraps a failure of the answer-generation service
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

// Unwrap exposes both the sentinel and the cause to errors.Is
func (e *UpstreamError) Unwrap() []error {
	return []error{ErrServiceUnavailable, e.Err}
}
