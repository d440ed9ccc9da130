package driven

import "github.com/custodia-labs/course-qa/internal/core/domain"

// TextNormaliser cleans scraped text such as titles and tags.
type TextNormaliser interface {
	// Normalise transforms raw text into plain, trimmed text.
	// The format helps determine the appropriate processing.
	Normalise(content string, format string) string

	// SupportedTypes returns formats this normaliser handles.
	// Can include wildcards like "text/*" or specific types like "text/markdown".
	SupportedTypes() []string

	// Priority returns the normaliser priority (higher = more specific).
	//   50-89:  Format-specific (Markdown, HTML)
	//   1-9:    Fallback (plain text)
	Priority() int
}

// NormaliserRegistry manages text normalisers.
// When multiple normalisers match a format, the highest priority one is used.
type NormaliserRegistry interface {
	// Get retrieves the best-matching normaliser for a format.
	// Returns nil if no normaliser is registered for the type.
	Get(format string) TextNormaliser

	// Register registers a normaliser.
	Register(normaliser TextNormaliser)

	// List returns all registered formats.
	List() []string
}

// ResourceNormaliser flattens a snapshot into matcher-facing resources.
// Malformed entries are skipped and reported as *domain.ValidationError.
type ResourceNormaliser interface {
	Normalise(snapshot *domain.KnowledgeSnapshot) ([]domain.Resource, []error)
}
