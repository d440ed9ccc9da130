package normalisers

import (
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/course-qa/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry selects text normalisers by format.
// When several normalisers accept a format, the highest priority one wins.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.TextNormaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		normalisers: make([]driven.TextNormaliser, 0),
	}
}

// Register adds a normaliser.
func (r *Registry) Register(normaliser driven.TextNormaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.normalisers = append(r.normalisers, normaliser)
}

// Get returns the highest priority normaliser accepting the format, or nil.
func (r *Registry) Get(format string) driven.TextNormaliser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best driven.TextNormaliser
	for _, n := range r.normalisers {
		if !acceptsFormat(n.SupportedTypes(), format) {
			continue
		}
		if best == nil || n.Priority() > best.Priority() {
			best = n
		}
	}
	return best
}

// Clean runs the best normaliser for the format over content.
// Content is returned trimmed but otherwise untouched when nothing matches.
func (r *Registry) Clean(content, format string) string {
	if n := r.Get(format); n != nil {
		return n.Normalise(content, format)
	}
	return strings.TrimSpace(content)
}

// List returns every registered format, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, n := range r.normalisers {
		for _, t := range n.SupportedTypes() {
			seen[t] = struct{}{}
		}
	}

	formats := make([]string, 0, len(seen))
	for t := range seen {
		formats = append(formats, t)
	}
	sort.Strings(formats)
	return formats
}

// acceptsFormat matches a format against supported types.
// "text/*" matches any text format and "*/*" matches everything.
func acceptsFormat(supported []string, format string) bool {
	format = strings.ToLower(strings.TrimSpace(format))
	if idx := strings.Index(format, ";"); idx != -1 {
		format = strings.TrimSpace(format[:idx])
	}

	for _, s := range supported {
		s = strings.ToLower(strings.TrimSpace(s))
		switch {
		case s == "*/*", s == format:
			return true
		case strings.HasSuffix(s, "/*") && strings.HasPrefix(format, s[:len(s)-1]):
			return true
		}
	}
	return false
}

// DefaultRegistry returns a registry with the plain, Markdown and HTML title cleaners.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&PlaintextNormaliser{})
	r.Register(NewMarkdownNormaliser())
	r.Register(NewHTMLNormaliser())
	return r
}
