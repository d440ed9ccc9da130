package services

import (
	"strings"

	"github.com/custodia-labs/course-qa/internal/core/domain"
	"github.com/custodia-labs/course-qa/internal/fuzzy"
)

// Matcher scores resources against a question.
// It is a pure function of its settings, the query and the resources.
type Matcher struct {
	settings domain.MatchSettings
}

// NewMatcher creates a matcher with the given thresholds.
func NewMatcher(settings domain.MatchSettings) *Matcher {
	return &Matcher{settings: settings}
}

// Settings returns the matcher's thresholds.
func (m *Matcher) Settings() domain.MatchSettings {
	return m.settings
}

// Match returns the candidates among resources, in input order.
// A blank query matches nothing.
func (m *Matcher) Match(query string, resources []domain.Resource) []domain.ScoredResource {
	q := strings.ToLower(strings.TrimSpace(query))
	candidates := make([]domain.ScoredResource, 0)
	if q == "" {
		return candidates
	}

	for _, r := range resources {
		if score, ok := m.score(q, r); ok {
			candidates = append(candidates, domain.ScoredResource{Resource: r, Score: score})
		}
	}
	return candidates
}

// Score reports the similarity of a resource to the query and whether it is a candidate.
func (m *Matcher) Score(query string, r domain.Resource) (int, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0, false
	}
	return m.score(q, r)
}

// score expects q already trimmed and lower-cased.
func (m *Matcher) score(q string, r domain.Resource) (int, bool) {
	title := strings.ToLower(r.Title)
	contained := strings.Contains(title, q)

	best := fuzzy.PartialRatio(q, title)
	matched := contained || best > m.settings.TitleThreshold

	for _, tag := range r.Tags {
		tag = strings.ToLower(tag)
		if strings.Contains(tag, q) {
			contained = true
		}
		s := fuzzy.PartialRatio(q, tag)
		if s > best {
			best = s
		}
		if s > m.settings.TagThreshold {
			matched = true
		}
	}

	if contained {
		return 100, true
	}
	return best, matched
}
