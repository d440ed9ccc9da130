package services

import (
	"sort"

	"github.com/custodia-labs/course-qa/internal/core/domain"
)

// Rank orders candidates by descending score and keeps at most limit of them.
// Equal scores keep their input order. A limit outside [1, 10] means 10.
func Rank(candidates []domain.ScoredResource, limit int) []domain.Resource {
	limit = domain.MatchSettings{MaxResults: limit}.EffectiveMaxResults()

	sorted := make([]domain.ScoredResource, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	links := make([]domain.Resource, len(sorted))
	for i, c := range sorted {
		links[i] = c.Resource
	}
	return links
}
