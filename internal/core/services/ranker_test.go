package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/course-qa/internal/core/domain"
)

func scored(title string, score int) domain.ScoredResource {
	return domain.ScoredResource{Resource: post(title), Score: score}
}

func TestRank_FifteenDistinctScores(t *testing.T) {
	candidates := make([]domain.ScoredResource, 0, 15)
	for i := 0; i < 15; i++ {
		// scores 71..85 in a shuffled order
		s := 71 + (i*7)%15
		candidates = append(candidates, scored(fmt.Sprintf("r%d", s), s))
	}

	links := Rank(candidates, domain.MaxResultsCap)

	require.Len(t, links, 10)
	for i, l := range links {
		assert.Equal(t, fmt.Sprintf("r%d", 85-i), l.Title)
	}
}

func TestRank_CapNeverExceeded(t *testing.T) {
	candidates := make([]domain.ScoredResource, 40)
	for i := range candidates {
		candidates[i] = scored(fmt.Sprintf("r%d", i), 100)
	}

	for _, limit := range []int{-1, 0, 3, 10, 11, 1000} {
		links := Rank(candidates, limit)
		assert.LessOrEqual(t, len(links), domain.MaxResultsCap, "limit %d", limit)
	}
	assert.Len(t, Rank(candidates, 3), 3)
}

func TestRank_StableForEqualScores(t *testing.T) {
	candidates := []domain.ScoredResource{
		scored("a", 80),
		scored("b", 95),
		scored("c", 80),
		scored("d", 95),
		scored("e", 80),
	}

	links := Rank(candidates, 10)

	assert.Equal(t, []string{"b", "d", "a", "c", "e"}, titles(links))
	// input is not reordered
	assert.Equal(t, "a", candidates[0].Resource.Title)
}

func TestRank_Empty(t *testing.T) {
	links := Rank(nil, 10)
	assert.NotNil(t, links)
	assert.Empty(t, links)
}
