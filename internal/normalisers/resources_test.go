package normalisers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/course-qa/internal/core/domain"
)

func TestResourceNormaliser_Order(t *testing.T) {
	snap := domain.NewKnowledgeSnapshot()
	snap.DiscoursePosts = []domain.DiscoursePost{
		{Title: " Pandas Help ", URL: "https://d.example.org/t/pandas-help/1", Tags: []string{"python", " ", "pandas"}},
		{Title: "Docker issue", URL: "https://d.example.org/t/docker-issue/2"},
	}
	snap.AddWeek("Week 2", domain.CourseResource{Title: "Deck", URL: "https://example.org/deck.pptx"})
	snap.AddWeek("Week 1", domain.CourseResource{Title: "Intro", URL: "https://www.youtube.com/watch?v=x", Type: domain.ResourceVideo})

	resources, skipped := NewResourceNormaliser().Normalise(snap)
	require.Empty(t, skipped)
	require.Len(t, resources, 4)

	assert.Equal(t, domain.Resource{
		Title:  "Pandas Help",
		URL:    "https://d.example.org/t/pandas-help/1",
		Source: domain.SourceDiscourse,
		Tags:   []string{"python", "pandas"},
	}, resources[0])
	assert.Equal(t, "Docker issue", resources[1].Title)

	assert.Equal(t, domain.SourceCourse, resources[2].Source)
	assert.Equal(t, "Week 2", resources[2].Week)
	assert.Equal(t, domain.ResourceSlides, resources[2].Type)

	assert.Equal(t, "Week 1", resources[3].Week)
	assert.Equal(t, domain.ResourceVideo, resources[3].Type)
}

func TestResourceNormaliser_SkipsMalformed(t *testing.T) {
	snap := domain.NewKnowledgeSnapshot()
	snap.DiscoursePosts = []domain.DiscoursePost{
		{Title: "", URL: "https://d.example.org/t/x/1"},
		{Title: "Valid", URL: "https://d.example.org/t/valid/2"},
		{Title: "No link", URL: "   "},
	}
	snap.AddWeek("Week 1", domain.CourseResource{URL: "https://example.org/a.pdf"})

	resources, skipped := NewResourceNormaliser().Normalise(snap)
	require.Len(t, resources, 1)
	assert.Equal(t, "Valid", resources[0].Title)

	require.Len(t, skipped, 3)
	for _, err := range skipped {
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	}

	var first *domain.ValidationError
	require.True(t, errors.As(skipped[0], &first))
	assert.Equal(t, SectionDiscourse, first.Section)
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, "title", first.Field)
	assert.Equal(t, "invalid entry discourse_posts[0]: title is required", first.Error())

	var second *domain.ValidationError
	require.True(t, errors.As(skipped[1], &second))
	assert.Equal(t, 2, second.Index)
	assert.Equal(t, "url", second.Field)

	var week *domain.ValidationError
	require.True(t, errors.As(skipped[2], &week))
	assert.Equal(t, "Week 1", week.Section)
	assert.Equal(t, "title", week.Field)
}

func TestResourceNormaliser_Empty(t *testing.T) {
	n := NewResourceNormaliser()

	resources, skipped := n.Normalise(nil)
	assert.Empty(t, resources)
	assert.Empty(t, skipped)

	resources, skipped = n.Normalise(&domain.KnowledgeSnapshot{})
	assert.Empty(t, resources)
	assert.Empty(t, skipped)
}
