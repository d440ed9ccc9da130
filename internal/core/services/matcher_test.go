package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/course-qa/internal/core/domain"
)

func post(title string, tags ...string) domain.Resource {
	return domain.Resource{
		Title:  title,
		URL:    "https://discourse.example.org/t/" + title,
		Source: domain.SourceDiscourse,
		Tags:   tags,
	}
}

func courseItem(week, title string, typ domain.ResourceType) domain.Resource {
	return domain.Resource{
		Title:  title,
		URL:    "https://course.example.org/#/" + title,
		Source: domain.SourceCourse,
		Type:   typ,
		Week:   week,
	}
}

func titles(resources []domain.Resource) []string {
	out := make([]string, len(resources))
	for i, r := range resources {
		out[i] = r.Title
	}
	return out
}

func TestMatcher_SingleForumPost(t *testing.T) {
	m := NewMatcher(domain.DefaultMatchSettings())

	candidates := m.Match("pandas", []domain.Resource{post("Pandas Help", "python")})

	require.Len(t, candidates, 1)
	assert.Equal(t, "Pandas Help", candidates[0].Resource.Title)
	assert.Equal(t, 100, candidates[0].Score)
}

func TestMatcher_CourseResource(t *testing.T) {
	m := NewMatcher(domain.DefaultMatchSettings())

	candidates := m.Match("docker", []domain.Resource{
		courseItem("Week 1", "Introduction to Docker", domain.ResourceVideo),
	})

	require.Len(t, candidates, 1)
	assert.Equal(t, domain.SourceCourse, candidates[0].Resource.Source)
	assert.Equal(t, "Week 1", candidates[0].Resource.Week)
}

func TestMatcher_NoMatch(t *testing.T) {
	m := NewMatcher(domain.DefaultMatchSettings())

	candidates := m.Match("zzzzznomatch", []domain.Resource{
		post("Pandas Help", "python"),
		courseItem("Week 1", "Introduction to Docker", domain.ResourceVideo),
	})

	assert.Empty(t, candidates)
	assert.NotNil(t, candidates)
}

func TestMatcher_SubstringAlwaysCandidate(t *testing.T) {
	// thresholds at the top of the scale disable fuzzy matching entirely
	m := NewMatcher(domain.MatchSettings{TitleThreshold: 100, TagThreshold: 100})

	resources := []domain.Resource{
		post("How to install pandas on windows"),
		post("PANDAS groupby question"),
		post("Unrelated title", "pandas-profiling"),
		post("Docker compose"),
	}

	candidates := m.Match("  Pandas ", resources)
	got := make([]string, len(candidates))
	for i, c := range candidates {
		got[i] = c.Resource.Title
		assert.Equal(t, 100, c.Score)
	}
	assert.Equal(t, []string{
		"How to install pandas on windows",
		"PANDAS groupby question",
		"Unrelated title",
	}, got)
}

func TestMatcher_BlankQuery(t *testing.T) {
	m := NewMatcher(domain.DefaultMatchSettings())

	assert.Empty(t, m.Match("", []domain.Resource{post("Anything")}))
	assert.Empty(t, m.Match("   \t", []domain.Resource{post("Anything")}))

	_, ok := m.Score(" ", post("Anything"))
	assert.False(t, ok)
}

func TestMatcher_TagThresholdIndependent(t *testing.T) {
	r := post("Unrelated", "dockr")

	score, ok := NewMatcher(domain.DefaultMatchSettings()).Score("docker", r)
	assert.True(t, ok)
	assert.Equal(t, 89, score)

	_, ok = NewMatcher(domain.MatchSettings{TitleThreshold: 70, TagThreshold: 90}).Score("docker", r)
	assert.False(t, ok)

	// the title threshold alone does not admit a tag-only match
	_, ok = NewMatcher(domain.MatchSettings{TitleThreshold: 50, TagThreshold: 90}).Score("docker", r)
	assert.False(t, ok)
}

func TestMatcher_FuzzyTitle(t *testing.T) {
	m := NewMatcher(domain.DefaultMatchSettings())

	score, ok := m.Score("dockr", post("Docker Desktop on Windows"))
	assert.True(t, ok)
	assert.Greater(t, score, 70)
	assert.Less(t, score, 100)
}

func TestMatcher_ThresholdMonotonic(t *testing.T) {
	resources := []domain.Resource{
		post("Pandas Help", "python"),
		post("Panda install error", "pandas"),
		post("Python environments", "venv"),
		courseItem("Week 1", "Introduction to Docker", domain.ResourceVideo),
		courseItem("Week 2", "Data sourcing with pandas", domain.ResourceNotebook),
		courseItem("Week 3", "Pandera validation", domain.ResourceDocument),
	}

	for _, query := range []string{"pandas", "pands", "docker", "python env"} {
		prev := len(resources) + 1
		for threshold := 0; threshold <= 100; threshold += 5 {
			m := NewMatcher(domain.MatchSettings{TitleThreshold: threshold, TagThreshold: threshold})
			n := len(m.Match(query, resources))
			assert.LessOrEqual(t, n, prev, fmt.Sprintf("query %q threshold %d", query, threshold))
			prev = n
		}
	}
}

func TestMatcher_PreservesInputOrder(t *testing.T) {
	m := NewMatcher(domain.DefaultMatchSettings())
	resources := []domain.Resource{
		post("git basics"),
		courseItem("Week 1", "git workflow", domain.ResourceLink),
		post("Using git with vscode"),
	}

	candidates := m.Match("git", resources)
	got := make([]domain.Resource, len(candidates))
	for i, c := range candidates {
		got[i] = c.Resource
	}
	assert.Equal(t, titles(resources), titles(got))
}
