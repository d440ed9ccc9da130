package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/course-qa/internal/core/domain"
)

const snapshotJSON = `{
  "discourse_posts": [
    {"title": "Pandas Help", "url": "https://d.example.org/t/pandas-help/1", "tags": ["python"]}
  ],
  "course_content": {
    "weeks": {
      "Week 2": [{"title": "Notebook", "url": "https://example.org/w2.ipynb"}],
      "Week 1": [{"title": "Intro", "url": "https://www.youtube.com/watch?v=1", "type": "video"}]
    }
  },
  "last_updated": "2025-04-15T12:00:00Z"
}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestStore_LoadMissing(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.json"), nil)

	snap, err := s.Load(context.Background())
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, domain.ErrSnapshotUnavailable)
}

func TestStore_LoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	writeFile(t, path, `{"discourse_posts": [`)

	_, err := NewStore(path, nil).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrSnapshotUnavailable)
	assert.Contains(t, err.Error(), "parse")
}

func TestStore_LoadZonelessLastUpdated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	writeFile(t, path, `{
  "last_updated": "2025-01-15T10:20:30.123456",
  "course_content": {"weeks": {"Week 1": [{"title": "Intro", "url": "https://example.org/intro"}]}},
  "discourse_posts": [{"title": "Pandas Help", "url": "https://d.example.org/t/pandas-help/1", "tags": ["python"]}]
}`)

	snap, err := NewStore(path, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.DiscoursePosts, 1)
	assert.Equal(t, 2025, snap.LastUpdated.Year())
}

func TestStore_LoadAndCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	writeFile(t, path, snapshotJSON)
	s := NewStore(path, nil)
	ctx := context.Background()

	first, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, first.DiscoursePosts, 1)
	assert.Equal(t, []string{"Week 2", "Week 1"}, weekLabels(first))

	second, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second, "unchanged file served from cache")
}

func TestStore_ReloadsReplacedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	writeFile(t, path, snapshotJSON)
	s := NewStore(path, nil)
	ctx := context.Background()

	first, err := s.Load(ctx)
	require.NoError(t, err)

	replacement := domain.NewKnowledgeSnapshot()
	replacement.DiscoursePosts = []domain.DiscoursePost{
		{Title: "a", URL: "https://d.example.org/t/a/1"},
		{Title: "b", URL: "https://d.example.org/t/b/2"},
	}
	require.NoError(t, NewStore(path, nil).Save(ctx, replacement))

	second, err := s.Load(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Len(t, second.DiscoursePosts, 2)
}

func TestStore_ReloadsRewrittenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	writeFile(t, path, snapshotJSON)
	s := NewStore(path, nil)
	ctx := context.Background()

	_, err := s.Load(ctx)
	require.NoError(t, err)

	writeFile(t, path, `{"discourse_posts": []}`)
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.DiscoursePosts)
	assert.Equal(t, 0, snap.CourseContent.Weeks.Len())
}

func TestStore_SaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "data.json")
	s := NewStore(path, nil)
	ctx := context.Background()

	snap := domain.NewKnowledgeSnapshot()
	snap.LastUpdated = time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)
	snap.AddWeek("Week 3", domain.CourseResource{Title: "c", URL: "https://example.org/c"})
	snap.AddWeek("Week 1", domain.CourseResource{Title: "a", URL: "https://example.org/a"})
	snap.Metadata = &domain.SnapshotMetadata{Sources: []string{"https://example.org"}}

	require.NoError(t, s.Save(ctx, snap))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Week 3", "Week 1"}, weekLabels(loaded))
	assert.Equal(t, snap.LastUpdated, loaded.LastUpdated.UTC())
	require.NotNil(t, loaded.Metadata)
	assert.Equal(t, []string{"https://example.org"}, loaded.Metadata.Sources)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
	assert.Equal(t, "data.json", entries[0].Name())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"discourse_posts\"", "indented output")
}

func TestStore_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	s := NewStore(path, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)

	snap := domain.NewKnowledgeSnapshot()
	snap.DiscoursePosts = []domain.DiscoursePost{{Title: "t", URL: "https://d.example.org/t/t/1"}}
	require.NoError(t, NewStore(path, nil).Save(context.Background(), snap))

	require.Eventually(t, func() bool {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.snapshot != nil && len(s.snapshot.DiscoursePosts) == 1
	}, 3*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func weekLabels(s *domain.KnowledgeSnapshot) []string {
	var labels []string
	for pair := s.CourseContent.Weeks.Oldest(); pair != nil; pair = pair.Next() {
		labels = append(labels, pair.Key)
	}
	return labels
}
