package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/course-qa/internal/core/domain"
	"github.com/custodia-labs/course-qa/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/course-qa/internal/postprocessors"
)

func testCourse() *mocks.MockCourseSource {
	snap := domain.NewKnowledgeSnapshot()
	snap.AddWeek("Week 1",
		domain.CourseResource{Title: "Intro", URL: "https://course.example.org/#/intro"},
		domain.CourseResource{Title: "Setup", URL: "https://course.example.org/#/setup"},
	)
	return &mocks.MockCourseSource{Content: snap.CourseContent}
}

func TestIngestService_Run(t *testing.T) {
	store := mocks.NewMockSnapshotStore(nil)
	lock := mocks.NewMockDistributedLock()
	forum := &mocks.MockForumSource{Pages: [][]domain.DiscoursePost{
		{
			{Title: "Pinned welcome", URL: "https://d.example.org/t/welcome/1", Tags: []string{"Meta"}},
			{Title: "Pandas Help", URL: "https://d.example.org/t/pandas-help/2", Tags: []string{"Python"}},
		},
		{
			{Title: "Pinned welcome", URL: "https://d.example.org/t/welcome/1"},
			{Title: "Docker", URL: "https://d.example.org/t/docker/3"},
		},
	}}
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	svc := NewIngestService(IngestServiceConfig{
		Course:   testCourse(),
		Forum:    forum,
		Pipeline: postprocessors.DefaultPipeline(nil, nil, nil),
		Store:    store,
		Lock:     lock,
		DateFrom: &from,
	})

	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.DiscoursePosts)
	assert.Equal(t, 1, report.Weeks)
	assert.Equal(t, 2, report.CourseResources)
	assert.Equal(t, 2, report.ForumPages)
	assert.Equal(t, "memory://snapshot", report.Path)

	require.Len(t, store.Saved, 1)
	saved := store.Saved[0]
	assert.False(t, saved.LastUpdated.IsZero())
	assert.Equal(t, []string{"meta"}, saved.DiscoursePosts[0].Tags)
	require.NotNil(t, saved.Metadata)
	assert.Equal(t, []string{"https://course.example.org/", "https://discourse.example.org/c/course"}, saved.Metadata.Sources)
	assert.Equal(t, &from, saved.Metadata.DateFrom)
	assert.Equal(t, 2, saved.Metadata.ForumPages)

	assert.Equal(t, []int{0, 1}, forum.Requested)
	assert.False(t, lock.IsHeld(IngestLockName))
	assert.Equal(t, 1, lock.Released)
}

func TestIngestService_MaxPages(t *testing.T) {
	pages := make([][]domain.DiscoursePost, 6)
	for i := range pages {
		pages[i] = []domain.DiscoursePost{{Title: "t", URL: "https://d.example.org/t/x/" + string(rune('a'+i))}}
	}
	forum := &mocks.MockForumSource{Pages: pages}
	store := mocks.NewMockSnapshotStore(nil)

	report, err := NewIngestService(IngestServiceConfig{Forum: forum, Store: store}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, forum.Requested)
	assert.Equal(t, 3, report.DiscoursePosts)
	assert.Equal(t, 0, report.Weeks)
}

func TestIngestService_LockHeld(t *testing.T) {
	lock := mocks.NewMockDistributedLock()
	_, err := lock.Acquire(context.Background(), IngestLockName, time.Minute)
	require.NoError(t, err)
	store := mocks.NewMockSnapshotStore(nil)

	_, err = NewIngestService(IngestServiceConfig{Course: testCourse(), Store: store, Lock: lock}).Run(context.Background())

	assert.ErrorIs(t, err, domain.ErrLockHeld)
	assert.Empty(t, store.Saved)
}

func TestIngestService_LockError(t *testing.T) {
	lock := mocks.NewMockDistributedLock()
	lock.AcquireFn = func(string, time.Duration) (bool, error) { return false, errors.New("redis unreachable") }

	_, err := NewIngestService(IngestServiceConfig{Store: mocks.NewMockSnapshotStore(nil), Lock: lock}).Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis unreachable")
}

func TestIngestService_FirstForumPageFails(t *testing.T) {
	store := mocks.NewMockSnapshotStore(nil)
	lock := mocks.NewMockDistributedLock()
	forum := &mocks.MockForumSource{Err: errors.New("403 forbidden")}

	_, err := NewIngestService(IngestServiceConfig{Forum: forum, Store: store, Lock: lock}).Run(context.Background())

	require.Error(t, err)
	assert.Empty(t, store.Saved)
	assert.False(t, lock.IsHeld(IngestLockName), "lock released on failure")
}

func TestIngestService_CourseFails(t *testing.T) {
	store := mocks.NewMockSnapshotStore(nil)
	course := &mocks.MockCourseSource{Err: errors.New("sidebar not found")}

	_, err := NewIngestService(IngestServiceConfig{Course: course, Store: store}).Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch course content")
	assert.Empty(t, store.Saved)
}

func TestIngestService_SaveFails(t *testing.T) {
	store := mocks.NewMockSnapshotStore(nil)
	store.SaveFn = func(*domain.KnowledgeSnapshot) error { return errors.New("disk full") }

	_, err := NewIngestService(IngestServiceConfig{Course: testCourse(), Store: store}).Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "save snapshot")
}
