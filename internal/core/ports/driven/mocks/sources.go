package mocks

import (
	"context"

	"github.com/custodia-labs/course-qa/internal/core/domain"
	"github.com/custodia-labs/course-qa/internal/core/ports/driven"
)

// MockCourseSource returns fixed course content.
type MockCourseSource struct {
	Content domain.CourseContent
	Err     error
	Calls   int
}

func (m *MockCourseSource) FetchCourse(ctx context.Context) (domain.CourseContent, error) {
	m.Calls++
	return m.Content, m.Err
}

func (m *MockCourseSource) URL() string {
	return "https://course.example.org/"
}

// MockForumSource serves the configured pages in order.
type MockForumSource struct {
	Pages [][]domain.DiscoursePost
	Err   error

	Requested []int
}

func (m *MockForumSource) FetchPage(ctx context.Context, page int) (*driven.ForumPage, error) {
	m.Requested = append(m.Requested, page)
	if m.Err != nil {
		return nil, m.Err
	}
	if page >= len(m.Pages) {
		return &driven.ForumPage{}, nil
	}
	return &driven.ForumPage{
		Posts:   m.Pages[page],
		HasNext: page+1 < len(m.Pages),
	}, nil
}

func (m *MockForumSource) URL() string {
	return "https://discourse.example.org/c/course"
}
