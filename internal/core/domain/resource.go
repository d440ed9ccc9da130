package domain

import (
	"net/url"
	"strings"
)

// ResourceSource identifies which snapshot section a resource came from
type ResourceSource string

const (
	SourceDiscourse ResourceSource = "discourse"
	SourceCourse    ResourceSource = "course"
)

// ResourceType classifies a course link by what it points at
type ResourceType string

const (
	ResourceVideo    ResourceType = "video"
	ResourcePDF      ResourceType = "pdf"
	ResourceSlides   ResourceType = "slides"
	ResourceNotebook ResourceType = "notebook"
	ResourceQuiz     ResourceType = "quiz"
	ResourceDocument ResourceType = "document"
	ResourceLink     ResourceType = "link"
)

// Resource is the uniform, matcher-facing view of a snapshot entry.
// Title, URL and Source are always set.
type Resource struct {
	Title  string         `json:"title" validate:"required" example:"Pandas Help"`
	URL    string         `json:"url" validate:"required" example:"https://discourse.example.org/t/pandas-help/42"`
	Source ResourceSource `json:"source" validate:"oneof=discourse course" example:"discourse"`
	Tags   []string       `json:"tags,omitempty"`
	Type   ResourceType   `json:"type,omitempty" example:"video"`
	Week   string         `json:"week,omitempty" example:"Week 1"`
}

// ClassifyResource infers a ResourceType from the shape of a link
func ClassifyResource(link string) ResourceType {
	lower := strings.ToLower(strings.TrimSpace(link))
	host := ""
	path := lower
	if u, err := url.Parse(lower); err == nil {
		host = u.Host
		path = u.Path
	}

	switch {
	case strings.Contains(host, "youtube.com") || strings.Contains(host, "youtu.be") || strings.Contains(host, "vimeo.com"):
		return ResourceVideo
	case strings.HasSuffix(path, ".mp4") || strings.HasSuffix(path, ".webm"):
		return ResourceVideo
	case strings.HasSuffix(path, ".pdf"):
		return ResourcePDF
	case strings.Contains(lower, "docs.google.com/presentation") ||
		strings.HasSuffix(path, ".ppt") || strings.HasSuffix(path, ".pptx"):
		return ResourceSlides
	case strings.HasSuffix(path, ".ipynb") || strings.Contains(host, "colab.research.google.com"):
		return ResourceNotebook
	case strings.Contains(host, "forms.gle") || strings.Contains(lower, "docs.google.com/forms") ||
		strings.Contains(path, "quiz"):
		return ResourceQuiz
	case strings.HasSuffix(path, ".html") || strings.HasSuffix(path, ".htm") ||
		strings.HasSuffix(path, ".md") || strings.HasSuffix(path, ".docx") ||
		strings.Contains(lower, "docs.google.com/document"):
		return ResourceDocument
	default:
		return ResourceLink
	}
}
