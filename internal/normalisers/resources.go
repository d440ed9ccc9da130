package normalisers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/course-qa/internal/core/domain"
	"github.com/custodia-labs/course-qa/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ResourceNormaliser = (*ResourceNormaliser)(nil)

// SectionDiscourse names the forum section in validation errors.
const SectionDiscourse = "discourse_posts"

// ResourceNormaliser flattens a snapshot into Resources.
// Forum posts come first, then course weeks in document order.
type ResourceNormaliser struct {
	validate *validator.Validate
}

// NewResourceNormaliser creates a normaliser whose validation errors name
// fields by their JSON keys.
func NewResourceNormaliser() *ResourceNormaliser {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &ResourceNormaliser{validate: v}
}

// Normalise returns every valid entry as a Resource plus one
// *domain.ValidationError per skipped entry. A nil snapshot yields nothing.
func (n *ResourceNormaliser) Normalise(snapshot *domain.KnowledgeSnapshot) ([]domain.Resource, []error) {
	if snapshot == nil {
		return []domain.Resource{}, nil
	}

	resources := make([]domain.Resource, 0, len(snapshot.DiscoursePosts))
	var skipped []error

	for i, post := range snapshot.DiscoursePosts {
		r := domain.Resource{
			Title:  strings.TrimSpace(post.Title),
			URL:    strings.TrimSpace(post.URL),
			Source: domain.SourceDiscourse,
			Tags:   cleanTags(post.Tags),
		}
		if err := n.check(r, SectionDiscourse, i); err != nil {
			skipped = append(skipped, err)
			continue
		}
		resources = append(resources, r)
	}

	weeks := snapshot.CourseContent.Weeks
	if weeks == nil {
		return resources, skipped
	}
	for pair := weeks.Oldest(); pair != nil; pair = pair.Next() {
		for i, item := range pair.Value {
			r := domain.Resource{
				Title:  strings.TrimSpace(item.Title),
				URL:    strings.TrimSpace(item.URL),
				Source: domain.SourceCourse,
				Type:   item.Type,
				Week:   pair.Key,
			}
			if r.Type == "" && r.URL != "" {
				r.Type = domain.ClassifyResource(r.URL)
			}
			if err := n.check(r, pair.Key, i); err != nil {
				skipped = append(skipped, err)
				continue
			}
			resources = append(resources, r)
		}
	}

	return resources, skipped
}

func (n *ResourceNormaliser) check(r domain.Resource, section string, index int) error {
	err := n.validate.Struct(r)
	if err == nil {
		return nil
	}
	verr := &domain.ValidationError{Section: section, Index: index, Field: "entry", Reason: err.Error()}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		verr.Field = fe.Field()
		verr.Reason = reasonFor(fe)
	}
	return verr
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}

// cleanTags drops blank tags and trims the rest.
func cleanTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
