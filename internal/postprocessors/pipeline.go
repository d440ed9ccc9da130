package postprocessors

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/course-qa/internal/core/domain"
	"github.com/custodia-labs/course-qa/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// Pipeline chains forum post processors, lowest Order first.
type Pipeline struct {
	mu         sync.RWMutex
	processors []driven.PostProcessor
	sorted     bool
}

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{
		processors: make([]driven.PostProcessor, 0),
	}
}

// Add adds a processor to the pipeline.
func (p *Pipeline) Add(processor driven.PostProcessor) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processors = append(p.processors, processor)
	p.sorted = false
}

func (p *Pipeline) ordered() []driven.PostProcessor {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.sorted {
		sort.SliceStable(p.processors, func(i, j int) bool {
			return p.processors[i].Order() < p.processors[j].Order()
		})
		p.sorted = true
	}
	out := make([]driven.PostProcessor, len(p.processors))
	copy(out, p.processors)
	return out
}

// Process applies all processors in order.
func (p *Pipeline) Process(posts []domain.DiscoursePost) []domain.DiscoursePost {
	for _, proc := range p.ordered() {
		posts = proc.Process(posts)
	}
	return posts
}

// List returns processor names in order.
func (p *Pipeline) List() []string {
	procs := p.ordered()
	names := make([]string, len(procs))
	for i, proc := range procs {
		names[i] = proc.Name()
	}
	return names
}

// DefaultPipeline returns dedupe, title cleanup and tag normalisation,
// plus a date window when from or to is set.
func DefaultPipeline(titles driven.NormaliserRegistry, from, to *time.Time) *Pipeline {
	p := NewPipeline()
	p.Add(&Deduplicator{})
	if titles != nil {
		p.Add(&TitleCleaner{registry: titles})
	}
	p.Add(&TagNormaliser{})
	if from != nil || to != nil {
		p.Add(&DateWindow{From: from, To: to})
	}
	return p
}

// Deduplicator drops repeated topic URLs, keeping the first occurrence.
// Pinned topics show up on every listing page.
type Deduplicator struct{}

var _ driven.PostProcessor = (*Deduplicator)(nil)

func (d *Deduplicator) Process(posts []domain.DiscoursePost) []domain.DiscoursePost {
	seen := make(map[string]struct{}, len(posts))
	out := make([]domain.DiscoursePost, 0, len(posts))
	for _, post := range posts {
		key := strings.TrimSuffix(strings.TrimSpace(post.URL), "/")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, post)
	}
	return out
}

func (d *Deduplicator) Name() string { return "deduplicator" }

func (d *Deduplicator) Order() int { return 0 }

// TitleCleaner folds whitespace in forum titles. Titles are plain text,
// so angle brackets in them are kept as typed.
type TitleCleaner struct {
	registry driven.NormaliserRegistry
}

var _ driven.PostProcessor = (*TitleCleaner)(nil)

// NewTitleCleaner cleans titles with the registry's plain text normaliser.
func NewTitleCleaner(registry driven.NormaliserRegistry) *TitleCleaner {
	return &TitleCleaner{registry: registry}
}

func (c *TitleCleaner) Process(posts []domain.DiscoursePost) []domain.DiscoursePost {
	n := c.registry.Get("text/plain")
	if n == nil {
		return posts
	}
	for i := range posts {
		posts[i].Title = n.Normalise(posts[i].Title, "text/plain")
	}
	return posts
}

func (c *TitleCleaner) Name() string { return "title_cleaner" }

func (c *TitleCleaner) Order() int { return 5 }

// TagNormaliser trims, lower-cases and de-duplicates tags.
type TagNormaliser struct{}

var _ driven.PostProcessor = (*TagNormaliser)(nil)

func (t *TagNormaliser) Process(posts []domain.DiscoursePost) []domain.DiscoursePost {
	for i := range posts {
		posts[i].Tags = normaliseTags(posts[i].Tags)
	}
	return posts
}

func normaliseTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func (t *TagNormaliser) Name() string { return "tag_normaliser" }

func (t *TagNormaliser) Order() int { return 10 }

// DateWindow keeps posts dated within [From, To]; either bound may be nil.
// A To at midnight is a whole day and keeps posts from any time that day.
// Posts without a parseable date are kept.
type DateWindow struct {
	From *time.Time
	To   *time.Time
}

var _ driven.PostProcessor = (*DateWindow)(nil)

var postDateLayouts = []string{time.RFC3339Nano, time.RFC3339, time.DateOnly}

// ParsePostDate accepts RFC 3339 timestamps and bare dates.
func ParsePostDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range postDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (w *DateWindow) Process(posts []domain.DiscoursePost) []domain.DiscoursePost {
	out := posts[:0]
	for _, post := range posts {
		if w.contains(post.Date) {
			out = append(out, post)
		}
	}
	return out
}

func (w *DateWindow) contains(date string) bool {
	t, ok := ParsePostDate(date)
	if !ok {
		return true
	}
	if w.From != nil && t.Before(*w.From) {
		return false
	}
	if w.To != nil {
		end := *w.To
		if isMidnight(end) {
			return t.Before(end.AddDate(0, 0, 1))
		}
		if t.After(end) {
			return false
		}
	}
	return true
}

func isMidnight(t time.Time) bool {
	h, m, s := t.Clock()
	return h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0
}

func (w *DateWindow) Name() string { return "date_window" }

func (w *DateWindow) Order() int { return 20 }
