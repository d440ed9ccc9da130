package coursesite

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/custodia-labs/course-qa/internal/core/domain"
)

// DefaultSection holds top-level sidebar links that belong to no week
const DefaultSection = "Overview"

// sidebarParser turns a docsify _sidebar.md into course weeks.
//
// A top-level list item with a nested list is a week: its text is the label
// and every link below it is a resource. Headings start a new section for
// the flat links that follow them.
type sidebarParser struct {
	md     goldmark.Markdown
	source []byte
	base   string
	clean  func(string) string
}

// ParseSidebar parses sidebar Markdown. Relative links resolve against base
// as docsify routes (base#/path). clean post-processes titles and may be nil.
func ParseSidebar(source []byte, base string, clean func(string) string) domain.CourseContent {
	if clean == nil {
		clean = func(s string) string { return strings.Join(strings.Fields(s), " ") }
	}
	p := &sidebarParser{md: goldmark.New(), source: source, base: base, clean: clean}
	return p.parse()
}

func (p *sidebarParser) parse() domain.CourseContent {
	snap := domain.NewKnowledgeSnapshot()
	doc := p.md.Parser().Parse(text.NewReader(p.source))

	section := DefaultSection
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if label := p.clean(p.textOf(node)); label != "" {
				section = label
			}
		case *ast.List:
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				p.addItem(snap, section, item)
			}
		}
	}

	return snap.CourseContent
}

func (p *sidebarParser) addItem(snap *domain.KnowledgeSnapshot, section string, item ast.Node) {
	var head ast.Node
	var nested []*ast.List
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		if l, ok := c.(*ast.List); ok {
			nested = append(nested, l)
		} else if head == nil {
			head = c
		}
	}

	if len(nested) == 0 {
		if head != nil {
			if r, ok := p.firstLink(head); ok {
				snap.AddWeek(section, r)
			}
		}
		return
	}

	label := section
	if head != nil {
		if l := p.clean(p.textOf(head)); l != "" {
			label = l
		}
	}

	var resources []domain.CourseResource
	if head != nil {
		if r, ok := p.firstLink(head); ok {
			resources = append(resources, r)
		}
	}
	for _, l := range nested {
		resources = append(resources, p.linksIn(l)...)
	}
	if len(resources) > 0 {
		for i := range resources {
			resources[i].Week = label
		}
		snap.AddWeek(label, resources...)
	}
}

// firstLink returns the first link directly inside a block
func (p *sidebarParser) firstLink(block ast.Node) (domain.CourseResource, bool) {
	var found domain.CourseResource
	ok := false
	_ = ast.Walk(block, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || ok {
			return ast.WalkContinue, nil
		}
		if r, isLink := p.resourceOf(n); isLink {
			found, ok = r, true
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return found, ok
}

// linksIn returns every link below n in document order
func (p *sidebarParser) linksIn(n ast.Node) []domain.CourseResource {
	var out []domain.CourseResource
	_ = ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if r, ok := p.resourceOf(n); ok {
			out = append(out, r)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return out
}

func (p *sidebarParser) resourceOf(n ast.Node) (domain.CourseResource, bool) {
	var dest, title string
	switch link := n.(type) {
	case *ast.Link:
		dest = string(link.Destination)
		title = p.clean(p.textOf(link))
	case *ast.AutoLink:
		dest = string(link.URL(p.source))
		title = dest
	default:
		return domain.CourseResource{}, false
	}
	if dest == "" {
		return domain.CourseResource{}, false
	}
	if title == "" {
		title = dest
	}
	return domain.CourseResource{
		Title: title,
		URL:   ResolveLink(p.base, dest),
		Type:  domain.ClassifyResource(dest),
	}, true
}

// textOf concatenates the text segments below n
func (p *sidebarParser) textOf(n ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			b.Write(t.Segment.Value(p.source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// ResolveLink turns a sidebar link into an absolute URL.
// Absolute URLs pass through; "page.md" becomes base#/page.
func ResolveLink(base, dest string) string {
	dest = strings.TrimSpace(dest)
	if strings.Contains(dest, "://") || strings.HasPrefix(dest, "mailto:") {
		return dest
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	if strings.HasPrefix(dest, "#") {
		return base + dest
	}
	path := strings.TrimPrefix(strings.TrimPrefix(dest, "./"), "/")
	path = strings.TrimSuffix(path, ".md")
	if path == "README" {
		path = ""
	}
	return base + "#/" + path
}
