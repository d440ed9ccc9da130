package normalisers

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/custodia-labs/course-qa/internal/core/ports/driven"
)

var (
	_ driven.TextNormaliser = (*PlaintextNormaliser)(nil)
	_ driven.TextNormaliser = (*MarkdownNormaliser)(nil)
	_ driven.TextNormaliser = (*HTMLNormaliser)(nil)
)

// Format identifiers understood by the registry.
const (
	FormatPlain    = "text/plain"
	FormatMarkdown = "text/markdown"
	FormatHTML     = "text/html"
)

// collapse joins all whitespace runs into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// PlaintextNormaliser is the fallback: it only folds whitespace.
type PlaintextNormaliser struct{}

func (n *PlaintextNormaliser) Normalise(content string, format string) string {
	return collapse(content)
}

func (n *PlaintextNormaliser) SupportedTypes() []string {
	return []string{FormatPlain, "*/*"}
}

func (n *PlaintextNormaliser) Priority() int {
	return 1
}

// HTMLNormaliser strips markup, including script and style bodies, and decodes entities.
type HTMLNormaliser struct {
	policy *bluemonday.Policy
}

func NewHTMLNormaliser() *HTMLNormaliser {
	return &HTMLNormaliser{policy: bluemonday.StrictPolicy()}
}

func (n *HTMLNormaliser) Normalise(content string, format string) string {
	return collapse(html.UnescapeString(n.policy.Sanitize(content)))
}

func (n *HTMLNormaliser) SupportedTypes() []string {
	return []string{FormatHTML, "application/xhtml+xml"}
}

func (n *HTMLNormaliser) Priority() int {
	return 50
}

// MarkdownNormaliser renders Markdown and keeps only the visible text.
// Link targets are dropped; link labels stay.
type MarkdownNormaliser struct {
	md   goldmark.Markdown
	html *HTMLNormaliser
}

func NewMarkdownNormaliser() *MarkdownNormaliser {
	return &MarkdownNormaliser{md: goldmark.New(), html: NewHTMLNormaliser()}
}

func (n *MarkdownNormaliser) Normalise(content string, format string) string {
	var buf bytes.Buffer
	if err := n.md.Convert([]byte(content), &buf); err != nil {
		return collapse(content)
	}
	return n.html.Normalise(buf.String(), FormatHTML)
}

func (n *MarkdownNormaliser) SupportedTypes() []string {
	return []string{FormatMarkdown, "text/x-markdown"}
}

func (n *MarkdownNormaliser) Priority() int {
	return 50
}
