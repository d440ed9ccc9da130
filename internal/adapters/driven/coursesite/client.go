// Package coursesite reads course weeks from a docsify site's sidebar.
package coursesite

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/course-qa/internal/core/domain"
	"github.com/custodia-labs/course-qa/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.CourseSource = (*Client)(nil)

const maxSidebarBytes = 2 << 20

// Config holds course site settings
type Config struct {
	// BaseURL is the public course root, e.g. https://tds.s-anand.net/
	BaseURL string
	// SidebarURL is the raw sidebar Markdown (default: BaseURL + "_sidebar.md")
	SidebarURL string
	// Titles cleans link labels (optional)
	Titles     driven.NormaliserRegistry
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client fetches and parses the course sidebar
type Client struct {
	baseURL    string
	sidebarURL string
	titles     driven.NormaliserRegistry
	http       *http.Client
	logger     *slog.Logger
}

// NewClient creates a course site client
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("course base url is required")
	}
	base := cfg.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	sidebar := cfg.SidebarURL
	if sidebar == "" {
		sidebar = base + "_sidebar.md"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    base,
		sidebarURL: sidebar,
		titles:     cfg.Titles,
		http:       httpClient,
		logger:     logger,
	}, nil
}

// URL returns the course root
func (c *Client) URL() string {
	return c.baseURL
}

// FetchCourse downloads the sidebar and groups its links by week
func (c *Client) FetchCourse(ctx context.Context) (domain.CourseContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.sidebarURL, nil)
	if err != nil {
		return domain.CourseContent{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/markdown, text/plain;q=0.9, */*;q=0.1")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.CourseContent{}, fmt.Errorf("get %s: %w", c.sidebarURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.CourseContent{}, fmt.Errorf("get %s: status %d", c.sidebarURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSidebarBytes))
	if err != nil {
		return domain.CourseContent{}, fmt.Errorf("read %s: %w", c.sidebarURL, err)
	}

	var clean func(string) string
	if c.titles != nil {
		clean = func(s string) string {
			if n := c.titles.Get("text/plain"); n != nil {
				return n.Normalise(s, "text/plain")
			}
			return strings.TrimSpace(s)
		}
	}

	content := ParseSidebar(body, c.baseURL, clean)
	c.logger.Debug("course sidebar parsed", "url", c.sidebarURL, "weeks", content.Weeks.Len())
	return content, nil
}
