// Package discourse lists topics of a Discourse category through its JSON API.
package discourse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/course-qa/internal/core/domain"
	"github.com/custodia-labs/course-qa/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ForumSource = (*Client)(nil)

const maxPageBytes = 8 << 20

// Config holds Discourse client settings
type Config struct {
	// BaseURL is the forum root, e.g. https://discourse.example.org
	BaseURL string
	// Category is the category path, e.g. courses/tds-kb/34
	Category string
	// Cookie is sent verbatim for categories that need a logged-in session (optional)
	Cookie string
	// RequestsPerSecond paces page requests (default: 1)
	RequestsPerSecond float64
	// Titles decodes fancy_title when a topic has no plain title (optional)
	Titles driven.NormaliserRegistry
	// Timeout bounds each page request (default: 30s)
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client fetches category listing pages
type Client struct {
	baseURL  string
	category string
	cookie   string
	http     *http.Client
	limiter  *rate.Limiter
	titles   driven.NormaliserRegistry
	logger   *slog.Logger
}

// NewClient creates a Discourse client
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if _, err := url.ParseRequestURI(base); err != nil || base == "" {
		return nil, fmt.Errorf("invalid discourse base url %q", cfg.BaseURL)
	}
	category := strings.Trim(strings.TrimSpace(cfg.Category), "/")
	if category == "" {
		return nil, fmt.Errorf("discourse category is required")
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
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
		baseURL:  base,
		category: category,
		cookie:   cfg.Cookie,
		http:     httpClient,
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		titles:   cfg.Titles,
		logger:   logger,
	}, nil
}

// URL returns the category's public listing URL
func (c *Client) URL() string {
	return c.baseURL + "/c/" + c.category
}

// topicList mirrors the parts of /c/{category}.json we use
type topicList struct {
	TopicList struct {
		MoreTopicsURL string  `json:"more_topics_url"`
		Topics        []topic `json:"topics"`
	} `json:"topic_list"`
}

type topic struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	FancyTitle string  `json:"fancy_title"`
	Slug       string  `json:"slug"`
	CreatedAt  string  `json:"created_at"`
	Tags       tagList `json:"tags"`
}

// tagList accepts both tag encodings Discourse has used: plain names and
// objects with a name field.
type tagList []string

func (t *tagList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	tags := make([]string, 0, len(raw))
	for _, r := range raw {
		r = bytes.TrimSpace(r)
		if len(r) > 0 && r[0] == '{' {
			var obj struct {
				Name string `json:"name"`
			}
			if err := json.Unmarshal(r, &obj); err != nil {
				return err
			}
			tags = append(tags, obj.Name)
			continue
		}
		var name string
		if err := json.Unmarshal(r, &name); err != nil {
			return err
		}
		tags = append(tags, name)
	}
	*t = tags
	return nil
}

// FetchPage returns one listing page; page numbers start at 0
func (c *Client) FetchPage(ctx context.Context, page int) (*driven.ForumPage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/c/" + c.category + ".json?page=" + strconv.Itoa(page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("get %s: status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var list topicList
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPageBytes)).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode %s: %w", endpoint, err)
	}

	posts := make([]domain.DiscoursePost, 0, len(list.TopicList.Topics))
	for _, t := range list.TopicList.Topics {
		posts = append(posts, c.toPost(t))
	}
	c.logger.Debug("forum page fetched", "page", page, "topics", len(posts))

	return &driven.ForumPage{
		Posts:   posts,
		HasNext: list.TopicList.MoreTopicsURL != "",
	}, nil
}

// decodeFancyTitle turns Discourse's HTML-escaped fancy_title back into text.
// title is already plain text and is used as is.
func (c *Client) decodeFancyTitle(fancy string) string {
	if c.titles != nil {
		if n := c.titles.Get("text/html"); n != nil {
			return n.Normalise(fancy, "text/html")
		}
	}
	return html.UnescapeString(fancy)
}

func (c *Client) toPost(t topic) domain.DiscoursePost {
	title := t.Title
	if title == "" {
		title = c.decodeFancyTitle(t.FancyTitle)
	}
	slug := t.Slug
	if slug == "" {
		slug = "topic"
	}
	tags := []string(t.Tags)
	if tags == nil {
		tags = []string{}
	}
	return domain.DiscoursePost{
		Title: title,
		URL:   fmt.Sprintf("%s/t/%s/%d", c.baseURL, slug, t.ID),
		Tags:  tags,
		Date:  t.CreatedAt,
	}
}
