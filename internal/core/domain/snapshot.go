package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// KnowledgeSnapshot is the scraped course and forum content the service answers from.
// A snapshot is written wholesale by an ingestion run and never mutated afterwards.
type KnowledgeSnapshot struct {
	DiscoursePosts []DiscoursePost   `json:"discourse_posts"`
	CourseContent  CourseContent     `json:"course_content"`
	LastUpdated    time.Time         `json:"last_updated"`
	Metadata       *SnapshotMetadata `json:"metadata,omitempty"`
}

// SnapshotMetadata records where a snapshot came from
type SnapshotMetadata struct {
	Sources    []string   `json:"sources,omitempty"`
	DateFrom   *time.Time `json:"date_from,omitempty"`
	DateTo     *time.Time `json:"date_to,omitempty"`
	ForumPages int        `json:"forum_pages,omitempty"`
}

// DiscoursePost is a forum topic as listed in the course category
type DiscoursePost struct {
	Title string   `json:"title"`
	URL   string   `json:"url"`
	Tags  []string `json:"tags"`
	Date  string   `json:"date,omitempty"`
}

// CourseResource is a link published on the course site
type CourseResource struct {
	Title string       `json:"title"`
	URL   string       `json:"url"`
	Type  ResourceType `json:"type,omitempty"`
	Week  string       `json:"week,omitempty"`
}

// WeekMap maps a week label to its resources, keeping the order of the source document.
type WeekMap = orderedmap.OrderedMap[string, []CourseResource]

// CourseContent groups course resources by week
type CourseContent struct {
	Weeks *WeekMap `json:"weeks"`
}

// NewKnowledgeSnapshot returns an empty snapshot with all collections allocated
func NewKnowledgeSnapshot() *KnowledgeSnapshot {
	return &KnowledgeSnapshot{
		DiscoursePosts: []DiscoursePost{},
		CourseContent:  CourseContent{Weeks: orderedmap.New[string, []CourseResource]()},
	}
}

// UnmarshalJSON decodes a snapshot and normalises absent collections to empty ones.
// An unparseable last_updated decodes as the zero time rather than failing the document.
func (s *KnowledgeSnapshot) UnmarshalJSON(data []byte) error {
	type plain KnowledgeSnapshot
	var raw struct {
		plain
		LastUpdated json.RawMessage `json:"last_updated"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = KnowledgeSnapshot(raw.plain)
	s.LastUpdated, _ = parseRawTimestamp(raw.LastUpdated)
	s.ensureCollections()
	return nil
}

// timestampLayouts covers RFC 3339 and the zone-less ISO 8601 forms
// written by other scrapers. Zone-less values are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

// ParseTimestamp parses a snapshot timestamp in any accepted layout.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var err error
	for _, layout := range timestampLayouts {
		var t time.Time
		if t, err = time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q: %w", value, err)
}

func parseRawTimestamp(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return time.Time{}, err
	}
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	return ParseTimestamp(value)
}

// UnmarshalJSON accepts the same timestamp layouts as the snapshot itself.
// Unparseable dates are dropped.
func (m *SnapshotMetadata) UnmarshalJSON(data []byte) error {
	type plain SnapshotMetadata
	var raw struct {
		plain
		DateFrom json.RawMessage `json:"date_from,omitempty"`
		DateTo   json.RawMessage `json:"date_to,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = SnapshotMetadata(raw.plain)
	if t, err := parseRawTimestamp(raw.DateFrom); err == nil && !t.IsZero() {
		m.DateFrom = &t
	}
	if t, err := parseRawTimestamp(raw.DateTo); err == nil && !t.IsZero() {
		m.DateTo = &t
	}
	return nil
}

func (s *KnowledgeSnapshot) ensureCollections() {
	if s.DiscoursePosts == nil {
		s.DiscoursePosts = []DiscoursePost{}
	}
	if s.CourseContent.Weeks == nil {
		s.CourseContent.Weeks = orderedmap.New[string, []CourseResource]()
	}
}

// AddWeek appends resources under a week label, creating the week if needed
func (s *KnowledgeSnapshot) AddWeek(label string, resources ...CourseResource) {
	s.ensureCollections()
	existing, _ := s.CourseContent.Weeks.Get(label)
	s.CourseContent.Weeks.Set(label, append(existing, resources...))
}

// Stats summarises the snapshot for health reporting
func (s *KnowledgeSnapshot) Stats() SnapshotStats {
	stats := SnapshotStats{
		DiscoursePosts: len(s.DiscoursePosts),
		LastUpdated:    s.LastUpdated,
	}
	if s.CourseContent.Weeks == nil {
		return stats
	}
	stats.Weeks = s.CourseContent.Weeks.Len()
	for pair := s.CourseContent.Weeks.Oldest(); pair != nil; pair = pair.Next() {
		stats.CourseResources += len(pair.Value)
	}
	return stats
}

// SnapshotStats are the counts reported by the health endpoint
type SnapshotStats struct {
	DiscoursePosts  int       `json:"discourse_posts" example:"120"`
	Weeks           int       `json:"weeks" example:"12"`
	CourseResources int       `json:"course_resources" example:"240"`
	LastUpdated     time.Time `json:"last_updated"`
}
