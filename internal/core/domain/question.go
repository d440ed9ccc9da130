package domain

import "time"

// QuestionRequest is the body of POST /api/
type QuestionRequest struct {
	Question string `json:"question" example:"How do I install pandas?"`
	// Image is reserved for attachments and is not used for matching
	Image string `json:"image,omitempty"`
}

// AnswerResponse pairs an answer string with ranked resource links
type AnswerResponse struct {
	Answer string     `json:"answer" example:"Found 2 relevant resources"`
	Links  []Resource `json:"links"`
}

// ScoredResource is a matcher candidate; scores never leave the core
type ScoredResource struct {
	Resource Resource
	Score    int
}

// HealthStatus is the coarse service state reported by /health
type HealthStatus string

const (
	HealthOK       HealthStatus = "ok"
	HealthDegraded HealthStatus = "degraded"
)

// HealthReport describes service and snapshot state
type HealthReport struct {
	Status     HealthStatus   `json:"status" example:"ok"`
	AnswerMode AnswerMode     `json:"answer_mode" example:"summary"`
	DataStats  *SnapshotStats `json:"data_stats,omitempty"`
	Reason     string         `json:"reason,omitempty"`
	Version    string         `json:"version,omitempty" example:"1.0.0"`
	CheckedAt  time.Time      `json:"checked_at"`
}

// QuestionLogEntry records one answered question
type QuestionLogEntry struct {
	ID         string        `json:"id"`
	Question   string        `json:"question"`
	LinkCount  int           `json:"link_count"`
	AnswerMode AnswerMode    `json:"answer_mode"`
	Took       time.Duration `json:"took"`
	CreatedAt  time.Time     `json:"created_at"`
}

// IngestReport summarises an ingestion run
type IngestReport struct {
	DiscoursePosts  int           `json:"discourse_posts"`
	Weeks           int           `json:"weeks"`
	CourseResources int           `json:"course_resources"`
	ForumPages      int           `json:"forum_pages"`
	Path            string        `json:"path"`
	Took            time.Duration `json:"took"`
}
