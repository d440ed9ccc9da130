package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/course-qa/internal/core/domain"
	"github.com/custodia-labs/course-qa/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.QuestionLog = (*QuestionLog)(nil)

// QuestionLog stores answered questions in PostgreSQL
type QuestionLog struct {
	db *DB
}

// NewQuestionLog creates a new QuestionLog
func NewQuestionLog(db *DB) *QuestionLog {
	return &QuestionLog{db: db}
}

// Record inserts one entry
func (l *QuestionLog) Record(ctx context.Context, entry *domain.QuestionLogEntry) error {
	query := `
		INSERT INTO question_log (id, question, link_count, answer_mode, took_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := l.db.ExecContext(ctx, query,
		entry.ID,
		entry.Question,
		entry.LinkCount,
		string(entry.AnswerMode),
		entry.Took.Milliseconds(),
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record question: %w", err)
	}
	return nil
}

// Recent returns the newest entries, newest first
func (l *QuestionLog) Recent(ctx context.Context, limit int) ([]*domain.QuestionLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, question, link_count, answer_mode, took_ms, created_at
		FROM question_log
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := l.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var entries []*domain.QuestionLogEntry
	for rows.Next() {
		var (
			e      domain.QuestionLogEntry
			mode   string
			tookMS int64
		)
		if err := rows.Scan(&e.ID, &e.Question, &e.LinkCount, &mode, &tookMS, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		e.AnswerMode = domain.AnswerMode(mode)
		e.Took = time.Duration(tookMS) * time.Millisecond
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
