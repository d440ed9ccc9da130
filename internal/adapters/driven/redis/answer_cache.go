package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/course-qa/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.AnswerCache = (*AnswerCache)(nil)

const answerPrefix = "courseqa:"

// cachedAnswer is the stored value
type cachedAnswer struct {
	Answer   string    `json:"answer"`
	CachedAt time.Time `json:"cached_at"`
}

// AnswerCache shares generated answers between API instances.
// Entries expire through the Redis TTL.
type AnswerCache struct {
	client *redis.Client
}

// NewAnswerCache creates a new Redis-backed AnswerCache
func NewAnswerCache(client *redis.Client) *AnswerCache {
	return &AnswerCache{client: client}
}

// Get returns a cached answer; a missing key is a miss, not an error
func (c *AnswerCache) Get(ctx context.Context, key string) (string, bool, error) {
	data, err := c.client.Get(ctx, answerPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get answer: %w", err)
	}

	var v cachedAnswer
	if err := json.Unmarshal(data, &v); err != nil {
		// Treat undecodable entries as misses; the next Set overwrites them
		return "", false, nil
	}
	return v.Answer, true, nil
}

// Set stores an answer for ttl
func (c *AnswerCache) Set(ctx context.Context, key, answer string, ttl time.Duration) error {
	data, err := json.Marshal(cachedAnswer{Answer: answer, CachedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal answer: %w", err)
	}
	if err := c.client.Set(ctx, answerPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("set answer: %w", err)
	}
	return nil
}
