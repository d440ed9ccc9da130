package memory

import (
	"context"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"

	"github.com/custodia-labs/course-qa/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.AnswerCache = (*AnswerCache)(nil)

type entry struct {
	answer  string
	expires time.Time
}

// AnswerCache is a size-bounded in-process answer cache.
// The least recently used answer is evicted once MaxEntries is reached.
type AnswerCache struct {
	mu    sync.Mutex
	cache *lru.Cache
	now   func() time.Time
}

// NewAnswerCache creates a cache holding at most maxEntries answers (default 512).
func NewAnswerCache(maxEntries int) *AnswerCache {
	if maxEntries <= 0 {
		maxEntries = 512
	}
	return &AnswerCache{cache: lru.New(maxEntries), now: time.Now}
}

func (c *AnswerCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.cache.Get(key)
	if !ok {
		return "", false, nil
	}
	e := v.(entry)
	if !e.expires.IsZero() && c.now().After(e.expires) {
		c.cache.Remove(key)
		return "", false, nil
	}
	return e.answer, true, nil
}

func (c *AnswerCache) Set(_ context.Context, key, answer string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{answer: answer}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.cache.Add(key, e)
	return nil
}

// Len returns the number of cached answers, expired ones included.
func (c *AnswerCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}
