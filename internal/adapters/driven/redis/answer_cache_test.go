package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerCache_SetGet(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewAnswerCache(client)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "answer:abc")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "answer:abc", "Use pip.", time.Hour))

	got, ok, err := cache.Get(ctx, "answer:abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Use pip.", got)

	assert.True(t, mr.Exists("courseqa:answer:abc"))
	assert.Equal(t, time.Hour, mr.TTL("courseqa:answer:abc"))
}

func TestAnswerCache_Expiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewAnswerCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "v", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAnswerCache_CorruptEntryIsMiss(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewAnswerCache(client)
	require.NoError(t, mr.Set("courseqa:k", "{not json"))

	_, ok, err := cache.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAnswerCache_ServerDown(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewAnswerCache(client)
	mr.Close()

	_, _, err := cache.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, cache.Set(context.Background(), "k", "v", time.Minute))
}
