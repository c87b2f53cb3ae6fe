package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewWithClient(client)
}

func TestCacheSetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	type payload struct {
		Title string `json:"title"`
		Count int    `json:"count"`
	}

	err := c.Set(ctx, "jobs:list:1", payload{Title: "Go developer", Count: 3}, time.Minute)
	require.NoError(t, err)

	var got payload
	err = c.Get(ctx, "jobs:list:1", &got)
	require.NoError(t, err)
	assert.Equal(t, "Go developer", got.Title)
	assert.Equal(t, 3, got.Count)
}

func TestCacheMiss(t *testing.T) {
	c := newTestCache(t)

	var got string
	err := c.Get(context.Background(), "missing", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCacheDeleteByPattern(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "jobs:list:1", "a", time.Minute))
	require.NoError(t, c.Set(ctx, "jobs:list:2", "b", time.Minute))
	require.NoError(t, c.Set(ctx, "users:1", "c", time.Minute))

	require.NoError(t, c.DeleteByPattern(ctx, "jobs:*"))

	var got string
	assert.ErrorIs(t, c.Get(ctx, "jobs:list:1", &got), ErrCacheMiss)
	assert.ErrorIs(t, c.Get(ctx, "jobs:list:2", &got), ErrCacheMiss)
	assert.NoError(t, c.Get(ctx, "users:1", &got))
}

func TestDisabledCacheIsNoop(t *testing.T) {
	c := &Cache{}
	ctx := context.Background()

	assert.False(t, c.Enabled())
	assert.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	var got string
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrCacheMiss)
	assert.NoError(t, c.Delete(ctx, "k"))
}
