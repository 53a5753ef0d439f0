package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(4)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "profile:s1", map[string]int{"score": 80}, 0))

	var got map[string]int
	require.NoError(t, c.Get(ctx, "profile:s1", &got))
	assert.Equal(t, 80, got["score"])
}

func TestMemoryCache_MissAndDelete(t *testing.T) {
	c := NewMemoryCache(4)
	ctx := context.Background()

	var got string
	assert.ErrorIs(t, c.Get(ctx, "absent", &got), ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	require.NoError(t, c.Delete(ctx, "k"))
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrCacheMiss)
}

func TestMemoryCache_EvictsOldestAtCapacity(t *testing.T) {
	c := NewMemoryCache(2)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 1, 0))
	require.NoError(t, c.Set(ctx, "b", 2, 0))
	require.NoError(t, c.Set(ctx, "c", 3, 0))

	var got int
	assert.ErrorIs(t, c.Get(ctx, "a", &got), ErrCacheMiss)
	assert.NoError(t, c.Get(ctx, "b", &got))
	assert.NoError(t, c.Get(ctx, "c", &got))
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	c := NewMemoryCache(4)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", "lived", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var got string
	assert.ErrorIs(t, c.Get(ctx, "short", &got), ErrCacheMiss)
}

func TestMemoryCache_DeletePattern(t *testing.T) {
	c := NewMemoryCache(8)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "profile:s1", 1, 0))
	require.NoError(t, c.Set(ctx, "profile:s2", 2, 0))
	require.NoError(t, c.Set(ctx, "session:s1", 3, 0))

	require.NoError(t, c.DeletePattern(ctx, "profile:*"))

	var got int
	assert.ErrorIs(t, c.Get(ctx, "profile:s1", &got), ErrCacheMiss)
	assert.ErrorIs(t, c.Get(ctx, "profile:s2", &got), ErrCacheMiss)
	assert.NoError(t, c.Get(ctx, "session:s1", &got))
}
