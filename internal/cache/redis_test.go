package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorlens/creator-analytics/internal/config"
)

type testStruct struct {
	Name  string
	Score int
}

func setupTestCache(t *testing.T) *Cache {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	return cache
}

func TestSetAndGet(t *testing.T) {
	cache := setupTestCache(t)

	expected := testStruct{Name: "channel:abc", Score: 42}
	require.NoError(t, cache.Set("analysis:abc", expected, time.Minute))

	var actual testStruct
	found, err := cache.Get("analysis:abc", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)
}

func TestGet_MissingKey(t *testing.T) {
	cache := setupTestCache(t)

	var actual testStruct
	found, err := cache.Get("missing", &actual)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	cache := setupTestCache(t)

	require.NoError(t, cache.Set("key", testStruct{Name: "x"}, time.Minute))
	require.NoError(t, cache.Invalidate("key"))

	var actual testStruct
	found, err := cache.Get("key", &actual)
	require.NoError(t, err)
	assert.False(t, found)
}
