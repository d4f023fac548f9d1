package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cofferfi/coffer/config"
)

func setupTestCache(t *testing.T) Cache {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	config.MockConfig(&config.Configuration{
		Redis: config.RedisConfig{Dns: mr.Addr()},
	})

	c, err := NewCache()
	require.NoError(t, err)
	return c
}

func TestCacheSetGet(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	err := c.Set(ctx, "balance:acc_1", uint64(42), 1*time.Minute)
	require.NoError(t, err)

	var got uint64
	err = c.Get(ctx, "balance:acc_1", &got)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got)
}

func TestCacheMissLeavesTargetUntouched(t *testing.T) {
	c := setupTestCache(t)

	got := uint64(7)
	err := c.Get(context.Background(), "balance:unknown", &got)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), got)
}

func TestCacheDelete(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "balance:acc_1", uint64(42), 1*time.Minute))
	require.NoError(t, c.Delete(ctx, "balance:acc_1"))

	var got uint64
	require.NoError(t, c.Get(ctx, "balance:acc_1", &got))
	assert.Equal(t, uint64(0), got)
}
