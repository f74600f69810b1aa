package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bukafresh-client/internal/config"
)

func setupTestCache(t *testing.T, prefix string) (*Redis, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
		KeyPrefix:    prefix,
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache, mr
}

func TestRedis_SetAndGet(t *testing.T) {
	cache, mr := setupTestCache(t, "bf")
	ctx := context.Background()

	expected := testStruct{Name: "Alice", Age: 30}
	require.NoError(t, cache.Set(ctx, "user:1", expected, time.Minute))
	assert.True(t, mr.Exists("bf:user:1"))

	var actual testStruct
	found, err := cache.Get(ctx, "user:1", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)
}

func TestRedis_GetNotFound(t *testing.T) {
	cache, _ := setupTestCache(t, "bf")

	var out testStruct
	found, err := cache.Get(context.Background(), "no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedis_TTL(t *testing.T) {
	cache, mr := setupTestCache(t, "bf")
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "v", time.Minute))
	mr.FastForward(2 * time.Minute)

	var out string
	found, err := cache.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedis_InvalidatePrefix(t *testing.T) {
	cache, mr := setupTestCache(t, "bf")
	ctx := context.Background()
	for _, k := range []string{KeySubscription, KeySubscriptionsAll, KeyPaymentsUser, SubscriptionPaymentsKey("s1")} {
		require.NoError(t, cache.Set(ctx, k, 1, time.Minute))
	}

	require.NoError(t, cache.Invalidate(ctx, KeySubscription))
	assert.False(t, mr.Exists("bf:subscription"))
	assert.True(t, mr.Exists("bf:subscriptions:all"))

	require.NoError(t, cache.Invalidate(ctx, KeyPayments))
	assert.False(t, mr.Exists("bf:payments:user"))
	assert.False(t, mr.Exists("bf:payments:subscription:s1"))
	assert.True(t, mr.Exists("bf:subscriptions:all"))
}

func TestRedis_ClearKeepsForeignKeys(t *testing.T) {
	cache, mr := setupTestCache(t, "bf")
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, KeyUserProfile, 1, time.Minute))
	require.NoError(t, mr.Set("other:key", "x"))

	require.NoError(t, cache.Clear(ctx))
	assert.False(t, mr.Exists("bf:userProfile"))
	assert.True(t, mr.Exists("other:key"))
}

func TestRedis_GetInvalidJSON(t *testing.T) {
	cache, mr := setupTestCache(t, "")
	require.NoError(t, mr.Set("bad", "not-json"))

	var out testStruct
	found, err := cache.Get(context.Background(), "bad", &out)
	assert.False(t, found)
	assert.Error(t, err)
}

func TestInitServerInvalidAddr(t *testing.T) {
	cfg := config.RedisConnection{
		AddressRedis: "127.0.0.1:9999",
	}

	cache, err := InitServer(context.Background(), cfg)
	assert.Nil(t, cache)
	assert.Error(t, err)
}
