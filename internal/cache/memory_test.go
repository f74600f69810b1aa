package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStruct struct {
	Name string
	Age  int
}

func TestMemory_SetAndGet(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	expected := testStruct{Name: "Alice", Age: 30}
	require.NoError(t, c.Set(ctx, "user:1", expected, time.Minute))

	var actual testStruct
	found, err := c.Get(ctx, "user:1", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)
}

func TestMemory_Expiry(t *testing.T) {
	c := NewMemory()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	now = now.Add(59 * time.Second)
	var out string
	found, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.True(t, found)

	now = now.Add(time.Second)
	found, err = c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemory_InvalidatePrefix(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()
	for _, k := range []string{KeySubscription, KeySubscriptionsAll, KeyPaymentsUser, SubscriptionPaymentsKey("s1"), PaymentKey("p1")} {
		require.NoError(t, c.Set(ctx, k, 1, 0))
	}

	require.NoError(t, c.Invalidate(ctx, KeySubscription))
	assertPresent(t, c, KeySubscription, false)
	assertPresent(t, c, KeySubscriptionsAll, true)

	require.NoError(t, c.Invalidate(ctx, KeyPayments))
	assertPresent(t, c, KeyPaymentsUser, false)
	assertPresent(t, c, SubscriptionPaymentsKey("s1"), false)
	assertPresent(t, c, PaymentKey("p1"), true)

	require.NoError(t, c.Clear(ctx))
	assertPresent(t, c, KeySubscriptionsAll, false)
	assertPresent(t, c, PaymentKey("p1"), false)
}

func assertPresent(t *testing.T, c Cache, key string, want bool) {
	t.Helper()
	var v int
	found, err := c.Get(context.Background(), key, &v)
	require.NoError(t, err)
	assert.Equal(t, want, found, key)
}

func TestMemory_ExpiredGetKeepsConcurrentSet(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }
	require.NoError(t, c.Set(ctx, "subscription", "old", time.Second))

	// Свежая запись появляется между чтением и удалением просроченной.
	written := false
	c.now = func() time.Time {
		if !written {
			written = true
			require.NoError(t, c.Set(ctx, "subscription", "new", time.Minute))
		}
		return base.Add(2 * time.Second)
	}

	var v string
	found, err := c.Get(ctx, "subscription", &v)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = c.Get(ctx, "subscription", &v)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "new", v)
}
