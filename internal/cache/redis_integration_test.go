package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/bukafresh-client/internal/config"
)

func setupRedisContainer(ctx context.Context, t *testing.T) (string, func()) {
	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor: wait.ForListeningPort("6379/tcp").
			WithStartupTimeout(time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	}

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("%s:%s", host, port.Port()), cleanup
}

func TestRedis_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	var addr string
	if testRedisAddr := os.Getenv("TEST_REDIS_ADDR"); testRedisAddr != "" {
		t.Logf("Using external Redis service: %s", testRedisAddr)
		addr = testRedisAddr
	} else {
		t.Log("Using testcontainers for Redis")
		var cleanup func()
		addr, cleanup = setupRedisContainer(ctx, t)
		defer cleanup()
	}

	cache, err := InitServer(ctx, config.RedisConnection{
		AddressRedis: addr,
		DialTimeout:  5 * time.Second,
		TimeoutRedis: 5 * time.Second,
		KeyPrefix:    fmt.Sprintf("bukafresh-test-%d", time.Now().UnixNano()),
	})
	require.NoError(t, err)
	defer cache.Close()
	defer func() { _ = cache.Clear(ctx) }()

	require.NoError(t, cache.Set(ctx, KeySubscriptionsAll, []string{"a", "b"}, time.Minute))
	require.NoError(t, cache.Set(ctx, KeySubscription, "a", time.Minute))

	require.NoError(t, cache.Invalidate(ctx, KeySubscription))

	var all []string
	found, err := cache.Get(ctx, KeySubscriptionsAll, &all)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b"}, all)

	var current string
	found, err = cache.Get(ctx, KeySubscription, &current)
	require.NoError(t, err)
	assert.False(t, found)
}
