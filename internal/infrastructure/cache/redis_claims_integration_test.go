//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: endpoint})
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisClaimStore_ClaimAndRelease(t *testing.T) {
	ctx := context.Background()
	store := NewRedisClaimStore(setupRedis(t), "test:")
	t.Cleanup(func() { _ = store.Close() })

	token, ok, err := store.Claim(ctx, "monthly|-|-", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEmpty(t, token)

	_, ok, err = store.Claim(ctx, "monthly|-|-", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Release(ctx, "monthly|-|-", token))
	_, ok, err = store.Claim(ctx, "monthly|-|-", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisClaimStore_StaleReleaseKeepsNewClaim(t *testing.T) {
	ctx := context.Background()
	client := setupRedis(t)
	store := NewRedisClaimStore(client, "test:")
	t.Cleanup(func() { _ = store.Close() })

	stale, ok, err := store.Claim(ctx, "daily|-|-", 100*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	require.Eventually(t, func() bool {
		return client.Exists(ctx, "test:daily|-|-").Val() == 0
	}, 5*time.Second, 20*time.Millisecond)

	current, ok, err := store.Claim(ctx, "daily|-|-", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, store.Release(ctx, "daily|-|-", stale))
	assert.Equal(t, current, client.Get(ctx, "test:daily|-|-").Val())
}
