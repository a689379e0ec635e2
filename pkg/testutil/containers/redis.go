//go:build integration

package containers

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"netra/internal/platform/config"
	redisclient "netra/internal/platform/redis"
)

// RedisContainer is a throwaway Redis reached through the same platform
// client the server uses.
type RedisContainer struct {
	Container testcontainers.Container
	URL       string
	Platform  *redisclient.Client
	Client    *redis.Client
}

// NewRedisContainer starts redis:7-alpine and connects to it. It fails the
// test on any startup error.
func NewRedisContainer(t *testing.T) *RedisContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}

	url, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("redis connection string: %v", err)
	}

	platform, err := redisclient.New(ctx, config.RedisConfig{
		URL:          url,
		PoolSize:     4,
		MinIdleConns: 1,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("connect to redis container: %v", err)
	}

	return &RedisContainer{
		Container: container,
		URL:       url,
		Platform:  platform,
		Client:    platform.Client,
	}
}

// FlushAll empties the database between tests.
func (r *RedisContainer) FlushAll(ctx context.Context) error {
	return r.Client.FlushAll(ctx).Err()
}

func (r *RedisContainer) Terminate(ctx context.Context) {
	_ = r.Platform.Close()
	_ = r.Container.Terminate(ctx)
}
