package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func setupCache(t *testing.T) *RedisCache {
	t.Helper()

	server := miniredis.RunT(t)
	cache := NewRedisCacheForAddr(server.Addr())
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestRedisCache_SetGet(t *testing.T) {
	cache := setupCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "leaderboard:global", `[{"username":"bob"}]`, time.Minute); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	val, err := cache.Get(ctx, "leaderboard:global")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if val != `[{"username":"bob"}]` {
		t.Errorf("Unexpected value: %s", val)
	}
}

func TestRedisCache_Get_Miss(t *testing.T) {
	cache := setupCache(t)

	_, err := cache.Get(context.Background(), "absent")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestRedisCache_Del(t *testing.T) {
	cache := setupCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "session:abc", "42", time.Minute); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := cache.Del(ctx, "session:abc"); err != nil {
		t.Fatalf("Del() failed: %v", err)
	}

	_, err := cache.Get(ctx, "session:abc")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestRedisCache_Health(t *testing.T) {
	cache := setupCache(t)

	if err := cache.Health(context.Background()); err != nil {
		t.Errorf("Health() failed: %v", err)
	}
}
