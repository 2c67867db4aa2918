package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoheroes/recycle-rewards/internal/cache"
)

func TestHasher_HashAndVerify(t *testing.T) {
	hasher := NewHasher(4) // minimum cost keeps the test fast

	hash, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, hasher.Verify(hash, "correct horse battery staple"))
	assert.False(t, hasher.Verify(hash, "wrong password"))
}

func TestHasher_Hash_RejectsEmptyPassword(t *testing.T) {
	hasher := NewHasher(4)

	_, err := hasher.Hash("")
	assert.Error(t, err)
}

func TestHasher_Hash_SaltsEveryHash(t *testing.T) {
	hasher := NewHasher(4)

	first, err := hasher.Hash("same password")
	require.NoError(t, err)
	second, err := hasher.Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func setupSessionStore(t *testing.T, ttl time.Duration) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	redisCache := cache.NewRedisCacheForAddr(server.Addr())
	t.Cleanup(func() { _ = redisCache.Close() })
	return NewSessionStore(redisCache, ttl), server
}

func TestSessionStore_CreateAndResolve(t *testing.T) {
	store, _ := setupSessionStore(t, time.Hour)
	ctx := context.Background()

	token, err := store.Create(ctx, 42)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, err := store.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestSessionStore_Resolve_UnknownToken(t *testing.T) {
	store, _ := setupSessionStore(t, time.Hour)

	_, err := store.Resolve(context.Background(), "deadbeef")
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestSessionStore_Resolve_ExpiredToken(t *testing.T) {
	store, server := setupSessionStore(t, time.Minute)
	ctx := context.Background()

	token, err := store.Create(ctx, 7)
	require.NoError(t, err)

	server.FastForward(2 * time.Minute)

	_, err = store.Resolve(ctx, token)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestSessionStore_Destroy(t *testing.T) {
	store, _ := setupSessionStore(t, time.Hour)
	ctx := context.Background()

	token, err := store.Create(ctx, 9)
	require.NoError(t, err)

	require.NoError(t, store.Destroy(ctx, token))

	_, err = store.Resolve(ctx, token)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}
