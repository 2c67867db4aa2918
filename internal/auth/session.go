package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ecoheroes/recycle-rewards/internal/cache"
)

// ErrSessionNotFound indicates an unknown or expired session token.
var ErrSessionNotFound = errors.New("session not found")

const sessionKeyPrefix = "session:"

// SessionStore keeps bearer tokens in Redis with a TTL.
type SessionStore struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewSessionStore creates a session store.
func NewSessionStore(c cache.Cache, ttl time.Duration) *SessionStore {
	return &SessionStore{cache: c, ttl: ttl}
}

// Create issues a new random token for the user.
func (s *SessionStore) Create(ctx context.Context, userID uint) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	if err := s.cache.Set(ctx, sessionKeyPrefix+token, strconv.FormatUint(uint64(userID), 10), s.ttl); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// Resolve returns the user id behind a token.
func (s *SessionStore) Resolve(ctx context.Context, token string) (uint, error) {
	val, err := s.cache.Get(ctx, sessionKeyPrefix+token)
	if errors.Is(err, cache.ErrCacheMiss) {
		return 0, ErrSessionNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve session: %w", err)
	}

	userID, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("corrupt session value %q: %w", val, err)
	}
	return uint(userID), nil
}

// Destroy invalidates a token.
func (s *SessionStore) Destroy(ctx context.Context, token string) error {
	return s.cache.Del(ctx, sessionKeyPrefix+token)
}
