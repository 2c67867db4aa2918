// Package leaderboard serves the top-scores board with a Redis cache in
// front of the database query.
package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ecoheroes/recycle-rewards/internal/cache"
	"github.com/ecoheroes/recycle-rewards/internal/config"
	prommetrics "github.com/ecoheroes/recycle-rewards/internal/metrics"
	"github.com/ecoheroes/recycle-rewards/internal/repository"
	"github.com/ecoheroes/recycle-rewards/pkg/logger"
)

const cacheKey = "leaderboard:top"

// SessionRepository interface for leaderboard queries.
type SessionRepository interface {
	TopByHighScore(limit int) ([]repository.LeaderboardRow, error)
}

// snapshot is the cached leaderboard payload.
type snapshot struct {
	Entries     []repository.LeaderboardRow `json:"entries"`
	GeneratedAt time.Time                   `json:"generated_at"`
}

// Service serves the leaderboard, reading through a Redis cache.
type Service struct {
	sessionRepo SessionRepository
	cache       cache.Cache
	size        int
	ttl         time.Duration
	now         func() time.Time
	log         *logger.Logger
}

// NewService creates a new leaderboard service.
func NewService(sessionRepo SessionRepository, c cache.Cache, cfg *config.LeaderboardConfig, log *logger.Logger) *Service {
	return &Service{
		sessionRepo: sessionRepo,
		cache:       c,
		size:        cfg.Size,
		ttl:         cfg.CacheTTL(),
		now:         time.Now,
		log:         log,
	}
}

// Board is the leaderboard returned to callers.
type Board struct {
	Entries     []repository.LeaderboardRow `json:"entries"`
	GeneratedAt time.Time                   `json:"generated_at"`
	FromCache   bool                        `json:"-"`
}

// GetTop returns the top entries by high score, serving from cache when a
// fresh snapshot exists. A cache failure degrades to the database query
// rather than an error.
func (s *Service) GetTop(ctx context.Context) (*Board, error) {
	raw, err := s.cache.Get(ctx, cacheKey)
	if err == nil {
		var snap snapshot
		if err := json.Unmarshal([]byte(raw), &snap); err == nil {
			prommetrics.LeaderboardCacheAge.Set(s.now().Sub(snap.GeneratedAt).Seconds())
			return &Board{Entries: snap.Entries, GeneratedAt: snap.GeneratedAt, FromCache: true}, nil
		}
		s.log.Warn().Err(err).Msg("Discarding malformed leaderboard cache entry")
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn().Err(err).Msg("Leaderboard cache read failed, falling back to database")
	}

	snap, err := s.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return &Board{Entries: snap.Entries, GeneratedAt: snap.GeneratedAt}, nil
}

// Refresh rebuilds the leaderboard snapshot from the database and stores it
// in the cache. Called on cache miss and by the scheduler.
func (s *Service) Refresh(ctx context.Context) (*Board, error) {
	rows, err := s.sessionRepo.TopByHighScore(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to build leaderboard: %w", err)
	}

	snap := snapshot{Entries: rows, GeneratedAt: s.now()}
	payload, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode leaderboard snapshot: %w", err)
	}
	if err := s.cache.Set(ctx, cacheKey, string(payload), s.ttl); err != nil {
		// Serving stale-free data matters more than caching it.
		s.log.Warn().Err(err).Msg("Leaderboard cache write failed")
	}

	prommetrics.LeaderboardCacheAge.Set(0)
	s.log.Debug().Int("entries", len(rows)).Msg("Leaderboard refreshed")

	return &Board{Entries: snap.Entries, GeneratedAt: snap.GeneratedAt}, nil
}

// Invalidate drops the cached snapshot so the next read rebuilds it.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Del(ctx, cacheKey)
}
