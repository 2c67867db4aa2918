// Package scheduler provides periodic leaderboard cache refresh.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ecoheroes/recycle-rewards/internal/config"
	prommetrics "github.com/ecoheroes/recycle-rewards/internal/metrics"
	"github.com/ecoheroes/recycle-rewards/internal/service/leaderboard"
	"github.com/ecoheroes/recycle-rewards/pkg/logger"
)

// Service runs the leaderboard refresh job on a cron schedule.
type Service struct {
	config      *config.SchedulerConfig
	leaderboard *leaderboard.Service
	log         *logger.Logger
	cron        *cron.Cron
}

// NewService creates a new scheduler service.
func NewService(cfg *config.SchedulerConfig, lb *leaderboard.Service, log *logger.Logger) *Service {
	return &Service{
		config:      cfg,
		leaderboard: lb,
		log:         log,
	}
}

// Start initializes and starts the cron scheduler.
func (s *Service) Start() error {
	if !s.config.Enabled {
		s.log.Info().Msg("Scheduler is disabled in configuration")
		return nil
	}

	location, err := s.config.GetLocation()
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", s.config.Timezone, err)
	}

	s.cron = cron.New(cron.WithLocation(location))

	_, err = s.cron.AddFunc(s.config.Cron, func() {
		s.runLeaderboardRefresh(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to register leaderboard refresh job: %w", err)
	}

	s.cron.Start()

	entries := s.cron.Entries()
	nextRun := ""
	if len(entries) > 0 {
		nextRun = entries[0].Next.Format(time.RFC3339)
	}

	s.log.Info().
		Str("schedule", s.config.Cron).
		Str("timezone", s.config.Timezone).
		Str("next_run", nextRun).
		Msg("Scheduler started successfully")

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Service) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.log.Info().Msg("Scheduler stopped")
	}
}

// runLeaderboardRefresh executes the leaderboard refresh job.
func (s *Service) runLeaderboardRefresh(ctx context.Context) {
	start := time.Now()

	defer func() {
		prommetrics.ObserveSchedulerJobDuration(time.Since(start).Seconds())
		prommetrics.SetSchedulerLastRun()
	}()

	s.log.Debug().Msg("Running leaderboard refresh job")

	board, err := s.leaderboard.Refresh(ctx)
	if err != nil {
		s.log.Error().
			Err(err).
			Dur("duration", time.Since(start)).
			Msg("Leaderboard refresh job failed")
		return
	}

	s.log.Info().
		Int("entries", len(board.Entries)).
		Dur("duration", time.Since(start)).
		Msg("Leaderboard refresh job completed")
}
