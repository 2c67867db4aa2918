// Command server runs the recycle-rewards HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecoheroes/recycle-rewards/internal/api"
	authapi "github.com/ecoheroes/recycle-rewards/internal/api/auth"
	"github.com/ecoheroes/recycle-rewards/internal/api/battlepass"
	gameapi "github.com/ecoheroes/recycle-rewards/internal/api/game"
	recyclingapi "github.com/ecoheroes/recycle-rewards/internal/api/recycling"
	"github.com/ecoheroes/recycle-rewards/internal/auth"
	"github.com/ecoheroes/recycle-rewards/internal/cache"
	"github.com/ecoheroes/recycle-rewards/internal/config"
	"github.com/ecoheroes/recycle-rewards/internal/models"
	"github.com/ecoheroes/recycle-rewards/internal/notify"
	"github.com/ecoheroes/recycle-rewards/internal/repository"
	"github.com/ecoheroes/recycle-rewards/internal/service/gamesession"
	"github.com/ecoheroes/recycle-rewards/internal/service/leaderboard"
	"github.com/ecoheroes/recycle-rewards/internal/service/progression"
	"github.com/ecoheroes/recycle-rewards/internal/service/recycling"
	"github.com/ecoheroes/recycle-rewards/internal/service/rewards"
	"github.com/ecoheroes/recycle-rewards/internal/service/scheduler"
	"github.com/ecoheroes/recycle-rewards/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log.Info().Str("environment", cfg.Server.Environment).Msg("Starting recycle-rewards")

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	db, err := repository.NewDB(&cfg.Database.Postgres, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	redisCache, err := cache.NewRedisCache(&cfg.Database.Redis, log)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer redisCache.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	eventRepo := repository.NewEventRepository(db)
	rewardRepo := repository.NewRewardRepository(db)

	// Auth
	hasher := auth.NewHasher(cfg.Auth.BcryptCost)
	sessions := auth.NewSessionStore(redisCache, cfg.Auth.SessionTTL())

	// Services
	ladder := progression.LadderFromConfig(&cfg.Progression)
	leaderboardService := leaderboard.NewService(sessionRepo, redisCache, &cfg.Leaderboard, log)
	sessionService := gamesession.NewService(userRepo, sessionRepo, ladder, &cfg.Game, log)
	recyclingService := recycling.NewService(materialRepo, eventRepo, userRepo, ladder, log)
	rewardService := rewards.NewService(rewardRepo, userRepo, log)

	// Promotions and reward unlocks go out to chat.
	notifier := notify.NewClient(&cfg.Notify, log)
	promotionHook := func(user *models.User, oldRank, newRank string) {
		if err := notifier.SendRankPromotion(user.Username, oldRank, newRank, user.TotalPointsEarned); err != nil {
			log.Warn().Err(err).Str("username", user.Username).Msg("Failed to announce promotion")
		}
	}
	sessionService.SetPromotionHook(promotionHook)
	recyclingService.SetPromotionHook(promotionHook)
	rewardService.SetUnlockHook(func(user *models.User, reward *models.UserReward) {
		if err := notifier.SendRewardUnlocked(user.Username, reward.RewardName, reward.Source); err != nil {
			log.Warn().Err(err).Str("username", user.Username).Msg("Failed to announce reward unlock")
		}
	})

	// Background leaderboard refresh
	sched := scheduler.NewService(&cfg.Scheduler, leaderboardService, log)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}

	router := api.NewRouter(api.Dependencies{
		Config:            cfg,
		Log:               log,
		AuthHandler:       authapi.NewHandler(userRepo, hasher, sessions, log),
		GameHandler:       gameapi.NewHandler(sessionService, leaderboardService, log),
		BattlePassHandler: battlepass.NewHandler(rewardService, log),
		RecyclingHandler:  recyclingapi.NewHandler(recyclingService, log),
		Sessions:          sessions,
		Users:             userRepo,
		DBHealth:          db.Health,
		CacheHealth: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisCache.Health(ctx)
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	sched.Stop()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info().Msg("Server stopped")
	return nil
}
