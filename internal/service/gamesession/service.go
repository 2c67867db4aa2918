// Package gamesession provides the admission gate and play accounting for
// the arcade mini-game.
package gamesession

import (
	"context"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/ecoheroes/recycle-rewards/internal/config"
	prommetrics "github.com/ecoheroes/recycle-rewards/internal/metrics"
	"github.com/ecoheroes/recycle-rewards/internal/models"
	"github.com/ecoheroes/recycle-rewards/internal/repository"
	"github.com/ecoheroes/recycle-rewards/internal/service/progression"
	"github.com/ecoheroes/recycle-rewards/internal/service/scoring"
	"github.com/ecoheroes/recycle-rewards/pkg/logger"
)

// Denial reasons reported by the admission gate.
const (
	DenyCooldown   = "cooldown"
	DenyDailyLimit = "daily_limit"
)

// UserRepository interface for user operations.
type UserRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	GetForUpdate(tx *gorm.DB, id uint) (*models.User, error)
	SaveTx(tx *gorm.DB, user *models.User) error
}

// SessionRepository interface for game session operations.
type SessionRepository interface {
	GetOrCreateForUpdate(tx *gorm.DB, userID uint) (*models.GameSession, error)
	SaveTx(tx *gorm.DB, session *models.GameSession) error
	GetByUserID(userID uint) (*models.GameSession, error)
}

// Clock abstracts time.Now so admission rules are testable.
type Clock func() time.Time

// Service enforces the play gate and applies game results to user state.
type Service struct {
	userRepo    UserRepository
	sessionRepo SessionRepository
	ladder      *progression.Ladder
	cooldown    time.Duration
	dailyLimit  int
	maxScore    int
	now         Clock
	log         *logger.Logger
	onPromotion progression.PromotionHook
}

// NewService creates a new game session service with concrete repository types.
func NewService(
	userRepo *repository.UserRepository,
	sessionRepo *repository.SessionRepository,
	ladder *progression.Ladder,
	cfg *config.GameConfig,
	log *logger.Logger,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		ladder:      ladder,
		cooldown:    cfg.Cooldown(),
		dailyLimit:  cfg.DailyPlayLimit,
		maxScore:    cfg.MaxScore,
		now:         time.Now,
		log:         log,
	}
}

// NewServiceWithInterfaces creates a new game session service with interface
// dependencies and an injectable clock (useful for testing).
func NewServiceWithInterfaces(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	ladder *progression.Ladder,
	cfg *config.GameConfig,
	now Clock,
	log *logger.Logger,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		ladder:      ladder,
		cooldown:    cfg.Cooldown(),
		dailyLimit:  cfg.DailyPlayLimit,
		maxScore:    cfg.MaxScore,
		now:         now,
		log:         log,
	}
}

// SetPromotionHook registers a callback for rank promotions committed by
// score submissions.
func (s *Service) SetPromotionHook(hook progression.PromotionHook) {
	s.onPromotion = hook
}

// Admission is the gate decision for starting a round.
type Admission struct {
	CanPlay        bool
	Reason         string
	PlaysRemaining int
}

// evaluate applies the rollover and admission rules to a loaded session.
// The session is mutated in place when the date rolled over.
func (s *Service) evaluate(user *models.User, session *models.GameSession, now time.Time) Admission {
	if !session.SameDay(now) {
		session.PlaysToday = 0
	}

	remaining := s.dailyLimit - session.PlaysToday
	if remaining < 0 {
		remaining = 0
	}

	if user.IsAdmin {
		return Admission{CanPlay: true, PlaysRemaining: remaining}
	}

	if session.TotalGamesPlayed > 0 && now.Sub(session.LastPlayedAt) < s.cooldown {
		return Admission{CanPlay: false, Reason: DenyCooldown, PlaysRemaining: remaining}
	}
	if session.PlaysToday >= s.dailyLimit {
		return Admission{CanPlay: false, Reason: DenyDailyLimit, PlaysRemaining: 0}
	}
	return Admission{CanPlay: true, PlaysRemaining: remaining}
}

// CanPlay reports whether the user may start a round right now. Read-only;
// the authoritative check happens again inside the submission transaction.
func (s *Service) CanPlay(ctx context.Context, user *models.User) (Admission, error) {
	session, err := s.sessionRepo.GetByUserID(user.ID)
	if err != nil {
		// First play: nothing recorded yet, admission is open.
		return Admission{CanPlay: true, PlaysRemaining: s.dailyLimit}, nil
	}
	_ = ctx
	return s.evaluate(user, session, s.now()), nil
}

// SubmitResult is the outcome of a score submission.
type SubmitResult struct {
	PointsEarned   int
	PlaysRemaining int
	NewTotalPoints int
	NewHighScore   bool
	IsAdmin        bool
	Promoted       bool
	OldRank        string
	NewRank        string
	User           *models.User
}

// ErrNotAdmitted is returned when the gate denies a play.
type ErrNotAdmitted struct {
	Reason string
}

func (e *ErrNotAdmitted) Error() string {
	return fmt.Sprintf("play not admitted: %s", e.Reason)
}

// SubmitScore records a completed endless-run round: admission check, point
// award with the rank multiplier, and session counters all commit in one
// locked transaction keyed by user so concurrent submissions cannot
// double-award points or double-consume a play slot.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) SubmitScore(ctx context.Context, userID uint, score, distance, timeTaken int) (*SubmitResult, error) {
	if score < 0 || distance < 0 || timeTaken < 0 {
		return nil, fmt.Errorf("score, distance and time must be non-negative")
	}
	if score > s.maxScore {
		score = s.maxScore
	}

	var result SubmitResult
	err := s.userRepo.Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.GetForUpdate(tx, userID)
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		session, err := s.sessionRepo.GetOrCreateForUpdate(tx, userID)
		if err != nil {
			return err
		}

		now := s.now()
		admission := s.evaluate(user, session, now)
		if !admission.CanPlay {
			prommetrics.RecordGamePlayDenied(admission.Reason)
			return &ErrNotAdmitted{Reason: admission.Reason}
		}

		points := int(math.Floor(float64(score) * s.ladder.MultiplierFor(user.TotalPointsEarned)))
		oldRank, newRank := s.ladder.Apply(user, points)

		session.PlaysToday++
		session.TotalGamesPlayed++
		session.LastPlayedAt = now
		session.PointsEarned += points
		newHigh := false
		if score > session.HighScore {
			session.HighScore = score
			newHigh = true
		}
		if distance > session.MaxDistance {
			session.MaxDistance = distance
		}

		if err := s.userRepo.SaveTx(tx, user); err != nil {
			return err
		}
		if err := s.sessionRepo.SaveTx(tx, session); err != nil {
			return err
		}

		result = SubmitResult{
			PointsEarned:   points,
			PlaysRemaining: s.playsRemaining(session),
			NewTotalPoints: user.Points,
			NewHighScore:   newHigh,
			IsAdmin:        user.IsAdmin,
			Promoted:       newRank != oldRank,
			OldRank:        oldRank,
			NewRank:        newRank,
			User:           user,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	prommetrics.RecordGamePlay("success")
	prommetrics.RecordPointsAwarded("game", result.PointsEarned)
	if result.Promoted {
		prommetrics.RecordRankPromotion(result.NewRank)
		if s.onPromotion != nil {
			s.onPromotion(result.User, result.OldRank, result.NewRank)
		}
	}

	s.log.Info().
		Uint("user_id", userID).
		Int("score", score).
		Int("points", result.PointsEarned).
		Bool("new_high_score", result.NewHighScore).
		Msg("Score submitted")

	return &result, nil
}

// SaveResult is the outcome of a platformer run submission.
type SaveResult struct {
	CoinsEarned   int
	NewTotalCoins int
	NewHighScore  bool
	Grade         string
}

// SaveGameScore records a platformer run. The score is recomputed and
// clamped server-side from the raw run stats; coins equal the final score
// with no rank multiplier.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) SaveGameScore(ctx context.Context, userID uint, stats scoring.RunStats) (*SaveResult, error) {
	if stats.EnemiesKilled < 0 || stats.DamageDealt < 0 || stats.DamageTaken < 0 || stats.Deaths < 0 || stats.PlayTimeSeconds < 0 {
		return nil, fmt.Errorf("run stats must be non-negative")
	}

	scored := scoring.CalculateScore(stats, s.maxScore)

	var result SaveResult
	err := s.userRepo.Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.GetForUpdate(tx, userID)
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		session, err := s.sessionRepo.GetOrCreateForUpdate(tx, userID)
		if err != nil {
			return err
		}

		now := s.now()
		admission := s.evaluate(user, session, now)
		if !admission.CanPlay {
			prommetrics.RecordGamePlayDenied(admission.Reason)
			return &ErrNotAdmitted{Reason: admission.Reason}
		}

		s.ladder.Apply(user, scored.FinalScore)

		session.PlaysToday++
		session.TotalGamesPlayed++
		session.LastPlayedAt = now
		session.PointsEarned += scored.FinalScore
		newHigh := false
		if scored.FinalScore > session.HighScore {
			session.HighScore = scored.FinalScore
			newHigh = true
		}

		if err := s.userRepo.SaveTx(tx, user); err != nil {
			return err
		}
		if err := s.sessionRepo.SaveTx(tx, session); err != nil {
			return err
		}

		result = SaveResult{
			CoinsEarned:   scored.FinalScore,
			NewTotalCoins: user.Points,
			NewHighScore:  newHigh,
			Grade:         scored.Grade,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	prommetrics.RecordGamePlay("success")
	prommetrics.RecordPointsAwarded("game", result.CoinsEarned)
	prommetrics.ObserveGameScore(result.CoinsEarned)

	s.log.Info().
		Uint("user_id", userID).
		Int("coins", result.CoinsEarned).
		Str("grade", result.Grade).
		Msg("Platformer run saved")

	return &result, nil
}

func (s *Service) playsRemaining(session *models.GameSession) int {
	remaining := s.dailyLimit - session.PlaysToday
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}
