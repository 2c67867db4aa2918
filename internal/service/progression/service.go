package progression

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	prommetrics "github.com/ecoheroes/recycle-rewards/internal/metrics"
	"github.com/ecoheroes/recycle-rewards/internal/models"
	"github.com/ecoheroes/recycle-rewards/internal/repository"
	"github.com/ecoheroes/recycle-rewards/pkg/logger"
)

// UserRepository interface for user operations.
type UserRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	GetForUpdate(tx *gorm.DB, id uint) (*models.User, error)
	SaveTx(tx *gorm.DB, user *models.User) error
	GetByID(id uint) (*models.User, error)
}

// PromotionHook is called after a rank promotion commits.
type PromotionHook func(user *models.User, oldRank, newRank string)

// Service applies point awards atomically and recomputes ranks.
type Service struct {
	userRepo    UserRepository
	ladder      *Ladder
	log         *logger.Logger
	onPromotion PromotionHook
}

// NewService creates a new progression service with concrete repository types.
func NewService(userRepo *repository.UserRepository, ladder *Ladder, log *logger.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		ladder:   ladder,
		log:      log,
	}
}

// NewServiceWithInterfaces creates a new progression service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(userRepo UserRepository, ladder *Ladder, log *logger.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		ladder:   ladder,
		log:      log,
	}
}

// SetPromotionHook registers a callback for rank promotions.
func (s *Service) SetPromotionHook(hook PromotionHook) {
	s.onPromotion = hook
}

// Ladder returns the configured rank ladder.
func (s *Service) Ladder() *Ladder {
	return s.ladder
}

// AwardResult describes the outcome of a point award.
type AwardResult struct {
	User     *models.User
	OldRank  string
	NewRank  string
	Promoted bool
}

// AwardPoints applies delta to both the spendable balance and the lifetime
// total of a user inside a single locked transaction, then recomputes the
// rank from the lifetime total. Awarding to an unknown user is an error and
// writes nothing.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) AwardPoints(ctx context.Context, userID uint, delta int, source string) (*AwardResult, error) {
	if delta < 0 {
		return nil, fmt.Errorf("point delta must be non-negative, got %d", delta)
	}

	var result AwardResult
	err := s.userRepo.Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.GetForUpdate(tx, userID)
		if err != nil {
			return fmt.Errorf("failed to load user for award: %w", err)
		}

		oldRank, newRank := s.ladder.Apply(user, delta)

		if err := s.userRepo.SaveTx(tx, user); err != nil {
			return err
		}

		result = AwardResult{
			User:     user,
			OldRank:  oldRank,
			NewRank:  newRank,
			Promoted: newRank != oldRank,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	prommetrics.RecordPointsAwarded(source, delta)
	if result.Promoted {
		prommetrics.RecordRankPromotion(result.NewRank)
		s.log.Info().
			Uint("user_id", userID).
			Str("old_rank", result.OldRank).
			Str("new_rank", result.NewRank).
			Int("total_points", result.User.TotalPointsEarned).
			Msg("User promoted")
		if s.onPromotion != nil {
			s.onPromotion(result.User, result.OldRank, result.NewRank)
		}
	}

	s.log.Debug().
		Uint("user_id", userID).
		Int("delta", delta).
		Str("source", source).
		Msg("Points awarded")

	return &result, nil
}

// MultiplierForUser returns the rank multiplier for a user's lifetime total.
func (s *Service) MultiplierForUser(user *models.User) float64 {
	return s.ladder.MultiplierFor(user.TotalPointsEarned)
}
