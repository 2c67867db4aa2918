// Package rewards provides battle pass claims, shop purchases and cosmetic
// equipping.
package rewards

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	prommetrics "github.com/ecoheroes/recycle-rewards/internal/metrics"
	"github.com/ecoheroes/recycle-rewards/internal/models"
	"github.com/ecoheroes/recycle-rewards/internal/repository"
	"github.com/ecoheroes/recycle-rewards/pkg/logger"
)

// Sentinel errors reported to the API boundary as structured failures.
var (
	ErrAlreadyOwned     = errors.New("reward already owned")
	ErrNotEnoughPoints  = errors.New("not enough points")
	ErrTierLocked       = errors.New("battle pass tier not reached")
	ErrNotOwner         = errors.New("reward belongs to another user")
	ErrItemNotAvailable = errors.New("shop item not available")
)

// RewardRepository interface for reward operations.
type RewardRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	ListTiers() ([]models.BattlePassTier, error)
	GetTierByID(id uint) (*models.BattlePassTier, error)
	ListShopItems() ([]models.ShopItem, error)
	GetShopItemByID(id uint) (*models.ShopItem, error)
	ListByUser(userID uint) ([]models.UserReward, error)
	GetByID(id uint) (*models.UserReward, error)
	HasRewardNamedTx(tx *gorm.DB, userID uint, rewardName string) (bool, error)
	CreateTx(tx *gorm.DB, reward *models.UserReward) error
	EquipTx(tx *gorm.DB, reward *models.UserReward) error
}

// UserRepository interface for user operations.
type UserRepository interface {
	GetForUpdate(tx *gorm.DB, id uint) (*models.User, error)
	SaveTx(tx *gorm.DB, user *models.User) error
	GetByID(id uint) (*models.User, error)
}

// UnlockHook is called after a reward grant commits.
type UnlockHook func(user *models.User, reward *models.UserReward)

// Service handles reward claims, purchases and equipment.
type Service struct {
	rewardRepo RewardRepository
	userRepo   UserRepository
	log        *logger.Logger
	now        func() time.Time
	onUnlock   UnlockHook
}

// NewService creates a new rewards service with concrete repository types.
func NewService(rewardRepo *repository.RewardRepository, userRepo *repository.UserRepository, log *logger.Logger) *Service {
	return &Service{
		rewardRepo: rewardRepo,
		userRepo:   userRepo,
		log:        log,
		now:        time.Now,
	}
}

// NewServiceWithInterfaces creates a new rewards service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(rewardRepo RewardRepository, userRepo UserRepository, log *logger.Logger) *Service {
	return &Service{
		rewardRepo: rewardRepo,
		userRepo:   userRepo,
		log:        log,
		now:        time.Now,
	}
}

// SetUnlockHook registers a callback for committed reward grants.
func (s *Service) SetUnlockHook(hook UnlockHook) {
	s.onUnlock = hook
}

// GetTiers lists the battle pass ladder.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) GetTiers(ctx context.Context) ([]models.BattlePassTier, error) {
	return s.rewardRepo.ListTiers()
}

// GetShopItems lists the purchasable catalog.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) GetShopItems(ctx context.Context) ([]models.ShopItem, error) {
	return s.rewardRepo.ListShopItems()
}

// GetUserRewards lists everything a user has unlocked.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) GetUserRewards(ctx context.Context, userID uint) ([]models.UserReward, error) {
	return s.rewardRepo.ListByUser(userID)
}

// ClaimTier grants a battle pass tier's reward. Eligibility requires the
// user's lifetime total to reach the tier threshold. Duplicate claims are
// rejected idempotently: no second grant and no state change.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) ClaimTier(ctx context.Context, userID, tierID uint) (*models.UserReward, error) {
	tier, err := s.rewardRepo.GetTierByID(tierID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tier: %w", err)
	}

	var granted *models.UserReward
	var claimer *models.User
	err = s.rewardRepo.Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.GetForUpdate(tx, userID)
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		if user.TotalPointsEarned < tier.RequiredPoints {
			return ErrTierLocked
		}
		claimer = user

		owned, err := s.rewardRepo.HasRewardNamedTx(tx, userID, tier.RewardName)
		if err != nil {
			return err
		}
		if owned {
			return ErrAlreadyOwned
		}

		granted = &models.UserReward{
			UserID:      userID,
			RewardType:  tier.RewardType,
			RewardName:  tier.RewardName,
			RewardValue: tier.RewardValue,
			Source:      models.RewardSourceBattlePass,
			UnlockedAt:  s.now(),
		}
		return s.rewardRepo.CreateTx(tx, granted)
	})
	if err != nil {
		return nil, err
	}

	prommetrics.RecordRewardGranted(models.RewardSourceBattlePass, tier.RewardType)
	s.log.Info().
		Uint("user_id", userID).
		Int("tier", tier.Tier).
		Str("reward", tier.RewardName).
		Msg("Battle pass tier claimed")
	if s.onUnlock != nil {
		s.onUnlock(claimer, granted)
	}

	return granted, nil
}

// PurchaseItem buys a shop item with spendable points. The ownership check,
// the deduction and the grant run in one locked transaction keyed by user,
// so two racing purchases can grant at most once and never double-deduct.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) PurchaseItem(ctx context.Context, userID, itemID uint) (*models.UserReward, error) {
	item, err := s.rewardRepo.GetShopItemByID(itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shop item: %w", err)
	}
	if !item.Available {
		return nil, ErrItemNotAvailable
	}

	var granted *models.UserReward
	var buyer *models.User
	err = s.rewardRepo.Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.GetForUpdate(tx, userID)
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		buyer = user

		owned, err := s.rewardRepo.HasRewardNamedTx(tx, userID, item.RewardName)
		if err != nil {
			return err
		}
		if owned {
			return ErrAlreadyOwned
		}
		if user.Points < item.Cost {
			return ErrNotEnoughPoints
		}

		// Deduct the spendable balance only; the lifetime total is untouched.
		user.Points -= item.Cost
		if err := s.userRepo.SaveTx(tx, user); err != nil {
			return err
		}

		granted = &models.UserReward{
			UserID:      userID,
			RewardType:  item.RewardType,
			RewardName:  item.RewardName,
			RewardValue: item.RewardValue,
			Source:      models.RewardSourceShop,
			UnlockedAt:  s.now(),
		}
		return s.rewardRepo.CreateTx(tx, granted)
	})
	if err != nil {
		return nil, err
	}

	prommetrics.RecordRewardGranted(models.RewardSourceShop, item.RewardType)
	s.log.Info().
		Uint("user_id", userID).
		Str("item", item.Name).
		Int("cost", item.Cost).
		Msg("Shop item purchased")
	if s.onUnlock != nil {
		s.onUnlock(buyer, granted)
	}

	return granted, nil
}

// EquipReward equips an owned reward and unequips every other reward of the
// same type, keeping at most one equipped per (user, type).
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) EquipReward(ctx context.Context, userID, rewardID uint) error {
	reward, err := s.rewardRepo.GetByID(rewardID)
	if err != nil {
		return fmt.Errorf("failed to load reward: %w", err)
	}
	if reward.UserID != userID {
		return ErrNotOwner
	}

	err = s.rewardRepo.Transaction(func(tx *gorm.DB) error {
		return s.rewardRepo.EquipTx(tx, reward)
	})
	if err != nil {
		return err
	}

	s.log.Info().
		Uint("user_id", userID).
		Uint("reward_id", rewardID).
		Str("reward_type", reward.RewardType).
		Msg("Reward equipped")

	return nil
}
