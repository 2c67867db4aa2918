package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ecoheroes/recycle-rewards/internal/models"
)

// RewardRepository handles battle pass tier, shop item and user reward operations.
type RewardRepository struct {
	db *DB
}

// NewRewardRepository creates a new reward repository.
func NewRewardRepository(db *DB) *RewardRepository {
	return &RewardRepository{db: db}
}

// ListTiers retrieves all battle pass tiers in ladder order.
func (r *RewardRepository) ListTiers() ([]models.BattlePassTier, error) {
	var tiers []models.BattlePassTier
	if err := r.db.Order("tier").Find(&tiers).Error; err != nil {
		return nil, fmt.Errorf("failed to list battle pass tiers: %w", err)
	}
	return tiers, nil
}

// GetTierByID retrieves a battle pass tier by ID.
func (r *RewardRepository) GetTierByID(id uint) (*models.BattlePassTier, error) {
	var tier models.BattlePassTier
	if err := r.db.First(&tier, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get battle pass tier %d: %w", id, err)
	}
	return &tier, nil
}

// ListShopItems retrieves all available shop items.
func (r *RewardRepository) ListShopItems() ([]models.ShopItem, error) {
	var items []models.ShopItem
	if err := r.db.Where("available = ?", true).Order("cost").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list shop items: %w", err)
	}
	return items, nil
}

// GetShopItemByID retrieves a shop item by ID.
func (r *RewardRepository) GetShopItemByID(id uint) (*models.ShopItem, error) {
	var item models.ShopItem
	if err := r.db.First(&item, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get shop item %d: %w", id, err)
	}
	return &item, nil
}

// ListByUser retrieves all rewards unlocked by a user.
func (r *RewardRepository) ListByUser(userID uint) ([]models.UserReward, error) {
	var rewards []models.UserReward
	if err := r.db.Where("user_id = ?", userID).Order("unlocked_at").Find(&rewards).Error; err != nil {
		return nil, fmt.Errorf("failed to list rewards for user %d: %w", userID, err)
	}
	return rewards, nil
}

// GetByID retrieves a user reward by ID.
func (r *RewardRepository) GetByID(id uint) (*models.UserReward, error) {
	var reward models.UserReward
	if err := r.db.First(&reward, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get reward %d: %w", id, err)
	}
	return &reward, nil
}

// HasRewardNamedTx reports whether the user already owns a reward with the
// given name. Runs inside tx so ownership checks and grants stay atomic.
func (r *RewardRepository) HasRewardNamedTx(tx *gorm.DB, userID uint, rewardName string) (bool, error) {
	var reward models.UserReward
	err := tx.Where("user_id = ? AND reward_name = ?", userID, rewardName).First(&reward).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check reward ownership: %w", err)
	}
	return true, nil
}

// CreateTx inserts a user reward inside tx.
func (r *RewardRepository) CreateTx(tx *gorm.DB, reward *models.UserReward) error {
	if err := tx.Create(reward).Error; err != nil {
		return fmt.Errorf("failed to create user reward: %w", err)
	}
	return nil
}

// EquipTx equips the given reward and unequips every other reward of the
// same type owned by the same user, inside tx. This enforces the
// one-equipped-per-type invariant.
func (r *RewardRepository) EquipTx(tx *gorm.DB, reward *models.UserReward) error {
	err := tx.Model(&models.UserReward{}).
		Where("user_id = ? AND reward_type = ? AND id <> ?", reward.UserID, reward.RewardType, reward.ID).
		Update("is_equipped", false).Error
	if err != nil {
		return fmt.Errorf("failed to unequip sibling rewards: %w", err)
	}
	err = tx.Model(&models.UserReward{}).
		Where("id = ?", reward.ID).
		Update("is_equipped", true).Error
	if err != nil {
		return fmt.Errorf("failed to equip reward %d: %w", reward.ID, err)
	}
	return nil
}

// Transaction runs fn inside a database transaction.
func (r *RewardRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}
