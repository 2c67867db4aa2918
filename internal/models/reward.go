package models

import (
	"time"
)

// Reward sources.
const (
	RewardSourceBattlePass = "battlepass"
	RewardSourceShop       = "shop"
)

// BattlePassTier represents one step of the tiered unlock ladder.
type BattlePassTier struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Tier           int       `gorm:"uniqueIndex;not null" json:"tier"`
	RequiredPoints int       `gorm:"not null" json:"required_points"`
	RewardType     string    `gorm:"not null;size:50" json:"reward_type"`
	RewardName     string    `gorm:"not null;size:100" json:"reward_name"`
	RewardValue    string    `gorm:"size:255" json:"reward_value"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name for BattlePassTier model.
func (BattlePassTier) TableName() string {
	return "battle_pass_tiers"
}

// ShopItem represents a purchasable cosmetic in the point shop.
type ShopItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;size:100" json:"name"`
	Cost        int       `gorm:"not null" json:"cost"`
	RewardType  string    `gorm:"not null;size:50" json:"reward_type"`
	RewardName  string    `gorm:"not null;size:100" json:"reward_name"`
	RewardValue string    `gorm:"size:255" json:"reward_value"`
	Available   bool      `gorm:"not null;default:true" json:"available"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for ShopItem model.
func (ShopItem) TableName() string {
	return "shop_items"
}

// UserReward represents a cosmetic unlocked by a user, either claimed from
// the battle pass or purchased from the shop. At most one reward per
// (user, reward type) may be equipped at a time.
type UserReward struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	RewardType  string    `gorm:"not null;size:50" json:"reward_type"`
	RewardName  string    `gorm:"not null;size:100" json:"reward_name"`
	RewardValue string    `gorm:"size:255" json:"reward_value"`
	Source      string    `gorm:"not null;size:20" json:"source"`
	IsEquipped  bool      `gorm:"not null;default:false" json:"is_equipped"`
	UnlockedAt  time.Time `gorm:"not null" json:"unlocked_at"`
}

// TableName specifies the table name for UserReward model.
func (UserReward) TableName() string {
	return "user_rewards"
}
