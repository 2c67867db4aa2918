package models

import (
	"time"
)

// Material represents a catalog entry mapping a material name to its point value.
type Material struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"uniqueIndex;not null;size:100" json:"name"`
	PointsPerUnit int       `gorm:"not null" json:"points_per_unit"`
	Category      string    `gorm:"size:50" json:"category"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for Material model.
func (Material) TableName() string {
	return "materials"
}

// RecyclingEvent is an immutable log entry for a recycling submission.
// Events are only ever removed by moderation rejection.
type RecyclingEvent struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	User          User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BinID         uint      `gorm:"index" json:"bin_id"`
	MaterialName  string    `gorm:"not null;size:100" json:"material_name"`
	Quantity      int       `gorm:"not null" json:"quantity"`
	PointsAwarded int       `gorm:"not null" json:"points_awarded"`
	IsFlagged     bool      `gorm:"not null;default:false" json:"is_flagged"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName specifies the table name for RecyclingEvent model.
func (RecyclingEvent) TableName() string {
	return "recycling_events"
}
