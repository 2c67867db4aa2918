// Package models defines domain models for the recycle rewards system.
package models

import (
	"time"
)

// User represents a registered user of the recycling tracker.
type User struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Username          string    `gorm:"uniqueIndex;not null;size:255" json:"username"`
	Email             string    `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash      string    `gorm:"not null;size:255" json:"-"`
	DisplayName       string    `gorm:"size:255" json:"display_name"`
	Points            int       `gorm:"not null;default:0" json:"points"`
	TotalPointsEarned int       `gorm:"not null;default:0" json:"total_points_earned"`
	Rank              string    `gorm:"size:50" json:"rank"`
	IsAdmin           bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model.
func (User) TableName() string {
	return "users"
}
