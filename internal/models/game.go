package models

import (
	"time"
)

// GameSession tracks per-user mini-game play state. One row per user,
// upserted lazily on first play.
type GameSession struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User             User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	LastPlayedAt     time.Time `json:"last_played_at"`
	PlaysToday       int       `gorm:"not null;default:0" json:"plays_today"`
	TotalGamesPlayed int       `gorm:"not null;default:0" json:"total_games_played"`
	HighScore        int       `gorm:"not null;default:0" json:"high_score"`
	MaxDistance      int       `gorm:"not null;default:0" json:"max_distance"`
	PointsEarned     int       `gorm:"not null;default:0" json:"points_earned"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName specifies the table name for GameSession model.
func (GameSession) TableName() string {
	return "game_sessions"
}

// SameDay reports whether the session's last play happened on the given date.
// Used for the daily play-count rollover. Both sides are normalized to UTC so
// the rollover boundary does not drift with the zone a timestamp was stored in.
func (s *GameSession) SameDay(now time.Time) bool {
	y1, m1, d1 := s.LastPlayedAt.UTC().Date()
	y2, m2, d2 := now.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
