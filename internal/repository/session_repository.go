package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ecoheroes/recycle-rewards/internal/models"
)

// SessionRepository handles game session database operations.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new game session repository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// GetByUserID retrieves a user's game session row.
func (r *SessionRepository) GetByUserID(userID uint) (*models.GameSession, error) {
	var session models.GameSession
	if err := r.db.Where("user_id = ?", userID).First(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to get game session for user %d: %w", userID, err)
	}
	return &session, nil
}

// GetOrCreateForUpdate loads a user's session row inside tx with a row-level
// lock, creating the row on first play. Callers must run inside a transaction.
func (r *SessionRepository) GetOrCreateForUpdate(tx *gorm.DB, userID uint) (*models.GameSession, error) {
	var session models.GameSession
	err := LockForUpdate(tx).Where("user_id = ?", userID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		session = models.GameSession{UserID: userID}
		if err := tx.Create(&session).Error; err != nil {
			return nil, fmt.Errorf("failed to create game session for user %d: %w", userID, err)
		}
		return &session, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock game session for user %d: %w", userID, err)
	}
	return &session, nil
}

// SaveTx persists a session row inside tx.
func (r *SessionRepository) SaveTx(tx *gorm.DB, session *models.GameSession) error {
	if err := tx.Save(session).Error; err != nil {
		return fmt.Errorf("failed to save game session: %w", err)
	}
	return nil
}

// LeaderboardRow is a joined session/user row for leaderboard queries.
type LeaderboardRow struct {
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
	HighScore   int    `json:"high_score"`
	GamesPlayed int    `json:"games_played"`
}

// TopByHighScore retrieves the top sessions by high score, descending.
func (r *SessionRepository) TopByHighScore(limit int) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := r.db.Model(&models.GameSession{}).
		Select("game_sessions.user_id, users.username, game_sessions.high_score, game_sessions.total_games_played AS games_played").
		Joins("JOIN users ON users.id = game_sessions.user_id").
		Where("game_sessions.high_score > 0").
		Order("game_sessions.high_score DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	return rows, nil
}
