// Package game provides REST API handlers for the arcade mini-game:
// admission checks, score submission and the leaderboard.
package game

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecoheroes/recycle-rewards/internal/api/middleware"
	"github.com/ecoheroes/recycle-rewards/internal/models"
	"github.com/ecoheroes/recycle-rewards/internal/service/gamesession"
	"github.com/ecoheroes/recycle-rewards/internal/service/leaderboard"
	"github.com/ecoheroes/recycle-rewards/internal/service/scoring"
	"github.com/ecoheroes/recycle-rewards/pkg/logger"
)

// SessionService interface for game session operations.
type SessionService interface {
	CanPlay(ctx context.Context, user *models.User) (gamesession.Admission, error)
	SubmitScore(ctx context.Context, userID uint, score, distance, timeTaken int) (*gamesession.SubmitResult, error)
	SaveGameScore(ctx context.Context, userID uint, stats scoring.RunStats) (*gamesession.SaveResult, error)
}

// LeaderboardService interface for leaderboard reads.
type LeaderboardService interface {
	GetTop(ctx context.Context) (*leaderboard.Board, error)
}

// Handler handles game API requests.
type Handler struct {
	sessionService     SessionService
	leaderboardService LeaderboardService
	log                *logger.Logger
}

// NewHandler creates a new game handler.
func NewHandler(sessionService *gamesession.Service, leaderboardService *leaderboard.Service, log *logger.Logger) *Handler {
	return &Handler{
		sessionService:     sessionService,
		leaderboardService: leaderboardService,
		log:                log,
	}
}

// NewHandlerWithInterfaces creates a new game handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(sessionService SessionService, leaderboardService LeaderboardService, log *logger.Logger) *Handler {
	return &Handler{
		sessionService:     sessionService,
		leaderboardService: leaderboardService,
		log:                log,
	}
}

// CanPlay reports whether the current user may start a round.
// GET /api/v1/game/can-play.
func (h *Handler) CanPlay(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "not logged in")
		return
	}

	admission, err := h.sessionService.CanPlay(c.Request.Context(), user)
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", user.ID).Msg("Failed to evaluate admission")
		h.errorResponse(c, http.StatusInternalServerError, "failed to check play eligibility")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"can_play":        admission.CanPlay,
		"reason":          admission.Reason,
		"plays_remaining": admission.PlaysRemaining,
	})
}

type submitScoreRequest struct {
	Score     int `json:"score"`
	Distance  int `json:"distance"`
	TimeTaken int `json:"time_taken"`
}

// SubmitScore records a completed endless-run round.
// POST /api/v1/game/submit-score.
func (h *Handler) SubmitScore(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "not logged in")
		return
	}

	var req submitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid score payload")
		return
	}

	result, err := h.sessionService.SubmitScore(c.Request.Context(), user.ID, req.Score, req.Distance, req.TimeTaken)
	var denied *gamesession.ErrNotAdmitted
	if errors.As(err, &denied) {
		// Gate denials are an expected outcome, reported as a structured
		// failure rather than an HTTP error.
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"error":   denied.Error(),
			"reason":  denied.Reason,
		})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", user.ID).Msg("Failed to submit score")
		h.errorResponse(c, http.StatusBadRequest, "failed to submit score")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"points_earned":    result.PointsEarned,
		"plays_remaining":  result.PlaysRemaining,
		"new_total_points": result.NewTotalPoints,
		"new_high_score":   result.NewHighScore,
		"is_admin":         result.IsAdmin,
		"promoted":         result.Promoted,
		"new_rank":         result.NewRank,
	})
}

type saveGameScoreRequest struct {
	EnemiesKilled int `json:"enemies_killed"`
	DamageDealt   int `json:"damage_dealt"`
	DamageTaken   int `json:"damage_taken"`
	Deaths        int `json:"deaths"`
	PlayTime      int `json:"play_time"`
}

// SaveGameScore records a platformer run. The score and grade are
// recomputed server-side from the raw run stats; client-sent values are
// ignored.
// POST /api/v1/game/save-score.
func (h *Handler) SaveGameScore(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "not logged in")
		return
	}

	var req saveGameScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid run payload")
		return
	}

	stats := scoring.RunStats{
		EnemiesKilled:   req.EnemiesKilled,
		DamageDealt:     req.DamageDealt,
		DamageTaken:     req.DamageTaken,
		Deaths:          req.Deaths,
		PlayTimeSeconds: req.PlayTime,
	}

	result, err := h.sessionService.SaveGameScore(c.Request.Context(), user.ID, stats)
	var denied *gamesession.ErrNotAdmitted
	if errors.As(err, &denied) {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"error":   denied.Error(),
			"reason":  denied.Reason,
		})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", user.ID).Msg("Failed to save run")
		h.errorResponse(c, http.StatusBadRequest, "failed to save run")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"coins_earned":    result.CoinsEarned,
		"new_total_coins": result.NewTotalCoins,
		"new_high_score":  result.NewHighScore,
		"grade":           result.Grade,
	})
}

// GetLeaderboard returns the top players by high score.
// GET /api/v1/game/leaderboard.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	board, err := h.leaderboardService.GetTop(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get leaderboard")
		h.errorResponse(c, http.StatusInternalServerError, "failed to retrieve leaderboard")
		return
	}

	entries := make([]gin.H, 0, len(board.Entries))
	for _, row := range board.Entries {
		entries = append(entries, gin.H{
			"username":     row.Username,
			"score":        row.HighScore,
			"games_played": row.GamesPlayed,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"leaderboard":  entries,
		"generated_at": board.GeneratedAt,
	})
}

// errorResponse sends a standardized failure response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   message,
	})
}
