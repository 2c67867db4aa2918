//nolint:noctx // Test file uses http.NewRequest for simplicity
package game

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoheroes/recycle-rewards/internal/api/middleware"
	"github.com/ecoheroes/recycle-rewards/internal/models"
	"github.com/ecoheroes/recycle-rewards/internal/repository"
	"github.com/ecoheroes/recycle-rewards/internal/service/gamesession"
	"github.com/ecoheroes/recycle-rewards/internal/service/leaderboard"
	"github.com/ecoheroes/recycle-rewards/internal/service/scoring"
	"github.com/ecoheroes/recycle-rewards/pkg/logger"
)

// Mock services

type mockSessionService struct {
	admission    gamesession.Admission
	submitResult *gamesession.SubmitResult
	saveResult   *gamesession.SaveResult
	err          error
}

func (m *mockSessionService) CanPlay(_ context.Context, _ *models.User) (gamesession.Admission, error) {
	return m.admission, m.err
}

func (m *mockSessionService) SubmitScore(_ context.Context, _ uint, _, _, _ int) (*gamesession.SubmitResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.submitResult, nil
}

func (m *mockSessionService) SaveGameScore(_ context.Context, _ uint, _ scoring.RunStats) (*gamesession.SaveResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.saveResult, nil
}

type mockLeaderboardService struct {
	board *leaderboard.Board
	err   error
}

func (m *mockLeaderboardService) GetTop(_ context.Context) (*leaderboard.Board, error) {
	return m.board, m.err
}

// Test setup

func setupRouter(handler *Handler, user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	injectUser := func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.ContextUserKey, user)
		}
		c.Next()
	}

	api := router.Group("/api/v1/game", injectUser)
	api.GET("/can-play", handler.CanPlay)
	api.POST("/submit-score", handler.SubmitScore)
	api.POST("/save-score", handler.SaveGameScore)
	api.GET("/leaderboard", handler.GetLeaderboard)

	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, _ := http.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitScore_Success(t *testing.T) {
	svc := &mockSessionService{submitResult: &gamesession.SubmitResult{
		PointsEarned:   110,
		PlaysRemaining: 4,
		NewTotalPoints: 360,
		NewHighScore:   true,
		NewRank:        "Gold",
		Promoted:       true,
	}}
	handler := NewHandlerWithInterfaces(svc, &mockLeaderboardService{}, logger.New("error", "json", "stdout"))
	router := setupRouter(handler, &models.User{ID: 1, Username: "ada"})

	w := postJSON(t, router, "/api/v1/game/submit-score", gin.H{"score": 100, "distance": 500, "time_taken": 90})

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["success"])
	assert.Equal(t, float64(110), response["points_earned"])
	assert.Equal(t, float64(4), response["plays_remaining"])
	assert.Equal(t, true, response["new_high_score"])
	assert.Equal(t, "Gold", response["new_rank"])
}

func TestSubmitScore_GateDenialIsStructuredFailure(t *testing.T) {
	svc := &mockSessionService{err: &gamesession.ErrNotAdmitted{Reason: gamesession.DenyCooldown}}
	handler := NewHandlerWithInterfaces(svc, &mockLeaderboardService{}, logger.New("error", "json", "stdout"))
	router := setupRouter(handler, &models.User{ID: 1})

	w := postJSON(t, router, "/api/v1/game/submit-score", gin.H{"score": 50})

	// Denial is an expected outcome, not an HTTP error.
	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, false, response["success"])
	assert.Equal(t, "cooldown", response["reason"])
}

func TestSubmitScore_RequiresUser(t *testing.T) {
	handler := NewHandlerWithInterfaces(&mockSessionService{}, &mockLeaderboardService{}, logger.New("error", "json", "stdout"))
	router := setupRouter(handler, nil)

	w := postJSON(t, router, "/api/v1/game/submit-score", gin.H{"score": 50})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitScore_ServiceError(t *testing.T) {
	svc := &mockSessionService{err: errors.New("boom")}
	handler := NewHandlerWithInterfaces(svc, &mockLeaderboardService{}, logger.New("error", "json", "stdout"))
	router := setupRouter(handler, &models.User{ID: 1})

	w := postJSON(t, router, "/api/v1/game/submit-score", gin.H{"score": 50})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveGameScore_Success(t *testing.T) {
	svc := &mockSessionService{saveResult: &gamesession.SaveResult{
		CoinsEarned:   120,
		NewTotalCoins: 120,
		NewHighScore:  true,
		Grade:         "S",
	}}
	handler := NewHandlerWithInterfaces(svc, &mockLeaderboardService{}, logger.New("error", "json", "stdout"))
	router := setupRouter(handler, &models.User{ID: 1})

	w := postJSON(t, router, "/api/v1/game/save-score", gin.H{
		"enemies_killed": 40, "damage_dealt": 900, "damage_taken": 5, "deaths": 0, "play_time": 120,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["success"])
	assert.Equal(t, float64(120), response["coins_earned"])
	assert.Equal(t, "S", response["grade"])
}

func TestCanPlay(t *testing.T) {
	svc := &mockSessionService{admission: gamesession.Admission{CanPlay: false, Reason: gamesession.DenyDailyLimit}}
	handler := NewHandlerWithInterfaces(svc, &mockLeaderboardService{}, logger.New("error", "json", "stdout"))
	router := setupRouter(handler, &models.User{ID: 1})

	req, _ := http.NewRequest("GET", "/api/v1/game/can-play", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, false, response["can_play"])
	assert.Equal(t, "daily_limit", response["reason"])
}

func TestGetLeaderboard(t *testing.T) {
	board := &leaderboard.Board{
		Entries: []repository.LeaderboardRow{
			{UserID: 2, Username: "ada", HighScore: 118, GamesPlayed: 12},
			{UserID: 1, Username: "bob", HighScore: 95, GamesPlayed: 7},
		},
		GeneratedAt: time.Now(),
	}
	handler := NewHandlerWithInterfaces(&mockSessionService{}, &mockLeaderboardService{board: board}, logger.New("error", "json", "stdout"))
	router := setupRouter(handler, nil)

	req, _ := http.NewRequest("GET", "/api/v1/game/leaderboard", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Success     bool `json:"success"`
		Leaderboard []struct {
			Username    string `json:"username"`
			Score       int    `json:"score"`
			GamesPlayed int    `json:"games_played"`
		} `json:"leaderboard"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	require.Len(t, response.Leaderboard, 2)
	assert.Equal(t, "ada", response.Leaderboard[0].Username)
	assert.Equal(t, 118, response.Leaderboard[0].Score)
}
