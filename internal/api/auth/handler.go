// Package auth provides REST API handlers for registration, login and
// logout.
package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecoheroes/recycle-rewards/internal/api/middleware"
	authn "github.com/ecoheroes/recycle-rewards/internal/auth"
	"github.com/ecoheroes/recycle-rewards/internal/models"
	"github.com/ecoheroes/recycle-rewards/internal/repository"
	"github.com/ecoheroes/recycle-rewards/pkg/logger"
)

// UserRepository interface for user account operations.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
}

// PasswordHasher interface for password hashing and verification.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// Sessions interface for issuing and revoking bearer tokens.
type Sessions interface {
	Create(ctx context.Context, userID uint) (string, error)
	Destroy(ctx context.Context, token string) error
}

// Handler handles authentication requests.
type Handler struct {
	userRepo UserRepository
	hasher   PasswordHasher
	sessions Sessions
	log      *logger.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(userRepo *repository.UserRepository, hasher *authn.Hasher, sessions *authn.SessionStore, log *logger.Logger) *Handler {
	return &Handler{
		userRepo: userRepo,
		hasher:   hasher,
		sessions: sessions,
		log:      log,
	}
}

// NewHandlerWithInterfaces creates a new auth handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(userRepo UserRepository, hasher PasswordHasher, sessions Sessions, log *logger.Logger) *Handler {
	return &Handler{
		userRepo: userRepo,
		hasher:   hasher,
		sessions: sessions,
		log:      log,
	}
}

type registerRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=64"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name"`
}

// Register creates a new user account.
// POST /api/v1/auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid registration payload: "+err.Error())
		return
	}

	if _, err := h.userRepo.GetByUsername(req.Username); err == nil {
		h.errorResponse(c, http.StatusConflict, "username already taken")
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to hash password")
		h.errorResponse(c, http.StatusInternalServerError, "failed to create account")
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		DisplayName:  req.DisplayName,
		Rank:         "Bronze",
	}
	if err := h.userRepo.Create(user); err != nil {
		h.log.Error().Err(err).Str("username", req.Username).Msg("Failed to create user")
		h.errorResponse(c, http.StatusInternalServerError, "failed to create account")
		return
	}

	h.log.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("User registered")

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"user":    user,
	})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a session token.
// POST /api/v1/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid login payload")
		return
	}

	user, err := h.userRepo.GetByUsername(req.Username)
	if err != nil || !h.hasher.Verify(user.PasswordHash, req.Password) {
		// One message for both cases so usernames can't be probed.
		h.errorResponse(c, http.StatusUnauthorized, "invalid username or password")
		return
	}

	token, err := h.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", user.ID).Msg("Failed to create session")
		h.errorResponse(c, http.StatusInternalServerError, "failed to log in")
		return
	}

	h.log.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("User logged in")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// Logout destroys the current session token.
// POST /api/v1/auth/logout.
func (h *Handler) Logout(c *gin.Context) {
	token, ok := middleware.SessionToken(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "no active session")
		return
	}
	if err := h.sessions.Destroy(c.Request.Context(), token); err != nil {
		h.log.Error().Err(err).Msg("Failed to destroy session")
		h.errorResponse(c, http.StatusInternalServerError, "failed to log out")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// errorResponse sends a standardized failure response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   message,
	})
}
