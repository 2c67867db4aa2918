// Package battlepass provides REST API handlers for the battle pass
// ladder, the points shop and cosmetic equipping.
package battlepass

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecoheroes/recycle-rewards/internal/api/middleware"
	"github.com/ecoheroes/recycle-rewards/internal/models"
	"github.com/ecoheroes/recycle-rewards/internal/service/rewards"
	"github.com/ecoheroes/recycle-rewards/pkg/logger"
)

// RewardService interface for reward operations.
type RewardService interface {
	GetTiers(ctx context.Context) ([]models.BattlePassTier, error)
	GetShopItems(ctx context.Context) ([]models.ShopItem, error)
	GetUserRewards(ctx context.Context, userID uint) ([]models.UserReward, error)
	ClaimTier(ctx context.Context, userID, tierID uint) (*models.UserReward, error)
	PurchaseItem(ctx context.Context, userID, itemID uint) (*models.UserReward, error)
	EquipReward(ctx context.Context, userID, rewardID uint) error
}

// Handler handles battle pass API requests.
type Handler struct {
	rewardService RewardService
	log           *logger.Logger
}

// NewHandler creates a new battle pass handler.
func NewHandler(rewardService *rewards.Service, log *logger.Logger) *Handler {
	return &Handler{rewardService: rewardService, log: log}
}

// NewHandlerWithInterfaces creates a new battle pass handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(rewardService RewardService, log *logger.Logger) *Handler {
	return &Handler{rewardService: rewardService, log: log}
}

// GetTiers returns the battle pass ladder.
// GET /api/v1/battlepass/tiers.
func (h *Handler) GetTiers(c *gin.Context) {
	tiers, err := h.rewardService.GetTiers(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list battle pass tiers")
		h.errorResponse(c, http.StatusInternalServerError, "failed to retrieve tiers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tiers": tiers})
}

// GetShopItems returns the purchasable catalog.
// GET /api/v1/battlepass/shop.
func (h *Handler) GetShopItems(c *gin.Context) {
	items, err := h.rewardService.GetShopItems(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list shop items")
		h.errorResponse(c, http.StatusInternalServerError, "failed to retrieve shop items")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "items": items})
}

// GetUserRewards returns everything the current user has unlocked.
// GET /api/v1/battlepass/rewards.
func (h *Handler) GetUserRewards(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "not logged in")
		return
	}
	unlocked, err := h.rewardService.GetUserRewards(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", user.ID).Msg("Failed to list user rewards")
		h.errorResponse(c, http.StatusInternalServerError, "failed to retrieve rewards")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "rewards": unlocked})
}

type claimRequest struct {
	TierID uint `json:"tier_id" binding:"required"`
}

// ClaimReward claims a battle pass tier's reward.
// POST /api/v1/battlepass/claim.
func (h *Handler) ClaimReward(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "not logged in")
		return
	}

	var req claimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid claim payload")
		return
	}

	granted, err := h.rewardService.ClaimTier(c.Request.Context(), user.ID, req.TierID)
	if err != nil {
		h.rewardFailure(c, user.ID, err, "Failed to claim tier")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reward": granted})
}

type purchaseRequest struct {
	ItemID uint `json:"item_id" binding:"required"`
}

// PurchaseShopItem buys a shop item with spendable points.
// POST /api/v1/battlepass/purchase.
func (h *Handler) PurchaseShopItem(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "not logged in")
		return
	}

	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid purchase payload")
		return
	}

	granted, err := h.rewardService.PurchaseItem(c.Request.Context(), user.ID, req.ItemID)
	if err != nil {
		h.rewardFailure(c, user.ID, err, "Failed to purchase item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reward": granted})
}

type equipRequest struct {
	RewardID uint `json:"reward_id" binding:"required"`
}

// EquipReward equips an owned reward, unequipping same-type siblings.
// POST /api/v1/battlepass/equip.
func (h *Handler) EquipReward(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "not logged in")
		return
	}

	var req equipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid equip payload")
		return
	}

	if err := h.rewardService.EquipReward(c.Request.Context(), user.ID, req.RewardID); err != nil {
		h.rewardFailure(c, user.ID, err, "Failed to equip reward")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// rewardFailure maps the reward service's sentinel errors to status codes
// and a structured failure body.
func (h *Handler) rewardFailure(c *gin.Context, userID uint, err error, logMsg string) {
	switch {
	case errors.Is(err, rewards.ErrAlreadyOwned):
		h.errorResponse(c, http.StatusConflict, "reward already owned")
	case errors.Is(err, rewards.ErrNotEnoughPoints):
		h.errorResponse(c, http.StatusBadRequest, "not enough points")
	case errors.Is(err, rewards.ErrTierLocked):
		h.errorResponse(c, http.StatusForbidden, "tier not reached yet")
	case errors.Is(err, rewards.ErrNotOwner):
		h.errorResponse(c, http.StatusForbidden, "reward belongs to another user")
	case errors.Is(err, rewards.ErrItemNotAvailable):
		h.errorResponse(c, http.StatusNotFound, "item not available")
	default:
		h.log.Error().Err(err).Uint("user_id", userID).Msg(logMsg)
		h.errorResponse(c, http.StatusInternalServerError, "reward operation failed")
	}
}

// errorResponse sends a standardized failure response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   message,
	})
}
