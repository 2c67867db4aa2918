// Package recycling provides REST API handlers for logging recycling
// activity and for admin moderation of logged events.
package recycling

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ecoheroes/recycle-rewards/internal/api/middleware"
	"github.com/ecoheroes/recycle-rewards/internal/models"
	"github.com/ecoheroes/recycle-rewards/internal/repository"
	recyclingsvc "github.com/ecoheroes/recycle-rewards/internal/service/recycling"
	"github.com/ecoheroes/recycle-rewards/pkg/logger"
)

// RecyclingService interface for recycling operations.
type RecyclingService interface {
	LogRecycling(ctx context.Context, userID uint, materialName string, quantity int, binID uint) (*recyclingsvc.LogResult, error)
	GetMaterials(ctx context.Context) ([]models.Material, error)
	GetUserEvents(ctx context.Context, userID uint, limit int) ([]models.RecyclingEvent, error)
	GetFlaggedEvents(ctx context.Context) ([]models.RecyclingEvent, error)
	FlagEvent(ctx context.Context, eventID uint) error
	RejectEvent(ctx context.Context, eventID uint) error
}

// Handler handles recycling API requests.
type Handler struct {
	service RecyclingService
	log     *logger.Logger
}

// NewHandler creates a new recycling handler.
func NewHandler(service *recyclingsvc.Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// NewHandlerWithInterfaces creates a new recycling handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(service RecyclingService, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

type logRequest struct {
	BinID    uint   `json:"bin_id"`
	Material string `json:"material" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

// LogRecycling records a recycling submission and awards points.
// POST /api/v1/recycling/log.
func (h *Handler) LogRecycling(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "not logged in")
		return
	}

	var req logRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid recycling payload")
		return
	}

	result, err := h.service.LogRecycling(c.Request.Context(), user.ID, req.Material, req.Quantity, req.BinID)
	if errors.Is(err, repository.ErrMaterialNotFound) {
		h.errorResponse(c, http.StatusBadRequest, "unknown material: "+req.Material)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", user.ID).Msg("Failed to log recycling")
		h.errorResponse(c, http.StatusBadRequest, "failed to log recycling")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"event":            result.Event,
		"points_awarded":   result.PointsAwarded,
		"new_total_points": result.NewTotalPoints,
		"promoted":         result.Promoted,
		"new_rank":         result.NewRank,
	})
}

// GetMaterials returns the material catalog.
// GET /api/v1/recycling/materials.
func (h *Handler) GetMaterials(c *gin.Context) {
	materials, err := h.service.GetMaterials(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list materials")
		h.errorResponse(c, http.StatusInternalServerError, "failed to retrieve materials")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "materials": materials})
}

// GetEvents returns the current user's recycling history.
// GET /api/v1/recycling/events?limit=50.
func (h *Handler) GetEvents(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "not logged in")
		return
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			h.errorResponse(c, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = parsed
	}

	events, err := h.service.GetUserEvents(c.Request.Context(), user.ID, limit)
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", user.ID).Msg("Failed to list events")
		h.errorResponse(c, http.StatusInternalServerError, "failed to retrieve events")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "events": events})
}

// GetFlaggedEvents returns events waiting on moderation review.
// GET /api/v1/admin/events/flagged.
func (h *Handler) GetFlaggedEvents(c *gin.Context) {
	events, err := h.service.GetFlaggedEvents(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list flagged events")
		h.errorResponse(c, http.StatusInternalServerError, "failed to retrieve flagged events")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "events": events})
}

// FlagEvent marks an event for moderation review.
// POST /api/v1/admin/events/:id/flag.
func (h *Handler) FlagEvent(c *gin.Context) {
	eventID, err := h.parseEventID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.FlagEvent(c.Request.Context(), eventID); err != nil {
		h.errorResponse(c, http.StatusNotFound, "event not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RejectEvent removes a flagged event.
// POST /api/v1/admin/events/:id/reject.
func (h *Handler) RejectEvent(c *gin.Context) {
	eventID, err := h.parseEventID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.RejectEvent(c.Request.Context(), eventID); err != nil {
		h.errorResponse(c, http.StatusNotFound, "event not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// parseEventID extracts and validates the event ID from the URL parameter.
func (h *Handler) parseEventID(c *gin.Context) (uint, error) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, errors.New("invalid event ID: " + idStr)
	}
	return uint(id), nil
}

// errorResponse sends a standardized failure response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   message,
	})
}
