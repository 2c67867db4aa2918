package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/ecoheroes/recycle-rewards/internal/models"
)

// EventRepository handles recycling event database operations.
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new recycling event repository.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// CreateTx inserts a recycling event inside tx, so the event and the point
// award it carries commit or roll back together.
func (r *EventRepository) CreateTx(tx *gorm.DB, event *models.RecyclingEvent) error {
	if err := tx.Create(event).Error; err != nil {
		return fmt.Errorf("failed to create recycling event: %w", err)
	}
	return nil
}

// GetByID retrieves a recycling event by ID.
func (r *EventRepository) GetByID(id uint) (*models.RecyclingEvent, error) {
	var event models.RecyclingEvent
	if err := r.db.First(&event, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get recycling event %d: %w", id, err)
	}
	return &event, nil
}

// ListByUser retrieves a user's recycling events, newest first.
func (r *EventRepository) ListByUser(userID uint, limit int) ([]models.RecyclingEvent, error) {
	query := r.db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var events []models.RecyclingEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list recycling events for user %d: %w", userID, err)
	}
	return events, nil
}

// ListFlagged retrieves all flagged events for moderation review.
func (r *EventRepository) ListFlagged() ([]models.RecyclingEvent, error) {
	var events []models.RecyclingEvent
	if err := r.db.Where("is_flagged = ?", true).Order("created_at").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list flagged events: %w", err)
	}
	return events, nil
}

// SetFlagged marks an event for moderation review.
func (r *EventRepository) SetFlagged(id uint, flagged bool) error {
	result := r.db.Model(&models.RecyclingEvent{}).Where("id = ?", id).Update("is_flagged", flagged)
	if result.Error != nil {
		return fmt.Errorf("failed to flag event %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event %d not found", id)
	}
	return nil
}

// Delete removes an event. Only moderation rejection deletes events.
func (r *EventRepository) Delete(id uint) error {
	result := r.db.Delete(&models.RecyclingEvent{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete event %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event %d not found", id)
	}
	return nil
}
