// Package recycling logs recycling submissions and awards the points they
// are worth.
package recycling

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	prommetrics "github.com/ecoheroes/recycle-rewards/internal/metrics"
	"github.com/ecoheroes/recycle-rewards/internal/models"
	"github.com/ecoheroes/recycle-rewards/internal/repository"
	"github.com/ecoheroes/recycle-rewards/internal/service/progression"
	"github.com/ecoheroes/recycle-rewards/pkg/logger"
)

// MaterialRepository interface for material catalog operations.
type MaterialRepository interface {
	GetByName(name string) (*models.Material, error)
	List() ([]models.Material, error)
}

// EventRepository interface for recycling event operations.
type EventRepository interface {
	CreateTx(tx *gorm.DB, event *models.RecyclingEvent) error
	GetByID(id uint) (*models.RecyclingEvent, error)
	ListByUser(userID uint, limit int) ([]models.RecyclingEvent, error)
	ListFlagged() ([]models.RecyclingEvent, error)
	SetFlagged(id uint, flagged bool) error
	Delete(id uint) error
}

// UserRepository interface for user operations.
type UserRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	GetForUpdate(tx *gorm.DB, id uint) (*models.User, error)
	SaveTx(tx *gorm.DB, user *models.User) error
}

// Service records recycling events and pays out points for them.
type Service struct {
	materialRepo MaterialRepository
	eventRepo    EventRepository
	userRepo     UserRepository
	ladder       *progression.Ladder
	now          func() time.Time
	log          *logger.Logger
	onPromotion  progression.PromotionHook
}

// NewService creates a new recycling service with concrete repository types.
func NewService(
	materialRepo *repository.MaterialRepository,
	eventRepo *repository.EventRepository,
	userRepo *repository.UserRepository,
	ladder *progression.Ladder,
	log *logger.Logger,
) *Service {
	return &Service{
		materialRepo: materialRepo,
		eventRepo:    eventRepo,
		userRepo:     userRepo,
		ladder:       ladder,
		now:          time.Now,
		log:          log,
	}
}

// NewServiceWithInterfaces creates a new recycling service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(
	materialRepo MaterialRepository,
	eventRepo EventRepository,
	userRepo UserRepository,
	ladder *progression.Ladder,
	log *logger.Logger,
) *Service {
	return &Service{
		materialRepo: materialRepo,
		eventRepo:    eventRepo,
		userRepo:     userRepo,
		ladder:       ladder,
		now:          time.Now,
		log:          log,
	}
}

// SetPromotionHook registers a callback for rank promotions committed by
// recycling submissions.
func (s *Service) SetPromotionHook(hook progression.PromotionHook) {
	s.onPromotion = hook
}

// LogResult describes a recorded recycling submission.
type LogResult struct {
	Event          *models.RecyclingEvent
	PointsAwarded  int
	NewTotalPoints int
	Promoted       bool
	OldRank        string
	NewRank        string
	User           *models.User
}

// LogRecycling records a recycling submission: the material is resolved by
// catalog name, points are computed with the user's rank multiplier, and the
// event row plus the point award commit in one locked transaction. An unknown
// material name fails with repository.ErrMaterialNotFound and writes nothing.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) LogRecycling(ctx context.Context, userID uint, materialName string, quantity int, binID uint) (*LogResult, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	material, err := s.materialRepo.GetByName(materialName)
	if err != nil {
		return nil, err
	}

	var result LogResult
	err = s.userRepo.Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.GetForUpdate(tx, userID)
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}

		points, err := progression.CalculatePoints(material.PointsPerUnit, quantity, s.ladder.MultiplierFor(user.TotalPointsEarned))
		if err != nil {
			return err
		}

		oldRank, newRank := s.ladder.Apply(user, points)
		if err := s.userRepo.SaveTx(tx, user); err != nil {
			return err
		}

		event := &models.RecyclingEvent{
			UserID:        userID,
			BinID:         binID,
			MaterialName:  material.Name,
			Quantity:      quantity,
			PointsAwarded: points,
			CreatedAt:     s.now(),
		}
		if err := s.eventRepo.CreateTx(tx, event); err != nil {
			return err
		}

		result = LogResult{
			Event:          event,
			PointsAwarded:  points,
			NewTotalPoints: user.Points,
			Promoted:       newRank != oldRank,
			OldRank:        oldRank,
			NewRank:        newRank,
			User:           user,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	prommetrics.RecordRecyclingEvent(material.Name)
	prommetrics.RecordPointsAwarded("recycling", result.PointsAwarded)
	if result.Promoted {
		prommetrics.RecordRankPromotion(result.NewRank)
		if s.onPromotion != nil {
			s.onPromotion(result.User, result.OldRank, result.NewRank)
		}
	}

	s.log.Info().
		Uint("user_id", userID).
		Str("material", material.Name).
		Int("quantity", quantity).
		Int("points", result.PointsAwarded).
		Msg("Recycling logged")

	return &result, nil
}

// GetMaterials lists the material catalog.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) GetMaterials(ctx context.Context) ([]models.Material, error) {
	return s.materialRepo.List()
}

// GetUserEvents lists a user's recycling history, newest first.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) GetUserEvents(ctx context.Context, userID uint, limit int) ([]models.RecyclingEvent, error) {
	return s.eventRepo.ListByUser(userID, limit)
}

// GetFlaggedEvents lists events waiting on moderation review.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) GetFlaggedEvents(ctx context.Context) ([]models.RecyclingEvent, error) {
	return s.eventRepo.ListFlagged()
}

// FlagEvent marks an event for moderation review.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) FlagEvent(ctx context.Context, eventID uint) error {
	if err := s.eventRepo.SetFlagged(eventID, true); err != nil {
		return err
	}
	s.log.Info().Uint("event_id", eventID).Msg("Event flagged for review")
	return nil
}

// RejectEvent removes a flagged event. Points already awarded for it are not
// clawed back: the lifetime total is monotonic and rank never regresses.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) RejectEvent(ctx context.Context, eventID uint) error {
	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return err
	}
	if err := s.eventRepo.Delete(eventID); err != nil {
		return err
	}
	s.log.Warn().
		Uint("event_id", eventID).
		Uint("user_id", event.UserID).
		Int("points_awarded", event.PointsAwarded).
		Msg("Event rejected and removed")
	return nil
}
