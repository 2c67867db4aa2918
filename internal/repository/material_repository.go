package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ecoheroes/recycle-rewards/internal/models"
)

// ErrMaterialNotFound indicates a material name that is not in the catalog.
// Unknown names are a validation failure for the caller, not a server fault.
var ErrMaterialNotFound = errors.New("material not found")

// MaterialRepository handles material catalog database operations.
type MaterialRepository struct {
	db *DB
}

// NewMaterialRepository creates a new material repository.
func NewMaterialRepository(db *DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// Create creates a new material.
func (r *MaterialRepository) Create(material *models.Material) error {
	if err := r.db.Create(material).Error; err != nil {
		return fmt.Errorf("failed to create material: %w", err)
	}
	return nil
}

// GetByName retrieves a material by its catalog name. Recycling events
// reference materials by name, so a naming mismatch surfaces here as
// ErrMaterialNotFound rather than a silent zero-point award.
func (r *MaterialRepository) GetByName(name string) (*models.Material, error) {
	var material models.Material
	err := r.db.Where("name = ?", name).First(&material).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMaterialNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get material %q: %w", name, err)
	}
	return &material, nil
}

// List retrieves all materials.
func (r *MaterialRepository) List() ([]models.Material, error) {
	var materials []models.Material
	if err := r.db.Order("name").Find(&materials).Error; err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	return materials, nil
}

// Update updates a material.
func (r *MaterialRepository) Update(material *models.Material) error {
	if err := r.db.Save(material).Error; err != nil {
		return fmt.Errorf("failed to update material: %w", err)
	}
	return nil
}
