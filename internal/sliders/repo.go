package sliders

import (
	"context"

	"github.com/google/uuid"
	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes homepage slider persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Slider, error) {
	var slider models.Slider
	if err := r.db.WithContext(ctx).First(&slider, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &slider, nil
}

func (r *Repository) Create(ctx context.Context, slider *models.Slider) error {
	return r.db.WithContext(ctx).Create(slider).Error
}

func (r *Repository) Save(ctx context.Context, slider *models.Slider) error {
	return r.db.WithContext(ctx).Save(slider).Error
}

// ListAll returns every slider for the admin view, active first then by
// display order.
func (r *Repository) ListAll(ctx context.Context) ([]models.Slider, error) {
	var sliders []models.Slider
	err := r.db.WithContext(ctx).
		Order("is_active DESC, display_order ASC, created_at ASC").
		Find(&sliders).Error
	if err != nil {
		return nil, err
	}
	return sliders, nil
}

// ListActive returns the sliders shown on the storefront, in display order.
func (r *Repository) ListActive(ctx context.Context) ([]models.Slider, error) {
	var sliders []models.Slider
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC, created_at ASC").
		Find(&sliders).Error
	if err != nil {
		return nil, err
	}
	return sliders, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Slider{}, "id = ?", id).Error
}
