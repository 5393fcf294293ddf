package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
	"github.com/leonfashion/fashionshop-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository exposes order persistence. Order placement itself lives with the
// storefront checkout; this slice reads orders for history views and for the
// customer deactivation guard.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CountPlacedByCustomer counts orders that were actually submitted. Draft
// carts with a null placed_at never count.
func (r *Repository) CountPlacedByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("customer_id = ? AND placed_at IS NOT NULL", customerID).
		Count(&count).Error
	return count, err
}

// ListByCustomer returns a page of the customer's placed orders, newest first.
func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("customer_id = ? AND placed_at IS NOT NULL", customerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.
		Preload("Items").
		Order("placed_at DESC").
		Offset(params.Offset()).
		Limit(params.Size).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
