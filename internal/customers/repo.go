package customers

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes storefront account persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindActiveByEmail loads an active, non-deleted customer by email.
func (r *Repository) FindActiveByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("lower(email) = ? AND is_active = ? AND deleted_at IS NULL", strings.ToLower(email), true).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindByID loads a customer regardless of active or deleted state. Callers
// inspect the row themselves; a deactivation attempt on an already deleted
// account must see the row to report the conflict.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		First(&customer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// ExistsByEmail reports whether the email is taken, including by soft deleted
// accounts. Deleted accounts keep their email reserved.
func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("lower(email) = ?", strings.ToLower(email)).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *Repository) Save(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// SoftDelete stamps deleted_at and flips is_active off in one update.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_active":  false,
			"deleted_at": at,
		}).Error
}
