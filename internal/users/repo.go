package users

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
	"github.com/leonfashion/fashionshop-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository exposes admin user persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindActiveByEmail loads an active user with roles and permissions eagerly
// preloaded for authority computation.
func (r *Repository) FindActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Roles.Permissions").
		Where("lower(email) = ? AND is_active = ? AND deleted_at IS NULL", strings.ToLower(email), true).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user with roles preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Where("deleted_at IS NULL").
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail reports whether any user, active or not, owns the email.
func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("lower(email) = ?", strings.ToLower(email)).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a user and its role associations.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Save persists scalar field updates.
func (r *Repository) Save(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// ReplaceRoles overwrites the user's role associations.
func (r *Repository) ReplaceRoles(ctx context.Context, user *models.User, roles []models.Role) error {
	return r.db.WithContext(ctx).Model(user).Association("Roles").Replace(roles)
}

// List returns a page of users ordered by creation time.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.User, int64, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&models.User{}).Where("deleted_at IS NULL")
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := query.
		Preload("Roles").
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Size).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Deactivate flips is_active off without removing the row.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("is_active", false).Error
}
