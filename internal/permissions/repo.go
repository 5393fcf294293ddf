package permissions

import (
	"context"

	"github.com/google/uuid"
	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes permission persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Permission, error) {
	var perm models.Permission
	if err := r.db.WithContext(ctx).First(&perm, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

// FindByName matches the canonical (upper cased) name exactly.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Permission, error) {
	var perm models.Permission
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&perm).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

// FindByIDs loads the permissions matching ids. Unknown IDs simply shrink the
// result; the caller decides whether that is an error.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var perms []models.Permission
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *Repository) Create(ctx context.Context, perm *models.Permission) error {
	return r.db.WithContext(ctx).Create(perm).Error
}

func (r *Repository) Save(ctx context.Context, perm *models.Permission) error {
	return r.db.WithContext(ctx).Save(perm).Error
}

func (r *Repository) List(ctx context.Context) ([]models.Permission, error) {
	var perms []models.Permission
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Permission{}, "id = ?", id).Error
}
