package roles

import (
	"context"

	"github.com/google/uuid"
	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes role persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).
		Preload("Permissions").
		First(&role, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// FindByName matches the canonical (lower cased) name exactly.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// FindByIDs loads roles matching ids. Unknown IDs shrink the result.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var roles []models.Role
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *Repository) Create(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *Repository) Save(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Save(role).Error
}

// ReplacePermissions overwrites the role's permission associations.
func (r *Repository) ReplacePermissions(ctx context.Context, role *models.Role, perms []models.Permission) error {
	return r.db.WithContext(ctx).Model(role).Association("Permissions").Replace(perms)
}

func (r *Repository) List(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	err := r.db.WithContext(ctx).
		Preload("Permissions").
		Order("name ASC").
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Role{}, "id = ?", id).Error
}

// CountUsers reports how many users currently hold the role.
func (r *Repository) CountUsers(ctx context.Context, roleID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("user_roles").
		Where("role_id = ?", roleID).
		Count(&count).Error
	return count, err
}
