package categories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
	"github.com/leonfashion/fashionshop-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository exposes category persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindBySlug matches case insensitively. Slugs are stored lower cased, but
// lookups tolerate mixed case input.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("lower(slug) = ?", strings.ToLower(slug)).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByIDs loads categories matching ids. Unknown IDs shrink the result.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var categories []models.Category
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *Repository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *Repository) Save(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// List returns a page of categories ordered by name. When activeOnly is set,
// inactive categories are filtered out.
func (r *Repository) List(ctx context.Context, params pagination.Params, activeOnly bool) ([]models.Category, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Category{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var categories []models.Category
	err := query.
		Order("name ASC").
		Offset(params.Offset()).
		Limit(params.Size).
		Find(&categories).Error
	if err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error
}

// CountProducts reports how many products reference the category.
func (r *Repository) CountProducts(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProductCategory{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}
