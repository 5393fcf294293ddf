package products

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
	"github.com/leonfashion/fashionshop-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository exposes product persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images").
		Preload("Categories.Category").
		Where("deleted_at IS NULL").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *Repository) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// ListFilter narrows the catalog listing.
type ListFilter struct {
	CategoryID *uuid.UUID
	Search     string
	ActiveOnly bool
}

// List returns a page of products, newest first.
func (r *Repository) List(ctx context.Context, params pagination.Params, filter ListFilter) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("products.deleted_at IS NULL")
	if filter.ActiveOnly {
		query = query.Where("products.is_active = ?", true)
	}
	if filter.CategoryID != nil {
		query = query.
			Joins("JOIN product_categories pc ON pc.product_id = products.id").
			Where("pc.category_id = ?", *filter.CategoryID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("lower(products.name) LIKE ? OR lower(products.sku) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := query.
		Preload("Images").
		Preload("Categories.Category").
		Order("products.created_at DESC").
		Offset(params.Offset()).
		Limit(params.Size).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// CategoryIDs returns the IDs of categories currently linked to the product.
func (r *Repository) CategoryIDs(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error) {
	var links []models.ProductCategory
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.CategoryID)
	}
	return ids, nil
}

// AddCategoryLinks inserts the missing product-category rows.
func (r *Repository) AddCategoryLinks(ctx context.Context, productID uuid.UUID, categoryIDs []uuid.UUID) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	links := make([]models.ProductCategory, 0, len(categoryIDs))
	for _, categoryID := range categoryIDs {
		links = append(links, models.ProductCategory{ProductID: productID, CategoryID: categoryID})
	}
	return r.db.WithContext(ctx).Create(&links).Error
}

// RemoveCategoryLinks deletes the listed product-category rows.
func (r *Repository) RemoveCategoryLinks(ctx context.Context, productID uuid.UUID, categoryIDs []uuid.UUID) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("product_id = ? AND category_id IN ?", productID, categoryIDs).
		Delete(&models.ProductCategory{}).Error
}

// ReconcileCategoryLinks applies the link diff in a single transaction so a
// mid-sequence failure cannot leave the product half reconciled.
func (r *Repository) ReconcileCategoryLinks(ctx context.Context, productID uuid.UUID, toAdd, toRemove []uuid.UUID) error {
	if len(toAdd) == 0 && len(toRemove) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := r.WithTx(tx)
		if err := repo.RemoveCategoryLinks(ctx, productID, toRemove); err != nil {
			return err
		}
		return repo.AddCategoryLinks(ctx, productID, toAdd)
	})
}

// ReplaceImages swaps the product's image rows for the provided URLs. Delete
// and insert run in one transaction; a failed insert keeps the old set.
func (r *Repository) ReplaceImages(ctx context.Context, productID uuid.UUID, urls []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("product_id = ?", productID).
			Delete(&models.ProductImage{}).Error
		if err != nil {
			return err
		}
		if len(urls) == 0 {
			return nil
		}
		images := make([]models.ProductImage, 0, len(urls))
		for _, url := range urls {
			images = append(images, models.ProductImage{ProductID: productID, URL: url})
		}
		return tx.Create(&images).Error
	})
}

// SoftDelete stamps deleted_at and deactivates the listing.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_active":  false,
			"deleted_at": at,
		}).Error
}
