package products

import (
	"context"
	stdErrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
	"github.com/leonfashion/fashionshop-backend/pkg/errors"
	"github.com/leonfashion/fashionshop-backend/pkg/logger"
	"github.com/leonfashion/fashionshop-backend/pkg/pagination"
	"github.com/leonfashion/fashionshop-backend/pkg/types"
	"gorm.io/gorm"
)

// Store is the persistence surface the service needs.
type Store interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Save(ctx context.Context, product *models.Product) error
	List(ctx context.Context, params pagination.Params, filter ListFilter) ([]models.Product, int64, error)
	CategoryIDs(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error)
	ReconcileCategoryLinks(ctx context.Context, productID uuid.UUID, toAdd, toRemove []uuid.UUID) error
	ReplaceImages(ctx context.Context, productID uuid.UUID, urls []string) error
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
}

// CategoryResolver verifies category IDs before linking.
type CategoryResolver interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Category, error)
}

// FileRemover cleans up stored image files once their database rows are gone.
type FileRemover interface {
	Delete(urlPath string) error
}

type Service interface {
	Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error)
	List(ctx context.Context, params pagination.Params, filter ListFilter) (*types.Page[ProductResponse], error)
	Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error)
	SetCategories(ctx context.Context, id uuid.UUID, req SetCategoriesRequest) (*ProductResponse, error)
	ReplaceImages(ctx context.Context, id uuid.UUID, req ReplaceImagesRequest) (*ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	store      Store
	categories CategoryResolver
	files      FileRemover
	logg       *logger.Logger
	now        func() time.Time
}

// NewService builds the product service. files may be nil; image cleanup is
// then skipped.
func NewService(store Store, categories CategoryResolver, files FileRemover, logg *logger.Logger) Service {
	return &service{store: store, categories: categories, files: files, logg: logg, now: time.Now}
}

func (s *service) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if s == nil || s.store == nil {
		return nil, errors.New(errors.CodeDependency, "product store unavailable")
	}
	sku := strings.TrimSpace(req.SKU)
	name := strings.TrimSpace(req.Name)
	if sku == "" {
		return nil, errors.New(errors.CodeValidation, "sku is required")
	}
	if name == "" {
		return nil, errors.New(errors.CodeValidation, "product name is required")
	}
	if req.Price.IsNegative() {
		return nil, errors.New(errors.CodeValidation, "price cannot be negative")
	}
	if req.StockQuantity < 0 {
		return nil, errors.New(errors.CodeValidation, "stock quantity cannot be negative")
	}

	categoryIDs := dedupe(req.CategoryIDs)
	if err := s.ensureCategoriesExist(ctx, categoryIDs); err != nil {
		return nil, err
	}

	// Listings go live only through an explicit update; IsActive stays false
	// here no matter what the payload says.
	product := &models.Product{
		SKU:           sku,
		Name:          name,
		Description:   req.Description,
		Price:         req.Price,
		SalePrice:     req.SalePrice,
		StockQuantity: req.StockQuantity,
		IsActive:      false,
		AboutItem:     req.AboutItem,
		Discount:      req.Discount,
		Brand:         req.Brand,
		Color:         joinColors(req.Colors),
	}
	for _, categoryID := range categoryIDs {
		product.Categories = append(product.Categories, models.ProductCategory{CategoryID: categoryID})
	}

	if err := s.store.Create(ctx, product); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "creating product")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "sku", product.SKU), "product created")
	}

	return s.Get(ctx, product.ID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(product)
	return &resp, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filter ListFilter) (*types.Page[ProductResponse], error) {
	products, total, err := s.store.List(ctx, params, filter)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing products")
	}

	data := make([]ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, toResponse(&products[i]))
	}
	return &types.Page[ProductResponse]{
		Page:       params.Page,
		Size:       params.Size,
		Total:      total,
		TotalPages: params.TotalPages(total),
		Last:       params.Last(total),
		Data:       data,
	}, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.SKU != nil {
		sku := strings.TrimSpace(*req.SKU)
		if sku == "" {
			return nil, errors.New(errors.CodeValidation, "sku cannot be blank")
		}
		product.SKU = sku
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errors.New(errors.CodeValidation, "product name cannot be blank")
		}
		product.Name = name
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, errors.New(errors.CodeValidation, "price cannot be negative")
		}
		product.Price = *req.Price
	}
	if req.SalePrice != nil {
		product.SalePrice = req.SalePrice
	}
	if req.StockQuantity != nil {
		if *req.StockQuantity < 0 {
			return nil, errors.New(errors.CodeValidation, "stock quantity cannot be negative")
		}
		product.StockQuantity = *req.StockQuantity
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.AboutItem != nil {
		product.AboutItem = req.AboutItem
	}
	if req.Discount != nil {
		product.Discount = req.Discount
	}
	if req.Brand != nil {
		product.Brand = req.Brand
	}
	if req.Colors != nil {
		product.Color = joinColors(req.Colors)
	}

	// Save only scalar columns; association writes here would duplicate the
	// preloaded link rows.
	product.Images = nil
	product.Categories = nil
	if err := s.store.Save(ctx, product); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "updating product")
	}

	return s.Get(ctx, product.ID)
}

// SetCategories reconciles the product's category links against the desired
// set. Links absent from the request are removed, missing ones are added, and
// links already in place are left untouched. The whole operation fails when
// any requested category does not exist.
func (s *service) SetCategories(ctx context.Context, id uuid.UUID, req SetCategoriesRequest) (*ProductResponse, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	desired := dedupe(req.CategoryIDs)
	if err := s.ensureCategoriesExist(ctx, desired); err != nil {
		return nil, err
	}

	current, err := s.store.CategoryIDs(ctx, product.ID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "loading category links")
	}

	toAdd, toRemove := diffIDs(current, desired)
	if err := s.store.ReconcileCategoryLinks(ctx, product.ID, toAdd, toRemove); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "reconciling category links")
	}

	return s.Get(ctx, product.ID)
}

func (s *service) ReplaceImages(ctx context.Context, id uuid.UUID, req ReplaceImagesRequest) (*ProductResponse, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(req.URLs))
	for _, url := range req.URLs {
		if u := strings.TrimSpace(url); u != "" {
			urls = append(urls, u)
		}
	}

	if err := s.store.ReplaceImages(ctx, product.ID, urls); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "replacing images")
	}

	s.removeOrphanedFiles(ctx, product.Images, urls)

	return s.Get(ctx, product.ID)
}

// removeOrphanedFiles best-effort deletes image files dropped by a replace.
// The catalog row update already succeeded; a leaked file only costs disk.
func (s *service) removeOrphanedFiles(ctx context.Context, previous []models.ProductImage, kept []string) {
	if s.files == nil {
		return
	}
	keep := make(map[string]struct{}, len(kept))
	for _, url := range kept {
		keep[url] = struct{}{}
	}
	for _, image := range previous {
		if _, ok := keep[image.URL]; ok {
			continue
		}
		if err := s.files.Delete(image.URL); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "image_url", image.URL), "failed to remove replaced image file")
		}
	}
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.SoftDelete(ctx, product.ID, s.now()); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "deleting product")
	}
	return nil
}

func (s *service) ensureCategoriesExist(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if s.categories == nil {
		return errors.New(errors.CodeDependency, "category resolver unavailable")
	}
	found, err := s.categories.FindByIDs(ctx, ids)
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "resolving categories")
	}
	if len(found) != len(ids) {
		return errors.New(errors.CodeNotFound, "one or more categories do not exist")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.store.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "product not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "loading product")
	}
	return product, nil
}

// diffIDs splits desired against current into the additions and removals
// needed to reconcile them.
func diffIDs(current, desired []uuid.UUID) (toAdd, toRemove []uuid.UUID) {
	currentSet := make(map[uuid.UUID]struct{}, len(current))
	for _, id := range current {
		currentSet[id] = struct{}{}
	}
	desiredSet := make(map[uuid.UUID]struct{}, len(desired))
	for _, id := range desired {
		desiredSet[id] = struct{}{}
		if _, ok := currentSet[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	for _, id := range current {
		if _, ok := desiredSet[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRemove
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
