package categories

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
	"github.com/leonfashion/fashionshop-backend/pkg/slug"
	"github.com/leonfashion/fashionshop-backend/pkg/types"
	"gorm.io/gorm"
)

// Store is the persistence surface the service needs.
type Store interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Save(ctx context.Context, category *models.Category) error
	List(ctx context.Context, params pagination.Params, activeOnly bool) ([]models.Category, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountProducts(ctx context.Context, categoryID uuid.UUID) (int64, error)
}

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=150"`
	Slug        *string `json:"slug,omitempty" validate:"omitempty,max=150"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=150"`
	Slug        *string `json:"slug,omitempty" validate:"omitempty,max=150"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	Image       *string   `json:"image,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Service interface {
	Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*CategoryResponse, error)
	GetBySlug(ctx context.Context, slugValue string) (*CategoryResponse, error)
	List(ctx context.Context, params pagination.Params, activeOnly bool) (*types.Page[CategoryResponse], error)
	Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	store Store
	logg  *logger.Logger
}

func NewService(store Store, logg *logger.Logger) Service {
	return &service{store: store, logg: logg}
}

func (s *service) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	if s == nil || s.store == nil {
		return nil, errors.New(errors.CodeDependency, "category store unavailable")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.New(errors.CodeValidation, "category name is required")
	}

	slugValue, err := s.deriveSlug(req.Slug, name)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, slugValue, uuid.Nil); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        name,
		Slug:        slugValue,
		Description: req.Description,
		Image:       req.Image,
		IsActive:    true,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.store.Create(ctx, category); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "creating category")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "slug", category.Slug), "category created")
	}

	resp := toResponse(category)
	return &resp, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(category)
	return &resp, nil
}

func (s *service) GetBySlug(ctx context.Context, slugValue string) (*CategoryResponse, error) {
	category, err := s.store.FindBySlug(ctx, slugValue)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "category not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "loading category")
	}
	resp := toResponse(category)
	return &resp, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, activeOnly bool) (*types.Page[CategoryResponse], error) {
	categories, total, err := s.store.List(ctx, params, activeOnly)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing categories")
	}

	data := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		data = append(data, toResponse(&categories[i]))
	}
	return &types.Page[CategoryResponse]{
		Page:       params.Page,
		Size:       params.Size,
		Total:      total,
		TotalPages: params.TotalPages(total),
		Last:       params.Last(total),
		Data:       data,
	}, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errors.New(errors.CodeValidation, "category name cannot be blank")
		}
		category.Name = name
	}

	// A new slug is derived only when explicitly provided; renaming alone
	// keeps the existing slug so links stay stable.
	if req.Slug != nil {
		slugValue, err := s.deriveSlug(req.Slug, category.Name)
		if err != nil {
			return nil, err
		}
		if !strings.EqualFold(slugValue, category.Slug) {
			if err := s.ensureSlugFree(ctx, slugValue, category.ID); err != nil {
				return nil, err
			}
		}
		category.Slug = slugValue
	}

	if req.Description != nil {
		category.Description = req.Description
	}
	if req.Image != nil {
		category.Image = req.Image
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.store.Save(ctx, category); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "updating category")
	}

	resp := toResponse(category)
	return &resp, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	linked, err := s.store.CountProducts(ctx, category.ID)
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "counting linked products")
	}
	if linked > 0 {
		return errors.New(errors.CodeConflict, "category still has products assigned")
	}

	if err := s.store.Delete(ctx, category.ID); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "deleting category")
	}
	return nil
}

// deriveSlug slugifies the explicit slug when one is given, otherwise the
// name. An input that slugifies to nothing is a validation error.
func (s *service) deriveSlug(explicit *string, name string) (string, error) {
	source := name
	if explicit != nil && strings.TrimSpace(*explicit) != "" {
		source = *explicit
	}
	slugValue := slug.Make(source)
	if slugValue == "" {
		return "", errors.New(errors.CodeValidation, "name does not produce a usable slug")
	}
	return slugValue, nil
}

// ensureSlugFree fails with CONFLICT when another category owns the slug.
// The comparison is case insensitive; selfID exempts the record being
// updated so saving a category with its own slug is never a conflict.
func (s *service) ensureSlugFree(ctx context.Context, slugValue string, selfID uuid.UUID) error {
	existing, err := s.store.FindBySlug(ctx, slugValue)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return errors.Wrap(errors.CodeInternal, err, "checking slug availability")
	}
	if existing.ID == selfID {
		return nil
	}
	return errors.New(errors.CodeConflict, "slug already in use")
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.store.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "category not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "loading category")
	}
	return category, nil
}

func toResponse(category *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		Image:       category.Image,
		IsActive:    category.IsActive,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}
