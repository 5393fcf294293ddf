package permissions

import (
	"context"
	stdErrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
	"github.com/leonfashion/fashionshop-backend/pkg/errors"
	"github.com/leonfashion/fashionshop-backend/pkg/logger"
	"gorm.io/gorm"
)

// Store is the persistence surface the service needs.
type Store interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Permission, error)
	FindByName(ctx context.Context, name string) (*models.Permission, error)
	Create(ctx context.Context, perm *models.Permission) error
	Save(ctx context.Context, perm *models.Permission) error
	List(ctx context.Context) ([]models.Permission, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreatePermissionRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description *string `json:"description,omitempty"`
}

type UpdatePermissionRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description,omitempty"`
}

type PermissionResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Service interface {
	Create(ctx context.Context, req CreatePermissionRequest) (*PermissionResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*PermissionResponse, error)
	List(ctx context.Context) ([]PermissionResponse, error)
	Update(ctx context.Context, id uuid.UUID, req UpdatePermissionRequest) (*PermissionResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	store Store
	logg  *logger.Logger
}

func NewService(store Store, logg *logger.Logger) Service {
	return &service{store: store, logg: logg}
}

// CanonicalName trims surrounding whitespace and upper cases the permission
// name. Permission names are stored and compared in this form only.
func CanonicalName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

func (s *service) Create(ctx context.Context, req CreatePermissionRequest) (*PermissionResponse, error) {
	if s == nil || s.store == nil {
		return nil, errors.New(errors.CodeDependency, "permission store unavailable")
	}
	name := CanonicalName(req.Name)
	if name == "" {
		return nil, errors.New(errors.CodeValidation, "permission name is required")
	}

	if err := s.ensureNameFree(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	perm := &models.Permission{Name: name, Description: req.Description}
	if err := s.store.Create(ctx, perm); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "creating permission")
	}

	resp := toResponse(perm)
	return &resp, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*PermissionResponse, error) {
	perm, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(perm)
	return &resp, nil
}

func (s *service) List(ctx context.Context) ([]PermissionResponse, error) {
	perms, err := s.store.List(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing permissions")
	}
	out := make([]PermissionResponse, 0, len(perms))
	for i := range perms {
		out = append(out, toResponse(&perms[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdatePermissionRequest) (*PermissionResponse, error) {
	perm, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := CanonicalName(*req.Name)
		if name == "" {
			return nil, errors.New(errors.CodeValidation, "permission name cannot be blank")
		}
		if name != perm.Name {
			if err := s.ensureNameFree(ctx, name, perm.ID); err != nil {
				return nil, err
			}
			perm.Name = name
		}
	}
	if req.Description != nil {
		perm.Description = req.Description
	}

	if err := s.store.Save(ctx, perm); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "updating permission")
	}

	resp := toResponse(perm)
	return &resp, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	perm, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, perm.ID); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "deleting permission")
	}
	return nil
}

// ensureNameFree fails with CONFLICT when another permission already owns the
// canonical name. selfID exempts the record being updated.
func (s *service) ensureNameFree(ctx context.Context, name string, selfID uuid.UUID) error {
	existing, err := s.store.FindByName(ctx, name)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return errors.Wrap(errors.CodeInternal, err, "checking permission name")
	}
	if existing.ID == selfID {
		return nil
	}
	return errors.New(errors.CodeConflict, "permission name already exists")
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Permission, error) {
	perm, err := s.store.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "permission not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "loading permission")
	}
	return perm, nil
}

func toResponse(perm *models.Permission) PermissionResponse {
	return PermissionResponse{
		ID:          perm.ID,
		Name:        perm.Name,
		Description: perm.Description,
		CreatedAt:   perm.CreatedAt,
		UpdatedAt:   perm.UpdatedAt,
	}
}
