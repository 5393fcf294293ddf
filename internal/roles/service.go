package roles

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
	FindByID(ctx context.Context, id uuid.UUID) (*models.Role, error)
	FindByName(ctx context.Context, name string) (*models.Role, error)
	Create(ctx context.Context, role *models.Role) error
	Save(ctx context.Context, role *models.Role) error
	ReplacePermissions(ctx context.Context, role *models.Role, perms []models.Permission) error
	List(ctx context.Context) ([]models.Role, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountUsers(ctx context.Context, roleID uuid.UUID) (int64, error)
}

// PermissionResolver loads permissions for assignment.
type PermissionResolver interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Permission, error)
}

type CreateRoleRequest struct {
	Name          string      `json:"name" validate:"required,min=2,max=50"`
	Description   *string     `json:"description,omitempty"`
	PermissionIDs []uuid.UUID `json:"permission_ids,omitempty"`
}

type UpdateRoleRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Description *string `json:"description,omitempty"`
}

type SetPermissionsRequest struct {
	PermissionIDs []uuid.UUID `json:"permission_ids" validate:"required"`
}

type RoleResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Permissions []PermissionRef `json:"permissions"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type PermissionRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type Service interface {
	Create(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*RoleResponse, error)
	List(ctx context.Context) ([]RoleResponse, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRoleRequest) (*RoleResponse, error)
	SetPermissions(ctx context.Context, id uuid.UUID, req SetPermissionsRequest) (*RoleResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	store Store
	perms PermissionResolver
	logg  *logger.Logger
}

func NewService(store Store, perms PermissionResolver, logg *logger.Logger) Service {
	return &service{store: store, perms: perms, logg: logg}
}

// CanonicalName trims surrounding whitespace and lower cases the role name.
// Role names are stored and compared in this form only.
func CanonicalName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (s *service) Create(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error) {
	if s == nil || s.store == nil {
		return nil, errors.New(errors.CodeDependency, "role store unavailable")
	}
	name := CanonicalName(req.Name)
	if name == "" {
		return nil, errors.New(errors.CodeValidation, "role name is required")
	}

	if err := s.ensureNameFree(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	perms, err := s.resolvePermissions(ctx, req.PermissionIDs)
	if err != nil {
		return nil, err
	}

	role := &models.Role{Name: name, Description: req.Description, Permissions: perms}
	if err := s.store.Create(ctx, role); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "creating role")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "role", role.Name), "role created")
	}

	resp := toResponse(role)
	return &resp, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*RoleResponse, error) {
	role, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(role)
	return &resp, nil
}

func (s *service) List(ctx context.Context) ([]RoleResponse, error) {
	roles, err := s.store.List(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing roles")
	}
	out := make([]RoleResponse, 0, len(roles))
	for i := range roles {
		out = append(out, toResponse(&roles[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateRoleRequest) (*RoleResponse, error) {
	role, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := CanonicalName(*req.Name)
		if name == "" {
			return nil, errors.New(errors.CodeValidation, "role name cannot be blank")
		}
		if name != role.Name {
			if err := s.ensureNameFree(ctx, name, role.ID); err != nil {
				return nil, err
			}
			role.Name = name
		}
	}
	if req.Description != nil {
		role.Description = req.Description
	}

	if err := s.store.Save(ctx, role); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "updating role")
	}

	resp := toResponse(role)
	return &resp, nil
}

// SetPermissions replaces the role's permission set. The whole operation
// fails when any requested permission does not exist.
func (s *service) SetPermissions(ctx context.Context, id uuid.UUID, req SetPermissionsRequest) (*RoleResponse, error) {
	role, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	perms, err := s.resolvePermissions(ctx, req.PermissionIDs)
	if err != nil {
		return nil, err
	}

	if err := s.store.ReplacePermissions(ctx, role, perms); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "setting permissions")
	}
	role.Permissions = perms

	resp := toResponse(role)
	return &resp, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	role, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	holders, err := s.store.CountUsers(ctx, role.ID)
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "counting role holders")
	}
	if holders > 0 {
		return errors.New(errors.CodeConflict, "role is still assigned to users")
	}

	if err := s.store.Delete(ctx, role.ID); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "deleting role")
	}
	return nil
}

func (s *service) ensureNameFree(ctx context.Context, name string, selfID uuid.UUID) error {
	existing, err := s.store.FindByName(ctx, name)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return errors.Wrap(errors.CodeInternal, err, "checking role name")
	}
	if existing.ID == selfID {
		return nil
	}
	return errors.New(errors.CodeConflict, "role name already exists")
}

func (s *service) resolvePermissions(ctx context.Context, ids []uuid.UUID) ([]models.Permission, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return []models.Permission{}, nil
	}
	if s.perms == nil {
		return nil, errors.New(errors.CodeDependency, "permission resolver unavailable")
	}
	perms, err := s.perms.FindByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "resolving permissions")
	}
	if len(perms) != len(ids) {
		return nil, errors.New(errors.CodeNotFound, "one or more permissions do not exist")
	}
	return perms, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Role, error) {
	role, err := s.store.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "role not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "loading role")
	}
	return role, nil
}

func toResponse(role *models.Role) RoleResponse {
	perms := make([]PermissionRef, 0, len(role.Permissions))
	for _, perm := range role.Permissions {
		perms = append(perms, PermissionRef{ID: perm.ID, Name: perm.Name})
	}
	return RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: perms,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
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
