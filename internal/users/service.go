package users

import (
	"context"
	stdErrors "errors"
	"strings"

	"github.com/google/uuid"
	"github.com/leonfashion/fashionshop-backend/pkg/config"
	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
	"github.com/leonfashion/fashionshop-backend/pkg/errors"
	"github.com/leonfashion/fashionshop-backend/pkg/logger"
	"github.com/leonfashion/fashionshop-backend/pkg/pagination"
	"github.com/leonfashion/fashionshop-backend/pkg/security"
	"github.com/leonfashion/fashionshop-backend/pkg/types"
	"gorm.io/gorm"
)

// Store is the persistence surface the service needs.
type Store interface {
	FindActiveByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	ReplaceRoles(ctx context.Context, user *models.User, roles []models.Role) error
	List(ctx context.Context, params pagination.Params) ([]models.User, int64, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// RoleResolver looks up roles for assignment. Missing IDs surface as a short
// result set, never an error.
type RoleResolver interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Role, error)
}

type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*UserResponse, error)
	List(ctx context.Context, params pagination.Params) (*types.Page[UserResponse], error)
	Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error)
	AssignRoles(ctx context.Context, id uuid.UUID, req AssignRolesRequest) (*UserResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type service struct {
	store Store
	roles RoleResolver
	pwCfg config.PasswordConfig
	logg  *logger.Logger
}

func NewService(store Store, roles RoleResolver, pwCfg config.PasswordConfig, logg *logger.Logger) Service {
	return &service{store: store, roles: roles, pwCfg: pwCfg, logg: logg}
}

func (s *service) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	if s == nil || s.store == nil {
		return nil, errors.New(errors.CodeDependency, "user store unavailable")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, errors.New(errors.CodeValidation, "email is required")
	}
	if len(req.Password) < 8 {
		return nil, errors.New(errors.CodeValidation, "password must be at least 8 characters")
	}
	if len(req.RoleIDs) == 0 {
		return nil, errors.New(errors.CodeValidation, "at least one role is required")
	}

	exists, err := s.store.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "checking email availability")
	}
	if exists {
		return nil, errors.New(errors.CodeConflict, "email already registered")
	}

	roles, err := s.resolveRoles(ctx, req.RoleIDs)
	if err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(req.Password, s.pwCfg)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        req.Phone,
		IsActive:     true,
		Roles:        roles,
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "creating user")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "user_email", user.Email), "admin user created")
	}

	resp := toResponse(user)
	return &resp, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(user)
	return &resp, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*types.Page[UserResponse], error) {
	users, total, err := s.store.List(ctx, params)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing users")
	}

	data := make([]UserResponse, 0, len(users))
	for i := range users {
		data = append(data, toResponse(&users[i]))
	}
	return &types.Page[UserResponse]{
		Page:       params.Page,
		Size:       params.Size,
		Total:      total,
		TotalPages: params.TotalPages(total),
		Last:       params.Last(total),
		Data:       data,
	}, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return nil, errors.New(errors.CodeValidation, "full name cannot be blank")
		}
		user.FullName = name
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.store.Save(ctx, user); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "updating user")
	}

	resp := toResponse(user)
	return &resp, nil
}

func (s *service) AssignRoles(ctx context.Context, id uuid.UUID, req AssignRolesRequest) (*UserResponse, error) {
	if len(req.RoleIDs) == 0 {
		return nil, errors.New(errors.CodeValidation, "at least one role is required")
	}

	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	roles, err := s.resolveRoles(ctx, req.RoleIDs)
	if err != nil {
		return nil, err
	}

	if err := s.store.ReplaceRoles(ctx, user, roles); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "assigning roles")
	}
	user.Roles = roles

	resp := toResponse(user)
	return &resp, nil
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	user, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return errors.New(errors.CodeConflict, "user is already deactivated")
	}
	if err := s.store.Deactivate(ctx, user.ID); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "deactivating user")
	}
	return nil
}

// resolveRoles loads the requested roles and fails the whole operation when
// any ID is unknown.
func (s *service) resolveRoles(ctx context.Context, ids []uuid.UUID) ([]models.Role, error) {
	if s.roles == nil {
		return nil, errors.New(errors.CodeDependency, "role resolver unavailable")
	}
	roles, err := s.roles.FindByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "resolving roles")
	}
	if len(roles) != len(dedupe(ids)) {
		return nil, errors.New(errors.CodeNotFound, "one or more roles do not exist")
	}
	return roles, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "user not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "loading user")
	}
	return user, nil
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
