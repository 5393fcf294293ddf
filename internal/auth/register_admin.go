package auth

import (
	"context"
	"strings"
	"time"

	"github.com/leonfashion/fashionshop-backend/pkg/auth"
	"github.com/leonfashion/fashionshop-backend/pkg/config"
	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
	"github.com/leonfashion/fashionshop-backend/pkg/errors"
	"github.com/leonfashion/fashionshop-backend/pkg/logger"
	"github.com/leonfashion/fashionshop-backend/pkg/security"
)

// adminRoleName is attached to every self-registered back office account.
// The role is seeded at bootstrap.
const adminRoleName = "admin"

// UserRegistry creates admin users.
type UserRegistry interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
}

// RoleFinder resolves a role by its canonical name.
type RoleFinder interface {
	FindByName(ctx context.Context, name string) (*models.Role, error)
}

type RegisterAdminRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	FullName string  `json:"full_name" validate:"required"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=8,max=20"`
}

// AdminRegisterService creates back office accounts. The route is only
// mounted outside production.
type AdminRegisterService interface {
	RegisterAdmin(ctx context.Context, req RegisterAdminRequest) (*TokenResponse, error)
}

type adminRegisterService struct {
	users  UserRegistry
	roles  RoleFinder
	jwtCfg config.JWTConfig
	pwCfg  config.PasswordConfig
	logg   *logger.Logger
	now    func() time.Time
}

func NewAdminRegisterService(
	users UserRegistry,
	roles RoleFinder,
	jwtCfg config.JWTConfig,
	pwCfg config.PasswordConfig,
	logg *logger.Logger,
) AdminRegisterService {
	return &adminRegisterService{
		users:  users,
		roles:  roles,
		jwtCfg: jwtCfg,
		pwCfg:  pwCfg,
		logg:   logg,
		now:    time.Now,
	}
}

func (s *adminRegisterService) RegisterAdmin(ctx context.Context, req RegisterAdminRequest) (*TokenResponse, error) {
	if s == nil || s.users == nil || s.roles == nil {
		return nil, errors.New(errors.CodeDependency, "user registry unavailable")
	}
	email := normalizeEmail(req.Email)
	fullName := strings.TrimSpace(req.FullName)
	if email == "" {
		return nil, errors.New(errors.CodeValidation, "email is required")
	}
	if fullName == "" {
		return nil, errors.New(errors.CodeValidation, "full name is required")
	}
	if len(req.Password) < 8 {
		return nil, errors.New(errors.CodeValidation, "password must be at least 8 characters")
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "checking email availability")
	}
	if exists {
		return nil, errors.New(errors.CodeConflict, "email already registered")
	}

	role, err := s.roles.FindByName(ctx, adminRoleName)
	if err != nil || role == nil {
		return nil, errors.New(errors.CodeDependency, "admin role not seeded")
	}

	hash, err := security.HashPassword(req.Password, s.pwCfg)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Phone:        req.Phone,
		IsActive:     true,
		Roles:        []models.Role{*role},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "creating user")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithPrincipal(ctx, "user", user.Email), "admin account registered")
	}

	token, err := auth.MintAccessToken(s.jwtCfg, s.now(), user.Email)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "issuing token")
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtCfg.TokenTTL().Seconds()),
		Email:       user.Email,
		FullName:    user.FullName,
		Authorities: ComputeAuthorities(user.Roles),
	}, nil
}
