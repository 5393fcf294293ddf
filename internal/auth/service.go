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

// invalidCredentials is the single message returned for every login failure.
// Unknown email, wrong password and deactivated account are indistinguishable
// to the caller.
const invalidCredentials = "invalid credentials"

// UserDirectory loads admin users for authentication. Implementations must
// eager load roles and their permissions.
type UserDirectory interface {
	FindActiveByEmail(ctx context.Context, email string) (*models.User, error)
}

// CustomerDirectory loads and creates storefront accounts.
type CustomerDirectory interface {
	FindActiveByEmail(ctx context.Context, email string) (*models.Customer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, customer *models.Customer) error
}

// WelcomeNotifier receives registration events. Both callbacks are fire and
// forget; the service never fails a registration over them.
type WelcomeNotifier interface {
	CustomerRegistered(ctx context.Context, email, fullName string)
}

// EmailSender delivers transactional mail.
type EmailSender interface {
	SendWelcome(ctx context.Context, to, fullName string) error
}

type Service interface {
	LoginUser(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	LoginCustomer(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	RegisterCustomer(ctx context.Context, req RegisterCustomerRequest) (*TokenResponse, error)
}

type service struct {
	users     UserDirectory
	customers CustomerDirectory
	notifier  WelcomeNotifier
	email     EmailSender
	jwtCfg    config.JWTConfig
	pwCfg     config.PasswordConfig
	logg      *logger.Logger
	now       func() time.Time
}

func NewService(
	users UserDirectory,
	customers CustomerDirectory,
	notifier WelcomeNotifier,
	email EmailSender,
	jwtCfg config.JWTConfig,
	pwCfg config.PasswordConfig,
	logg *logger.Logger,
) Service {
	return &service{
		users:     users,
		customers: customers,
		notifier:  notifier,
		email:     email,
		jwtCfg:    jwtCfg,
		pwCfg:     pwCfg,
		logg:      logg,
		now:       time.Now,
	}
}

func (s *service) LoginUser(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	if s == nil || s.users == nil {
		return nil, errors.New(errors.CodeDependency, "user directory unavailable")
	}
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, errors.New(errors.CodeUnauthorized, invalidCredentials)
	}

	user, err := s.users.FindActiveByEmail(ctx, email)
	if err != nil || user == nil {
		return nil, errors.New(errors.CodeUnauthorized, invalidCredentials)
	}
	if !s.passwordMatches(req.Password, user.PasswordHash) {
		return nil, errors.New(errors.CodeUnauthorized, invalidCredentials)
	}

	token, expiresIn, err := s.mint(user.Email)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "issuing token")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithPrincipal(ctx, "user", user.Email), "admin login succeeded")
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		Email:       user.Email,
		FullName:    user.FullName,
		Authorities: ComputeAuthorities(user.Roles),
	}, nil
}

func (s *service) LoginCustomer(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	if s == nil || s.customers == nil {
		return nil, errors.New(errors.CodeDependency, "customer directory unavailable")
	}
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, errors.New(errors.CodeUnauthorized, invalidCredentials)
	}

	customer, err := s.customers.FindActiveByEmail(ctx, email)
	if err != nil || customer == nil {
		return nil, errors.New(errors.CodeUnauthorized, invalidCredentials)
	}
	if !s.passwordMatches(req.Password, customer.PasswordHash) {
		return nil, errors.New(errors.CodeUnauthorized, invalidCredentials)
	}

	token, expiresIn, err := s.mint(customer.Email)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "issuing token")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithPrincipal(ctx, "customer", customer.Email), "customer login succeeded")
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		Email:       customer.Email,
		FullName:    customer.FullName,
		Authorities: []string{},
	}, nil
}

func (s *service) RegisterCustomer(ctx context.Context, req RegisterCustomerRequest) (*TokenResponse, error) {
	if s == nil || s.customers == nil {
		return nil, errors.New(errors.CodeDependency, "customer directory unavailable")
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

	exists, err := s.customers.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "checking email availability")
	}
	if exists {
		return nil, errors.New(errors.CodeConflict, "email already registered")
	}

	hash, err := security.HashPassword(req.Password, s.pwCfg)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "hashing password")
	}

	customer := &models.Customer{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Phone:        req.Phone,
		IsActive:     true,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "creating customer")
	}

	s.afterRegistration(ctx, customer.Email, customer.FullName)

	token, expiresIn, err := s.mint(customer.Email)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "issuing token")
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		Email:       customer.Email,
		FullName:    customer.FullName,
		Authorities: []string{},
	}, nil
}

// afterRegistration runs the side effects of a successful signup. Failures
// are logged and swallowed so registration itself never fails over them. The
// welcome email goes out in the background; a slow mail server must not hold
// the registration response. The goroutine gets its own timeout since the
// request context may end first.
func (s *service) afterRegistration(ctx context.Context, email, fullName string) {
	if s.email != nil {
		logCtx := ctx
		go func() {
			sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.email.SendWelcome(sendCtx, email, fullName); err != nil && s.logg != nil {
				s.logg.Warn(s.logg.WithField(logCtx, "email", email), "welcome email delivery failed")
			}
		}()
	}
	if s.notifier != nil {
		s.notifier.CustomerRegistered(ctx, email, fullName)
	}
}

func (s *service) passwordMatches(password, hash string) bool {
	ok, err := security.VerifyPassword(password, hash)
	return err == nil && ok
}

func (s *service) mint(subject string) (string, int64, error) {
	token, err := auth.MintAccessToken(s.jwtCfg, s.now(), subject)
	if err != nil {
		return "", 0, err
	}
	return token, int64(s.jwtCfg.TokenTTL().Seconds()), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
