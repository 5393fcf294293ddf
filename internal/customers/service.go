package customers

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
	FindActiveByEmail(ctx context.Context, email string) (*models.Customer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Save(ctx context.Context, customer *models.Customer) error
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
}

// OrderCounter answers how many orders the customer has actually placed.
type OrderCounter interface {
	CountPlacedByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
}

type Service interface {
	ProfileByEmail(ctx context.Context, email string) (*CustomerResponse, error)
	UpdateProfileByEmail(ctx context.Context, email string, req UpdateProfileRequest) (*CustomerResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type service struct {
	store  Store
	orders OrderCounter
	logg   *logger.Logger
	now    func() time.Time
}

func NewService(store Store, orders OrderCounter, logg *logger.Logger) Service {
	return &service{store: store, orders: orders, logg: logg, now: time.Now}
}

func (s *service) ProfileByEmail(ctx context.Context, email string) (*CustomerResponse, error) {
	customer, err := s.loadByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	resp := toResponse(customer)
	return &resp, nil
}

func (s *service) UpdateProfileByEmail(ctx context.Context, email string, req UpdateProfileRequest) (*CustomerResponse, error) {
	customer, err := s.loadByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return nil, errors.New(errors.CodeValidation, "full name cannot be blank")
		}
		customer.FullName = name
	}
	if req.Phone != nil {
		customer.Phone = req.Phone
	}

	if err := s.store.Save(ctx, customer); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "updating profile")
	}

	resp := toResponse(customer)
	return &resp, nil
}

// Deactivate soft deletes a customer account. Accounts with at least one
// placed order are kept for bookkeeping, and an already deactivated account
// cannot be deactivated again.
func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if s == nil || s.store == nil || s.orders == nil {
		return errors.New(errors.CodeDependency, "customer store unavailable")
	}

	customer, err := s.store.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New(errors.CodeNotFound, "customer not found")
		}
		return errors.Wrap(errors.CodeInternal, err, "loading customer")
	}

	if !customer.IsActive || customer.DeletedAt != nil {
		return errors.New(errors.CodeConflict, "customer is already deactivated")
	}

	placed, err := s.orders.CountPlacedByCustomer(ctx, customer.ID)
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "counting placed orders")
	}
	if placed > 0 {
		return errors.New(errors.CodeConflict, "customer has placed orders and cannot be removed")
	}

	if err := s.store.SoftDelete(ctx, customer.ID, s.now()); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "deactivating customer")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "customer_id", customer.ID.String()), "customer deactivated")
	}
	return nil
}

func (s *service) loadByEmail(ctx context.Context, email string) (*models.Customer, error) {
	if s == nil || s.store == nil {
		return nil, errors.New(errors.CodeDependency, "customer store unavailable")
	}
	customer, err := s.store.FindActiveByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "customer not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "loading customer")
	}
	return customer, nil
}
