package customers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
	"github.com/leonfashion/fashionshop-backend/pkg/errors"
	"gorm.io/gorm"
)

type fakeStore struct {
	byID    map[uuid.UUID]*models.Customer
	byEmail map[string]*models.Customer
	deleted []uuid.UUID
}

func newFakeStore(customers ...*models.Customer) *fakeStore {
	store := &fakeStore{
		byID:    map[uuid.UUID]*models.Customer{},
		byEmail: map[string]*models.Customer{},
	}
	for _, customer := range customers {
		store.byID[customer.ID] = customer
		store.byEmail[customer.Email] = customer
	}
	return store
}

func (f *fakeStore) FindActiveByEmail(_ context.Context, email string) (*models.Customer, error) {
	customer, ok := f.byEmail[email]
	if !ok || !customer.IsActive || customer.DeletedAt != nil {
		return nil, gorm.ErrRecordNotFound
	}
	return customer, nil
}

func (f *fakeStore) FindByID(_ context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return customer, nil
}

func (f *fakeStore) Save(_ context.Context, customer *models.Customer) error {
	f.byID[customer.ID] = customer
	f.byEmail[customer.Email] = customer
	return nil
}

func (f *fakeStore) SoftDelete(_ context.Context, id uuid.UUID, at time.Time) error {
	f.deleted = append(f.deleted, id)
	if customer, ok := f.byID[id]; ok {
		customer.IsActive = false
		stamp := at
		customer.DeletedAt = &stamp
	}
	return nil
}

type fakeOrderCounter struct {
	placed map[uuid.UUID]int64
}

func (f *fakeOrderCounter) CountPlacedByCustomer(_ context.Context, customerID uuid.UUID) (int64, error) {
	return f.placed[customerID], nil
}

func TestDeactivateWithoutPlacedOrders(t *testing.T) {
	customer := &models.Customer{ID: uuid.New(), Email: "jane@shop.vn", IsActive: true}
	store := newFakeStore(customer)
	svc := NewService(store, &fakeOrderCounter{placed: map[uuid.UUID]int64{}}, nil)

	if err := svc.Deactivate(context.Background(), customer.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if len(store.deleted) != 1 {
		t.Fatalf("SoftDelete calls = %d", len(store.deleted))
	}
	if customer.IsActive || customer.DeletedAt == nil {
		t.Error("customer not marked deactivated")
	}
}

func TestDeactivateBlockedByPlacedOrders(t *testing.T) {
	customer := &models.Customer{ID: uuid.New(), Email: "buyer@shop.vn", IsActive: true}
	store := newFakeStore(customer)
	counter := &fakeOrderCounter{placed: map[uuid.UUID]int64{customer.ID: 1}}
	svc := NewService(store, counter, nil)

	err := svc.Deactivate(context.Background(), customer.ID)
	typed := errors.As(err)
	if typed == nil || typed.Code() != errors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
	if len(store.deleted) != 0 {
		t.Error("customer with placed orders must not be soft deleted")
	}
	if !customer.IsActive {
		t.Error("customer state must be unchanged")
	}
}

func TestDeactivateTwiceConflicts(t *testing.T) {
	customer := &models.Customer{ID: uuid.New(), Email: "once@shop.vn", IsActive: true}
	store := newFakeStore(customer)
	svc := NewService(store, &fakeOrderCounter{placed: map[uuid.UUID]int64{}}, nil)

	if err := svc.Deactivate(context.Background(), customer.ID); err != nil {
		t.Fatalf("first Deactivate: %v", err)
	}

	err := svc.Deactivate(context.Background(), customer.ID)
	typed := errors.As(err)
	if typed == nil || typed.Code() != errors.CodeConflict {
		t.Fatalf("expected CONFLICT on already deactivated, got %v", err)
	}
	if len(store.deleted) != 1 {
		t.Errorf("SoftDelete calls = %d, want 1", len(store.deleted))
	}
}

func TestDeactivateUnknownCustomer(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeOrderCounter{placed: map[uuid.UUID]int64{}}, nil)
	err := svc.Deactivate(context.Background(), uuid.New())
	typed := errors.As(err)
	if typed == nil || typed.Code() != errors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	customer := &models.Customer{ID: uuid.New(), Email: "jane@shop.vn", FullName: "Jane", IsActive: true}
	store := newFakeStore(customer)
	svc := NewService(store, &fakeOrderCounter{placed: map[uuid.UUID]int64{}}, nil)

	newName := "Jane Updated"
	resp, err := svc.UpdateProfileByEmail(context.Background(), "Jane@Shop.VN", UpdateProfileRequest{FullName: &newName})
	if err != nil {
		t.Fatalf("UpdateProfileByEmail: %v", err)
	}
	if resp.FullName != "Jane Updated" {
		t.Errorf("full name = %q", resp.FullName)
	}
}

func TestUpdateProfileBlankName(t *testing.T) {
	customer := &models.Customer{ID: uuid.New(), Email: "jane@shop.vn", FullName: "Jane", IsActive: true}
	svc := NewService(newFakeStore(customer), &fakeOrderCounter{placed: map[uuid.UUID]int64{}}, nil)

	blank := "   "
	_, err := svc.UpdateProfileByEmail(context.Background(), "jane@shop.vn", UpdateProfileRequest{FullName: &blank})
	typed := errors.As(err)
	if typed == nil || typed.Code() != errors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}
