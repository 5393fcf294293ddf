package permissions

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
	"github.com/leonfashion/fashionshop-backend/pkg/errors"
	"gorm.io/gorm"
)

type fakeStore struct {
	byID   map[uuid.UUID]*models.Permission
	byName map[string]*models.Permission
}

func newFakeStore(perms ...*models.Permission) *fakeStore {
	store := &fakeStore{
		byID:   map[uuid.UUID]*models.Permission{},
		byName: map[string]*models.Permission{},
	}
	for _, perm := range perms {
		store.byID[perm.ID] = perm
		store.byName[perm.Name] = perm
	}
	return store
}

func (f *fakeStore) FindByID(_ context.Context, id uuid.UUID) (*models.Permission, error) {
	perm, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return perm, nil
}

func (f *fakeStore) FindByName(_ context.Context, name string) (*models.Permission, error) {
	perm, ok := f.byName[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return perm, nil
}

func (f *fakeStore) Create(_ context.Context, perm *models.Permission) error {
	perm.ID = uuid.New()
	f.byID[perm.ID] = perm
	f.byName[perm.Name] = perm
	return nil
}

func (f *fakeStore) Save(_ context.Context, perm *models.Permission) error {
	f.byID[perm.ID] = perm
	f.byName[perm.Name] = perm
	return nil
}

func (f *fakeStore) List(_ context.Context) ([]models.Permission, error) {
	out := make([]models.Permission, 0, len(f.byID))
	for _, perm := range f.byID {
		out = append(out, *perm)
	}
	return out, nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	if perm, ok := f.byID[id]; ok {
		delete(f.byName, perm.Name)
		delete(f.byID, id)
	}
	return nil
}

func TestCreateCanonicalizesName(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	resp, err := svc.Create(context.Background(), CreatePermissionRequest{Name: "  orders.read  "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.Name != "ORDERS.READ" {
		t.Errorf("name = %q, want trimmed upper case", resp.Name)
	}
}

func TestCreateDuplicateName(t *testing.T) {
	existing := &models.Permission{ID: uuid.New(), Name: "ORDERS.READ"}
	svc := NewService(newFakeStore(existing), nil)

	_, err := svc.Create(context.Background(), CreatePermissionRequest{Name: "orders.read"})
	typed := errors.As(err)
	if typed == nil || typed.Code() != errors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestUpdateKeepingOwnNameIsNotAConflict(t *testing.T) {
	existing := &models.Permission{ID: uuid.New(), Name: "ORDERS.READ"}
	svc := NewService(newFakeStore(existing), nil)

	same := "orders.read"
	resp, err := svc.Update(context.Background(), existing.ID, UpdatePermissionRequest{Name: &same})
	if err != nil {
		t.Fatalf("Update with own name: %v", err)
	}
	if resp.Name != "ORDERS.READ" {
		t.Errorf("name = %q", resp.Name)
	}
}

func TestUpdateToTakenNameConflicts(t *testing.T) {
	a := &models.Permission{ID: uuid.New(), Name: "ORDERS.READ"}
	b := &models.Permission{ID: uuid.New(), Name: "ORDERS.WRITE"}
	svc := NewService(newFakeStore(a, b), nil)

	taken := "orders.write"
	_, err := svc.Update(context.Background(), a.ID, UpdatePermissionRequest{Name: &taken})
	typed := errors.As(err)
	if typed == nil || typed.Code() != errors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestDeleteUnknownPermission(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	err := svc.Delete(context.Background(), uuid.New())
	typed := errors.As(err)
	if typed == nil || typed.Code() != errors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
