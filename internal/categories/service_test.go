package categories

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
	"github.com/leonfashion/fashionshop-backend/pkg/errors"
	"github.com/leonfashion/fashionshop-backend/pkg/pagination"
	"gorm.io/gorm"
)

type fakeStore struct {
	byID     map[uuid.UUID]*models.Category
	products map[uuid.UUID]int64
}

func newFakeStore(categories ...*models.Category) *fakeStore {
	store := &fakeStore{
		byID:     map[uuid.UUID]*models.Category{},
		products: map[uuid.UUID]int64{},
	}
	for _, category := range categories {
		store.byID[category.ID] = category
	}
	return store
}

func (f *fakeStore) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	category, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return category, nil
}

func (f *fakeStore) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	for _, category := range f.byID {
		if strings.EqualFold(category.Slug, slug) {
			return category, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) Create(_ context.Context, category *models.Category) error {
	category.ID = uuid.New()
	f.byID[category.ID] = category
	return nil
}

func (f *fakeStore) Save(_ context.Context, category *models.Category) error {
	f.byID[category.ID] = category
	return nil
}

func (f *fakeStore) List(_ context.Context, _ pagination.Params, activeOnly bool) ([]models.Category, int64, error) {
	out := make([]models.Category, 0, len(f.byID))
	for _, category := range f.byID {
		if activeOnly && !category.IsActive {
			continue
		}
		out = append(out, *category)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeStore) CountProducts(_ context.Context, categoryID uuid.UUID) (int64, error) {
	return f.products[categoryID], nil
}

func TestCreateSlugFromName(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	resp, err := svc.Create(context.Background(), CreateCategoryRequest{Name: "Áo Sơ Mi Nữ"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.Slug != "ao-so-mi-nu" {
		t.Errorf("slug = %q, want ao-so-mi-nu", resp.Slug)
	}
	if !resp.IsActive {
		t.Error("categories default to active")
	}
}

func TestCreateExplicitSlugWins(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	explicit := "Summer SALE"
	resp, err := svc.Create(context.Background(), CreateCategoryRequest{Name: "Anything", Slug: &explicit})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.Slug != "summer-sale" {
		t.Errorf("slug = %q, want summer-sale", resp.Slug)
	}
}

func TestCreateSlugConflict(t *testing.T) {
	existing := &models.Category{ID: uuid.New(), Name: "Shirts", Slug: "shirts"}
	svc := NewService(newFakeStore(existing), nil)

	_, err := svc.Create(context.Background(), CreateCategoryRequest{Name: "SHIRTS"})
	typed := errors.As(err)
	if typed == nil || typed.Code() != errors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestUpdateKeepingOwnSlugIsNotAConflict(t *testing.T) {
	existing := &models.Category{ID: uuid.New(), Name: "Shirts", Slug: "shirts", IsActive: true}
	svc := NewService(newFakeStore(existing), nil)

	sameSlug := "Shirts"
	resp, err := svc.Update(context.Background(), existing.ID, UpdateCategoryRequest{Slug: &sameSlug})
	if err != nil {
		t.Fatalf("Update with own slug: %v", err)
	}
	if resp.Slug != "shirts" {
		t.Errorf("slug = %q", resp.Slug)
	}
}

func TestUpdateToTakenSlugConflicts(t *testing.T) {
	a := &models.Category{ID: uuid.New(), Name: "Shirts", Slug: "shirts"}
	b := &models.Category{ID: uuid.New(), Name: "Pants", Slug: "pants"}
	svc := NewService(newFakeStore(a, b), nil)

	taken := "pants"
	_, err := svc.Update(context.Background(), a.ID, UpdateCategoryRequest{Slug: &taken})
	typed := errors.As(err)
	if typed == nil || typed.Code() != errors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestRenameWithoutSlugKeepsSlug(t *testing.T) {
	existing := &models.Category{ID: uuid.New(), Name: "Shirts", Slug: "shirts", IsActive: true}
	svc := NewService(newFakeStore(existing), nil)

	newName := "Button Downs"
	resp, err := svc.Update(context.Background(), existing.ID, UpdateCategoryRequest{Name: &newName})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resp.Slug != "shirts" {
		t.Errorf("slug changed on rename: %q", resp.Slug)
	}
	if resp.Name != "Button Downs" {
		t.Errorf("name = %q", resp.Name)
	}
}

func TestDeleteCategoryWithProducts(t *testing.T) {
	existing := &models.Category{ID: uuid.New(), Name: "Shirts", Slug: "shirts"}
	store := newFakeStore(existing)
	store.products[existing.ID] = 3
	svc := NewService(store, nil)

	err := svc.Delete(context.Background(), existing.ID)
	typed := errors.As(err)
	if typed == nil || typed.Code() != errors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestGetBySlugCaseInsensitive(t *testing.T) {
	existing := &models.Category{ID: uuid.New(), Name: "Shirts", Slug: "shirts"}
	svc := NewService(newFakeStore(existing), nil)

	resp, err := svc.GetBySlug(context.Background(), "SHIRTS")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if resp.ID != existing.ID {
		t.Error("wrong category returned")
	}
}

func TestCreateUnusableSlug(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	_, err := svc.Create(context.Background(), CreateCategoryRequest{Name: "!!!"})
	typed := errors.As(err)
	if typed == nil || typed.Code() != errors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}
