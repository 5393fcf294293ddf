package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
	"github.com/leonfashion/fashionshop-backend/pkg/errors"
)

type fakeUserRegistry struct {
	existing map[string]struct{}
	created  []*models.User
}

func (f *fakeUserRegistry) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := f.existing[email]
	return ok, nil
}

func (f *fakeUserRegistry) Create(_ context.Context, user *models.User) error {
	f.created = append(f.created, user)
	return nil
}

type fakeRoleFinder struct {
	roles map[string]*models.Role
}

func (f *fakeRoleFinder) FindByName(_ context.Context, name string) (*models.Role, error) {
	role, ok := f.roles[name]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return role, nil
}

func adminFinder() *fakeRoleFinder {
	return &fakeRoleFinder{roles: map[string]*models.Role{
		"admin": {Name: "admin", Permissions: []models.Permission{{Name: "USERS.READ"}}},
	}}
}

func TestRegisterAdminAttachesAdminRole(t *testing.T) {
	registry := &fakeUserRegistry{}
	svc := NewAdminRegisterService(registry, adminFinder(), testJWTCfg, testPwCfg, nil)

	resp, err := svc.RegisterAdmin(context.Background(), RegisterAdminRequest{
		Email:    "New@Shop.VN",
		Password: "long-enough-pw",
		FullName: "New Admin",
	})
	if err != nil {
		t.Fatalf("RegisterAdmin: %v", err)
	}
	if resp.Email != "new@shop.vn" {
		t.Errorf("email not normalized: %q", resp.Email)
	}
	if len(registry.created) != 1 {
		t.Fatalf("created %d users", len(registry.created))
	}
	user := registry.created[0]
	if !user.IsActive {
		t.Error("new admin must start active")
	}
	if len(user.Roles) != 1 || user.Roles[0].Name != "admin" {
		t.Errorf("roles = %v, want only admin", user.Roles)
	}
	if user.PasswordHash == "long-enough-pw" {
		t.Error("password stored in the clear")
	}
	wantAuthorities := []string{"ROLE_ADMIN", "USERS.READ"}
	if len(resp.Authorities) != len(wantAuthorities) {
		t.Fatalf("authorities = %v, want %v", resp.Authorities, wantAuthorities)
	}
	for i := range wantAuthorities {
		if resp.Authorities[i] != wantAuthorities[i] {
			t.Errorf("authorities = %v, want %v", resp.Authorities, wantAuthorities)
		}
	}
}

func TestRegisterAdminDuplicateEmail(t *testing.T) {
	registry := &fakeUserRegistry{existing: map[string]struct{}{
		"taken@shop.vn": {},
	}}
	svc := NewAdminRegisterService(registry, adminFinder(), testJWTCfg, testPwCfg, nil)

	_, err := svc.RegisterAdmin(context.Background(), RegisterAdminRequest{
		Email:    "taken@shop.vn",
		Password: "long-enough-pw",
		FullName: "Dup",
	})
	typed := errors.As(err)
	if typed == nil || typed.Code() != errors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestRegisterAdminRoleNotSeeded(t *testing.T) {
	svc := NewAdminRegisterService(&fakeUserRegistry{}, &fakeRoleFinder{}, testJWTCfg, testPwCfg, nil)

	_, err := svc.RegisterAdmin(context.Background(), RegisterAdminRequest{
		Email:    "new@shop.vn",
		Password: "long-enough-pw",
		FullName: "New Admin",
	})
	typed := errors.As(err)
	if typed == nil || typed.Code() != errors.CodeDependency {
		t.Fatalf("expected DEPENDENCY_ERROR, got %v", err)
	}
}

func TestRegisterAdminShortPassword(t *testing.T) {
	svc := NewAdminRegisterService(&fakeUserRegistry{}, adminFinder(), testJWTCfg, testPwCfg, nil)

	_, err := svc.RegisterAdmin(context.Background(), RegisterAdminRequest{
		Email:    "new@shop.vn",
		Password: "short",
		FullName: "New Admin",
	})
	typed := errors.As(err)
	if typed == nil || typed.Code() != errors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}
