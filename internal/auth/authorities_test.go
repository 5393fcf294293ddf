package auth

import (
	"reflect"
	"testing"

	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
)

func TestComputeAuthorities(t *testing.T) {
	roles := []models.Role{
		{
			Name: "admin",
			Permissions: []models.Permission{
				{Name: "USERS.READ"},
				{Name: "USERS.WRITE"},
			},
		},
		{
			Name: "staff",
			Permissions: []models.Permission{
				{Name: "USERS.READ"}, // shared with admin, must not duplicate
				{Name: "PRODUCTS.WRITE"},
			},
		},
	}

	got := ComputeAuthorities(roles)
	want := []string{"PRODUCTS.WRITE", "ROLE_ADMIN", "ROLE_STAFF", "USERS.READ", "USERS.WRITE"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ComputeAuthorities = %v, want %v", got, want)
	}
}

func TestComputeAuthoritiesRoleWithoutPermissions(t *testing.T) {
	got := ComputeAuthorities([]models.Role{{Name: "staff"}})
	want := []string{"ROLE_STAFF"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ComputeAuthorities = %v, want %v", got, want)
	}
}

func TestComputeAuthoritiesEmpty(t *testing.T) {
	if got := ComputeAuthorities(nil); len(got) != 0 {
		t.Errorf("expected empty set, got %v", got)
	}
}

func TestHasRole(t *testing.T) {
	authorities := []string{"ROLE_ADMIN", "USERS.READ"}
	if !HasRole(authorities, "admin") {
		t.Error("HasRole(admin) = false")
	}
	if !HasRole(authorities, "ADMIN") {
		t.Error("HasRole should be case insensitive on input")
	}
	if HasRole(authorities, "staff") {
		t.Error("HasRole(staff) = true")
	}
}

func TestHasAuthority(t *testing.T) {
	authorities := []string{"ROLE_ADMIN", "USERS.READ"}
	if !HasAuthority(authorities, "USERS.READ") {
		t.Error("HasAuthority(USERS.READ) = false")
	}
	if HasAuthority(authorities, "users.read") {
		t.Error("permission matching must be verbatim, not case folded")
	}
}
