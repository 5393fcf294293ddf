package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
	"github.com/leonfashion/fashionshop-backend/pkg/enums"
)

type failingUserDirectory struct {
	err error
}

func (f *failingUserDirectory) FindActiveByEmail(context.Context, string) (*models.User, error) {
	return nil, f.err
}

func TestResolveAdminWinsOverCustomer(t *testing.T) {
	users := &fakeUserDirectory{users: map[string]*models.User{
		"both@shop.vn": {Email: "both@shop.vn", Roles: []models.Role{{Name: "admin"}}},
	}}
	customers := &fakeCustomerDirectory{customers: map[string]*models.Customer{
		"both@shop.vn": {Email: "both@shop.vn", IsActive: true},
	}}
	resolver := NewResolver(users, customers)

	principal, err := resolver.Resolve(context.Background(), "both@shop.vn")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if principal == nil || principal.Kind != enums.PrincipalKindUser {
		t.Fatalf("principal = %+v, want admin user", principal)
	}
}

func TestResolveUnknownSubjectIsAnonymous(t *testing.T) {
	resolver := NewResolver(&fakeUserDirectory{}, &fakeCustomerDirectory{})

	principal, err := resolver.Resolve(context.Background(), "ghost@shop.vn")
	if err != nil {
		t.Fatalf("unknown subject must not be an error, got %v", err)
	}
	if principal != nil {
		t.Fatalf("principal = %+v, want nil", principal)
	}
}

func TestResolvePropagatesStoreFailure(t *testing.T) {
	outage := fmt.Errorf("connection refused")
	resolver := NewResolver(&failingUserDirectory{err: outage}, &fakeCustomerDirectory{})

	_, err := resolver.Resolve(context.Background(), "admin@shop.vn")
	if err == nil {
		t.Fatal("store outage must surface, not degrade the request to anonymous silently")
	}
}
