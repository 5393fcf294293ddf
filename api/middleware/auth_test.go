package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgauth "github.com/leonfashion/fashionshop-backend/pkg/auth"
	"github.com/leonfashion/fashionshop-backend/pkg/config"
	"github.com/leonfashion/fashionshop-backend/pkg/enums"
	"github.com/leonfashion/fashionshop-backend/pkg/types"
)

var testJWTCfg = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "fashionshop",
	ExpirationMinutes: 30,
}

type staticResolver struct {
	principals map[string]*types.Principal
}

func (s *staticResolver) Resolve(_ context.Context, email string) (*types.Principal, error) {
	return s.principals[email], nil
}

func adminResolver(t *testing.T) *staticResolver {
	t.Helper()
	return &staticResolver{principals: map[string]*types.Principal{
		"admin@shop.vn": {
			Kind:        enums.PrincipalKindUser,
			Email:       "admin@shop.vn",
			Authorities: []string{"ROLE_ADMIN", "USERS.READ"},
		},
		"jane@shop.vn": {
			Kind:        enums.PrincipalKindCustomer,
			Email:       "jane@shop.vn",
			Authorities: []string{},
		},
	}}
}

func principalEcho(t *testing.T, got **types.Principal) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func mintToken(t *testing.T, subject string) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(testJWTCfg, time.Now(), subject)
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}
	return token
}

func TestAuthenticateResolvesPrincipal(t *testing.T) {
	var got *types.Principal
	handler := Authenticate(testJWTCfg, adminResolver(t), nil)(principalEcho(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "admin@shop.vn"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got == nil || got.Email != "admin@shop.vn" {
		t.Fatalf("principal = %+v", got)
	}
	if !got.HasAuthority("ROLE_ADMIN") {
		t.Error("authorities not attached")
	}
}

func TestAuthenticatePassesThroughAnonymous(t *testing.T) {
	cases := map[string]func(*http.Request){
		"no header":       func(*http.Request) {},
		"empty bearer":    func(r *http.Request) { r.Header.Set("Authorization", "Bearer ") },
		"not bearer":      func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") },
		"garbage token":   func(r *http.Request) { r.Header.Set("Authorization", "Bearer not.a.jwt") },
		"unknown subject": func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+mintToken(t, "ghost@shop.vn")) },
		"wrong key": func(r *http.Request) {
			other := config.JWTConfig{Secret: "other-secret", Issuer: "fashionshop", ExpirationMinutes: 30}
			token, err := pkgauth.MintAccessToken(other, time.Now(), "admin@shop.vn")
			if err != nil {
				t.Fatalf("minting token: %v", err)
			}
			r.Header.Set("Authorization", "Bearer "+token)
		},
	}

	for name, arrange := range cases {
		t.Run(name, func(t *testing.T) {
			var got *types.Principal
			handler := Authenticate(testJWTCfg, adminResolver(t), nil)(principalEcho(t, &got))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			arrange(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("gate must never reject, status = %d", rec.Code)
			}
			if got != nil {
				t.Errorf("expected anonymous request, got principal %+v", got)
			}
		})
	}
}

type failingResolver struct{}

func (failingResolver) Resolve(context.Context, string) (*types.Principal, error) {
	return nil, fmt.Errorf("connection refused")
}

func TestAuthenticateResolverOutageStaysAnonymous(t *testing.T) {
	var got *types.Principal
	handler := Authenticate(testJWTCfg, failingResolver{}, nil)(principalEcho(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "admin@shop.vn"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("gate must never reject, status = %d", rec.Code)
	}
	if got != nil {
		t.Errorf("expected anonymous request, got principal %+v", got)
	}
}

func TestRequireAnyRole(t *testing.T) {
	protected := RequireAnyRole(nil, "admin", "superadmin")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("anonymous gets 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("wrong role gets 403", func(t *testing.T) {
		principal := &types.Principal{Kind: enums.PrincipalKindUser, Email: "staff@shop.vn", Authorities: []string{"ROLE_STAFF"}}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithPrincipal(req.Context(), principal))
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("matching role passes", func(t *testing.T) {
		principal := &types.Principal{Kind: enums.PrincipalKindUser, Email: "admin@shop.vn", Authorities: []string{"ROLE_ADMIN"}}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithPrincipal(req.Context(), principal))
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("customer with empty authorities gets 403", func(t *testing.T) {
		principal := &types.Principal{Kind: enums.PrincipalKindCustomer, Email: "jane@shop.vn", Authorities: []string{}}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithPrincipal(req.Context(), principal))
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})
}

func TestRequirePermissionVerbatimMatch(t *testing.T) {
	protected := RequirePermission(nil, "USERS.READ")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	principal := &types.Principal{Kind: enums.PrincipalKindUser, Email: "x@shop.vn", Authorities: []string{"users.read"}}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithPrincipal(req.Context(), principal))
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("lower case authority must not satisfy upper case permission, status = %d", rec.Code)
	}
}

func TestRequireAuthenticatedAllowsCustomer(t *testing.T) {
	protected := RequireAuthenticated(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	principal := &types.Principal{Kind: enums.PrincipalKindCustomer, Email: "jane@shop.vn", Authorities: []string{}}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithPrincipal(req.Context(), principal))
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
