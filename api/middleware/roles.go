package middleware

import (
	"net/http"
	"strings"

	"github.com/leonfashion/fashionshop-backend/api/responses"
	pkgerrors "github.com/leonfashion/fashionshop-backend/pkg/errors"
	"github.com/leonfashion/fashionshop-backend/pkg/logger"
)

const rolePrefix = "ROLE_"

// RequireAuthenticated rejects anonymous requests.
func RequireAuthenticated(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if PrincipalFromContext(r.Context()) == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyRole rejects requests whose principal holds none of the listed
// roles. Anonymous requests get 401, authenticated ones without the role 403.
func RequireAnyRole(logg *logger.Logger, roles ...string) func(http.Handler) http.Handler {
	wanted := make([]string, 0, len(roles))
	for _, role := range roles {
		wanted = append(wanted, rolePrefix+strings.ToUpper(strings.TrimSpace(role)))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if principal == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			for _, authority := range wanted {
				if principal.HasAuthority(authority) {
					next.ServeHTTP(w, r)
					return
				}
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "access denied"))
		})
	}
}

// RequireRole is RequireAnyRole with a single role.
func RequireRole(logg *logger.Logger, role string) func(http.Handler) http.Handler {
	return RequireAnyRole(logg, role)
}

// RequirePermission rejects requests whose principal lacks the named
// permission authority. Matching is verbatim against the stored name.
func RequirePermission(logg *logger.Logger, permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if principal == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			if !principal.HasAuthority(permission) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "access denied"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
