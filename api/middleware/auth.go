package middleware

import (
	"context"
	"net/http"
	"strings"

	pkgauth "github.com/leonfashion/fashionshop-backend/pkg/auth"
	"github.com/leonfashion/fashionshop-backend/pkg/config"
	"github.com/leonfashion/fashionshop-backend/pkg/logger"
	"github.com/leonfashion/fashionshop-backend/pkg/types"
)

// PrincipalResolver maps a verified token subject to a request principal.
// A nil principal with a nil error means the subject is unknown.
type PrincipalResolver interface {
	Resolve(ctx context.Context, email string) (*types.Principal, error)
}

// Authenticate extracts and verifies the bearer token, resolving the subject
// into a principal. The gate never rejects: a missing, malformed, expired or
// unresolvable token simply leaves the request anonymous, so downstream
// authorization decides the outcome and token probing cannot distinguish a
// bad signature from an unknown account.
func Authenticate(cfg config.JWTConfig, resolver PrincipalResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			subject := pkgauth.ExtractSubject(cfg, token)
			if subject == "" {
				next.ServeHTTP(w, r)
				return
			}

			if resolver == nil {
				next.ServeHTTP(w, r)
				return
			}
			principal, err := resolver.Resolve(r.Context(), subject)
			if err != nil {
				// The request proceeds anonymously, but an outage that strips
				// authorities must leave a trace.
				if logg != nil {
					logg.Error(r.Context(), "resolving principal failed", err)
				}
				next.ServeHTTP(w, r)
				return
			}
			if principal == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithPrincipal(r.Context(), principal)
			if logg != nil {
				ctx = logg.WithPrincipal(ctx, principal.Kind.String(), principal.Email)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return ""
}
