package middleware

import (
	"context"

	"github.com/leonfashion/fashionshop-backend/pkg/types"
)

type contextKey string

const ctxPrincipal contextKey = "principal"

// PrincipalFromContext returns the authenticated identity, or nil for an
// anonymous request.
func PrincipalFromContext(ctx context.Context) *types.Principal {
	if ctx == nil {
		return nil
	}
	if p, ok := ctx.Value(ctxPrincipal).(*types.Principal); ok {
		return p
	}
	return nil
}

// WithPrincipal injects the principal into the context.
func WithPrincipal(ctx context.Context, principal *types.Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, principal)
}
