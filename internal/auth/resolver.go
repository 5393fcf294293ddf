package auth

import (
	"context"
	stdErrors "errors"

	"github.com/leonfashion/fashionshop-backend/pkg/enums"
	"github.com/leonfashion/fashionshop-backend/pkg/types"
	"gorm.io/gorm"
)

// Resolver maps a token subject to a request principal. Admin users win over
// customers when both directories know the email.
type Resolver struct {
	users     UserDirectory
	customers CustomerDirectory
}

func NewResolver(users UserDirectory, customers CustomerDirectory) *Resolver {
	return &Resolver{users: users, customers: customers}
}

// Resolve returns nil without an error when no active identity owns the
// email; the caller treats that request as anonymous. A store failure is
// returned, never folded into "unknown subject".
func (r *Resolver) Resolve(ctx context.Context, email string) (*types.Principal, error) {
	if r == nil {
		return nil, nil
	}

	if r.users != nil {
		user, err := r.users.FindActiveByEmail(ctx, email)
		switch {
		case err != nil && !stdErrors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		case err == nil && user != nil:
			return &types.Principal{
				Kind:        enums.PrincipalKindUser,
				Email:       user.Email,
				FullName:    user.FullName,
				Authorities: ComputeAuthorities(user.Roles),
			}, nil
		}
	}

	if r.customers != nil {
		customer, err := r.customers.FindActiveByEmail(ctx, email)
		switch {
		case err != nil && !stdErrors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		case err == nil && customer != nil:
			return &types.Principal{
				Kind:        enums.PrincipalKindCustomer,
				Email:       customer.Email,
				FullName:    customer.FullName,
				Authorities: []string{},
			}, nil
		}
	}

	return nil, nil
}
