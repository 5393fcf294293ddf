package types

import "github.com/leonfashion/fashionshop-backend/pkg/enums"

// Principal is the authenticated identity attached to a request. Customers
// always carry an empty authority set.
type Principal struct {
	Kind        enums.PrincipalKind
	Email       string
	FullName    string
	Authorities []string
}

// HasAuthority reports whether the principal holds the exact authority.
func (p *Principal) HasAuthority(authority string) bool {
	if p == nil {
		return false
	}
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}
