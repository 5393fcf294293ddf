package enums

// PrincipalKind distinguishes the two disjoint authenticatable identities.
type PrincipalKind string

const (
	PrincipalKindUser     PrincipalKind = "user"
	PrincipalKindCustomer PrincipalKind = "customer"
)

// String implements fmt.Stringer.
func (p PrincipalKind) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PrincipalKind.
func (p PrincipalKind) IsValid() bool {
	return p == PrincipalKindUser || p == PrincipalKindCustomer
}
