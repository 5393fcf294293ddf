package auth

import (
	"sort"
	"strings"

	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
)

// RolePrefix marks role-derived authorities.
const RolePrefix = "ROLE_"

// ComputeAuthorities flattens a user's roles into the authority set used for
// access decisions. Each role contributes ROLE_<NAME> with the name upper
// cased, plus every permission name verbatim. Duplicates collapse; the result
// is sorted for stable comparison.
func ComputeAuthorities(roles []models.Role) []string {
	seen := make(map[string]struct{})
	for _, role := range roles {
		name := strings.TrimSpace(role.Name)
		if name != "" {
			seen[RolePrefix+strings.ToUpper(name)] = struct{}{}
		}
		for _, perm := range role.Permissions {
			if perm.Name != "" {
				seen[perm.Name] = struct{}{}
			}
		}
	}

	authorities := make([]string, 0, len(seen))
	for authority := range seen {
		authorities = append(authorities, authority)
	}
	sort.Strings(authorities)
	return authorities
}

// HasRole reports whether the authority set contains ROLE_<name>.
func HasRole(authorities []string, role string) bool {
	want := RolePrefix + strings.ToUpper(strings.TrimSpace(role))
	for _, authority := range authorities {
		if authority == want {
			return true
		}
	}
	return false
}

// HasAuthority reports whether the set contains the exact authority string.
func HasAuthority(authorities []string, authority string) bool {
	for _, a := range authorities {
		if a == authority {
			return true
		}
	}
	return false
}
