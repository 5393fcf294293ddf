package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenClaims is the typed JWT payload issued to clients. The subject
// carries the principal's email, which is its stable identifier across both
// principal kinds.
type AccessTokenClaims struct {
	jwt.RegisteredClaims
}
