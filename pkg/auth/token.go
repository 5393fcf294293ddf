package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/leonfashion/fashionshop-backend/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// MintAccessToken issues a signed JWT binding the subject identifier (the
// principal email) with issuance and expiry timestamps from the configured TTL.
func MintAccessToken(cfg config.JWTConfig, now time.Time, subject string) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if cfg.Issuer == "" {
		return "", fmt.Errorf("jwt issuer is required")
	}
	if cfg.ExpirationMinutes <= 0 {
		return "", fmt.Errorf("jwt expiration minutes must be positive")
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", fmt.Errorf("token subject is required")
	}

	claims := AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TokenTTL())),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// ParseAccessToken validates the JWT string and returns typed claims.
func ParseAccessToken(cfg config.JWTConfig, tokenString string) (*AccessTokenClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &AccessTokenClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, err
	}

	return claims, nil
}

// ValidateAccessToken reports whether the token is well formed, unexpired, and
// bound to the expected subject. It fails closed: cryptographic or structural
// failures are indistinguishable from a mismatched subject.
func ValidateAccessToken(cfg config.JWTConfig, tokenString, expectedSubject string) bool {
	claims, err := ParseAccessToken(cfg, tokenString)
	if err != nil {
		return false
	}
	return claims.Subject != "" && claims.Subject == strings.TrimSpace(expectedSubject)
}

// ExtractSubject decodes the subject from a token on a best-effort basis.
// Malformed or invalid input yields an empty string rather than an error so
// the caller can treat the request as unauthenticated.
func ExtractSubject(cfg config.JWTConfig, tokenString string) string {
	claims, err := ParseAccessToken(cfg, tokenString)
	if err != nil {
		return ""
	}
	return claims.Subject
}
