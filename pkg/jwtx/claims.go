package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Default token lifetimes. Bearer tokens stay short so a leaked one ages out
// quickly; refresh tokens carry the long tail of a signed-in device.
const (
	DefaultBearerTTL  = time.Hour
	DefaultRefreshTTL = 28 * 24 * time.Hour
)

// Claims are the bearer-token claims. Keep changes additive so older tokens
// verify until they expire.
type Claims struct {
	jwt.RegisteredClaims

	// DisplayName is the subject's human-facing name.
	DisplayName string `json:"display_name,omitempty"`

	// Roles the subject holds, e.g. ["admin", "surveyor"].
	Roles []string `json:"roles,omitempty"`

	// UserClaims carries arbitrary type/value assertions supplied by the
	// credential directory.
	UserClaims map[string]string `json:"claims,omitempty"`
}

// NewBearerClaims builds minimally-correct claims: nbf = iat = now,
// exp = now + ttl, and a fresh random jti.
func NewBearerClaims(
	subject uuid.UUID,
	displayName string,
	roles []string,
	userClaims map[string]string,
	issuer string,
	ttl time.Duration,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		DisplayName: displayName,
		Roles:       roles,
		UserClaims:  userClaims,
	}
}

// HasRole reports whether the claims carry the given role.
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}
