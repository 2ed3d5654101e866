package domain

import (
	"time"

	"github.com/google/uuid"
)

// RefreshTokenSize is the raw byte length of opaque refresh token values.
// 64 random bytes make collisions across all time a non-concern.
const RefreshTokenSize = 64

// RefreshToken models the stored refresh token record. The opaque value never
// touches the database; rows are keyed by its deterministic fingerprint.
//
// Rows are never deleted. Once Invalidated flips to true it never reverts, so
// spent and revoked tokens remain behind as an audit artifact.
type RefreshToken struct {
	Fingerprint string // base64url SHA-256 of the opaque value
	UserID      uuid.UUID
	ClientID    uuid.UUID
	IssuedAt    time.Time
	ExpiresAt   time.Time
	Invalidated bool
	IPAddress   string
	UserAgent   string
}

// Usable reports whether the token could still be redeemed at the given
// instant. Expiry wins over the invalidated flag: an expired token is dead
// regardless of what the flag says.
func (t RefreshToken) Usable(now time.Time) bool {
	return !t.Invalidated && now.Before(t.ExpiresAt)
}

// AuthResult is what a successful authentication hands back to the
// caller-facing layer. The concurrency stamp is echoed byte-for-byte; callers
// use it to detect stale responses, the service never interprets it.
type AuthResult struct {
	UserID           uuid.UUID
	DisplayName      string
	ClientID         uuid.UUID
	BearerToken      string
	BearerExpiresAt  time.Time
	RefreshToken     string // base64url opaque value; empty unless a new one was requested
	ConcurrencyStamp string
	IPAddress        string
	UserAgent        string
}
