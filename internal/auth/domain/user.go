package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID
	Username       string
	DisplayName    string
	PasswordHash   string // argon2id, PHC encoded
	FailedAttempts int
	LockedUntil    *time.Time // nil when the account has never been locked
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LockedOut reports whether the account is locked at the given instant.
func (u User) LockedOut(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// Claim is a name/value assertion about a user that gets carried into bearer
// tokens alongside role claims.
type Claim struct {
	Type  string
	Value string
}
