package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuthEvent is one append-only audit record per authentication attempt where
// the subject user is known. Attempts against unknown usernames or unknown
// refresh tokens are deliberately not recorded, so the audit trail cannot be
// used to enumerate valid accounts.
type AuthEvent struct {
	ID                   uuid.UUID
	At                   time.Time
	UserID               uuid.UUID
	ClientID             uuid.UUID
	Success              bool
	IncludedRefreshToken bool
	FailureReason        string // empty on success
	IssuedTokenID        string // jti of the issued bearer token, empty on failure
	IPAddress            string
	UserAgent            string
}
