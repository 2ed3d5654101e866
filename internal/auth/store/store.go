package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tracknorth/basecamp/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict reports a lost write race (e.g. an optimistic update that
	// matched zero rows). Callers recover from it at the domain level; it is
	// not an infrastructure failure.
	ErrConflict = errors.New("store: write conflict")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and to stop callers from accidentally nesting transactions.
type Store interface {
	Users() Users
	Clients() Clients
	RefreshTokens() RefreshTokens
	AuthEvents() AuthEvents

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back when fn errors
	// and committing otherwise. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id uuid.UUID) (domain.User, error)

	// GetUserByUsername is used during password authentication.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user. Returns ErrAlreadyExists on a username
	// collision.
	CreateUser(ctx context.Context, u domain.User) error

	// RecordLoginFailure stores the bumped failure counter and, once the
	// threshold is crossed, the lockout deadline.
	RecordLoginFailure(ctx context.Context, userID uuid.UUID, attempts int, lockedUntil *time.Time) error

	// ResetLoginFailures clears the counter and lockout after a successful
	// authentication.
	ResetLoginFailures(ctx context.Context, userID uuid.UUID) error

	// GetUserRoles returns the role names held by the user.
	GetUserRoles(ctx context.Context, userID uuid.UUID) ([]string, error)

	// GetUserClaims returns the directory claims attached to the user.
	GetUserClaims(ctx context.Context, userID uuid.UUID) ([]domain.Claim, error)

	// AddUserRole attaches a role; adding an existing role is a no-op.
	AddUserRole(ctx context.Context, userID uuid.UUID, role string) error

	// AddUserClaim attaches or replaces a claim of the same type.
	AddUserClaim(ctx context.Context, userID uuid.UUID, claim domain.Claim) error
}

type Clients interface {
	// GetClientByID fetches a registered client application.
	GetClientByID(ctx context.Context, id uuid.UUID) (domain.ClientApplication, error)

	// CreateClient registers a client application.
	CreateClient(ctx context.Context, c domain.ClientApplication) error

	// ListClients returns all registered clients, newest first.
	ListClients(ctx context.Context) ([]domain.ClientApplication, error)
}

type RefreshTokens interface {
	// CreateRefreshToken stores a new refresh token record.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByFingerprint returns the token record for a presented
	// value's fingerprint.
	GetRefreshTokenByFingerprint(ctx context.Context, fingerprint string) (domain.RefreshToken, error)

	// RedeemRefreshToken atomically flips invalidated on a currently-valid,
	// non-expired token. Of any number of concurrent redemptions of the same
	// fingerprint, exactly one returns true; the rest see the token already
	// spent and return false.
	RedeemRefreshToken(ctx context.Context, fingerprint string, now time.Time) (bool, error)

	// InvalidateAllUserRefreshTokens revokes every currently-valid,
	// non-expired token belonging to the user. Other users' rows are never
	// touched.
	InvalidateAllUserRefreshTokens(ctx context.Context, userID uuid.UUID, now time.Time) error

	// InvalidateUserRefreshToken revokes one token only if it belongs to the
	// user and is currently valid; reports whether such a row was found.
	InvalidateUserRefreshToken(ctx context.Context, userID uuid.UUID, fingerprint string, now time.Time) (bool, error)
}

type AuthEvents interface {
	// AppendAuthEvent writes one audit record. Records are append-only;
	// nothing updates or deletes them.
	AppendAuthEvent(ctx context.Context, e domain.AuthEvent) error

	// ListUserAuthEvents returns the most recent events for a user, newest
	// first, capped at limit.
	ListUserAuthEvents(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AuthEvent, error)
}
