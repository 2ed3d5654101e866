// Package identity owns the user directory: password verification with
// failure lockout, role and claim lookups, and account provisioning.
package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/tracknorth/basecamp/internal/auth/domain"
	"github.com/tracknorth/basecamp/internal/auth/store"
	"github.com/tracknorth/basecamp/pkg/cryptox"
)

const (
	// MaxFailedAttempts is the number of consecutive bad passwords before an
	// account is locked.
	MaxFailedAttempts = 5

	// LockoutDuration is how long a locked account stays locked.
	LockoutDuration = 15 * time.Minute

	minPasswordLength = 8
	maxUsernameLength = 64
)

var (
	ErrBadPassword = errors.New("identity: password mismatch")
	ErrLockedOut   = errors.New("identity: account locked")

	usernamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{2,}$`)
)

// ValidationError carries a message safe to show to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Directory wraps the user store with credential policy. All verification
// paths update the failure counters as a side effect.
type Directory struct {
	store store.Store
	now   func() time.Time
}

func NewDirectory(s store.Store, now func() time.Time) *Directory {
	if now == nil {
		now = time.Now
	}
	return &Directory{store: s, now: now}
}

// FindByUsername returns the user record for a username, store.ErrNotFound
// when none exists.
func (d *Directory) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return d.store.Users().GetUserByUsername(ctx, username)
}

func (d *Directory) FindByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return d.store.Users().GetUserByID(ctx, id)
}

// VerifyPassword checks the presented password against the stored hash.
// A locked account fails with ErrLockedOut before the hash is consulted.
// A mismatch increments the failure counter and locks the account once it
// reaches MaxFailedAttempts; a match resets the counter.
func (d *Directory) VerifyPassword(ctx context.Context, user domain.User, password string) error {
	now := d.now().UTC()

	if user.LockedOut(now) {
		return ErrLockedOut
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			return err
		}

		attempts := user.FailedAttempts + 1
		var lockedUntil *time.Time
		if attempts >= MaxFailedAttempts {
			t := now.Add(LockoutDuration)
			lockedUntil = &t
		}
		if err := d.store.Users().RecordLoginFailure(ctx, user.ID, attempts, lockedUntil); err != nil {
			return fmt.Errorf("record login failure: %w", err)
		}
		return ErrBadPassword
	}

	if user.FailedAttempts > 0 || user.LockedUntil != nil {
		if err := d.store.Users().ResetLoginFailures(ctx, user.ID); err != nil {
			return fmt.Errorf("reset login failures: %w", err)
		}
	}
	return nil
}

// Roles returns the user's role names.
func (d *Directory) Roles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return d.store.Users().GetUserRoles(ctx, userID)
}

// Claims returns the user's custom claims keyed by claim type.
func (d *Directory) Claims(ctx context.Context, userID uuid.UUID) (map[string]string, error) {
	claims, err := d.store.Users().GetUserClaims(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(claims) == 0 {
		return nil, nil
	}

	out := make(map[string]string, len(claims))
	for _, c := range claims {
		out[c.Type] = c.Value
	}
	return out, nil
}

// NewUser is the provisioning request for CreateUser.
type NewUser struct {
	Username    string
	DisplayName string
	Password    string
	Roles       []string
}

// CreateUser validates and provisions a new account. Validation failures are
// returned as *ValidationError; a taken username maps to
// store.ErrAlreadyExists.
func (d *Directory) CreateUser(ctx context.Context, req NewUser) (domain.User, error) {
	if err := validateNewUser(req); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := d.now().UTC()
	user := domain.User{
		ID:           uuid.New(),
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = d.store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}
		for _, role := range req.Roles {
			if err := tx.Users().AddUserRole(ctx, user.ID, role); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func validateNewUser(req NewUser) error {
	switch {
	case !usernamePattern.MatchString(req.Username) || len(req.Username) > maxUsernameLength:
		return &ValidationError{Message: "username must be 3-64 lowercase letters, digits, '.', '_' or '-'"}
	case req.DisplayName == "":
		return &ValidationError{Message: "display name is required"}
	case len(req.Password) < minPasswordLength:
		return &ValidationError{Message: fmt.Sprintf("password must be at least %d characters", minPasswordLength)}
	}
	return nil
}
