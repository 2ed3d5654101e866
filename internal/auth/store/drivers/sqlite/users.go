package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/tracknorth/basecamp/internal/auth/domain"
)

type usersRepo struct {
	q dbtx
}

const userColumns = `id, username, display_name, password_hash, failed_attempts, locked_until, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id.String())
	return scanUser(row)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (id, username, display_name, password_hash, failed_attempts, locked_until, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID.String(),
		u.Username,
		u.DisplayName,
		u.PasswordHash,
		u.FailedAttempts,
		optionalTime(u.LockedUntil),
		u.CreatedAt,
		u.UpdatedAt,
	)
	return mapUnique(err)
}

func (r *usersRepo) RecordLoginFailure(
	ctx context.Context,
	userID uuid.UUID,
	attempts int,
	lockedUntil *time.Time,
) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET failed_attempts = ?, locked_until = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		attempts, optionalTime(lockedUntil), userID.String(),
	)
	return err
}

func (r *usersRepo) ResetLoginFailures(ctx context.Context, userID uuid.UUID) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET failed_attempts = 0, locked_until = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		userID.String(),
	)
	return err
}

func (r *usersRepo) GetUserRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT role FROM user_roles WHERE user_id = ? ORDER BY role`, userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *usersRepo) GetUserClaims(ctx context.Context, userID uuid.UUID) ([]domain.Claim, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT claim_type, claim_value FROM user_claims WHERE user_id = ? ORDER BY claim_type`,
		userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claims []domain.Claim
	for rows.Next() {
		var c domain.Claim
		if err := rows.Scan(&c.Type, &c.Value); err != nil {
			return nil, err
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

func (r *usersRepo) AddUserRole(ctx context.Context, userID uuid.UUID, role string) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role) VALUES (?, ?)
		ON CONFLICT (user_id, role) DO NOTHING`,
		userID.String(), role,
	)
	return err
}

func (r *usersRepo) AddUserClaim(ctx context.Context, userID uuid.UUID, claim domain.Claim) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO user_claims (user_id, claim_type, claim_value) VALUES (?, ?, ?)
		ON CONFLICT (user_id, claim_type) DO UPDATE SET claim_value = excluded.claim_value`,
		userID.String(), claim.Type, claim.Value,
	)
	return err
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u           domain.User
		id          string
		lockedUntil sql.NullTime
	)
	err := row.Scan(
		&id,
		&u.Username,
		&u.DisplayName,
		&u.PasswordHash,
		&u.FailedAttempts,
		&lockedUntil,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.ID, err = uuid.Parse(id)
	if err != nil {
		return domain.User{}, err
	}
	if lockedUntil.Valid {
		t := lockedUntil.Time
		u.LockedUntil = &t
	}
	return u, nil
}

func optionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
