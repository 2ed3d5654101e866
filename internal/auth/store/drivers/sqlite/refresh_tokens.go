package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/tracknorth/basecamp/internal/auth/domain"
)

type refreshTokensRepo struct {
	q dbtx
}

const refreshTokenColumns = `fingerprint, user_id, client_id, issued_at, expires_at, invalidated, ip_address, user_agent`

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO refresh_tokens (`+refreshTokenColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Fingerprint,
		t.UserID.String(),
		t.ClientID.String(),
		t.IssuedAt,
		t.ExpiresAt,
		t.Invalidated,
		t.IPAddress,
		t.UserAgent,
	)
	return mapUnique(err)
}

func (r *refreshTokensRepo) GetRefreshTokenByFingerprint(
	ctx context.Context,
	fingerprint string,
) (domain.RefreshToken, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+refreshTokenColumns+` FROM refresh_tokens WHERE fingerprint = ?`, fingerprint)
	return scanRefreshToken(row)
}

// RedeemRefreshToken is the single-use gate. The conditional UPDATE is the
// whole compare-and-swap: sqlite serializes writers, so of N concurrent
// redemptions of one fingerprint exactly one matches a row with
// invalidated = 0 and the rest see zero rows affected.
func (r *refreshTokensRepo) RedeemRefreshToken(
	ctx context.Context,
	fingerprint string,
	now time.Time,
) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE refresh_tokens
		SET invalidated = 1
		WHERE fingerprint = ? AND invalidated = 0 AND expires_at > ?`,
		fingerprint, now,
	)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *refreshTokensRepo) InvalidateAllUserRefreshTokens(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE refresh_tokens
		SET invalidated = 1
		WHERE user_id = ? AND invalidated = 0 AND expires_at > ?`,
		userID.String(), now,
	)
	return err
}

func (r *refreshTokensRepo) InvalidateUserRefreshToken(
	ctx context.Context,
	userID uuid.UUID,
	fingerprint string,
	now time.Time,
) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE refresh_tokens
		SET invalidated = 1
		WHERE fingerprint = ? AND user_id = ? AND invalidated = 0 AND expires_at > ?`,
		fingerprint, userID.String(), now,
	)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func scanRefreshToken(row *sql.Row) (domain.RefreshToken, error) {
	var (
		t              domain.RefreshToken
		userID, client string
	)
	err := row.Scan(
		&t.Fingerprint,
		&userID,
		&client,
		&t.IssuedAt,
		&t.ExpiresAt,
		&t.Invalidated,
		&t.IPAddress,
		&t.UserAgent,
	)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}

	if t.UserID, err = uuid.Parse(userID); err != nil {
		return domain.RefreshToken{}, err
	}
	if t.ClientID, err = uuid.Parse(client); err != nil {
		return domain.RefreshToken{}, err
	}
	return t, nil
}
