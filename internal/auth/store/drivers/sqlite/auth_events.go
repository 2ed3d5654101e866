package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tracknorth/basecamp/internal/auth/domain"
)

type authEventsRepo struct {
	q dbtx
}

func (r *authEventsRepo) AppendAuthEvent(ctx context.Context, e domain.AuthEvent) error {
	var issuedTokenID sql.NullString
	if e.IssuedTokenID != "" {
		issuedTokenID = sql.NullString{String: e.IssuedTokenID, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO auth_events (id, at, user_id, client_id, success, included_refresh_token, failure_reason, issued_token_id, ip_address, user_agent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(),
		e.At,
		e.UserID.String(),
		e.ClientID.String(),
		e.Success,
		e.IncludedRefreshToken,
		e.FailureReason,
		issuedTokenID,
		e.IPAddress,
		e.UserAgent,
	)
	return err
}

func (r *authEventsRepo) ListUserAuthEvents(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]domain.AuthEvent, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, at, user_id, client_id, success, included_refresh_token, failure_reason, issued_token_id, ip_address, user_agent
		FROM auth_events
		WHERE user_id = ?
		ORDER BY at DESC
		LIMIT ?`,
		userID.String(), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.AuthEvent
	for rows.Next() {
		var (
			e             domain.AuthEvent
			id, uid, cid  string
			issuedTokenID sql.NullString
		)
		err := rows.Scan(
			&id,
			&e.At,
			&uid,
			&cid,
			&e.Success,
			&e.IncludedRefreshToken,
			&e.FailureReason,
			&issuedTokenID,
			&e.IPAddress,
			&e.UserAgent,
		)
		if err != nil {
			return nil, err
		}

		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if e.UserID, err = uuid.Parse(uid); err != nil {
			return nil, err
		}
		if e.ClientID, err = uuid.Parse(cid); err != nil {
			return nil, err
		}
		if issuedTokenID.Valid {
			e.IssuedTokenID = issuedTokenID.String
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
