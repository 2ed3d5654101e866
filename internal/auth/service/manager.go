package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tracknorth/basecamp/internal/auth/domain"
	"github.com/tracknorth/basecamp/internal/auth/identity"
	"github.com/tracknorth/basecamp/internal/auth/store"
	"github.com/tracknorth/basecamp/pkg/cryptox"
)

// Manager handles account and token administration outside the
// authentication hot path.
type Manager struct {
	store     store.Store
	directory *identity.Directory
	log       *slog.Logger
	now       func() time.Time
}

func NewManager(s store.Store, d *identity.Directory, log *slog.Logger, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &Manager{store: s, directory: d, log: log, now: now}
}

// CreateUser provisions a new account through the directory's validation.
func (m *Manager) CreateUser(ctx context.Context, req identity.NewUser) (domain.User, error) {
	user, err := m.directory.CreateUser(ctx, req)
	if err != nil {
		return domain.User{}, err
	}

	m.log.InfoContext(ctx, "user created",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username),
	)
	return user, nil
}

// CreateClient registers a client application.
func (m *Manager) CreateClient(ctx context.Context, name string) (domain.ClientApplication, error) {
	client := domain.ClientApplication{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: m.now().UTC(),
	}
	if err := m.store.Clients().CreateClient(ctx, client); err != nil {
		return domain.ClientApplication{}, err
	}

	m.log.InfoContext(ctx, "client registered",
		slog.String("client_id", client.ID.String()),
		slog.String("name", client.Name),
	)
	return client, nil
}

// ListClients returns all registered client applications.
func (m *Manager) ListClients(ctx context.Context) ([]domain.ClientApplication, error) {
	return m.store.Clients().ListClients(ctx)
}

// RevokeAllRefreshTokens invalidates every live refresh token the user holds.
// Already-spent and expired rows are untouched; nothing is deleted.
func (m *Manager) RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	now := m.now().UTC()
	if err := m.store.RefreshTokens().InvalidateAllUserRefreshTokens(ctx, userID, now); err != nil {
		return fmt.Errorf("revoke all refresh tokens: %w", err)
	}

	m.log.InfoContext(ctx, "revoked all refresh tokens",
		slog.String("user_id", userID.String()),
	)
	return nil
}

// RevokeRefreshToken invalidates one token presented in its wire form,
// only if it belongs to the given user and is still live. Reports whether a
// token was actually revoked.
func (m *Manager) RevokeRefreshToken(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	now := m.now().UTC()
	fingerprint := cryptox.FingerprintToken(token)

	ok, err := m.store.RefreshTokens().InvalidateUserRefreshToken(ctx, userID, fingerprint, now)
	if err != nil {
		return false, fmt.Errorf("revoke refresh token: %w", err)
	}
	if ok {
		m.log.InfoContext(ctx, "revoked refresh token",
			slog.String("user_id", userID.String()),
		)
	}
	return ok, nil
}

// ListAuthEvents returns the user's recent audit records, newest first.
func (m *Manager) ListAuthEvents(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AuthEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return m.store.AuthEvents().ListUserAuthEvents(ctx, userID, limit)
}
