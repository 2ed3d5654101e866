package service_test

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tracknorth/basecamp/internal/auth/domain"
	"github.com/tracknorth/basecamp/internal/auth/identity"
	"github.com/tracknorth/basecamp/internal/auth/service"
	"github.com/tracknorth/basecamp/internal/auth/store"
	"github.com/tracknorth/basecamp/internal/auth/store/drivers/sqlite"
	"github.com/tracknorth/basecamp/pkg/jwtx"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type testEnv struct {
	svc     *service.AuthService
	manager *service.Manager
	store   store.Store
	signer  *jwtx.Signer
	clock   *fakeClock
	client  domain.ClientApplication
	alice   domain.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	clock := &fakeClock{t: time.Now().UTC().Truncate(time.Second)}
	directory := identity.NewDirectory(s, clock.Now)

	signer, err := jwtx.NewSigner([]byte("test-signing-key-0123456789abcdef"), "basecamp-auth")
	require.NoError(t, err)

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := service.NewAuthService(service.AuthServiceConfig{
		Store:     s,
		Directory: directory,
		Signer:    signer,
		Logger:    quiet,
		Now:       clock.Now,
	})
	manager := service.NewManager(s, directory, quiet, clock.Now)

	client, err := manager.CreateClient(ctx, "basecamp-cli")
	require.NoError(t, err)

	alice, err := manager.CreateUser(ctx, identity.NewUser{
		Username:    "alice",
		DisplayName: "Alice",
		Password:    "Secret1!",
		Roles:       []string{"surveyor"},
	})
	require.NoError(t, err)

	return &testEnv{
		svc:     svc,
		manager: manager,
		store:   s,
		signer:  signer,
		clock:   clock,
		client:  client,
		alice:   alice,
	}
}

func (e *testEnv) request() service.TokenRequest {
	return service.TokenRequest{
		ClientID:            e.client.ID.String(),
		ConcurrencyStamp:    "stamp-1",
		IncludeRefreshToken: true,
		IPAddress:           "203.0.113.7",
		UserAgent:           "basecamp-cli/1.0",
	}
}

func (e *testEnv) lastEvent(t *testing.T, userID uuid.UUID) domain.AuthEvent {
	t.Helper()
	events, err := e.store.AuthEvents().ListUserAuthEvents(context.Background(), userID, 1)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	return events[0]
}

func (e *testEnv) eventCount(t *testing.T, userID uuid.UUID) int {
	t.Helper()
	events, err := e.store.AuthEvents().ListUserAuthEvents(context.Background(), userID, 100)
	require.NoError(t, err)
	return len(events)
}

func TestPasswordGrant(t *testing.T) {
	t.Parallel()

	t.Run("success issues bearer and refresh token", func(t *testing.T) {
		t.Parallel()
		e := newTestEnv(t)

		res, err := e.svc.AuthenticateWithPassword(context.Background(), e.request(), "alice", "Secret1!")
		require.NoError(t, err)

		require.Equal(t, e.alice.ID, res.UserID)
		require.Equal(t, "Alice", res.DisplayName)
		require.Equal(t, "stamp-1", res.ConcurrencyStamp)
		require.Equal(t, e.clock.Now().Add(jwtx.DefaultBearerTTL), res.BearerExpiresAt)

		claims, err := e.signer.Verify(res.BearerToken)
		require.NoError(t, err)
		require.Equal(t, e.alice.ID.String(), claims.Subject)
		require.Equal(t, "Alice", claims.DisplayName)
		require.True(t, claims.HasRole("surveyor"))

		raw, err := base64.RawURLEncoding.DecodeString(res.RefreshToken)
		require.NoError(t, err)
		require.Len(t, raw, domain.RefreshTokenSize)

		event := e.lastEvent(t, e.alice.ID)
		require.True(t, event.Success)
		require.True(t, event.IncludedRefreshToken)
		require.Equal(t, claims.ID, event.IssuedTokenID)
		require.Equal(t, "203.0.113.7", event.IPAddress)
	})

	t.Run("refresh token only on request", func(t *testing.T) {
		t.Parallel()
		e := newTestEnv(t)

		req := e.request()
		req.IncludeRefreshToken = false

		res, err := e.svc.AuthenticateWithPassword(context.Background(), req, "alice", "Secret1!")
		require.NoError(t, err)
		require.Empty(t, res.RefreshToken)
		require.False(t, e.lastEvent(t, e.alice.ID).IncludedRefreshToken)
	})

	t.Run("wrong password audits and denies", func(t *testing.T) {
		t.Parallel()
		e := newTestEnv(t)

		_, err := e.svc.AuthenticateWithPassword(context.Background(), e.request(), "alice", "x")
		require.ErrorIs(t, err, service.ErrUnauthenticated)

		event := e.lastEvent(t, e.alice.ID)
		require.False(t, event.Success)
		require.Equal(t, "Bad password", event.FailureReason)
		require.Empty(t, event.IssuedTokenID)
	})

	t.Run("unknown username leaves no audit trace", func(t *testing.T) {
		t.Parallel()
		e := newTestEnv(t)
		before := e.eventCount(t, e.alice.ID)

		_, err := e.svc.AuthenticateWithPassword(context.Background(), e.request(), "mallory", "Secret1!")
		require.ErrorIs(t, err, service.ErrUnauthenticated)
		require.Equal(t, before, e.eventCount(t, e.alice.ID))
	})

	t.Run("unknown client id leaves no audit trace", func(t *testing.T) {
		t.Parallel()
		e := newTestEnv(t)
		before := e.eventCount(t, e.alice.ID)

		req := e.request()
		req.ClientID = uuid.NewString()

		_, err := e.svc.AuthenticateWithPassword(context.Background(), req, "alice", "Secret1!")
		require.ErrorIs(t, err, service.ErrUnauthenticated)
		require.Equal(t, before, e.eventCount(t, e.alice.ID))
	})

	t.Run("lockout after repeated failures", func(t *testing.T) {
		t.Parallel()
		e := newTestEnv(t)

		for i := 0; i < identity.MaxFailedAttempts; i++ {
			_, err := e.svc.AuthenticateWithPassword(context.Background(), e.request(), "alice", "x")
			require.ErrorIs(t, err, service.ErrUnauthenticated)
		}

		// Correct password, but the account is now locked.
		_, err := e.svc.AuthenticateWithPassword(context.Background(), e.request(), "alice", "Secret1!")
		require.ErrorIs(t, err, service.ErrUnauthenticated)
		require.Equal(t, "User locked out", e.lastEvent(t, e.alice.ID).FailureReason)

		e.clock.Advance(identity.LockoutDuration + time.Second)
		_, err = e.svc.AuthenticateWithPassword(context.Background(), e.request(), "alice", "Secret1!")
		require.NoError(t, err)
	})

	t.Run("cancelled context stops before any durable write", func(t *testing.T) {
		t.Parallel()
		e := newTestEnv(t)
		before := e.eventCount(t, e.alice.ID)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := e.svc.AuthenticateWithPassword(ctx, e.request(), "alice", "Secret1!")
		require.ErrorIs(t, err, context.Canceled)
		require.Equal(t, before, e.eventCount(t, e.alice.ID))
	})
}

func TestRefreshGrant(t *testing.T) {
	t.Parallel()

	login := func(t *testing.T, e *testEnv) string {
		t.Helper()
		res, err := e.svc.AuthenticateWithPassword(context.Background(), e.request(), "alice", "Secret1!")
		require.NoError(t, err)
		return res.RefreshToken
	}

	t.Run("rotation spends the presented token", func(t *testing.T) {
		t.Parallel()
		e := newTestEnv(t)
		first := login(t, e)

		res, err := e.svc.AuthenticateWithRefreshToken(context.Background(), e.request(), first)
		require.NoError(t, err)
		require.NotEmpty(t, res.RefreshToken)
		require.NotEqual(t, first, res.RefreshToken)

		// The spent token never works again.
		_, err = e.svc.AuthenticateWithRefreshToken(context.Background(), e.request(), first)
		require.ErrorIs(t, err, service.ErrUnauthenticated)
		require.Equal(t, "Invalidated", e.lastEvent(t, e.alice.ID).FailureReason)

		// The replacement does.
		_, err = e.svc.AuthenticateWithRefreshToken(context.Background(), e.request(), res.RefreshToken)
		require.NoError(t, err)
	})

	t.Run("unknown token leaves no audit trace", func(t *testing.T) {
		t.Parallel()
		e := newTestEnv(t)
		before := e.eventCount(t, e.alice.ID)

		fabricated := base64.RawURLEncoding.EncodeToString(make([]byte, domain.RefreshTokenSize))
		_, err := e.svc.AuthenticateWithRefreshToken(context.Background(), e.request(), fabricated)
		require.ErrorIs(t, err, service.ErrUnauthenticated)
		require.Equal(t, before, e.eventCount(t, e.alice.ID))
	})

	t.Run("expired token is refused", func(t *testing.T) {
		t.Parallel()
		e := newTestEnv(t)
		token := login(t, e)

		e.clock.Advance(jwtx.DefaultRefreshTTL + time.Second)

		_, err := e.svc.AuthenticateWithRefreshToken(context.Background(), e.request(), token)
		require.ErrorIs(t, err, service.ErrUnauthenticated)
		require.Equal(t, "Expired", e.lastEvent(t, e.alice.ID).FailureReason)
	})

	t.Run("client mismatch is refused", func(t *testing.T) {
		t.Parallel()
		e := newTestEnv(t)
		token := login(t, e)

		other, err := e.manager.CreateClient(context.Background(), "basecamp-web")
		require.NoError(t, err)

		req := e.request()
		req.ClientID = other.ID.String()

		_, err = e.svc.AuthenticateWithRefreshToken(context.Background(), req, token)
		require.ErrorIs(t, err, service.ErrUnauthenticated)
		require.Equal(t, "Bad client id", e.lastEvent(t, e.alice.ID).FailureReason)

		// The mismatch attempt did not spend the token.
		_, err = e.svc.AuthenticateWithRefreshToken(context.Background(), e.request(), token)
		require.NoError(t, err)
	})

	t.Run("concurrent redemption has exactly one winner", func(t *testing.T) {
		t.Parallel()
		e := newTestEnv(t)
		token := login(t, e)

		const attempts = 8

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
		)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := e.svc.AuthenticateWithRefreshToken(context.Background(), e.request(), token)
				if err == nil {
					mu.Lock()
					wins++
					mu.Unlock()
				} else {
					require.ErrorIs(t, err, service.ErrUnauthenticated)
				}
			}()
		}
		wg.Wait()

		require.Equal(t, 1, wins)
	})
}

func TestRevocation(t *testing.T) {
	t.Parallel()

	t.Run("revoke all is scoped to one user", func(t *testing.T) {
		t.Parallel()
		e := newTestEnv(t)
		ctx := context.Background()

		_, err := e.manager.CreateUser(ctx, identity.NewUser{
			Username:    "bob",
			DisplayName: "Bob",
			Password:    "Secret1!",
		})
		require.NoError(t, err)

		aliceRes, err := e.svc.AuthenticateWithPassword(ctx, e.request(), "alice", "Secret1!")
		require.NoError(t, err)
		bobRes, err := e.svc.AuthenticateWithPassword(ctx, e.request(), "bob", "Secret1!")
		require.NoError(t, err)

		require.NoError(t, e.manager.RevokeAllRefreshTokens(ctx, e.alice.ID))

		_, err = e.svc.AuthenticateWithRefreshToken(ctx, e.request(), aliceRes.RefreshToken)
		require.ErrorIs(t, err, service.ErrUnauthenticated)

		_, err = e.svc.AuthenticateWithRefreshToken(ctx, e.request(), bobRes.RefreshToken)
		require.NoError(t, err)
	})

	t.Run("revoke one requires ownership", func(t *testing.T) {
		t.Parallel()
		e := newTestEnv(t)
		ctx := context.Background()

		res, err := e.svc.AuthenticateWithPassword(ctx, e.request(), "alice", "Secret1!")
		require.NoError(t, err)

		ok, err := e.manager.RevokeRefreshToken(ctx, uuid.New(), res.RefreshToken)
		require.NoError(t, err)
		require.False(t, ok)

		ok, err = e.manager.RevokeRefreshToken(ctx, e.alice.ID, res.RefreshToken)
		require.NoError(t, err)
		require.True(t, ok)

		_, err = e.svc.AuthenticateWithRefreshToken(ctx, e.request(), res.RefreshToken)
		require.ErrorIs(t, err, service.ErrUnauthenticated)
	})
}
