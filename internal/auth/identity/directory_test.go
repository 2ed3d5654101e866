package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tracknorth/basecamp/internal/auth/domain"
	"github.com/tracknorth/basecamp/internal/auth/identity"
	"github.com/tracknorth/basecamp/internal/auth/store"
	"github.com/tracknorth/basecamp/internal/auth/store/drivers/sqlite"
)

func newTestDirectory(t *testing.T, now func() time.Time) (*identity.Directory, store.Store) {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	return identity.NewDirectory(s, now), s
}

func TestDirectory_CreateUser(t *testing.T) {
	t.Parallel()

	d, _ := newTestDirectory(t, nil)
	ctx := context.Background()

	t.Run("valid user with roles", func(t *testing.T) {
		u, err := d.CreateUser(ctx, identity.NewUser{
			Username:    "alice",
			DisplayName: "Alice",
			Password:    "Secret1!x",
			Roles:       []string{"admin"},
		})
		require.NoError(t, err)
		require.NotEmpty(t, u.PasswordHash)

		roles, err := d.Roles(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, []string{"admin"}, roles)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := d.CreateUser(ctx, identity.NewUser{
			Username:    "alice",
			DisplayName: "Other Alice",
			Password:    "Secret1!x",
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("validation failures", func(t *testing.T) {
		cases := []identity.NewUser{
			{Username: "AL", DisplayName: "A", Password: "Secret1!x"},
			{Username: "alice2", DisplayName: "", Password: "Secret1!x"},
			{Username: "alice2", DisplayName: "Alice", Password: "short"},
		}
		for _, c := range cases {
			_, err := d.CreateUser(ctx, c)
			var verr *identity.ValidationError
			require.ErrorAs(t, err, &verr)
			require.NotEmpty(t, verr.Message)
		}
	})
}

func TestDirectory_VerifyPassword(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	clock := func() time.Time { return now }

	d, _ := newTestDirectory(t, clock)
	ctx := context.Background()

	u, err := d.CreateUser(ctx, identity.NewUser{
		Username:    "bob",
		DisplayName: "Bob",
		Password:    "Secret1!x",
	})
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		require.NoError(t, d.VerifyPassword(ctx, u, "Secret1!x"))
	})

	t.Run("wrong password increments failures", func(t *testing.T) {
		require.ErrorIs(t, d.VerifyPassword(ctx, u, "wrong"), identity.ErrBadPassword)

		got, err := d.FindByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, 1, got.FailedAttempts)
	})

	t.Run("success resets failures", func(t *testing.T) {
		got, err := d.FindByID(ctx, u.ID)
		require.NoError(t, err)
		require.NoError(t, d.VerifyPassword(ctx, got, "Secret1!x"))

		got, err = d.FindByID(ctx, u.ID)
		require.NoError(t, err)
		require.Zero(t, got.FailedAttempts)
	})
}

func TestDirectory_Lockout(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	clock := func() time.Time { return now }

	d, _ := newTestDirectory(t, clock)
	ctx := context.Background()

	u, err := d.CreateUser(ctx, identity.NewUser{
		Username:    "carol",
		DisplayName: "Carol",
		Password:    "Secret1!x",
	})
	require.NoError(t, err)

	for i := 0; i < identity.MaxFailedAttempts; i++ {
		got, err := d.FindByID(ctx, u.ID)
		require.NoError(t, err)
		require.ErrorIs(t, d.VerifyPassword(ctx, got, "wrong"), identity.ErrBadPassword)
	}

	locked, err := d.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, locked.LockedUntil)

	// Even the correct password is rejected while locked.
	require.ErrorIs(t, d.VerifyPassword(ctx, locked, "Secret1!x"), identity.ErrLockedOut)

	// After the lockout window the correct password works and clears the lock.
	now = now.Add(identity.LockoutDuration + time.Second)
	require.NoError(t, d.VerifyPassword(ctx, locked, "Secret1!x"))

	got, err := d.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Nil(t, got.LockedUntil)
	require.Zero(t, got.FailedAttempts)
}

func TestDirectory_Claims(t *testing.T) {
	t.Parallel()

	d, s := newTestDirectory(t, nil)
	ctx := context.Background()

	u, err := d.CreateUser(ctx, identity.NewUser{
		Username:    "dave",
		DisplayName: "Dave",
		Password:    "Secret1!x",
	})
	require.NoError(t, err)

	claims, err := d.Claims(ctx, u.ID)
	require.NoError(t, err)
	require.Nil(t, claims)

	require.NoError(t, s.Users().AddUserClaim(ctx, u.ID, domain.Claim{Type: "region", Value: "au"}))

	claims, err = d.Claims(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"region": "au"}, claims)
}
