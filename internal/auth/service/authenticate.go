// Package service implements the token issuance flow: credential
// verification, single-use refresh token redemption, bearer minting, and the
// append-only audit trail.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tracknorth/basecamp/internal/auth/domain"
	"github.com/tracknorth/basecamp/internal/auth/identity"
	"github.com/tracknorth/basecamp/internal/auth/store"
	"github.com/tracknorth/basecamp/pkg/cryptox"
	"github.com/tracknorth/basecamp/pkg/jwtx"
)

// ErrUnauthenticated is the only error a failed authentication returns to
// callers. The actual reason goes to the audit trail; handing it back would
// tell an attacker which part of the guess was right.
var ErrUnauthenticated = errors.New("service: authentication failed")

// Audit failure reasons. These are recorded verbatim and never shown to the
// authenticating caller.
const (
	reasonLockedOut   = "User locked out"
	reasonBadPassword = "Bad password"
	reasonBadClient   = "Bad client id"
	reasonExpired     = "Expired"
	reasonInvalidated = "Invalidated"
)

// errTokenSpent aborts the issuing transaction when the redemption
// compare-and-swap loses to a concurrent request.
var errTokenSpent = errors.New("service: refresh token already spent")

// AuthService executes the authentication flow for both grant paths.
type AuthService struct {
	store      store.Store
	directory  *identity.Directory
	signer     *jwtx.Signer
	log        *slog.Logger
	now        func() time.Time
	bearerTTL  time.Duration
	refreshTTL time.Duration
}

// AuthServiceConfig carries the knobs for NewAuthService. Zero TTLs fall back
// to the jwtx defaults; a nil clock falls back to time.Now.
type AuthServiceConfig struct {
	Store      store.Store
	Directory  *identity.Directory
	Signer     *jwtx.Signer
	Logger     *slog.Logger
	Now        func() time.Time
	BearerTTL  time.Duration
	RefreshTTL time.Duration
}

func NewAuthService(cfg AuthServiceConfig) *AuthService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.BearerTTL <= 0 {
		cfg.BearerTTL = jwtx.DefaultBearerTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = jwtx.DefaultRefreshTTL
	}

	return &AuthService{
		store:      cfg.Store,
		directory:  cfg.Directory,
		signer:     cfg.Signer,
		log:        cfg.Logger,
		now:        cfg.Now,
		bearerTTL:  cfg.BearerTTL,
		refreshTTL: cfg.RefreshTTL,
	}
}

// BearerTTL returns the configured bearer token lifetime.
func (s *AuthService) BearerTTL() time.Duration { return s.bearerTTL }

// TokenRequest is the envelope common to both grant paths.
type TokenRequest struct {
	ClientID            string
	ConcurrencyStamp    string
	IncludeRefreshToken bool
	IPAddress           string
	UserAgent           string
}

// AuthenticateWithPassword runs the password grant.
func (s *AuthService) AuthenticateWithPassword(
	ctx context.Context,
	req TokenRequest,
	username, password string,
) (domain.AuthResult, error) {
	return s.authenticate(ctx, req, passwordCredential{Username: username, Password: password})
}

// AuthenticateWithRefreshToken runs the refresh grant. The presented token is
// spent whether or not issuance succeeds afterwards.
func (s *AuthService) AuthenticateWithRefreshToken(
	ctx context.Context,
	req TokenRequest,
	token string,
) (domain.AuthResult, error) {
	return s.authenticate(ctx, req, refreshCredential{Value: token})
}

// resolution is what credential resolution hands to the shared issuing path.
// A non-empty failReason means the attempt is over; the subject is known, so
// the failure is auditable.
type resolution struct {
	user       domain.User
	clientID   uuid.UUID
	failReason string

	// redeemFingerprint, when set, must win the single-use compare-and-swap
	// inside the issuing transaction before any token is handed out.
	redeemFingerprint string
}

func (s *AuthService) authenticate(ctx context.Context, req TokenRequest, cred credential) (domain.AuthResult, error) {
	now := s.now().UTC()

	// Unknown clients are refused before any credential work and leave no
	// audit record: the caller has not yet proven they speak for any subject.
	clientID, err := s.resolveClient(ctx, req.ClientID)
	if err != nil {
		return domain.AuthResult{}, err
	}

	res, err := s.resolveCredential(ctx, clientID, cred, now)
	if err != nil {
		return domain.AuthResult{}, err
	}
	if res.failReason != "" {
		s.auditFailure(ctx, now, res, req)
		return domain.AuthResult{}, ErrUnauthenticated
	}

	return s.issue(ctx, now, res, req)
}

// resolveClient checks the requested client id against the registry.
func (s *AuthService) resolveClient(ctx context.Context, requested string) (uuid.UUID, error) {
	clientID, err := uuid.Parse(requested)
	if err != nil {
		s.log.DebugContext(ctx, "authentication with malformed client id")
		return uuid.Nil, ErrUnauthenticated
	}

	if _, err := s.store.Clients().GetClientByID(ctx, clientID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.log.DebugContext(ctx, "authentication against unknown client",
				slog.String("client_id", clientID.String()))
			return uuid.Nil, ErrUnauthenticated
		}
		return uuid.Nil, fmt.Errorf("client lookup: %w", err)
	}
	return clientID, nil
}

// resolveCredential verifies the presented proof and pins down the subject.
// Unknown usernames and unknown refresh tokens return ErrUnauthenticated with
// no audit record: writing one would let the audit trail confirm which
// identifiers exist.
func (s *AuthService) resolveCredential(
	ctx context.Context,
	clientID uuid.UUID,
	cred credential,
	now time.Time,
) (resolution, error) {
	switch c := cred.(type) {
	case passwordCredential:
		user, err := s.directory.FindByUsername(ctx, c.Username)
		if errors.Is(err, store.ErrNotFound) {
			s.log.DebugContext(ctx, "authentication against unknown username")
			return resolution{}, ErrUnauthenticated
		}
		if err != nil {
			return resolution{}, fmt.Errorf("find user: %w", err)
		}

		res := resolution{user: user, clientID: clientID}
		switch err := s.directory.VerifyPassword(ctx, user, c.Password); {
		case errors.Is(err, identity.ErrLockedOut):
			res.failReason = reasonLockedOut
		case errors.Is(err, identity.ErrBadPassword):
			res.failReason = reasonBadPassword
		case err != nil:
			return resolution{}, fmt.Errorf("verify password: %w", err)
		}
		return res, nil

	case refreshCredential:
		fingerprint := cryptox.FingerprintToken(c.Value)
		token, err := s.store.RefreshTokens().GetRefreshTokenByFingerprint(ctx, fingerprint)
		if errors.Is(err, store.ErrNotFound) {
			s.log.DebugContext(ctx, "authentication against unknown refresh token")
			return resolution{}, ErrUnauthenticated
		}
		if err != nil {
			return resolution{}, fmt.Errorf("find refresh token: %w", err)
		}

		user, err := s.directory.FindByID(ctx, token.UserID)
		if err != nil {
			return resolution{}, fmt.Errorf("find token owner: %w", err)
		}

		res := resolution{user: user, clientID: clientID}
		switch {
		case clientID != token.ClientID:
			res.failReason = reasonBadClient
		case !now.Before(token.ExpiresAt):
			res.failReason = reasonExpired
		case token.Invalidated:
			res.failReason = reasonInvalidated
		case user.LockedOut(now):
			res.failReason = reasonLockedOut
		default:
			res.redeemFingerprint = fingerprint
		}
		return res, nil

	default:
		return resolution{}, fmt.Errorf("unsupported credential type %T", cred)
	}
}

// issue mints the bearer token and commits the durable writes. Once the
// caller's context survives the pre-commit check, the writes run on a
// cancellation-immune context so a mid-flight disconnect cannot leave a spent
// token without its replacement on record.
func (s *AuthService) issue(ctx context.Context, now time.Time, res resolution, req TokenRequest) (domain.AuthResult, error) {
	roles, err := s.directory.Roles(ctx, res.user.ID)
	if err != nil {
		return domain.AuthResult{}, fmt.Errorf("load roles: %w", err)
	}
	userClaims, err := s.directory.Claims(ctx, res.user.ID)
	if err != nil {
		return domain.AuthResult{}, fmt.Errorf("load claims: %w", err)
	}

	claims := jwtx.NewBearerClaims(
		res.user.ID, res.user.DisplayName, roles, userClaims,
		s.signer.Issuer(), s.bearerTTL, now,
	)
	bearer, err := s.signer.Sign(claims)
	if err != nil {
		return domain.AuthResult{}, fmt.Errorf("sign bearer: %w", err)
	}

	var newRefresh string
	if req.IncludeRefreshToken {
		newRefresh, err = cryptox.GenerateToken(cryptox.TokenSize512)
		if err != nil {
			return domain.AuthResult{}, fmt.Errorf("generate refresh token: %w", err)
		}
	}

	// Point of no return. Nothing durable has happened yet; if the caller is
	// already gone, stop here.
	if err := ctx.Err(); err != nil {
		return domain.AuthResult{}, err
	}
	dctx := context.WithoutCancel(ctx)

	err = s.store.WithTx(dctx, func(tx store.Tx) error {
		if res.redeemFingerprint != "" {
			ok, err := tx.RefreshTokens().RedeemRefreshToken(dctx, res.redeemFingerprint, now)
			if err != nil {
				return fmt.Errorf("redeem refresh token: %w", err)
			}
			if !ok {
				return errTokenSpent
			}
		}

		if newRefresh != "" {
			err := tx.RefreshTokens().CreateRefreshToken(dctx, domain.RefreshToken{
				Fingerprint: cryptox.FingerprintToken(newRefresh),
				UserID:      res.user.ID,
				ClientID:    res.clientID,
				IssuedAt:    now,
				ExpiresAt:   now.Add(s.refreshTTL),
				IPAddress:   req.IPAddress,
				UserAgent:   req.UserAgent,
			})
			if err != nil {
				return fmt.Errorf("store refresh token: %w", err)
			}
		}

		return tx.AuthEvents().AppendAuthEvent(dctx, domain.AuthEvent{
			ID:                   uuid.New(),
			At:                   now,
			UserID:               res.user.ID,
			ClientID:             res.clientID,
			Success:              true,
			IncludedRefreshToken: newRefresh != "",
			IssuedTokenID:        claims.ID,
			IPAddress:            req.IPAddress,
			UserAgent:            req.UserAgent,
		})
	})
	if errors.Is(err, errTokenSpent) {
		// Lost the single-use race. Audit it like any other failure.
		res.failReason = reasonInvalidated
		s.auditFailure(dctx, now, res, req)
		return domain.AuthResult{}, ErrUnauthenticated
	}
	if err != nil {
		return domain.AuthResult{}, fmt.Errorf("commit issuance: %w", err)
	}

	s.log.InfoContext(ctx, "authentication succeeded",
		slog.String("user_id", res.user.ID.String()),
		slog.String("client_id", res.clientID.String()),
		slog.Bool("refresh_issued", newRefresh != ""),
	)

	return domain.AuthResult{
		UserID:           res.user.ID,
		DisplayName:      res.user.DisplayName,
		ClientID:         res.clientID,
		BearerToken:      bearer,
		BearerExpiresAt:  now.Add(s.bearerTTL),
		RefreshToken:     newRefresh,
		ConcurrencyStamp: req.ConcurrencyStamp,
		IPAddress:        req.IPAddress,
		UserAgent:        req.UserAgent,
	}, nil
}

// auditFailure appends a failed-attempt record. The write runs on a
// cancellation-immune context; an attacker must not be able to keep failures
// out of the trail by hanging up.
func (s *AuthService) auditFailure(ctx context.Context, now time.Time, res resolution, req TokenRequest) {
	dctx := context.WithoutCancel(ctx)
	err := s.store.AuthEvents().AppendAuthEvent(dctx, domain.AuthEvent{
		ID:            uuid.New(),
		At:            now,
		UserID:        res.user.ID,
		ClientID:      res.clientID,
		Success:       false,
		FailureReason: res.failReason,
		IPAddress:     req.IPAddress,
		UserAgent:     req.UserAgent,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "failed to append auth event",
			slog.String("user_id", res.user.ID.String()),
			slog.Any("error", err),
		)
	}

	s.log.WarnContext(ctx, "authentication failed",
		slog.String("user_id", res.user.ID.String()),
		slog.String("reason", res.failReason),
	)
}
