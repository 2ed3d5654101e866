package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tracknorth/basecamp/internal/auth/domain"
	"github.com/tracknorth/basecamp/internal/auth/service"
	"github.com/tracknorth/basecamp/pkg/authapi"
	"github.com/tracknorth/basecamp/pkg/httpx"
)

// writeGrantError collapses every authentication failure into the same 401.
// Only genuine infrastructure errors become a 500.
func writeGrantError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		authapi.ErrInvalidGrant.WriteError(w)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// Caller hung up; 499-style. Nothing useful to send.
		w.WriteHeader(http.StatusServiceUnavailable)
	default:
		log.Error("token issuance failed", "err", err)
		authapi.ErrServerError.WriteError(w)
	}
}

func writeTokenResponse(w http.ResponseWriter, result domain.AuthResult, svc *service.AuthService) {
	httpx.WriteJSON(w, http.StatusOK, authapi.TokenResponse{
		AccessToken:      result.BearerToken,
		TokenType:        "Bearer",
		ExpiresIn:        int(svc.BearerTTL().Seconds()),
		RefreshToken:     result.RefreshToken,
		ConcurrencyStamp: result.ConcurrencyStamp,
		DisplayName:      result.DisplayName,
	})
}
