package http

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/tracknorth/basecamp/internal/auth/service"
	"github.com/tracknorth/basecamp/pkg/authapi"
	"github.com/tracknorth/basecamp/pkg/httpx"
	"github.com/tracknorth/basecamp/pkg/slogx"
)

// RevokeHandler serves POST /v1/auth/revoke. The caller revokes one of their
// own refresh tokens by presenting its wire value.
type RevokeHandler struct {
	Manager *service.Manager
}

// ServeHTTP godoc
//
//	@Summary		Revoke Refresh Token
//	@Description	Invalidates a single refresh token belonging to the authenticated user. Reports whether a live token was actually revoked.
//	@Tags			Auth
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Security		BearerAuth
//	@Param			refresh_token	formData	string					true	"Refresh token to revoke"
//	@Success		200				{object}	authapi.RevokeResponse	"revoked"
//	@Failure		400				{object}	authapi.APIError		"error, error_description"
//	@Failure		401				{object}	authapi.APIError		"error, error_description"
//	@Failure		500				{object}	authapi.APIError		"error, error_description"
//	@Router			/v1/auth/revoke [post].
func (h *RevokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := subjectID(r)
	if !ok {
		authapi.ErrInvalidGrant.WriteError(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		authapi.ErrInvalidFormBody.WriteError(w)
		return
	}
	token := r.Form.Get("refresh_token")
	if token == "" {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	revoked, err := h.Manager.RevokeRefreshToken(ctx, userID, token)
	if err != nil {
		log.Error("revoke failed", "err", err)
		authapi.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.RevokeResponse{Revoked: revoked})
}

// RevokeAllHandler serves POST /v1/auth/revoke-all, invalidating every live
// refresh token the authenticated user holds.
type RevokeAllHandler struct {
	Manager *service.Manager
}

// ServeHTTP godoc
//
//	@Summary		Revoke All Refresh Tokens
//	@Description	Invalidates every live refresh token belonging to the authenticated user, signing out all of their devices.
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authapi.RevokeResponse	"revoked"
//	@Failure		401	{object}	authapi.APIError		"error, error_description"
//	@Failure		500	{object}	authapi.APIError		"error, error_description"
//	@Router			/v1/auth/revoke-all [post].
func (h *RevokeAllHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := subjectID(r)
	if !ok {
		authapi.ErrInvalidGrant.WriteError(w)
		return
	}

	if err := h.Manager.RevokeAllRefreshTokens(ctx, userID); err != nil {
		log.Error("revoke-all failed", "err", err)
		authapi.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.RevokeResponse{Revoked: true})
}

// subjectID pulls the authenticated user id out of the request context.
func subjectID(r *http.Request) (uuid.UUID, bool) {
	sub := strings.TrimSpace(httpx.SubjectFromContext(r.Context()))
	if sub == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
