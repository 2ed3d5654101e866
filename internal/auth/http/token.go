package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/tracknorth/basecamp/internal/auth/service"
	"github.com/tracknorth/basecamp/pkg/authapi"
	"github.com/tracknorth/basecamp/pkg/httpx"
	"github.com/tracknorth/basecamp/pkg/slogx"
)

// TokenHandler serves POST /v1/auth/token.
// Accepts application/x-www-form-urlencoded in the OAuth2 style.
type TokenHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Token Endpoint
//	@Description	Issues a signed bearer token, and optionally a single-use refresh token, for the password and refresh_token grant types.
//	@Tags			Auth
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			grant_type				formData	string					true	"Grant type"	Enums(password, refresh_token)
//	@Param			username				formData	string					false	"Username (required for password grant)"
//	@Param			password				formData	string					false	"Password (required for password grant)"
//	@Param			refresh_token			formData	string					false	"Refresh token (required for refresh_token grant)"
//	@Param			client_id				formData	string					true	"Registered client application id"
//	@Param			include_refresh_token	formData	bool					false	"Whether to issue a new refresh token alongside the bearer token"
//	@Param			concurrency_stamp		formData	string					false	"Opaque stamp echoed back in the response"
//	@Success		200						{object}	authapi.TokenResponse	"access_token, token_type, expires_in, refresh_token, concurrency_stamp"
//	@Failure		400						{object}	authapi.APIError		"error, error_description"
//	@Failure		401						{object}	authapi.APIError		"error, error_description"
//	@Failure		500						{object}	authapi.APIError		"error, error_description"
//	@Header			200						{string}	Cache-Control			"no-store"
//	@Router			/v1/auth/token [post].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		authapi.ErrInvalidContentType.WriteError(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		authapi.ErrInvalidFormBody.WriteError(w)
		return
	}

	switch r.Form.Get("grant_type") {
	case "password":
		h.handlePasswordGrant(w, r, r.Form)
	case "refresh_token":
		h.handleRefreshGrant(w, r, r.Form)
	default:
		authapi.ErrUnsupportedGrantType.WriteError(w)
	}
}

func (h *TokenHandler) handlePasswordGrant(w http.ResponseWriter, r *http.Request, form url.Values) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	username := strings.TrimSpace(form.Get("username"))
	password := form.Get("password")
	if username == "" || password == "" || strings.TrimSpace(form.Get("client_id")) == "" {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	result, err := h.AuthService.AuthenticateWithPassword(ctx, tokenRequest(r, form), username, password)
	if err != nil {
		writeGrantError(w, log, err)
		return
	}

	writeTokenResponse(w, result, h.AuthService)
}

func (h *TokenHandler) handleRefreshGrant(w http.ResponseWriter, r *http.Request, form url.Values) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	refresh := form.Get("refresh_token")
	if refresh == "" || strings.TrimSpace(form.Get("client_id")) == "" {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	result, err := h.AuthService.AuthenticateWithRefreshToken(ctx, tokenRequest(r, form), refresh)
	if err != nil {
		writeGrantError(w, log, err)
		return
	}

	writeTokenResponse(w, result, h.AuthService)
}

func tokenRequest(r *http.Request, form url.Values) service.TokenRequest {
	include := form.Get("include_refresh_token")
	return service.TokenRequest{
		ClientID:            strings.TrimSpace(form.Get("client_id")),
		ConcurrencyStamp:    form.Get("concurrency_stamp"),
		IncludeRefreshToken: include == "true" || include == "1",
		IPAddress:           httpx.IPKeyExtractor(r),
		UserAgent:           r.UserAgent(),
	}
}
