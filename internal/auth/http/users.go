package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tracknorth/basecamp/internal/auth/identity"
	"github.com/tracknorth/basecamp/internal/auth/service"
	"github.com/tracknorth/basecamp/internal/auth/store"
	"github.com/tracknorth/basecamp/pkg/authapi"
	"github.com/tracknorth/basecamp/pkg/httpx"
	"github.com/tracknorth/basecamp/pkg/slogx"
)

// UsersHandler serves account provisioning.
type UsersHandler struct {
	Manager *service.Manager
}

// HandleCreate godoc
//
//	@Summary		Create User
//	@Description	Provisions a new account. Requires the admin role.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		authapi.CreateUserRequest	true	"New account"
//	@Success		201		{object}	authapi.UserResponse		"id, username, display_name, created_at"
//	@Failure		400		{object}	authapi.APIError			"error, error_description"
//	@Failure		401		{object}	authapi.APIError			"error, error_description"
//	@Failure		403		{object}	authapi.APIError			"error, error_description"
//	@Failure		409		{object}	authapi.APIError			"error, error_description"
//	@Failure		500		{object}	authapi.APIError			"error, error_description"
//	@Router			/v1/users [post].
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authapi.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.Manager.CreateUser(ctx, identity.NewUser{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Password:    req.Password,
		Roles:       req.Roles,
	})
	if err != nil {
		var verr *identity.ValidationError
		switch {
		case errors.As(err, &verr):
			authapi.NewAPIError(http.StatusBadRequest, authapi.ErrorCodeValidationFailed, verr.Message).WriteError(w)
		case errors.Is(err, store.ErrAlreadyExists):
			authapi.ErrConflict.WriteError(w)
		default:
			log.Error("create user failed", "err", err)
			authapi.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authapi.UserResponse{
		ID:          user.ID.String(),
		Username:    user.Username,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt,
	})
}
