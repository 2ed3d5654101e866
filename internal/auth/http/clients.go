package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/tracknorth/basecamp/internal/auth/service"
	"github.com/tracknorth/basecamp/internal/auth/store"
	"github.com/tracknorth/basecamp/pkg/authapi"
	"github.com/tracknorth/basecamp/pkg/httpx"
	"github.com/tracknorth/basecamp/pkg/slogx"
)

// ClientsHandler serves client application registration and listing.
type ClientsHandler struct {
	Manager *service.Manager
}

// HandleCreate godoc
//
//	@Summary		Register Client
//	@Description	Registers a client application. Requires the admin role.
//	@Tags			Clients
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		authapi.CreateClientRequest	true	"New client application"
//	@Success		201		{object}	authapi.ClientResponse		"id, name, created_at"
//	@Failure		400		{object}	authapi.APIError			"error, error_description"
//	@Failure		409		{object}	authapi.APIError			"error, error_description"
//	@Failure		500		{object}	authapi.APIError			"error, error_description"
//	@Router			/v1/clients [post].
func (h *ClientsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authapi.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	client, err := h.Manager.CreateClient(ctx, strings.TrimSpace(req.Name))
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			authapi.ErrConflict.WriteError(w)
			return
		}
		log.Error("create client failed", "err", err)
		authapi.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authapi.ClientResponse{
		ID:        client.ID.String(),
		Name:      client.Name,
		CreatedAt: client.CreatedAt,
	})
}

// HandleList godoc
//
//	@Summary		List Clients
//	@Description	Lists registered client applications, newest first. Requires the admin role.
//	@Tags			Clients
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		authapi.ClientResponse	"clients"
//	@Failure		401	{object}	authapi.APIError		"error, error_description"
//	@Failure		500	{object}	authapi.APIError		"error, error_description"
//	@Router			/v1/clients [get].
func (h *ClientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	clients, err := h.Manager.ListClients(ctx)
	if err != nil {
		log.Error("list clients failed", "err", err)
		authapi.ErrServerError.WriteError(w)
		return
	}

	out := make([]authapi.ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, authapi.ClientResponse{
			ID:        c.ID.String(),
			Name:      c.Name,
			CreatedAt: c.CreatedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
