package http

import (
	"net/http"
	"strconv"

	"github.com/tracknorth/basecamp/internal/auth/service"
	"github.com/tracknorth/basecamp/pkg/authapi"
	"github.com/tracknorth/basecamp/pkg/httpx"
	"github.com/tracknorth/basecamp/pkg/slogx"
)

// EventsHandler serves GET /v1/auth/events: the authenticated user's own
// audit trail, newest first.
type EventsHandler struct {
	Manager *service.Manager
}

// ServeHTTP godoc
//
//	@Summary		Authentication History
//	@Description	Returns the authenticated user's recent authentication attempts, newest first.
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Param			limit	query		int							false	"Maximum records to return (default 50, max 100)"
//	@Success		200		{array}		authapi.AuthEventResponse	"events"
//	@Failure		401		{object}	authapi.APIError			"error, error_description"
//	@Failure		500		{object}	authapi.APIError			"error, error_description"
//	@Router			/v1/auth/events [get].
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := subjectID(r)
	if !ok {
		authapi.ErrInvalidGrant.WriteError(w)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	events, err := h.Manager.ListAuthEvents(ctx, userID, limit)
	if err != nil {
		log.Error("list auth events failed", "err", err)
		authapi.ErrServerError.WriteError(w)
		return
	}

	out := make([]authapi.AuthEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, authapi.AuthEventResponse{
			ID:                   e.ID.String(),
			At:                   e.At,
			ClientID:             e.ClientID.String(),
			Success:              e.Success,
			IncludedRefreshToken: e.IncludedRefreshToken,
			FailureReason:        e.FailureReason,
			IssuedTokenID:        e.IssuedTokenID,
			IPAddress:            e.IPAddress,
			UserAgent:            e.UserAgent,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
