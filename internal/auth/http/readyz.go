package http

import (
	"net/http"
	"time"

	"github.com/tracknorth/basecamp/internal/auth/store"
	"github.com/tracknorth/basecamp/pkg/authapi"
	"github.com/tracknorth/basecamp/pkg/httpx"
	"github.com/tracknorth/basecamp/pkg/jwtx"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, and status of the database and token signer
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authapi.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authapi.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	signer *jwtx.Signer,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &authapi.HealthChecks{
			Database: "ok",
			Signer:   "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if signer == nil {
			checks.Signer = "error: no signing key loaded"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, authapi.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
