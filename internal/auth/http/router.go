package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tracknorth/basecamp/internal/auth/service"
	"github.com/tracknorth/basecamp/internal/auth/store"
	"github.com/tracknorth/basecamp/pkg/httpx"
	"github.com/tracknorth/basecamp/pkg/jwtx"
	"github.com/tracknorth/basecamp/pkg/slogx"

	_ "github.com/tracknorth/basecamp/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer       *jwtx.Signer
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	AuthService *service.AuthService
	Manager     *service.Manager
}

func NewRouter(
	signer *jwtx.Signer,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerClients()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Basecamp Authentication Service API
//	@version		0.1.0
//	@description	Credential issuance for the Basecamp platform: password and refresh-token
//	@description	authentication with HS512-signed bearer tokens, single-use refresh token
//	@description	rotation, and a per-user authentication audit trail.
//
//	@contact.name				TrackNorth Engineering
//	@contact.url				https://github.com/tracknorth/basecamp
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT bearer token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /token - strict rate limit by IP + username to slow brute force
	// without letting one address lock out a shared NAT.
	tokenHandler := &TokenHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /v1/auth/token",
		httpx.Chain(tokenHandler,
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "username"),
		),
	)

	// POST /revoke - authenticated, moderate rate limit
	revokeHandler := &RevokeHandler{Manager: r.Manager}
	r.Mux.Handle("POST /v1/auth/revoke",
		httpx.Chain(revokeHandler,
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// POST /revoke-all - authenticated, moderate rate limit
	revokeAllHandler := &RevokeAllHandler{Manager: r.Manager}
	r.Mux.Handle("POST /v1/auth/revoke-all",
		httpx.Chain(revokeAllHandler,
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// GET /events - the caller's own audit trail
	eventsHandler := &EventsHandler{Manager: r.Manager}
	r.Mux.Handle("GET /v1/auth/events",
		httpx.Chain(eventsHandler,
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{Manager: r.Manager}

	secured := httpx.Chain(http.HandlerFunc(h.HandleCreate),
		httpx.AuthnMiddleware(r.signer),
		httpx.RequireRole("admin"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	r.Mux.Handle("POST /v1/users", secured)
}

func (r *Router) registerClients() {
	h := &ClientsHandler{Manager: r.Manager}

	securedCreate := httpx.Chain(http.HandlerFunc(h.HandleCreate),
		httpx.AuthnMiddleware(r.signer),
		httpx.RequireRole("admin"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	securedList := httpx.Chain(http.HandlerFunc(h.HandleList),
		httpx.AuthnMiddleware(r.signer),
		httpx.RequireRole("admin"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	r.Mux.Handle("POST /v1/clients", securedCreate)
	r.Mux.Handle("GET /v1/clients", securedList)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits, monitoring may poll often.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.signer),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
