package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/tracknorth/basecamp/pkg/jwtx"
	"github.com/tracknorth/basecamp/pkg/slogx"
)

// TokenVerifier validates a bearer token string and returns its claims.
// *jwtx.Signer satisfies this.
type TokenVerifier interface {
	Verify(token string) (jwtx.Claims, error)
}

// AuthnMiddleware rejects requests without a valid bearer token and injects
// the verified claims into the request context.
func AuthnMiddleware(v TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("bearer verify failed", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			ctx = context.WithValue(ctx, CtxKeyUserID, claims.Subject)
			ctx = context.WithValue(ctx, CtxKeyClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets the request through only when the verified claims carry
// the given role.
func RequireRole(role string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok || !claims.HasRole(role) {
				w.Header().Set("WWW-Authenticate", `Bearer error="insufficient_scope", scope="`+role+`"`)
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte("insufficient_role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
