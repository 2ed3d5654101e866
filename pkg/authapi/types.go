// Package authapi holds the wire types shared by the HTTP handlers and any
// Go client of the service.
package authapi

import "time"

// TokenResponse is returned by POST /v1/auth/token on success.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"` // always "Bearer"
	ExpiresIn   int    `json:"expires_in"` // seconds until the access token expires

	// RefreshToken is present only when the request asked for one.
	RefreshToken string `json:"refresh_token,omitempty"`

	// ConcurrencyStamp echoes the request's stamp byte for byte so callers
	// can discard responses to superseded requests.
	ConcurrencyStamp string `json:"concurrency_stamp,omitempty"`

	DisplayName string `json:"display_name,omitempty"`
}

// RevokeResponse reports the outcome of a revocation request.
type RevokeResponse struct {
	Revoked bool `json:"revoked"`
}

// CreateUserRequest provisions a new account.
type CreateUserRequest struct {
	Username    string   `json:"username"`
	DisplayName string   `json:"display_name"`
	Password    string   `json:"password"`
	Roles       []string `json:"roles,omitempty"`
}

// UserResponse describes an account.
type UserResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateClientRequest registers a client application.
type CreateClientRequest struct {
	Name string `json:"name"`
}

// ClientResponse describes a registered client application.
type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthEventResponse is one audit record.
type AuthEventResponse struct {
	ID                   string    `json:"id"`
	At                   time.Time `json:"at"`
	ClientID             string    `json:"client_id"`
	Success              bool      `json:"success"`
	IncludedRefreshToken bool      `json:"included_refresh_token"`
	FailureReason        string    `json:"failure_reason,omitempty"`
	IssuedTokenID        string    `json:"issued_token_id,omitempty"`
	IPAddress            string    `json:"ip_address,omitempty"`
	UserAgent            string    `json:"user_agent,omitempty"`
}

// HealthResponse is returned by the livez and readyz endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Version string        `json:"version,omitempty"`
	Uptime  string        `json:"uptime,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
