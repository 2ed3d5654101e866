package authapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tracknorth/basecamp/pkg/httpx"
)

// Wire error codes. The token endpoint follows the OAuth2 naming so off the
// shelf clients can interpret failures.
const (
	ErrorCodeInvalidRequest       = "invalid_request"
	ErrorCodeInvalidGrant         = "invalid_grant"
	ErrorCodeUnsupportedGrantType = "unsupported_grant_type"
	ErrorCodeValidationFailed     = "validation_failed"
	ErrorCodeConflict             = "conflict"
	ErrorCodeServerError          = "server_error"
)

// APIError is the JSON error envelope every endpoint returns. It implements
// error so the SDK client can surface it directly.
type APIError struct {
	// StatusCode is the HTTP status for this error, not serialized.
	StatusCode int `json:"-"`

	// Code is the machine-readable error code.
	Code string `json:"error"`

	// Description is a human-readable description of the error.
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes the error as a JSON HTTP response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

// NewAPIError builds an error with a request-specific description.
func NewAPIError(status int, code, description string) *APIError {
	return &APIError{StatusCode: status, Code: code, Description: description}
}

var (
	// ErrInvalidRequest covers malformed or incomplete request bodies.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrInvalidContentType rejects bodies that are not form-encoded where the
	// endpoint requires it.
	ErrInvalidContentType = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "content type must be application/x-www-form-urlencoded",
	}

	// ErrInvalidFormBody rejects bodies that fail form parsing.
	ErrInvalidFormBody = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "request body is not valid form data",
	}

	// ErrInvalidGrant is the single answer to every failed authentication.
	// The true reason lives in the audit trail only.
	ErrInvalidGrant = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidGrant,
		Description: "invalid credentials",
	}

	// ErrUnsupportedGrantType rejects grant types this service does not issue.
	ErrUnsupportedGrantType = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeUnsupportedGrantType,
		Description: "grant type not supported",
	}

	// ErrConflict reports a uniqueness collision, e.g. a taken username.
	ErrConflict = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeConflict,
		Description: "resource already exists",
	}

	// ErrServerError is the catch-all for unexpected failures.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)
