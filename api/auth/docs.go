// Package auth registers the Swagger document for the authentication service.
// Regenerate with: swag init -g internal/auth/http/router.go -o api/auth
package auth

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "TrackNorth Engineering",
            "url": "https://github.com/tracknorth/basecamp"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/livez": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check Endpoint",
                "responses": {
                    "200": {
                        "description": "status, uptime, version",
                        "schema": {"$ref": "#/definitions/authapi.HealthResponse"}
                    }
                }
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {
                        "description": "status, uptime, version, checks",
                        "schema": {"$ref": "#/definitions/authapi.HealthResponse"}
                    },
                    "503": {
                        "description": "service not ready",
                        "schema": {"$ref": "#/definitions/authapi.HealthResponse"}
                    }
                }
            }
        },
        "/v1/auth/token": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Token Endpoint",
                "parameters": [
                    {"type": "string", "name": "grant_type", "in": "formData", "required": true, "enum": ["password", "refresh_token"]},
                    {"type": "string", "name": "username", "in": "formData"},
                    {"type": "string", "name": "password", "in": "formData"},
                    {"type": "string", "name": "refresh_token", "in": "formData"},
                    {"type": "string", "name": "client_id", "in": "formData", "required": true},
                    {"type": "boolean", "name": "include_refresh_token", "in": "formData"},
                    {"type": "string", "name": "concurrency_stamp", "in": "formData"}
                ],
                "responses": {
                    "200": {
                        "description": "access_token, token_type, expires_in, refresh_token, concurrency_stamp",
                        "schema": {"$ref": "#/definitions/authapi.TokenResponse"}
                    },
                    "400": {"description": "error, error_description", "schema": {"$ref": "#/definitions/authapi.APIError"}},
                    "401": {"description": "error, error_description", "schema": {"$ref": "#/definitions/authapi.APIError"}},
                    "500": {"description": "error, error_description", "schema": {"$ref": "#/definitions/authapi.APIError"}}
                }
            }
        },
        "/v1/auth/revoke": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Revoke Refresh Token",
                "parameters": [
                    {"type": "string", "name": "refresh_token", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "revoked", "schema": {"$ref": "#/definitions/authapi.RevokeResponse"}},
                    "400": {"description": "error, error_description", "schema": {"$ref": "#/definitions/authapi.APIError"}},
                    "401": {"description": "error, error_description", "schema": {"$ref": "#/definitions/authapi.APIError"}},
                    "500": {"description": "error, error_description", "schema": {"$ref": "#/definitions/authapi.APIError"}}
                }
            }
        },
        "/v1/auth/revoke-all": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Revoke All Refresh Tokens",
                "responses": {
                    "200": {"description": "revoked", "schema": {"$ref": "#/definitions/authapi.RevokeResponse"}},
                    "401": {"description": "error, error_description", "schema": {"$ref": "#/definitions/authapi.APIError"}},
                    "500": {"description": "error, error_description", "schema": {"$ref": "#/definitions/authapi.APIError"}}
                }
            }
        },
        "/v1/auth/events": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Authentication History",
                "parameters": [
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "events",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/authapi.AuthEventResponse"}}
                    },
                    "401": {"description": "error, error_description", "schema": {"$ref": "#/definitions/authapi.APIError"}},
                    "500": {"description": "error, error_description", "schema": {"$ref": "#/definitions/authapi.APIError"}}
                }
            }
        },
        "/v1/users": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Create User",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authapi.CreateUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "id, username, display_name, created_at", "schema": {"$ref": "#/definitions/authapi.UserResponse"}},
                    "400": {"description": "error, error_description", "schema": {"$ref": "#/definitions/authapi.APIError"}},
                    "401": {"description": "error, error_description", "schema": {"$ref": "#/definitions/authapi.APIError"}},
                    "403": {"description": "error, error_description", "schema": {"$ref": "#/definitions/authapi.APIError"}},
                    "409": {"description": "error, error_description", "schema": {"$ref": "#/definitions/authapi.APIError"}},
                    "500": {"description": "error, error_description", "schema": {"$ref": "#/definitions/authapi.APIError"}}
                }
            }
        },
        "/v1/clients": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Clients"],
                "summary": "List Clients",
                "responses": {
                    "200": {
                        "description": "clients",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/authapi.ClientResponse"}}
                    },
                    "401": {"description": "error, error_description", "schema": {"$ref": "#/definitions/authapi.APIError"}},
                    "500": {"description": "error, error_description", "schema": {"$ref": "#/definitions/authapi.APIError"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Clients"],
                "summary": "Register Client",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authapi.CreateClientRequest"}}
                ],
                "responses": {
                    "201": {"description": "id, name, created_at", "schema": {"$ref": "#/definitions/authapi.ClientResponse"}},
                    "400": {"description": "error, error_description", "schema": {"$ref": "#/definitions/authapi.APIError"}},
                    "409": {"description": "error, error_description", "schema": {"$ref": "#/definitions/authapi.APIError"}},
                    "500": {"description": "error, error_description", "schema": {"$ref": "#/definitions/authapi.APIError"}}
                }
            }
        }
    },
    "definitions": {
        "authapi.APIError": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "error_description": {"type": "string"}
            }
        },
        "authapi.TokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string"},
                "expires_in": {"type": "integer"},
                "refresh_token": {"type": "string"},
                "concurrency_stamp": {"type": "string"},
                "display_name": {"type": "string"}
            }
        },
        "authapi.RevokeResponse": {
            "type": "object",
            "properties": {
                "revoked": {"type": "boolean"}
            }
        },
        "authapi.CreateUserRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "display_name": {"type": "string"},
                "password": {"type": "string"},
                "roles": {"type": "array", "items": {"type": "string"}}
            }
        },
        "authapi.UserResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "display_name": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "authapi.CreateClientRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}
            }
        },
        "authapi.ClientResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "authapi.AuthEventResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "at": {"type": "string"},
                "client_id": {"type": "string"},
                "success": {"type": "boolean"},
                "included_refresh_token": {"type": "boolean"},
                "failure_reason": {"type": "string"},
                "issued_token_id": {"type": "string"},
                "ip_address": {"type": "string"},
                "user_agent": {"type": "string"}
            }
        },
        "authapi.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "version": {"type": "string"},
                "uptime": {"type": "string"},
                "checks": {"$ref": "#/definitions/authapi.HealthChecks"}
            }
        },
        "authapi.HealthChecks": {
            "type": "object",
            "properties": {
                "database": {"type": "string"},
                "signer": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT bearer token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Basecamp Authentication Service API",
	Description:      "Credential issuance for the Basecamp platform: password and refresh-token authentication with HS512-signed bearer tokens, single-use refresh token rotation, and a per-user authentication audit trail.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
