// Package constants provides shared constant values used throughout the application.
//
// The general_const.go file defines routing, header, and token format constants.
// Keeping them in one place makes the API surface predictable and avoids
// scattering magic strings across packages.
package constants

// Base Routes define the root URL paths for different parts of the API.
const (
	// APIBasePath is the root path prefix for all API endpoints.
	APIBasePath = "/api"

	// HealthPath is the endpoint for health checks and system status.
	HealthPath = "/health"
)

// URL and query parameters used in route definitions.
const (
	// ParamTokenID is the URL parameter for API token identifiers.
	ParamTokenID = "tokenID"

	// QueryParamToken is the query-string fallback carrying a credential
	// when no Authorization header is present.
	QueryParamToken = "token"
)

// HTTP header names consumed or produced by the application.
const (
	// HeaderAuthorization is the standard credential header.
	HeaderAuthorization = "Authorization"

	// HeaderXRequestID carries the unique request identifier.
	HeaderXRequestID = "X-Request-ID"

	// HeaderContentType identifies the media type of the body.
	HeaderContentType = "Content-Type"

	// ContentTypeJSON is the JSON media type.
	ContentTypeJSON = "application/json"
)

// Token format constants. The two credential kinds accepted by the guard
// are structurally distinguishable: API tokens carry a fixed prefix,
// everything else is treated as a session token candidate.
const (
	// BearerTokenPrefix is the conventional prefix on session credentials.
	BearerTokenPrefix = "Bearer "

	// APITokenPrefix marks an opaque long-lived API token. The classifier
	// dispatches on this prefix before any I/O happens.
	APITokenPrefix = "txo"

	// APITokenRandomBytes is the number of random bytes in a generated
	// API token (base64url encoded after the prefix).
	APITokenRandomBytes = 24

	// AuthCodeLength is the length of the rotating auth code stored on
	// the owner record.
	AuthCodeLength = 10
)

// Context keys for request-scoped values. The auth package converts these
// to its typed ContextKey to avoid collisions.
const (
	// OwnerContextKey stores the resolved owner record.
	OwnerContextKey = "owner"

	// TokenContextKey stores the raw credential the request presented.
	TokenContextKey = "token"

	// RequestIDContextKey stores the unique request ID.
	RequestIDContextKey = "request_id"
)

// Response flags.
const (
	// ResponseSuccess marks a successful response envelope.
	ResponseSuccess = true

	// ResponseFailure marks a failed response envelope.
	ResponseFailure = false
)
