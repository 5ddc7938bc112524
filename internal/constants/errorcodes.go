// Package constants provides shared constant values used throughout the application.
//
// The errorcodes.go file defines machine-readable error codes and the
// human-readable messages paired with them. Clients dispatch on the codes;
// the messages are stable but informational only.
package constants

// Machine-readable error codes included in error response envelopes.
const (
	// CodeUnauthenticated covers every credential rejection.
	CodeUnauthenticated = "unauthenticated"

	// CodeTokenExpired marks a session token that failed the
	// signature/expiry/revocation check.
	CodeTokenExpired = "session_expired"

	// CodeConflict marks duplicate-resource rejections.
	CodeConflict = "conflict"

	// CodeUnprocessable marks semantically invalid input.
	CodeUnprocessable = "unprocessable"

	// CodeNotFound marks operations on missing resources.
	CodeNotFound = "not_found"

	// CodeValidationError marks failed request payload validation.
	CodeValidationError = "validation_error"

	// CodeBadRequest marks malformed requests.
	CodeBadRequest = "bad_request"

	// CodeRateLimited marks throttled requests.
	CodeRateLimited = "rate_limited"

	// CodeInternalError marks infrastructure faults. These are kept
	// strictly separate from credential rejections.
	CodeInternalError = "internal_error"
)

// Stable error messages surfaced by the authentication guard. Tests and
// clients rely on these exact strings.
const (
	// MsgMissingCredential is returned when no token is present at all.
	MsgMissingCredential = "missing credential"

	// MsgInvalidCredential is returned for tokens that fail structural or
	// API-token verification.
	MsgInvalidCredential = "invalid credential"

	// MsgSessionExpired is returned for session tokens that fail
	// signature, expiry, or revocation checks.
	MsgSessionExpired = "session expired"

	// MsgBadCredentials is the uniform login failure message. It does not
	// distinguish an unknown username from a wrong password.
	MsgBadCredentials = "bad credentials"

	// MsgOwnerExists is returned when registering while an owner exists.
	MsgOwnerExists = "owner already exists"

	// MsgSamePassword is returned when a password change repeats the
	// current password.
	MsgSamePassword = "same as current"
)
