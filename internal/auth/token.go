package auth

import (
	"encoding/base64"
	"strings"

	"github.com/Innei/mx-gobackend/internal/constants"
)

// IsCustomToken reports whether a credential is an opaque API token.
// Classification is purely structural so it never requires storage access.
func IsCustomToken(token string) bool {
	return strings.HasPrefix(token, constants.APITokenPrefix)
}

// IsJWT reports whether a credential is structurally a JWT: three non-empty
// base64url segments separated by dots. A bearer credential failing this
// check is rejected outright instead of being handed to the parser.
func IsJWT(token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	for _, part := range parts {
		if part == "" {
			return false
		}
		if _, err := base64.RawURLEncoding.DecodeString(part); err != nil {
			return false
		}
	}
	return true
}

// StripBearerPrefix removes a leading "Bearer " scheme marker, matched
// case-insensitively. Credentials without the marker pass through as is.
func StripBearerPrefix(credential string) string {
	prefix := constants.BearerTokenPrefix
	if len(credential) >= len(prefix) && strings.EqualFold(credential[:len(prefix)], prefix) {
		return credential[len(prefix):]
	}
	return credential
}

// NewAPITokenValue mints a fresh opaque API token value with the fixed
// prefix that marks it as a custom token.
func NewAPITokenValue() (string, error) {
	b, err := GenerateRandomBytes(constants.APITokenRandomBytes)
	if err != nil {
		return "", err
	}
	return constants.APITokenPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}
