package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Innei/mx-gobackend/internal/constants"
	"github.com/Innei/mx-gobackend/internal/models"
	"github.com/Innei/mx-gobackend/internal/utils"
)

// ContextKey is a custom type for request context keys to avoid collisions
type ContextKey string

const (
	// OwnerContextKey is the context key for the authenticated owner
	OwnerContextKey ContextKey = constants.OwnerContextKey

	// TokenContextKey is the context key for the raw credential
	TokenContextKey ContextKey = constants.TokenContextKey

	// RequestIDContextKey is the context key for the request ID
	RequestIDContextKey ContextKey = constants.RequestIDContextKey
)

// TokenVerifier verifies the two credential kinds the guard accepts.
type TokenVerifier interface {
	// IsCustomToken structurally classifies a credential without any I/O.
	IsCustomToken(token string) bool

	// VerifyCustomToken checks an opaque API token against storage.
	// A false result means the credential is unknown or expired; an error
	// means the check itself could not run.
	VerifyCustomToken(ctx context.Context, token string) (bool, error)

	// VerifySessionToken checks a session token's signature, expiry and
	// revocation generation. Same false/error split as above.
	VerifySessionToken(ctx context.Context, token string) (bool, error)
}

// OwnerResolver resolves the owner record for authenticated requests.
type OwnerResolver interface {
	First(ctx context.Context) (*models.Owner, error)
}

// Guard authenticates incoming requests. Every guarded route passes
// through Middleware; handlers behind it can rely on GetOwner.
type Guard struct {
	verifier TokenVerifier
	owners   OwnerResolver
}

// NewGuard creates a new request authentication guard
func NewGuard(verifier TokenVerifier, owners OwnerResolver) *Guard {
	return &Guard{
		verifier: verifier,
		owners:   owners,
	}
}

// Authenticate extracts and verifies the request credential. On success it
// returns the owner and the raw credential; on rejection it returns an
// unauthenticated error with one of the stable guard messages.
func (g *Guard) Authenticate(r *http.Request) (*models.Owner, string, error) {
	credential := extractCredential(r)
	if credential == "" {
		return nil, "", utils.NewUnauthenticatedError(constants.MsgMissingCredential)
	}

	// API tokens are classified by prefix before any I/O.
	if g.verifier.IsCustomToken(credential) {
		ok, err := g.verifier.VerifyCustomToken(r.Context(), credential)
		if err != nil {
			return nil, "", err
		}
		if !ok {
			return nil, "", utils.NewUnauthenticatedError(constants.MsgInvalidCredential)
		}
		return g.resolveOwner(r.Context(), credential)
	}

	// Everything else is a session token candidate. Malformed bearer
	// credentials are rejected without touching the signer or storage.
	token := StripBearerPrefix(credential)
	if !IsJWT(token) {
		return nil, "", utils.NewUnauthenticatedError(constants.MsgInvalidCredential)
	}

	ok, err := g.verifier.VerifySessionToken(r.Context(), token)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", utils.NewUnauthenticatedError(constants.MsgSessionExpired)
	}

	return g.resolveOwner(r.Context(), token)
}

// resolveOwner loads the owner record after a credential verified. A
// missing owner at this point is an infrastructure fault, not a
// credential rejection.
func (g *Guard) resolveOwner(ctx context.Context, credential string) (*models.Owner, string, error) {
	owner, err := g.owners.First(ctx)
	if err != nil {
		return nil, "", utils.NewInternalServerError(err)
	}
	return owner, credential, nil
}

// Middleware wraps a handler with request authentication. Verified
// requests carry the owner and raw credential in their context.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner, token, err := g.Authenticate(r)
		if err != nil {
			var appErr *utils.AppError
			if errors.As(err, &appErr) && utils.IsUnauthenticatedError(appErr) {
				log.Debug().
					Str("path", r.URL.Path).
					Str("reason", appErr.Message).
					Msg("Request rejected by auth guard")
				utils.ErrorFromAppError(w, appErr)
				return
			}
			utils.InternalServerError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), OwnerContextKey, owner)
		ctx = context.WithValue(ctx, TokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractCredential pulls the credential from the Authorization header,
// falling back to the token query parameter.
func extractCredential(r *http.Request) string {
	if header := r.Header.Get(constants.HeaderAuthorization); header != "" {
		return header
	}
	return r.URL.Query().Get(constants.QueryParamToken)
}

// GetOwner retrieves the authenticated owner from the request context
func GetOwner(r *http.Request) (*models.Owner, bool) {
	owner, ok := r.Context().Value(OwnerContextKey).(*models.Owner)
	return owner, ok
}

// GetToken retrieves the raw request credential from the request context
func GetToken(r *http.Request) (string, bool) {
	token, ok := r.Context().Value(TokenContextKey).(string)
	return token, ok
}

// GetRequestID retrieves the request ID from the request context
func GetRequestID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(RequestIDContextKey).(string)
	return id, ok
}
