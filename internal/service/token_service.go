package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Innei/mx-gobackend/internal/auth"
	"github.com/Innei/mx-gobackend/internal/models"
	"github.com/Innei/mx-gobackend/internal/repository"
	"github.com/Innei/mx-gobackend/internal/utils"
)

// TokenService issues and verifies both credential kinds: signed session
// tokens and opaque API tokens. It implements auth.TokenVerifier.
type TokenService struct {
	jwtService    *auth.JWTService
	tokenRepo     repository.TokenRepository
	ownerRepo     repository.OwnerRepository
	defaultExpiry time.Duration
}

// NewTokenService creates a new TokenService
func NewTokenService(
	jwtService *auth.JWTService,
	tokenRepo repository.TokenRepository,
	ownerRepo repository.OwnerRepository,
	defaultExpiry time.Duration,
) *TokenService {
	return &TokenService{
		jwtService:    jwtService,
		tokenRepo:     tokenRepo,
		ownerRepo:     ownerRepo,
		defaultExpiry: defaultExpiry,
	}
}

// IssueSessionToken signs a fresh session token for the owner, embedding
// the current revocation generation.
func (s *TokenService) IssueSessionToken(ctx context.Context, owner *models.Owner) (string, error) {
	token, err := s.jwtService.Sign(owner.ID, owner.AuthGeneration)
	if err != nil {
		return "", utils.NewInternalServerError(err)
	}

	utils.LogAuth("session_token_issued", owner.Username, true, "")

	return token, nil
}

// VerifySessionToken checks a session token's signature, expiry and
// revocation generation against the current owner state. A false result
// means the token is rejected; an error means the check could not run.
func (s *TokenService) VerifySessionToken(ctx context.Context, token string) (bool, error) {
	claims, err := s.jwtService.Parse(token)
	if err != nil {
		// Bad signature and past expiry are both verification outcomes,
		// not faults.
		return false, nil
	}

	owner, err := s.ownerRepo.GetByID(ctx, claims.OwnerID)
	if err != nil {
		if utils.IsNotFoundError(err) {
			return false, nil
		}
		return false, err
	}

	// A generation mismatch means the password changed after this token
	// was signed. The token is expired, not merely invalid.
	if claims.AuthGeneration != owner.AuthGeneration {
		log.Debug().
			Int64("token_generation", claims.AuthGeneration).
			Int64("current_generation", owner.AuthGeneration).
			Msg("Session token generation mismatch")
		return false, nil
	}

	return true, nil
}

// IsCustomToken structurally classifies a credential as an opaque API token
func (s *TokenService) IsCustomToken(token string) bool {
	return auth.IsCustomToken(token)
}

// VerifyCustomToken checks an opaque API token against storage. Unknown
// and expired tokens both verify false.
func (s *TokenService) VerifyCustomToken(ctx context.Context, token string) (bool, error) {
	record, err := s.tokenRepo.GetByToken(ctx, token)
	if err != nil {
		if utils.IsNotFoundError(err) {
			return false, nil
		}
		return false, err
	}

	if record.IsExpired() {
		return false, nil
	}

	return true, nil
}

// IssueCustomToken mints a new opaque API token. Tokens created without an
// explicit expiry get the configured default horizon.
func (s *TokenService) IssueCustomToken(ctx context.Context, name string, expiresAt *time.Time) (*models.APIToken, error) {
	value, err := auth.NewAPITokenValue()
	if err != nil {
		return nil, utils.NewInternalServerError(err)
	}

	if expiresAt == nil {
		t := time.Now().Add(s.defaultExpiry)
		expiresAt = &t
	}

	token := &models.APIToken{
		Token:     value,
		Name:      name,
		ExpiresAt: expiresAt,
	}

	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	return token, nil
}

// ListAPITokens returns all API tokens with their values blanked
func (s *TokenService) ListAPITokens(ctx context.Context) ([]*models.APIToken, error) {
	tokens, err := s.tokenRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	sanitized := make([]*models.APIToken, 0, len(tokens))
	for _, token := range tokens {
		sanitized = append(sanitized, token.Sanitize())
	}

	return sanitized, nil
}

// RevokeAPIToken deletes an API token by ID. Revocation of an opaque
// token takes effect immediately since every use hits storage.
func (s *TokenService) RevokeAPIToken(ctx context.Context, id int64) error {
	return s.tokenRepo.Delete(ctx, id)
}

// CleanupExpiredAPITokens removes API tokens past their expiry
func (s *TokenService) CleanupExpiredAPITokens(ctx context.Context) (int64, error) {
	return s.tokenRepo.DeleteExpired(ctx)
}
