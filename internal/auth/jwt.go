package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/Innei/mx-gobackend/internal/config"
)

// JWT errors
var (
	ErrInvalidToken         = errors.New("invalid token")
	ErrExpiredToken         = errors.New("token has expired")
	ErrInvalidSigningMethod = errors.New("invalid signing method")
)

// SessionClaims represents the claims in a session token. AuthGeneration
// captures the owner's revocation state at signing time; a mismatch with
// the current generation invalidates the token even before its expiry.
type SessionClaims struct {
	OwnerID        int64 `json:"owner_id"`
	AuthGeneration int64 `json:"auth_generation"`
	jwt.RegisteredClaims
}

// JWTService provides session token signing and parsing
type JWTService struct {
	config *config.JWTSettings
}

// NewJWTService creates a new JWTService instance
func NewJWTService(cfg *config.JWTSettings) *JWTService {
	return &JWTService{
		config: cfg,
	}
}

// Expiry returns the fixed validity horizon for session tokens
func (s *JWTService) Expiry() time.Duration {
	return s.config.Expiry
}

// Sign creates a signed session token for the owner at the given
// revocation generation.
func (s *JWTService) Sign(ownerID, authGeneration int64) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		OwnerID:        ownerID,
		AuthGeneration: authGeneration,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   fmt.Sprintf("%d", ownerID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Expiry)),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Parse validates a session token's signature and expiry and returns its
// claims. Generation comparison happens at the verification layer, which
// holds the current owner state.
func (s *JWTService) Parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return []byte(s.config.Secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
