package models

import (
	"time"
)

// APIToken represents a long-lived opaque credential issued by the owner
// for scripts and integrations. The token value carries a fixed prefix so
// it can be told apart from a session token without touching storage.
type APIToken struct {
	ID        int64      `json:"id" db:"token_id"`
	Token     string     `json:"token,omitempty" db:"token"`
	Name      string     `json:"name" db:"name"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// TableName returns the database table name for the APIToken model.
func (t *APIToken) TableName() string {
	return "api_tokens"
}

// IsExpired reports whether the token has passed its expiry. Tokens without
// an expiry never expire.
func (t *APIToken) IsExpired() bool {
	if t.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*t.ExpiresAt)
}

// Sanitize blanks the token value for list responses. The full value is
// only shown once, at creation time.
func (t *APIToken) Sanitize() *APIToken {
	sanitized := *t
	sanitized.Token = ""
	return &sanitized
}

// APITokenCreate represents a request to mint a new API token.
type APITokenCreate struct {
	Name      string     `json:"name" validate:"required,min=1,max=50"`
	ExpiresAt *time.Time `json:"expires_at" validate:"omitempty"`
}
