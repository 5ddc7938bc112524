package models

import (
	"time"
)

// Owner represents the single account this backend serves. Exactly one
// owner record may exist; registration fails once it does.
//
// AuthCode and AuthGeneration are the revocation state. AuthGeneration is
// embedded in every session token at signing time; a token whose embedded
// generation differs from the current one is treated as expired.
type Owner struct {
	ID             int64      `json:"id" db:"owner_id"`
	Username       string     `json:"username" db:"username" validate:"required,min=1,max=50"`
	PasswordHash   string     `json:"-" db:"password_hash"`
	Salt           string     `json:"-" db:"salt"`
	AuthCode       string     `json:"-" db:"auth_code"`
	AuthGeneration int64      `json:"-" db:"auth_generation"`
	Name           string     `json:"name" db:"name"`
	Mail           string     `json:"mail,omitempty" db:"mail"`
	URL            string     `json:"url,omitempty" db:"url"`
	Avatar         string     `json:"avatar,omitempty" db:"avatar"`
	Introduce      string     `json:"introduce,omitempty" db:"introduce"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	LastLoginIP    string     `json:"-" db:"last_login_ip"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// NewOwner creates a new Owner instance with the given username.
// Password and auth code fields are populated during registration.
func NewOwner(username, name string) *Owner {
	now := time.Now()
	return &Owner{
		Username:  username,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TableName returns the database table name for the Owner model.
func (o *Owner) TableName() string {
	return "owners"
}

// Sanitize removes sensitive information from the Owner object when sending
// to clients. Hash, salt and revocation state are never exposed.
func (o *Owner) Sanitize() *Owner {
	sanitized := *o
	sanitized.PasswordHash = ""
	sanitized.Salt = ""
	sanitized.AuthCode = ""
	sanitized.AuthGeneration = 0
	sanitized.LastLoginIP = ""
	return &sanitized
}

// Footstep is the previous login trace returned alongside a fresh login,
// so the owner can spot unexpected access.
type Footstep struct {
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	LastLoginIP string     `json:"last_login_ip,omitempty"`
}

// OwnerCredentials represents the login credentials provided by the owner.
type OwnerCredentials struct {
	Username string `json:"username" validate:"required,min=1,max=50"`
	Password string `json:"password" validate:"required,min=4"`
}

// OwnerRegistration represents the data required to register the owner.
type OwnerRegistration struct {
	Username  string `json:"username" validate:"required,min=1,max=50"`
	Password  string `json:"password" validate:"required,min=4"`
	Name      string `json:"name" validate:"omitempty,max=50"`
	Mail      string `json:"mail" validate:"omitempty,email"`
	URL       string `json:"url" validate:"omitempty,url"`
	Avatar    string `json:"avatar" validate:"omitempty,url"`
	Introduce string `json:"introduce" validate:"omitempty,max=255"`
}

// OwnerPatch represents the profile fields the owner can update. A password
// change rotates the revocation state and invalidates all prior sessions.
type OwnerPatch struct {
	Password  string `json:"password" validate:"omitempty,min=4"`
	Name      string `json:"name" validate:"omitempty,max=50"`
	Mail      string `json:"mail" validate:"omitempty,email"`
	URL       string `json:"url" validate:"omitempty,url"`
	Avatar    string `json:"avatar" validate:"omitempty,url"`
	Introduce string `json:"introduce" validate:"omitempty,max=255"`
}
