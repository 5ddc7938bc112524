package handlers

import (
	"context"
	"time"

	"github.com/Innei/mx-gobackend/internal/models"
)

// OwnerManager is the owner service surface the handlers depend on.
// Tests substitute lightweight fakes for it.
type OwnerManager interface {
	Register(ctx context.Context, reg *models.OwnerRegistration) (*models.Owner, error)
	ValidateCredentials(ctx context.Context, username, password string) (*models.Owner, error)
	GetOwner(ctx context.Context) (*models.Owner, error)
	Exists(ctx context.Context) (bool, error)
	Patch(ctx context.Context, patch *models.OwnerPatch) (*models.Owner, error)
	RecordLogin(ctx context.Context, id int64, ip string) (*models.Footstep, error)
}

// SessionIssuer mints session tokens after a successful login.
type SessionIssuer interface {
	IssueSessionToken(ctx context.Context, owner *models.Owner) (string, error)
}

// APITokenManager is the API token service surface the handlers depend on.
type APITokenManager interface {
	IssueCustomToken(ctx context.Context, name string, expiresAt *time.Time) (*models.APIToken, error)
	ListAPITokens(ctx context.Context) ([]*models.APIToken, error)
	RevokeAPIToken(ctx context.Context, id int64) error
}
