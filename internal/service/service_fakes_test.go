package service_test

import (
	"context"
	"strings"
	"time"

	"github.com/Innei/mx-gobackend/internal/constants"
	"github.com/Innei/mx-gobackend/internal/models"
	"github.com/Innei/mx-gobackend/internal/utils"
)

// fakeOwnerRepo is an in-memory OwnerRepository for service tests
type fakeOwnerRepo struct {
	owner *models.Owner
	err   error

	nextID int64
}

func newFakeOwnerRepo() *fakeOwnerRepo {
	return &fakeOwnerRepo{nextID: 1}
}

func (f *fakeOwnerRepo) Create(ctx context.Context, owner *models.Owner) error {
	if f.err != nil {
		return f.err
	}
	if f.owner != nil {
		return utils.NewConflictError(constants.MsgOwnerExists)
	}
	owner.ID = f.nextID
	f.nextID++
	clone := *owner
	f.owner = &clone
	return nil
}

func (f *fakeOwnerRepo) First(ctx context.Context) (*models.Owner, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.owner == nil {
		return nil, utils.NewNotFoundError("Owner", "first")
	}
	clone := *f.owner
	return &clone, nil
}

func (f *fakeOwnerRepo) GetByID(ctx context.Context, id int64) (*models.Owner, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.owner == nil || f.owner.ID != id {
		return nil, utils.NewNotFoundError("Owner", id)
	}
	clone := *f.owner
	return &clone, nil
}

func (f *fakeOwnerRepo) GetByUsername(ctx context.Context, username string) (*models.Owner, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.owner == nil || !strings.EqualFold(f.owner.Username, username) {
		return nil, utils.NewNotFoundError("Owner", username)
	}
	clone := *f.owner
	return &clone, nil
}

func (f *fakeOwnerRepo) Update(ctx context.Context, owner *models.Owner) error {
	if f.err != nil {
		return f.err
	}
	if f.owner == nil || f.owner.ID != owner.ID {
		return utils.NewNotFoundError("Owner", owner.ID)
	}
	clone := *owner
	clone.PasswordHash = f.owner.PasswordHash
	clone.Salt = f.owner.Salt
	clone.AuthCode = f.owner.AuthCode
	clone.AuthGeneration = f.owner.AuthGeneration
	f.owner = &clone
	return nil
}

func (f *fakeOwnerRepo) UpdateCredentials(ctx context.Context, id int64, passwordHash, salt, authCode string, authGeneration int64) error {
	if f.err != nil {
		return f.err
	}
	if f.owner == nil || f.owner.ID != id {
		return utils.NewNotFoundError("Owner", id)
	}
	f.owner.PasswordHash = passwordHash
	f.owner.Salt = salt
	f.owner.AuthCode = authCode
	f.owner.AuthGeneration = authGeneration
	return nil
}

func (f *fakeOwnerRepo) Exists(ctx context.Context) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.owner != nil, nil
}

func (f *fakeOwnerRepo) RecordLogin(ctx context.Context, id int64, ip string) (*models.Footstep, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.owner == nil || f.owner.ID != id {
		return nil, utils.NewNotFoundError("Owner", id)
	}

	previous := &models.Footstep{
		LastLoginAt: f.owner.LastLoginAt,
		LastLoginIP: f.owner.LastLoginIP,
	}

	now := time.Now()
	f.owner.LastLoginAt = &now
	f.owner.LastLoginIP = ip

	return previous, nil
}

// fakeTokenRepo is an in-memory TokenRepository for service tests
type fakeTokenRepo struct {
	tokens map[string]*models.APIToken
	err    error

	nextID int64
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{
		tokens: make(map[string]*models.APIToken),
		nextID: 1,
	}
}

func (f *fakeTokenRepo) Create(ctx context.Context, token *models.APIToken) error {
	if f.err != nil {
		return f.err
	}
	token.ID = f.nextID
	f.nextID++
	token.CreatedAt = time.Now()
	clone := *token
	f.tokens[token.Token] = &clone
	return nil
}

func (f *fakeTokenRepo) GetByToken(ctx context.Context, token string) (*models.APIToken, error) {
	if f.err != nil {
		return nil, f.err
	}
	record, ok := f.tokens[token]
	if !ok {
		return nil, utils.NewNotFoundError("APIToken", "token")
	}
	clone := *record
	return &clone, nil
}

func (f *fakeTokenRepo) List(ctx context.Context) ([]*models.APIToken, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.APIToken
	for _, record := range f.tokens {
		clone := *record
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeTokenRepo) Delete(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	for value, record := range f.tokens {
		if record.ID == id {
			delete(f.tokens, value)
			return nil
		}
	}
	return utils.NewNotFoundError("APIToken", id)
}

func (f *fakeTokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var removed int64
	for value, record := range f.tokens {
		if record.IsExpired() {
			delete(f.tokens, value)
			removed++
		}
	}
	return removed, nil
}
