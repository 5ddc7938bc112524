package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Innei/mx-gobackend/internal/auth"
	"github.com/Innei/mx-gobackend/internal/constants"
	"github.com/Innei/mx-gobackend/internal/models"
	"github.com/Innei/mx-gobackend/internal/repository"
	"github.com/Innei/mx-gobackend/internal/utils"
)

// OwnerService manages the owner account: registration, credential
// validation, profile updates and the login trace.
type OwnerService struct {
	ownerRepo   repository.OwnerRepository
	passwordCfg *auth.PasswordConfig
}

// NewOwnerService creates a new OwnerService
func NewOwnerService(ownerRepo repository.OwnerRepository, passwordCfg *auth.PasswordConfig) *OwnerService {
	return &OwnerService{
		ownerRepo:   ownerRepo,
		passwordCfg: passwordCfg,
	}
}

// Register creates the owner account. Exactly one owner may exist; a
// second registration fails with a conflict.
func (s *OwnerService) Register(ctx context.Context, reg *models.OwnerRegistration) (*models.Owner, error) {
	passwordHash, salt, err := auth.HashPassword(reg.Password, s.passwordCfg)
	if err != nil {
		return nil, utils.NewInternalServerError(err)
	}

	authCode, err := auth.GenerateAuthCode()
	if err != nil {
		return nil, utils.NewInternalServerError(err)
	}

	name := reg.Name
	if name == "" {
		name = reg.Username
	}

	owner := models.NewOwner(reg.Username, name)
	owner.PasswordHash = passwordHash
	owner.Salt = salt
	owner.AuthCode = authCode
	owner.AuthGeneration = 1
	owner.Mail = reg.Mail
	owner.URL = reg.URL
	owner.Avatar = reg.Avatar
	owner.Introduce = reg.Introduce

	if err := s.ownerRepo.Create(ctx, owner); err != nil {
		return nil, err
	}

	utils.LogAuth("register", owner.Username, true, "")

	return owner.Sanitize(), nil
}

// ValidateCredentials checks a username and password pair. Unknown
// usernames and wrong passwords fail identically so the response never
// reveals which part was wrong.
func (s *OwnerService) ValidateCredentials(ctx context.Context, username, password string) (*models.Owner, error) {
	owner, err := s.ownerRepo.GetByUsername(ctx, username)
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.LogAuth("login", username, false, "unknown username")
			return nil, utils.NewUnauthenticatedError(constants.MsgBadCredentials)
		}
		return nil, err
	}

	match, err := auth.VerifyPassword(password, owner.PasswordHash, owner.Salt, s.passwordCfg)
	if err != nil {
		return nil, utils.NewInternalServerError(err)
	}

	if !match {
		utils.LogAuth("login", username, false, "wrong password")
		return nil, utils.NewUnauthenticatedError(constants.MsgBadCredentials)
	}

	utils.LogAuth("login", username, true, "")

	return owner, nil
}

// GetOwner returns the owner record
func (s *OwnerService) GetOwner(ctx context.Context) (*models.Owner, error) {
	return s.ownerRepo.First(ctx)
}

// Exists reports whether the owner account has been registered
func (s *OwnerService) Exists(ctx context.Context) (bool, error) {
	return s.ownerRepo.Exists(ctx)
}

// Patch updates the owner's profile and, when a new password is present,
// rotates the credentials. Returns the updated, sanitized owner.
func (s *OwnerService) Patch(ctx context.Context, patch *models.OwnerPatch) (*models.Owner, error) {
	owner, err := s.ownerRepo.First(ctx)
	if err != nil {
		return nil, err
	}

	if patch.Password != "" {
		if err := s.changePassword(ctx, owner, patch.Password); err != nil {
			return nil, err
		}
	}

	if patch.Name != "" {
		owner.Name = patch.Name
	}
	if patch.Mail != "" {
		owner.Mail = patch.Mail
	}
	if patch.URL != "" {
		owner.URL = patch.URL
	}
	if patch.Avatar != "" {
		owner.Avatar = patch.Avatar
	}
	if patch.Introduce != "" {
		owner.Introduce = patch.Introduce
	}

	if err := s.ownerRepo.Update(ctx, owner); err != nil {
		return nil, err
	}

	return owner.Sanitize(), nil
}

// changePassword replaces the owner's password and rotates the revocation
// state. Reusing the current password is rejected and leaves the state
// untouched, so existing sessions stay valid.
func (s *OwnerService) changePassword(ctx context.Context, owner *models.Owner, newPassword string) error {
	same, err := auth.VerifyPassword(newPassword, owner.PasswordHash, owner.Salt, s.passwordCfg)
	if err != nil {
		return utils.NewInternalServerError(err)
	}
	if same {
		return utils.NewUnprocessableError(constants.MsgSamePassword)
	}

	passwordHash, salt, err := auth.HashPassword(newPassword, s.passwordCfg)
	if err != nil {
		return utils.NewInternalServerError(err)
	}

	authCode, err := auth.GenerateAuthCode()
	if err != nil {
		return utils.NewInternalServerError(err)
	}

	newGeneration := owner.AuthGeneration + 1
	if err := s.ownerRepo.UpdateCredentials(ctx, owner.ID, passwordHash, salt, authCode, newGeneration); err != nil {
		return err
	}

	owner.PasswordHash = passwordHash
	owner.Salt = salt
	owner.AuthCode = authCode
	owner.AuthGeneration = newGeneration

	log.Info().
		Int64("owner_id", owner.ID).
		Msg("Owner password changed, prior sessions invalidated")

	return nil
}

// RecordLogin overwrites the login trace and returns the previous one
func (s *OwnerService) RecordLogin(ctx context.Context, id int64, ip string) (*models.Footstep, error) {
	return s.ownerRepo.RecordLogin(ctx, id, ip)
}
