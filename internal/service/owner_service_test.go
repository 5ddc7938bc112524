package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Innei/mx-gobackend/internal/auth"
	"github.com/Innei/mx-gobackend/internal/constants"
	"github.com/Innei/mx-gobackend/internal/models"
	"github.com/Innei/mx-gobackend/internal/service"
	"github.com/Innei/mx-gobackend/internal/utils"
)

func testPasswordConfig() *auth.PasswordConfig {
	return &auth.PasswordConfig{
		Memory:      constants.DevPasswordHashMemory,
		Iterations:  constants.DevPasswordHashIterations,
		Parallelism: constants.DefaultPasswordHashParallelism,
		SaltLength:  constants.DefaultPasswordHashSaltLength,
		KeyLength:   constants.DefaultPasswordHashKeyLength,
	}
}

func newOwnerService() (*service.OwnerService, *fakeOwnerRepo) {
	repo := newFakeOwnerRepo()
	return service.NewOwnerService(repo, testPasswordConfig()), repo
}

func registerOwner(t *testing.T, svc *service.OwnerService) *models.Owner {
	t.Helper()
	owner, err := svc.Register(context.Background(), &models.OwnerRegistration{
		Username: "innei",
		Password: "original-password",
		Name:     "Innei",
	})
	require.NoError(t, err)
	return owner
}

func TestOwnerService_Register(t *testing.T) {
	svc, repo := newOwnerService()

	owner := registerOwner(t, svc)

	assert.Equal(t, "innei", owner.Username)
	assert.Equal(t, "Innei", owner.Name)
	// Sanitized response never carries credential material
	assert.Empty(t, owner.PasswordHash)
	assert.Empty(t, owner.Salt)
	assert.Empty(t, owner.AuthCode)

	// The stored record does
	stored := repo.owner
	require.NotNil(t, stored)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEmpty(t, stored.Salt)
	assert.Len(t, stored.AuthCode, constants.AuthCodeLength)
	assert.Equal(t, int64(1), stored.AuthGeneration)
	assert.NotEqual(t, "original-password", stored.PasswordHash)
}

func TestOwnerService_Register_DefaultsNameToUsername(t *testing.T) {
	svc, _ := newOwnerService()

	owner, err := svc.Register(context.Background(), &models.OwnerRegistration{
		Username: "innei",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "innei", owner.Name)
}

func TestOwnerService_Register_SecondAttemptConflicts(t *testing.T) {
	svc, _ := newOwnerService()
	registerOwner(t, svc)

	_, err := svc.Register(context.Background(), &models.OwnerRegistration{
		Username: "someone-else",
		Password: "whatever",
	})
	require.Error(t, err)
	assert.True(t, utils.IsConflictError(err))
}

func TestOwnerService_ValidateCredentials(t *testing.T) {
	svc, _ := newOwnerService()
	registerOwner(t, svc)

	owner, err := svc.ValidateCredentials(context.Background(), "innei", "original-password")
	require.NoError(t, err)
	assert.Equal(t, "innei", owner.Username)
}

func TestOwnerService_ValidateCredentials_UniformFailure(t *testing.T) {
	svc, _ := newOwnerService()
	registerOwner(t, svc)

	// Wrong password and unknown username must fail identically
	_, wrongPassErr := svc.ValidateCredentials(context.Background(), "innei", "wrong")
	_, unknownUserErr := svc.ValidateCredentials(context.Background(), "nobody", "wrong")

	require.Error(t, wrongPassErr)
	require.Error(t, unknownUserErr)
	assert.True(t, utils.IsUnauthenticatedError(wrongPassErr))
	assert.True(t, utils.IsUnauthenticatedError(unknownUserErr))
	assert.Equal(t, wrongPassErr.Error(), unknownUserErr.Error())
}

func TestOwnerService_Patch_Profile(t *testing.T) {
	svc, repo := newOwnerService()
	registerOwner(t, svc)

	before := *repo.owner

	owner, err := svc.Patch(context.Background(), &models.OwnerPatch{
		Name:      "New Name",
		Introduce: "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", owner.Name)
	assert.Equal(t, "hello", owner.Introduce)

	// Profile-only patch leaves the revocation state alone
	assert.Equal(t, before.AuthCode, repo.owner.AuthCode)
	assert.Equal(t, before.AuthGeneration, repo.owner.AuthGeneration)
}

func TestOwnerService_Patch_PasswordChangeRotatesState(t *testing.T) {
	svc, repo := newOwnerService()
	registerOwner(t, svc)

	before := *repo.owner

	_, err := svc.Patch(context.Background(), &models.OwnerPatch{
		Password: "brand-new-password",
	})
	require.NoError(t, err)

	after := repo.owner
	assert.NotEqual(t, before.PasswordHash, after.PasswordHash)
	assert.NotEqual(t, before.AuthCode, after.AuthCode)
	assert.Equal(t, before.AuthGeneration+1, after.AuthGeneration)

	// The new password works, the old one does not
	_, err = svc.ValidateCredentials(context.Background(), "innei", "brand-new-password")
	assert.NoError(t, err)
	_, err = svc.ValidateCredentials(context.Background(), "innei", "original-password")
	assert.Error(t, err)
}

func TestOwnerService_Patch_SamePasswordRejected(t *testing.T) {
	svc, repo := newOwnerService()
	registerOwner(t, svc)

	before := *repo.owner

	_, err := svc.Patch(context.Background(), &models.OwnerPatch{
		Password: "original-password",
	})
	require.Error(t, err)
	assert.True(t, utils.IsUnprocessableError(err))

	// Rejection leaves the stored state completely untouched
	assert.Equal(t, before.PasswordHash, repo.owner.PasswordHash)
	assert.Equal(t, before.AuthCode, repo.owner.AuthCode)
	assert.Equal(t, before.AuthGeneration, repo.owner.AuthGeneration)
}

func TestOwnerService_RecordLogin_ReturnsPreviousFootstep(t *testing.T) {
	svc, _ := newOwnerService()
	owner := registerOwner(t, svc)

	// First login: no previous trace
	first, err := svc.RecordLogin(context.Background(), owner.ID, "1.2.3.4")
	require.NoError(t, err)
	assert.Nil(t, first.LastLoginAt)
	assert.Empty(t, first.LastLoginIP)

	// Second login: previous trace is the first one
	second, err := svc.RecordLogin(context.Background(), owner.ID, "5.6.7.8")
	require.NoError(t, err)
	require.NotNil(t, second.LastLoginAt)
	assert.Equal(t, "1.2.3.4", second.LastLoginIP)
}

func TestOwnerService_Exists(t *testing.T) {
	svc, _ := newOwnerService()

	exists, err := svc.Exists(context.Background())
	require.NoError(t, err)
	assert.False(t, exists)

	registerOwner(t, svc)

	exists, err = svc.Exists(context.Background())
	require.NoError(t, err)
	assert.True(t, exists)
}
