package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Innei/mx-gobackend/internal/auth"
	"github.com/Innei/mx-gobackend/internal/constants"
	"github.com/Innei/mx-gobackend/internal/handlers"
	"github.com/Innei/mx-gobackend/internal/models"
	"github.com/Innei/mx-gobackend/internal/utils"
)

// fakeOwnerManager implements handlers.OwnerManager with canned responses
type fakeOwnerManager struct {
	owner        *models.Owner
	footstep     *models.Footstep
	exists       bool
	registerErr  error
	validateErr  error
	patchErr     error
	recordedIP   string
	lastPassword string
}

func (f *fakeOwnerManager) Register(ctx context.Context, reg *models.OwnerRegistration) (*models.Owner, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	owner := models.NewOwner(reg.Username, reg.Name)
	owner.ID = 1
	owner.AuthGeneration = 1
	f.owner = owner
	return owner.Sanitize(), nil
}

func (f *fakeOwnerManager) ValidateCredentials(ctx context.Context, username, password string) (*models.Owner, error) {
	f.lastPassword = password
	if f.validateErr != nil {
		return nil, f.validateErr
	}
	return f.owner, nil
}

func (f *fakeOwnerManager) GetOwner(ctx context.Context) (*models.Owner, error) {
	return f.owner, nil
}

func (f *fakeOwnerManager) Exists(ctx context.Context) (bool, error) {
	return f.exists, nil
}

func (f *fakeOwnerManager) Patch(ctx context.Context, patch *models.OwnerPatch) (*models.Owner, error) {
	if f.patchErr != nil {
		return nil, f.patchErr
	}
	owner := *f.owner
	if patch.Name != "" {
		owner.Name = patch.Name
	}
	return owner.Sanitize(), nil
}

func (f *fakeOwnerManager) RecordLogin(ctx context.Context, id int64, ip string) (*models.Footstep, error) {
	f.recordedIP = ip
	return f.footstep, nil
}

// fakeSessionIssuer implements handlers.SessionIssuer
type fakeSessionIssuer struct {
	token string
	err   error
}

func (f *fakeSessionIssuer) IssueSessionToken(ctx context.Context, owner *models.Owner) (string, error) {
	return f.token, f.err
}

func handlerOwner() *models.Owner {
	return &models.Owner{
		ID:             1,
		Username:       "innei",
		Name:           "Innei",
		PasswordHash:   "hash",
		Salt:           "salt",
		AuthCode:       "code123456",
		AuthGeneration: 1,
	}
}

func newOwnerHandler(manager *fakeOwnerManager) *handlers.OwnerHandler {
	return handlers.NewOwnerHandler(manager, &fakeSessionIssuer{token: "signed-jwt"}, time.Hour)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var resp utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestMain(m *testing.M) {
	utils.InitValidator()
	os.Exit(m.Run())
}

func TestOwnerHandler_Register(t *testing.T) {
	handler := newOwnerHandler(&fakeOwnerManager{})

	r := httptest.NewRequest("POST", "/api/master/register",
		strings.NewReader(`{"username":"innei","password":"secret","name":"Innei"}`))
	rec := httptest.NewRecorder()

	handler.Register(rec, r)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeBody(t, rec)
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)

	// Registration logs the fresh account in
	assert.Equal(t, "signed-jwt", data["auth_token"])
	assert.Equal(t, "Bearer", data["token_type"])
	assert.NotContains(t, data, "token")

	owner, ok := data["owner"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "innei", owner["username"])
	// Credential material never leaves the server
	assert.Empty(t, owner["password_hash"])
}

func TestOwnerHandler_Register_Conflict(t *testing.T) {
	handler := newOwnerHandler(&fakeOwnerManager{
		registerErr: utils.NewConflictError(constants.MsgOwnerExists),
	})

	r := httptest.NewRequest("POST", "/api/master/register",
		strings.NewReader(`{"username":"innei","password":"secret"}`))
	rec := httptest.NewRecorder()

	handler.Register(rec, r)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeBody(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, constants.CodeConflict, resp.Error.Code)
	assert.Equal(t, constants.MsgOwnerExists, resp.Error.Message)
}

func TestOwnerHandler_Register_InvalidPayload(t *testing.T) {
	handler := newOwnerHandler(&fakeOwnerManager{})

	r := httptest.NewRequest("POST", "/api/master/register",
		strings.NewReader(`{"username":"innei"}`))
	rec := httptest.NewRecorder()

	handler.Register(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOwnerHandler_Login(t *testing.T) {
	previousAt := time.Now().Add(-24 * time.Hour)
	manager := &fakeOwnerManager{
		owner: handlerOwner(),
		footstep: &models.Footstep{
			LastLoginAt: &previousAt,
			LastLoginIP: "1.2.3.4",
		},
	}
	handler := newOwnerHandler(manager)

	r := httptest.NewRequest("POST", "/api/master/login",
		strings.NewReader(`{"username":"innei","password":"secret"}`))
	r.RemoteAddr = "5.6.7.8:51234"
	rec := httptest.NewRecorder()

	handler.Login(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "5.6.7.8", manager.recordedIP)

	resp := decodeBody(t, rec)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)

	// Clients read the session token from the auth_token field
	assert.Equal(t, "signed-jwt", data["auth_token"])
	assert.Equal(t, "Bearer", data["token_type"])
	assert.Equal(t, float64(3600), data["expires_in"])
	assert.NotContains(t, data, "token")

	footstep, ok := data["footstep"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "1.2.3.4", footstep["last_login_ip"])

	owner, ok := data["owner"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "innei", owner["username"])
}

func TestOwnerHandler_Login_BadCredentials(t *testing.T) {
	handler := newOwnerHandler(&fakeOwnerManager{
		validateErr: utils.NewUnauthenticatedError(constants.MsgBadCredentials),
	})

	r := httptest.NewRequest("POST", "/api/master/login",
		strings.NewReader(`{"username":"innei","password":"wrong"}`))
	rec := httptest.NewRecorder()

	handler.Login(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeBody(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, constants.MsgBadCredentials, resp.Error.Message)
}

func TestOwnerHandler_GetOwner(t *testing.T) {
	handler := newOwnerHandler(&fakeOwnerManager{})

	r := httptest.NewRequest("GET", "/api/master", nil)
	ctx := context.WithValue(r.Context(), auth.OwnerContextKey, handlerOwner())
	r = r.WithContext(ctx)
	rec := httptest.NewRecorder()

	handler.GetOwner(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "innei", data["username"])
}

func TestOwnerHandler_GetOwner_MissingContext(t *testing.T) {
	handler := newOwnerHandler(&fakeOwnerManager{})

	r := httptest.NewRequest("GET", "/api/master", nil)
	rec := httptest.NewRecorder()

	handler.GetOwner(rec, r)

	// Reaching the handler unauthenticated is a wiring bug, not a 401
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestOwnerHandler_CheckRegistered(t *testing.T) {
	handler := newOwnerHandler(&fakeOwnerManager{exists: true})

	r := httptest.NewRequest("GET", "/api/master/check_logged", nil)
	rec := httptest.NewRecorder()

	handler.CheckRegistered(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, data["registered"])
}

func TestOwnerHandler_Patch(t *testing.T) {
	handler := newOwnerHandler(&fakeOwnerManager{owner: handlerOwner()})

	r := httptest.NewRequest("PATCH", "/api/master",
		strings.NewReader(`{"name":"New Name"}`))
	rec := httptest.NewRecorder()

	handler.Patch(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "New Name", data["name"])
}

func TestOwnerHandler_Patch_SamePassword(t *testing.T) {
	handler := newOwnerHandler(&fakeOwnerManager{
		owner:    handlerOwner(),
		patchErr: utils.NewUnprocessableError(constants.MsgSamePassword),
	})

	r := httptest.NewRequest("PATCH", "/api/master",
		strings.NewReader(`{"password":"original-password"}`))
	rec := httptest.NewRecorder()

	handler.Patch(rec, r)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeBody(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, constants.CodeUnprocessable, resp.Error.Code)
}
