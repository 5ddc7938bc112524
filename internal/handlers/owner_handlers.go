package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Innei/mx-gobackend/internal/auth"
	"github.com/Innei/mx-gobackend/internal/models"
	"github.com/Innei/mx-gobackend/internal/utils"
)

// OwnerHandler handles owner account routes: registration, login and the
// guarded profile surface.
type OwnerHandler struct {
	ownerService  OwnerManager
	sessionIssuer SessionIssuer
	sessionExpiry time.Duration
}

// NewOwnerHandler creates a new OwnerHandler
func NewOwnerHandler(ownerService OwnerManager, sessionIssuer SessionIssuer, sessionExpiry time.Duration) *OwnerHandler {
	if ownerService == nil {
		panic("ownerService cannot be nil")
	}
	if sessionIssuer == nil {
		panic("sessionIssuer cannot be nil")
	}
	return &OwnerHandler{
		ownerService:  ownerService,
		sessionIssuer: sessionIssuer,
		sessionExpiry: sessionExpiry,
	}
}

// Register handles owner registration. Only the first registration ever
// succeeds; later attempts conflict. The fresh account is logged in right
// away, so the response carries a session token.
func (h *OwnerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var reg models.OwnerRegistration
	if err := utils.DecodeAndValidate(r, &reg); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	owner, err := h.ownerService.Register(r.Context(), &reg)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// The sanitized registration result has no revocation state; signing
	// needs the stored record.
	stored, err := h.ownerService.GetOwner(r.Context())
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	token, err := h.sessionIssuer.IssueSessionToken(r.Context(), stored)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"owner":      owner,
		"auth_token": token,
		"token_type": "Bearer",
		"expires_in": int(h.sessionExpiry.Seconds()),
	})
}

// Login handles owner authentication. A successful login records the
// footstep and returns the previous one alongside a fresh session token.
func (h *OwnerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.OwnerCredentials
	if err := utils.DecodeAndValidate(r, &creds); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	owner, err := h.ownerService.ValidateCredentials(r.Context(), creds.Username, creds.Password)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	footstep, err := h.ownerService.RecordLogin(r.Context(), owner.ID, utils.ClientIP(r))
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	token, err := h.sessionIssuer.IssueSessionToken(r.Context(), owner)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"owner":      owner.Sanitize(),
		"auth_token": token,
		"token_type": "Bearer",
		"expires_in": int(h.sessionExpiry.Seconds()),
		"footstep":   footstep,
	})
}

// GetOwner returns the owner profile for an authenticated request
func (h *OwnerHandler) GetOwner(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.GetOwner(r)
	if !ok {
		utils.InternalServerError(w, errors.New("authenticated request without owner in context"))
		return
	}

	utils.JSON(w, http.StatusOK, owner.Sanitize())
}

// CheckRegistered reports whether the owner account exists. Used by
// clients to decide between the setup and login screens.
func (h *OwnerHandler) CheckRegistered(w http.ResponseWriter, r *http.Request) {
	exists, err := h.ownerService.Exists(r.Context())
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]bool{
		"registered": exists,
	})
}

// Patch updates the owner profile. A password change in the patch rotates
// the credentials and invalidates every prior session token.
func (h *OwnerHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var patch models.OwnerPatch
	if err := utils.DecodeAndValidate(r, &patch); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	owner, err := h.ownerService.Patch(r.Context(), &patch)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, owner)
}
