package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Innei/mx-gobackend/internal/constants"
	"github.com/Innei/mx-gobackend/internal/models"
	"github.com/Innei/mx-gobackend/internal/utils"
)

// TokenHandler handles API token management routes. All of them sit
// behind the auth guard.
type TokenHandler struct {
	tokenService APITokenManager
}

// NewTokenHandler creates a new TokenHandler
func NewTokenHandler(tokenService APITokenManager) *TokenHandler {
	if tokenService == nil {
		panic("tokenService cannot be nil")
	}
	return &TokenHandler{
		tokenService: tokenService,
	}
}

// Create mints a new API token. The full token value appears only in this
// response; list responses blank it.
func (h *TokenHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.APITokenCreate
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	token, err := h.tokenService.IssueCustomToken(r.Context(), req.Name, req.ExpiresAt)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusCreated, token)
}

// List returns all API tokens with their values blanked
func (h *TokenHandler) List(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.tokenService.ListAPITokens(r.Context())
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, tokens)
}

// Delete revokes an API token by ID
func (h *TokenHandler) Delete(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, constants.ParamTokenID)
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		utils.BadRequest(w, "Invalid token ID", nil)
		return
	}

	if err := h.tokenService.RevokeAPIToken(r.Context(), id); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]bool{
		"revoked": true,
	})
}
