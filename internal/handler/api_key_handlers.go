package handler

import (
	"net/http"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/handler/dto"
	"github.com/mtlprog/agentdesk/internal/service"
)

// handleListAPIKeys lists stored API keys with masked secrets.
// @Summary List API keys
// @Tags api-keys
// @Produce json
// @Param limit query int false "Page size (1-500, default 50)"
// @Param offset query int false "Page offset (default 0)"
// @Success 200 {object} dto.ListResponse[dto.APIKeyResponse]
// @Security BearerAuth
// @Router /api-keys [get]
func (h *Handler) handleListAPIKeys(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	keys, total, err := h.apiKeyRepo.List(r.Context(), page)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewListResponse(keys, total, page.Limit, page.Offset, dto.ToAPIKeyResponse))
}

// handleCreateAPIKey stores a vendor credential.
// @Summary Create an API key
// @Description The secret is accepted in clear text and never returned unmasked.
// @Tags api-keys
// @Accept json
// @Produce json
// @Param request body dto.CreateAPIKeyRequest true "API key creation request"
// @Success 201 {object} dto.APIKeyResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api-keys [post]
func (h *Handler) handleCreateAPIKey(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAPIKeyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	key := &domain.APIKey{
		Name:     req.Name,
		Key:      req.Key,
		Type:     domain.APIKeyType(req.Type),
		Model:    req.Model,
		IsActive: true,
	}
	if req.IsActive != nil {
		key.IsActive = *req.IsActive
	}

	created, err := h.apiKeyService.CreateAPIKey(r.Context(), key)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToAPIKeyResponse(created))
}

// handleGetAPIKey retrieves an API key with its secret masked.
// @Summary Get an API key
// @Tags api-keys
// @Produce json
// @Param id path string true "API key ID"
// @Success 200 {object} dto.APIKeyResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api-keys/{id} [get]
func (h *Handler) handleGetAPIKey(w http.ResponseWriter, r *http.Request) {
	keyID, ok := extractID(w, r, "api_key")
	if !ok {
		return
	}

	key, err := h.apiKeyRepo.GetByID(r.Context(), keyID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToAPIKeyResponse(key))
}

// handleUpdateAPIKey applies a partial update to an API key.
// @Summary Update an API key
// @Tags api-keys
// @Accept json
// @Produce json
// @Param id path string true "API key ID"
// @Param request body dto.UpdateAPIKeyRequest true "Fields to change"
// @Success 200 {object} dto.APIKeyResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api-keys/{id} [patch]
func (h *Handler) handleUpdateAPIKey(w http.ResponseWriter, r *http.Request) {
	keyID, ok := extractID(w, r, "api_key")
	if !ok {
		return
	}

	var req dto.UpdateAPIKeyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	patch := service.APIKeyPatch{
		Name:     req.Name,
		Key:      req.Key,
		Model:    req.Model,
		IsActive: req.IsActive,
	}
	if req.Type != nil {
		kt := domain.APIKeyType(*req.Type)
		patch.Type = &kt
	}

	key, err := h.apiKeyService.UpdateAPIKey(r.Context(), keyID, patch)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToAPIKeyResponse(key))
}

// handleDeleteAPIKey deletes an API key.
// @Summary Delete an API key
// @Description Fails with 409 while any agent is bound to the key.
// @Tags api-keys
// @Param id path string true "API key ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api-keys/{id} [delete]
func (h *Handler) handleDeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	keyID, ok := extractID(w, r, "api_key")
	if !ok {
		return
	}

	if err := h.apiKeyService.DeleteAPIKey(r.Context(), keyID); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
