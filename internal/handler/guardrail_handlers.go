package handler

import (
	"net/http"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/handler/dto"
	"github.com/mtlprog/agentdesk/internal/service"
)

// @Summary List guardrails
// @Tags guardrails
// @Produce json
// @Param limit query int false "Page size (1-500, default 50)"
// @Param offset query int false "Page offset (default 0)"
// @Success 200 {object} dto.ListResponse[dto.GuardrailResponse]
// @Security BearerAuth
// @Router /guardrails [get]
func (h *Handler) handleListGuardrails(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	list, total, err := h.guardrailRepo.List(r.Context(), page)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewListResponse(list, total, page.Limit, page.Offset, dto.ToGuardrailResponse))
}

// @Summary List guardrail logic names
// @Description Names accepted in a guardrail's logic field.
// @Tags guardrails
// @Produce json
// @Success 200 {array} string
// @Security BearerAuth
// @Router /guardrails/logic [get]
func (h *Handler) handleListGuardrailLogic(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.guardrails.Names())
}

// @Summary Create a guardrail
// @Description The logic must name a registered guardrail function.
// @Tags guardrails
// @Accept json
// @Produce json
// @Param request body dto.CreateGuardrailRequest true "Guardrail creation request"
// @Success 201 {object} dto.GuardrailResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /guardrails [post]
func (h *Handler) handleCreateGuardrail(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateGuardrailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	g := &domain.Guardrail{
		Name:        req.Name,
		Type:        domain.GuardrailType(req.Type),
		Description: req.Description,
		Logic:       req.Logic,
		Enabled:     true,
	}
	if req.Enabled != nil {
		g.Enabled = *req.Enabled
	}

	created, err := h.guardrailService.CreateGuardrail(r.Context(), g)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToGuardrailResponse(created))
}

// @Summary Get a guardrail
// @Tags guardrails
// @Produce json
// @Param id path string true "Guardrail ID"
// @Success 200 {object} dto.GuardrailResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /guardrails/{id} [get]
func (h *Handler) handleGetGuardrail(w http.ResponseWriter, r *http.Request) {
	guardrailID, ok := extractID(w, r, "guardrail")
	if !ok {
		return
	}

	g, err := h.guardrailRepo.GetByID(r.Context(), guardrailID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToGuardrailResponse(g))
}

// @Summary Update a guardrail
// @Tags guardrails
// @Accept json
// @Produce json
// @Param id path string true "Guardrail ID"
// @Param request body dto.UpdateGuardrailRequest true "Fields to change"
// @Success 200 {object} dto.GuardrailResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /guardrails/{id} [patch]
func (h *Handler) handleUpdateGuardrail(w http.ResponseWriter, r *http.Request) {
	guardrailID, ok := extractID(w, r, "guardrail")
	if !ok {
		return
	}

	var req dto.UpdateGuardrailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	patch := service.GuardrailPatch{
		Name:        req.Name,
		Description: req.Description,
		Logic:       req.Logic,
		Enabled:     req.Enabled,
	}
	if req.Type != nil {
		gt := domain.GuardrailType(*req.Type)
		patch.Type = &gt
	}

	g, err := h.guardrailService.UpdateGuardrail(r.Context(), guardrailID, patch)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToGuardrailResponse(g))
}

// @Summary Delete a guardrail
// @Description Fails with 409 while any agent references the guardrail.
// @Tags guardrails
// @Param id path string true "Guardrail ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /guardrails/{id} [delete]
func (h *Handler) handleDeleteGuardrail(w http.ResponseWriter, r *http.Request) {
	guardrailID, ok := extractID(w, r, "guardrail")
	if !ok {
		return
	}

	if err := h.guardrailService.DeleteGuardrail(r.Context(), guardrailID); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
