package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/handler/dto"
	"github.com/mtlprog/agentdesk/internal/service"
)

// Flows

// @Summary List flows
// @Tags flows
// @Produce json
// @Param limit query int false "Page size (1-500, default 50)"
// @Param offset query int false "Page offset (default 0)"
// @Success 200 {object} dto.ListResponse[dto.FlowResponse]
// @Security BearerAuth
// @Router /flows [get]
func (h *Handler) handleListFlows(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	flows, total, err := h.flowRepo.List(r.Context(), page)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewListResponse(flows, total, page.Limit, page.Offset, dto.ToFlowResponse))
}

// @Summary Create a flow
// @Tags flows
// @Accept json
// @Produce json
// @Param request body dto.CreateFlowRequest true "Flow graph"
// @Success 201 {object} dto.FlowResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /flows [post]
func (h *Handler) handleCreateFlow(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateFlowRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	flow, err := h.flowService.CreateFlow(r.Context(), &domain.Flow{
		Name:        req.Name,
		Description: req.Description,
		Data:        req.JSONData,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToFlowResponse(flow))
}

// @Summary Get a flow
// @Tags flows
// @Produce json
// @Param id path string true "Flow ID"
// @Success 200 {object} dto.FlowResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /flows/{id} [get]
func (h *Handler) handleGetFlow(w http.ResponseWriter, r *http.Request) {
	flowID, ok := extractID(w, r, "flow")
	if !ok {
		return
	}

	flow, err := h.flowRepo.GetByID(r.Context(), flowID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToFlowResponse(flow))
}

// @Summary Update a flow
// @Tags flows
// @Accept json
// @Produce json
// @Param id path string true "Flow ID"
// @Param request body dto.UpdateFlowRequest true "Fields to change"
// @Success 200 {object} dto.FlowResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /flows/{id} [patch]
func (h *Handler) handleUpdateFlow(w http.ResponseWriter, r *http.Request) {
	flowID, ok := extractID(w, r, "flow")
	if !ok {
		return
	}

	var req dto.UpdateFlowRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	flow, err := h.flowService.UpdateFlow(r.Context(), flowID, service.FlowPatch{
		Name:        req.Name,
		Description: req.Description,
		Data:        req.JSONData,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToFlowResponse(flow))
}

// @Summary Delete a flow
// @Tags flows
// @Param id path string true "Flow ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /flows/{id} [delete]
func (h *Handler) handleDeleteFlow(w http.ResponseWriter, r *http.Request) {
	flowID, ok := extractID(w, r, "flow")
	if !ok {
		return
	}

	if err := h.flowRepo.Delete(r.Context(), flowID); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Prompts

// @Summary List prompts
// @Tags prompts
// @Produce json
// @Param category query string false "Filter by category"
// @Param limit query int false "Page size (1-500, default 50)"
// @Param offset query int false "Page offset (default 0)"
// @Success 200 {object} dto.ListResponse[dto.PromptResponse]
// @Security BearerAuth
// @Router /prompts [get]
func (h *Handler) handleListPrompts(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	prompts, total, err := h.promptRepo.List(r.Context(), r.URL.Query().Get("category"), page)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewListResponse(prompts, total, page.Limit, page.Offset, dto.ToPromptResponse))
}

// @Summary Create a prompt
// @Tags prompts
// @Accept json
// @Produce json
// @Param request body dto.CreatePromptRequest true "Prompt"
// @Success 201 {object} dto.PromptResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /prompts [post]
func (h *Handler) handleCreatePrompt(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePromptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.promptService.CreatePrompt(r.Context(), &domain.Prompt{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Tags:     req.Tags,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToPromptResponse(p))
}

// @Summary Get a prompt
// @Tags prompts
// @Produce json
// @Param id path string true "Prompt ID"
// @Success 200 {object} dto.PromptResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /prompts/{id} [get]
func (h *Handler) handleGetPrompt(w http.ResponseWriter, r *http.Request) {
	promptID, ok := extractID(w, r, "prompt")
	if !ok {
		return
	}

	p, err := h.promptRepo.GetByID(r.Context(), promptID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToPromptResponse(p))
}

// @Summary Update a prompt
// @Tags prompts
// @Accept json
// @Produce json
// @Param id path string true "Prompt ID"
// @Param request body dto.UpdatePromptRequest true "Fields to change"
// @Success 200 {object} dto.PromptResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /prompts/{id} [patch]
func (h *Handler) handleUpdatePrompt(w http.ResponseWriter, r *http.Request) {
	promptID, ok := extractID(w, r, "prompt")
	if !ok {
		return
	}

	var req dto.UpdatePromptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.promptService.UpdatePrompt(r.Context(), promptID, service.PromptPatch{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Tags:     req.Tags,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToPromptResponse(p))
}

// @Summary Delete a prompt
// @Tags prompts
// @Param id path string true "Prompt ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /prompts/{id} [delete]
func (h *Handler) handleDeletePrompt(w http.ResponseWriter, r *http.Request) {
	promptID, ok := extractID(w, r, "prompt")
	if !ok {
		return
	}

	if err := h.promptRepo.Delete(r.Context(), promptID); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Run logs

// @Summary List run logs
// @Tags logs
// @Produce json
// @Param agent_id query string false "Filter by agent"
// @Param limit query int false "Page size (1-500, default 50)"
// @Param offset query int false "Page offset (default 0)"
// @Success 200 {object} dto.ListResponse[dto.RunLogResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /logs [get]
func (h *Handler) handleListLogs(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	var agentID *string
	if a := r.URL.Query().Get("agent_id"); a != "" {
		if _, err := uuid.Parse(a); err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "agent_id must be a valid UUID")
			return
		}
		agentID = &a
	}

	logs, total, err := h.runLogRepo.List(r.Context(), agentID, page)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewListResponse(logs, total, page.Limit, page.Offset, dto.ToRunLogResponse))
}

// @Summary Get a run log
// @Tags logs
// @Produce json
// @Param id path string true "Log ID"
// @Success 200 {object} dto.RunLogResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /logs/{id} [get]
func (h *Handler) handleGetLog(w http.ResponseWriter, r *http.Request) {
	logID, ok := extractID(w, r, "log")
	if !ok {
		return
	}

	l, err := h.runLogRepo.GetByID(r.Context(), logID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToRunLogResponse(l))
}

// @Summary Delete a run log
// @Tags logs
// @Param id path string true "Log ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /logs/{id} [delete]
func (h *Handler) handleDeleteLog(w http.ResponseWriter, r *http.Request) {
	logID, ok := extractID(w, r, "log")
	if !ok {
		return
	}

	if err := h.runLogRepo.Delete(r.Context(), logID); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
