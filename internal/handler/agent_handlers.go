package handler

import (
	"net/http"
	"strings"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/handler/dto"
	"github.com/mtlprog/agentdesk/internal/repository"
	"github.com/mtlprog/agentdesk/internal/service"
)

const agentSearchLimit = 5

// handleListAgents lists agents.
// @Summary List agents
// @Tags agents
// @Produce json
// @Param status query string false "Filter by status: active, archived, disabled"
// @Param type query string false "Filter by type: general, tool, guardrail, tutor"
// @Param limit query int false "Page size (1-500, default 50)"
// @Param offset query int false "Page offset (default 0)"
// @Success 200 {object} dto.ListResponse[dto.AgentResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /agents [get]
func (h *Handler) handleListAgents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters := repository.AgentListFilters{Page: parsePage(r)}

	if s := query.Get("status"); s != "" {
		status := domain.AgentStatus(s)
		if !status.IsValid() {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "status must be 'active', 'archived' or 'disabled'")
			return
		}
		filters.Status = &status
	}
	if t := query.Get("type"); t != "" {
		agentType := domain.AgentType(t)
		if !agentType.IsValid() {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "type must be 'general', 'tool', 'guardrail' or 'tutor'")
			return
		}
		filters.Type = &agentType
	}

	agents, total, err := h.agentRepo.List(r.Context(), filters)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewListResponse(agents, total, filters.Limit, filters.Offset, dto.ToAgentResponse))
}

// handleSearchAgents finds agents by name or instructions.
// @Summary Search agents
// @Description Case-insensitive search over agent name and instructions, at most 5 results.
// @Tags agents
// @Produce json
// @Param q query string true "Search text"
// @Success 200 {array} dto.AgentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /agents/search [get]
func (h *Handler) handleSearchAgents(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "q is required")
		return
	}

	agents, err := h.agentRepo.Search(r.Context(), q, agentSearchLimit)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := make([]dto.AgentResponse, len(agents))
	for i, a := range agents {
		resp[i] = dto.ToAgentResponse(a)
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleListChatAgents lists active agents for the chat UI.
// @Summary List chat agents
// @Tags chat
// @Produce json
// @Success 200 {array} dto.ChatAgentResponse
// @Router /chat/agents [get]
func (h *Handler) handleListChatAgents(w http.ResponseWriter, r *http.Request) {
	status := domain.AgentStatusActive
	agents, _, err := h.agentRepo.List(r.Context(), repository.AgentListFilters{
		Status: &status,
		Page:   repository.Page{Limit: repository.MaxLimit},
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := make([]dto.ChatAgentResponse, len(agents))
	for i, a := range agents {
		resp[i] = dto.ToChatAgentResponse(a)
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleCreateAgent creates a new agent.
// @Summary Create an agent
// @Description Creates an agent. Referenced tools, guardrails, handoff agents and the API key must exist.
// @Tags agents
// @Accept json
// @Produce json
// @Param request body dto.CreateAgentRequest true "Agent creation request"
// @Success 201 {object} dto.AgentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /agents [post]
func (h *Handler) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAgentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	agent, err := h.agentService.CreateAgent(r.Context(), &domain.Agent{
		Name:          req.Name,
		Description:   req.Description,
		Instructions:  req.Instructions,
		Version:       req.Version,
		Status:        domain.AgentStatus(req.Status),
		Type:          domain.AgentType(req.Type),
		Model:         req.Model,
		ModelSettings: req.ModelSettings,
		Tools:         req.Tools,
		Guardrails:    req.Guardrails,
		Handoffs:      req.Handoffs,
		FlowIDs:       req.FlowIDs,
		APIKeyID:      req.OpenAIAPIKeyID,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToAgentResponse(agent))
}

// handleGetAgent retrieves an agent.
// @Summary Get an agent
// @Tags agents
// @Produce json
// @Param id path string true "Agent ID"
// @Success 200 {object} dto.AgentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /agents/{id} [get]
func (h *Handler) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	agentID, ok := extractID(w, r, "agent")
	if !ok {
		return
	}

	agent, err := h.agentRepo.GetByID(r.Context(), agentID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToAgentResponse(agent))
}

// handleUpdateAgent applies a partial update to an agent.
// @Summary Update an agent
// @Description Partial update; PUT and PATCH behave the same. Send an empty openai_api_key_id to unbind the key.
// @Tags agents
// @Accept json
// @Produce json
// @Param id path string true "Agent ID"
// @Param request body dto.UpdateAgentRequest true "Fields to change"
// @Success 200 {object} dto.AgentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /agents/{id} [patch]
func (h *Handler) handleUpdateAgent(w http.ResponseWriter, r *http.Request) {
	agentID, ok := extractID(w, r, "agent")
	if !ok {
		return
	}

	var req dto.UpdateAgentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	patch := service.AgentPatch{
		Name:          req.Name,
		Description:   req.Description,
		Instructions:  req.Instructions,
		Version:       req.Version,
		Model:         req.Model,
		ModelSettings: req.ModelSettings,
		Tools:         req.Tools,
		Guardrails:    req.Guardrails,
		Handoffs:      req.Handoffs,
		FlowIDs:       req.FlowIDs,
		APIKeyID:      req.OpenAIAPIKeyID,
	}
	if req.Status != nil {
		status := domain.AgentStatus(*req.Status)
		patch.Status = &status
	}
	if req.Type != nil {
		agentType := domain.AgentType(*req.Type)
		patch.Type = &agentType
	}

	agent, err := h.agentService.UpdateAgent(r.Context(), agentID, patch)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToAgentResponse(agent))
}

// handleDeleteAgent deletes an agent.
// @Summary Delete an agent
// @Tags agents
// @Param id path string true "Agent ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /agents/{id} [delete]
func (h *Handler) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	agentID, ok := extractID(w, r, "agent")
	if !ok {
		return
	}

	if err := h.agentService.DeleteAgent(r.Context(), agentID); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleRunAgent invokes an agent once with the given input.
// @Summary Run an agent
// @Description Runs one model exchange with the agent's instructions. Input guardrails attached to the agent run first.
// @Tags agents
// @Accept json
// @Produce json
// @Param id path string true "Agent ID"
// @Param request body dto.RunAgentRequest true "User input"
// @Success 200 {object} dto.RunAgentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /agents/{id}/run [post]
func (h *Handler) handleRunAgent(w http.ResponseWriter, r *http.Request) {
	var req dto.RunAgentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// The runner validates input before the id so empty input never reaches the database.
	result, err := h.runner.Run(r.Context(), r.PathValue("id"), req.Input, callerID(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.RunAgentResponse{Output: result.Output, LogID: result.RunLogID})
}
