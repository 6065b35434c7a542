package handler

import (
	"net/http"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/handler/dto"
	"github.com/mtlprog/agentdesk/internal/service"
	"github.com/mtlprog/agentdesk/internal/tools"
)

// handleListTools lists tool records.
// @Summary List tools
// @Tags tools
// @Produce json
// @Param type query string false "Filter by type: function, functions, hosted, agent"
// @Param limit query int false "Page size (1-500, default 50)"
// @Param offset query int false "Page offset (default 0)"
// @Success 200 {object} dto.ListResponse[dto.ToolResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tools [get]
func (h *Handler) handleListTools(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	var toolType *domain.ToolType
	if t := r.URL.Query().Get("type"); t != "" {
		tt := domain.ToolType(t)
		if !tt.IsValid() {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "type must be 'function', 'functions', 'hosted' or 'agent'")
			return
		}
		toolType = &tt
	}

	list, total, err := h.toolRepo.List(r.Context(), toolType, page)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewListResponse(list, total, page.Limit, page.Offset, dto.ToToolResponse))
}

// handleCreateTool creates a tool record.
// @Summary Create a tool
// @Description Config is JSON text validated against the tool type.
// @Tags tools
// @Accept json
// @Produce json
// @Param request body dto.CreateToolRequest true "Tool creation request"
// @Success 201 {object} dto.ToolResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tools [post]
func (h *Handler) handleCreateTool(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateToolRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tool, err := h.toolService.CreateTool(r.Context(), &domain.Tool{
		Name:        req.Name,
		Description: req.Description,
		Type:        domain.ToolType(req.Type),
		Config:      req.Config,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToToolResponse(tool))
}

// handleGetTool retrieves a tool record.
// @Summary Get a tool
// @Tags tools
// @Produce json
// @Param id path string true "Tool ID"
// @Success 200 {object} dto.ToolResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tools/{id} [get]
func (h *Handler) handleGetTool(w http.ResponseWriter, r *http.Request) {
	toolID, ok := extractID(w, r, "tool")
	if !ok {
		return
	}

	tool, err := h.toolRepo.GetByID(r.Context(), toolID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToToolResponse(tool))
}

// handleUpdateTool applies a partial update to a tool record.
// @Summary Update a tool
// @Description Partial update; PUT and PATCH behave the same. An empty config clears it.
// @Tags tools
// @Accept json
// @Produce json
// @Param id path string true "Tool ID"
// @Param request body dto.UpdateToolRequest true "Fields to change"
// @Success 200 {object} dto.ToolResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tools/{id} [patch]
func (h *Handler) handleUpdateTool(w http.ResponseWriter, r *http.Request) {
	toolID, ok := extractID(w, r, "tool")
	if !ok {
		return
	}

	var req dto.UpdateToolRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	patch := service.ToolPatch{
		Name:        req.Name,
		Description: req.Description,
		Config:      req.Config,
	}
	if req.Type != nil {
		tt := domain.ToolType(*req.Type)
		patch.Type = &tt
	}

	tool, err := h.toolService.UpdateTool(r.Context(), toolID, patch)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToToolResponse(tool))
}

// handleDeleteTool deletes a tool record.
// @Summary Delete a tool
// @Description Fails with 409 while any agent references the tool.
// @Tags tools
// @Param id path string true "Tool ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tools/{id} [delete]
func (h *Handler) handleDeleteTool(w http.ResponseWriter, r *http.Request) {
	toolID, ok := extractID(w, r, "tool")
	if !ok {
		return
	}

	if err := h.toolService.DeleteTool(r.Context(), toolID); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListFunctions lists the registered function tools.
// @Summary List function tools
// @Tags tools
// @Produce json
// @Success 200 {array} dto.FunctionInfoResponse
// @Security BearerAuth
// @Router /tools/functions [get]
func (h *Handler) handleListFunctions(w http.ResponseWriter, r *http.Request) {
	infos := tools.Functions()
	resp := make([]dto.FunctionInfoResponse, len(infos))
	for i, info := range infos {
		resp[i] = dto.ToFunctionInfoResponse(info)
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleDescribeFunction returns the description of one function tool.
// @Summary Describe a function tool
// @Tags tools
// @Produce json
// @Param name path string true "Function name"
// @Success 200 {object} dto.FunctionInfoResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tools/functions/{name}/description [get]
func (h *Handler) handleDescribeFunction(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	description, err := tools.Describe(name)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.FunctionInfoResponse{Name: name, Description: description})
}

// handleCallFunction invokes a function tool directly.
// @Summary Call a function tool
// @Description Invalid arguments produce a result with status "error", not an HTTP error.
// @Tags tools
// @Accept json
// @Produce json
// @Param name path string true "Function name"
// @Param request body dto.CallFunctionRequest true "Function arguments"
// @Success 200 {object} map[string]any
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tools/functions/{name}/call [post]
func (h *Handler) handleCallFunction(w http.ResponseWriter, r *http.Request) {
	var req dto.CallFunctionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := tools.Call(r.Context(), r.PathValue("name"), req.Arguments)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// handleListHostedTools lists the hosted tool catalog.
// @Summary List hosted tools
// @Tags tools
// @Produce json
// @Success 200 {array} dto.HostedToolResponse
// @Security BearerAuth
// @Router /tools/hosted [get]
func (h *Handler) handleListHostedTools(w http.ResponseWriter, r *http.Request) {
	catalog := tools.Catalog()
	resp := make([]dto.HostedToolResponse, len(catalog))
	for i, info := range catalog {
		resp[i] = dto.ToHostedToolResponse(info)
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleExecuteHostedTool configures a hosted tool and runs it once.
// @Summary Execute a hosted tool
// @Description Validates params against the tool schema, then executes with the given input.
// @Tags tools
// @Accept json
// @Produce json
// @Param name path string true "Hosted tool identifier or alias"
// @Param request body dto.ExecuteHostedToolRequest true "Tool params and input"
// @Success 200 {object} map[string]any
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tools/hosted/{name}/execute [post]
func (h *Handler) handleExecuteHostedTool(w http.ResponseWriter, r *http.Request) {
	var req dto.ExecuteHostedToolRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tool, err := tools.Configure(r.PathValue("name"), req.Params)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tool.Execute(r.Context(), req.Input, req.Args))
}
