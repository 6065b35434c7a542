package handler

import (
	"net/http"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/handler/dto"
	"github.com/mtlprog/agentdesk/internal/service"
)

func planPatch(req *dto.UpdatePlanRequest) service.PlanPatch {
	return service.PlanPatch{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		RateLimit:       req.RateLimit,
		DailyLimit:      req.DailyLimit,
		ClearDailyLimit: req.ClearDailyLimit,
		Features:        req.Features,
		IsPopular:       req.IsPopular,
		CTA:             req.CTA,
	}
}

// handleListPlans lists all pricing plans.
// @Summary List plans
// @Description Public list of pricing plans, cheapest first.
// @Tags plans
// @Produce json
// @Success 200 {array} dto.PlanResponse
// @Router /plans [get]
func (h *Handler) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.planRepo.List(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := make([]dto.PlanResponse, len(plans))
	for i, p := range plans {
		resp[i] = dto.ToPlanResponse(p)
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleCreatePlan creates a pricing plan.
// @Summary Create a plan
// @Tags plans
// @Accept json
// @Produce json
// @Param request body dto.CreatePlanRequest true "Plan creation request"
// @Success 201 {object} dto.PlanResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /plans [post]
func (h *Handler) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	plan, err := h.planService.CreatePlan(r.Context(), &domain.Plan{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		RateLimit:   req.RateLimit,
		DailyLimit:  req.DailyLimit,
		Features:    req.Features,
		IsPopular:   req.IsPopular,
		CTA:         req.CTA,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToPlanResponse(plan))
}

// handleGetPlan retrieves a plan.
// @Summary Get a plan
// @Tags plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} dto.PlanResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /plans/{id} [get]
func (h *Handler) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	planID, ok := extractID(w, r, "plan")
	if !ok {
		return
	}

	plan, err := h.planRepo.GetByID(r.Context(), planID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToPlanResponse(plan))
}

// handleUpdatePlan applies a partial update to a plan.
// @Summary Update a plan
// @Tags plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param request body dto.UpdatePlanRequest true "Fields to change"
// @Success 200 {object} dto.PlanResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /plans/{id} [patch]
func (h *Handler) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	planID, ok := extractID(w, r, "plan")
	if !ok {
		return
	}

	var req dto.UpdatePlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	plan, err := h.planService.UpdatePlan(r.Context(), planID, planPatch(&req))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToPlanResponse(plan))
}

// handleBulkUpdatePlans updates several plans in one transaction.
// @Summary Bulk update plans
// @Description Applies each entry in order. The first invalid id, missing plan or invalid value rolls back the whole batch.
// @Tags plans
// @Accept json
// @Produce json
// @Param request body []dto.UpdatePlanRequest true "Plan updates, each with an id"
// @Success 200 {array} dto.PlanResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /plans/bulk-update [put]
func (h *Handler) handleBulkUpdatePlans(w http.ResponseWriter, r *http.Request) {
	var req []dto.UpdatePlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updates := make([]service.PlanUpdate, len(req))
	for i := range req {
		if req[i].ID == "" {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Plan ID is required for updates")
			return
		}
		updates[i] = service.PlanUpdate{ID: req[i].ID, Patch: planPatch(&req[i])}
	}

	plans, err := h.planService.BulkUpdatePlans(r.Context(), updates)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := make([]dto.PlanResponse, len(plans))
	for i, p := range plans {
		resp[i] = dto.ToPlanResponse(p)
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleDeletePlan deletes a plan.
// @Summary Delete a plan
// @Tags plans
// @Param id path string true "Plan ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /plans/{id} [delete]
func (h *Handler) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	planID, ok := extractID(w, r, "plan")
	if !ok {
		return
	}

	if err := h.planRepo.Delete(r.Context(), planID); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
