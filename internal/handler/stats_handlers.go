package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mtlprog/agentdesk/internal/handler/dto"
	"github.com/mtlprog/agentdesk/internal/repository"
)

// handleGetStats returns agent run and chat message statistics.
// @Summary Get usage statistics
// @Description Get per-agent run counts and chat message totals for a given period
// @Tags stats
// @Produce json
// @Param period query string false "Period: day, week (default), month, all"
// @Param agent_id query string false "Filter by specific agent UUID"
// @Success 200 {object} dto.StatsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/stats [get]
func (h *Handler) handleGetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query()
	period := query.Get("period")
	if period == "" {
		period = "week"
	}

	now := time.Now()
	var periodStart time.Time
	switch period {
	case "day":
		periodStart = now.AddDate(0, 0, -1)
	case "week":
		periodStart = now.AddDate(0, 0, -7)
	case "month":
		periodStart = now.AddDate(0, -1, 0)
	case "all":
		periodStart = time.Time{}
	default:
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid period, must be: day, week, month, all")
		return
	}

	var agentIDFilter *string
	if agentID := query.Get("agent_id"); agentID != "" {
		if _, err := uuid.Parse(agentID); err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "agent_id must be a valid UUID")
			return
		}
		agentIDFilter = &agentID
	}

	filters := repository.StatsFilters{
		PeriodStart: periodStart,
		PeriodEnd:   now,
		AgentID:     agentIDFilter,
	}

	agentUsage, err := h.statsRepo.GetAgentUsage(ctx, filters)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	totals, err := h.statsRepo.GetUsageTotals(ctx, filters)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	agents := make([]dto.AgentStats, len(agentUsage))
	for i, u := range agentUsage {
		rate := 0.0
		if u.Runs > 0 {
			rate = float64(u.Succeeded) / float64(u.Runs) * 100
		}
		agents[i] = dto.AgentStats{
			AgentID:            u.AgentID,
			AgentName:          u.AgentName,
			Runs:               u.Runs,
			Succeeded:          u.Succeeded,
			Failed:             u.Failed,
			Blocked:            u.Blocked,
			SuccessRatePercent: rate,
		}
	}

	respondJSON(w, http.StatusOK, dto.StatsResponse{
		Period:      period,
		PeriodStart: periodStart,
		PeriodEnd:   now,
		Agents:      agents,
		Totals: dto.UsageTotals{
			Runs:         totals.Runs,
			RunsByStatus: totals.RunsByStatus,
			UserMessages: totals.UserMessages,
			BotMessages:  totals.BotMessages,
			ActiveUsers:  totals.ActiveUsers,
		},
	})
}
