package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mtlprog/agentdesk/internal/domain"
)

// handleGetSettings returns one settings section, defaults filled in.
// @Summary Get settings
// @Tags settings
// @Produce json
// @Param section path string true "general, notifications, security, maintenance or payments"
// @Success 200 {object} map[string]any
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /settings/{section} [get]
func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	doc, err := h.settingsService.GetSettings(r.Context(), r.PathValue("section"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, doc)
}

// handleGetMaintenance exposes the maintenance banner to the public site.
// @Summary Get maintenance status
// @Tags settings
// @Produce json
// @Success 200 {object} domain.MaintenanceSettings
// @Router /settings/maintenance [get]
func (h *Handler) handleGetMaintenance(w http.ResponseWriter, r *http.Request) {
	doc, err := h.settingsService.GetSettings(r.Context(), string(domain.SettingsMaintenance))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, doc)
}

// handleSaveSettings merges the body over a settings section.
// @Summary Save settings
// @Description Fields not present in the body keep their stored values; unknown fields are rejected.
// @Tags settings
// @Accept json
// @Produce json
// @Param section path string true "general, notifications, security, maintenance or payments"
// @Param request body object true "Partial settings document"
// @Success 200 {object} map[string]any
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /settings/{section} [post]
func (h *Handler) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if !decodeJSON(w, r, &raw) {
		return
	}

	doc, err := h.settingsService.SaveSettings(r.Context(), r.PathValue("section"), raw)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, doc)
}
