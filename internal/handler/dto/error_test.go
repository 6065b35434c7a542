package dto

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mtlprog/agentdesk/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", fmt.Errorf("agent x: %w", domain.ErrAgentNotFound), http.StatusNotFound, "AGENT_NOT_FOUND"},
		{"unknown settings section", domain.ErrUnknownSettingsSection, http.StatusNotFound, "SETTINGS_SECTION_NOT_FOUND"},
		{"validation", fmt.Errorf("%w: name", domain.ErrRequiredField), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"nested validation", fmt.Errorf("%w: %w: foo", domain.ErrInvalidToolConfig, domain.ErrUnknownFunction), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"invalid id", domain.ErrInvalidID, http.StatusBadRequest, "INVALID_REQUEST"},
		{"duplicate", domain.ErrAlreadyExists, http.StatusBadRequest, "CONFLICT"},
		{"in use", domain.ErrResourceInUse, http.StatusConflict, "IN_USE"},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"forbidden", domain.ErrPermissionDenied, http.StatusForbidden, "FORBIDDEN"},
		{"monthly cap", domain.ErrMonthlyLimitReached, http.StatusForbidden, "LIMIT_EXCEEDED"},
		{"word cap", domain.ErrMessageTooLong, http.StatusForbidden, "LIMIT_EXCEEDED"},
		{"api key", domain.ErrInvalidAPIKey, http.StatusBadRequest, "INVALID_API_KEY"},
		{"guardrail", domain.ErrGuardrailTripped, http.StatusBadRequest, "GUARDRAIL_TRIPPED"},
		{"model", fmt.Errorf("%w: timeout", domain.ErrModelCall), http.StatusInternalServerError, "MODEL_ERROR"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, _ := MapDomainError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestMapDomainError_KeepsUpstreamText(t *testing.T) {
	status, code, message := MapDomainError(fmt.Errorf("%w: %v", domain.ErrModelCall, "401 invalid key"))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "MODEL_ERROR", code)
	assert.Contains(t, message, "401 invalid key")
}

func TestMapDomainError_HidesInternalMessage(t *testing.T) {
	_, _, message := MapDomainError(errors.New("pq: password authentication failed"))

	assert.NotContains(t, message, "password")
}

func TestToAPIKeyResponse_Masks(t *testing.T) {
	resp := ToAPIKeyResponse(&domain.APIKey{Key: "sk-secret-9876"})

	assert.Equal(t, "****9876", resp.Key)
}
