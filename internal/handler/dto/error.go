package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mtlprog/agentdesk/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

var notFoundCodes = []struct {
	err  error
	code string
}{
	{domain.ErrAgentNotFound, "AGENT_NOT_FOUND"},
	{domain.ErrToolNotFound, "TOOL_NOT_FOUND"},
	{domain.ErrGuardrailNotFound, "GUARDRAIL_NOT_FOUND"},
	{domain.ErrAPIKeyNotFound, "API_KEY_NOT_FOUND"},
	{domain.ErrPlanNotFound, "PLAN_NOT_FOUND"},
	{domain.ErrFlowNotFound, "FLOW_NOT_FOUND"},
	{domain.ErrUserNotFound, "USER_NOT_FOUND"},
	{domain.ErrFeedbackNotFound, "FEEDBACK_NOT_FOUND"},
	{domain.ErrPromptNotFound, "PROMPT_NOT_FOUND"},
	{domain.ErrRunLogNotFound, "LOG_NOT_FOUND"},
	{domain.ErrUnknownSettingsSection, "SETTINGS_SECTION_NOT_FOUND"},
}

var validationErrors = []error{
	domain.ErrRequiredField,
	domain.ErrNoFieldsToUpdate,
	domain.ErrInvalidAgentStatus,
	domain.ErrInvalidAgentType,
	domain.ErrInvalidReference,
	domain.ErrInvalidModelSettings,
	domain.ErrEmptyInput,
	domain.ErrInvalidToolType,
	domain.ErrInvalidToolConfig,
	domain.ErrUnknownFunction,
	domain.ErrUnknownHostedTool,
	domain.ErrInvalidGuardrailType,
	domain.ErrUnknownGuardrail,
	domain.ErrInvalidAPIKeyType,
	domain.ErrInvalidPlan,
	domain.ErrInvalidPasswordSpec,
	domain.ErrInvalidSettings,
	domain.ErrInvalidRating,
	domain.ErrInvalidFlowData,
	domain.ErrMissingSender,
	domain.ErrEmptyMessage,
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	for _, nf := range notFoundCodes {
		if errors.Is(err, nf.err) {
			return http.StatusNotFound, nf.code, message
		}
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return http.StatusBadRequest, "VALIDATION_ERROR", message
		}
	}

	switch {
	case errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest, "INVALID_REQUEST", message

	// Conflicts
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrEmailRegistered):
		return http.StatusBadRequest, "CONFLICT", message
	case errors.Is(err, domain.ErrResourceInUse):
		return http.StatusConflict, "IN_USE", message

	// Auth
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", message
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "INVALID_TOKEN", message
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden, "FORBIDDEN", message

	// Free-tier limits
	case errors.Is(err, domain.ErrMonthlyLimitReached), errors.Is(err, domain.ErrMessageTooLong):
		return http.StatusForbidden, "LIMIT_EXCEEDED", message

	// Invocation
	case errors.Is(err, domain.ErrInvalidAPIKey), errors.Is(err, domain.ErrUnsupportedVendor):
		return http.StatusBadRequest, "INVALID_API_KEY", message
	case errors.Is(err, domain.ErrGuardrailTripped):
		return http.StatusBadRequest, "GUARDRAIL_TRIPPED", message
	case errors.Is(err, domain.ErrModelCall):
		return http.StatusInternalServerError, "MODEL_ERROR", message

	// Default: internal server error
	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}
