package domain

import "errors"

// Domain-specific errors for business logic validation.
var (
	// Generic errors
	ErrInvalidID        = errors.New("invalid id")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	ErrRequiredField    = errors.New("required field missing")
	ErrAlreadyExists    = errors.New("already exists")
	ErrResourceInUse    = errors.New("resource is referenced by agents")

	// Agent errors
	ErrAgentNotFound        = errors.New("agent not found")
	ErrInvalidAgentStatus   = errors.New("invalid agent status")
	ErrInvalidAgentType     = errors.New("invalid agent type")
	ErrInvalidReference     = errors.New("invalid reference")
	ErrInvalidModelSettings = errors.New("invalid model settings")

	// Invocation errors
	ErrEmptyInput        = errors.New("input must be non-empty")
	ErrInvalidAPIKey     = errors.New("invalid or missing API key")
	ErrModelCall         = errors.New("model call failed")
	ErrGuardrailTripped  = errors.New("guardrail tripwire triggered")
	ErrUnsupportedVendor = errors.New("unsupported API key type for model calls")

	// Tool errors
	ErrToolNotFound      = errors.New("tool not found")
	ErrInvalidToolType   = errors.New("invalid tool type")
	ErrInvalidToolConfig = errors.New("invalid tool config")
	ErrUnknownFunction   = errors.New("unknown function tool")
	ErrUnknownHostedTool = errors.New("unknown hosted tool")

	// Guardrail errors
	ErrGuardrailNotFound    = errors.New("guardrail not found")
	ErrInvalidGuardrailType = errors.New("invalid guardrail type")
	ErrUnknownGuardrail     = errors.New("unknown guardrail logic")

	// API key errors
	ErrAPIKeyNotFound    = errors.New("api key not found")
	ErrInvalidAPIKeyType = errors.New("invalid api key type")

	// Plan errors
	ErrPlanNotFound = errors.New("plan not found")
	ErrInvalidPlan  = errors.New("invalid plan")

	// Flow errors
	ErrFlowNotFound    = errors.New("flow not found")
	ErrInvalidFlowData = errors.New("json_data must be a JSON object")

	// User and auth errors
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("incorrect email or password")
	ErrInvalidToken        = errors.New("invalid authentication token")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrInvalidPasswordSpec = errors.New("password must be at least 8 characters")

	// Settings errors
	ErrUnknownSettingsSection = errors.New("unknown settings section")
	ErrInvalidSettings        = errors.New("invalid settings document")

	// Feedback, prompt and log errors
	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrPromptNotFound   = errors.New("prompt not found")
	ErrRunLogNotFound   = errors.New("log not found")

	// Message errors
	ErrMissingSender       = errors.New("email or session_id is required")
	ErrEmptyMessage        = errors.New("message text is required")
	ErrMonthlyLimitReached = errors.New("monthly message limit reached (5 messages)")
	ErrMessageTooLong      = errors.New("message exceeds 500-word limit for free plan")
)
