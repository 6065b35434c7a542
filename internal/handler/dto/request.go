package dto

import (
	"encoding/json"

	"github.com/mtlprog/agentdesk/internal/domain"
)

// CreateAgentRequest represents the request body for POST /agents.
type CreateAgentRequest struct {
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	Instructions   string               `json:"instructions"`
	Version        string               `json:"version,omitempty"`
	Status         string               `json:"status,omitempty"`
	Type           string               `json:"type,omitempty"`
	Model          string               `json:"model,omitempty"`
	ModelSettings  domain.ModelSettings `json:"model_settings"`
	Tools          []string             `json:"tools,omitempty"`
	Guardrails     []string             `json:"guardrails,omitempty"`
	Handoffs       []string             `json:"handoffs,omitempty"`
	FlowIDs        []string             `json:"flow_ids,omitempty"`
	OpenAIAPIKeyID *string              `json:"openai_api_key_id,omitempty"`
}

// UpdateAgentRequest represents the request body for PUT/PATCH /agents/:id.
// Omitted fields are left unchanged; an empty openai_api_key_id unbinds the key.
type UpdateAgentRequest struct {
	Name           *string               `json:"name,omitempty"`
	Description    *string               `json:"description,omitempty"`
	Instructions   *string               `json:"instructions,omitempty"`
	Version        *string               `json:"version,omitempty"`
	Status         *string               `json:"status,omitempty"`
	Type           *string               `json:"type,omitempty"`
	Model          *string               `json:"model,omitempty"`
	ModelSettings  *domain.ModelSettings `json:"model_settings,omitempty"`
	Tools          *[]string             `json:"tools,omitempty"`
	Guardrails     *[]string             `json:"guardrails,omitempty"`
	Handoffs       *[]string             `json:"handoffs,omitempty"`
	FlowIDs        *[]string             `json:"flow_ids,omitempty"`
	OpenAIAPIKeyID *string               `json:"openai_api_key_id,omitempty"`
}

// RunAgentRequest represents the request body for POST /agents/:id/run.
type RunAgentRequest struct {
	Input string `json:"input"`
}

// CreateToolRequest represents the request body for POST /tools. Config is
// JSON text.
type CreateToolRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Config      *string `json:"config,omitempty"`
}

// UpdateToolRequest represents the request body for PUT/PATCH /tools/:id.
type UpdateToolRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Type        *string `json:"type,omitempty"`
	Config      *string `json:"config,omitempty"`
}

// CallFunctionRequest represents the request body for
// POST /tools/functions/:name/call.
type CallFunctionRequest struct {
	Arguments json.RawMessage `json:"arguments"`
}

// CreateGuardrailRequest represents the request body for POST /guardrails.
type CreateGuardrailRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description"`
	Logic       string `json:"logic"`
	Enabled     *bool  `json:"enabled,omitempty"`
}

// UpdateGuardrailRequest represents the request body for PUT/PATCH /guardrails/:id.
type UpdateGuardrailRequest struct {
	Name        *string `json:"name,omitempty"`
	Type        *string `json:"type,omitempty"`
	Description *string `json:"description,omitempty"`
	Logic       *string `json:"logic,omitempty"`
	Enabled     *bool   `json:"enabled,omitempty"`
}

// CreateAPIKeyRequest represents the request body for POST /api-keys.
type CreateAPIKeyRequest struct {
	Name     string `json:"name"`
	Key      string `json:"key"`
	Type     string `json:"type,omitempty"`
	Model    string `json:"model,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// UpdateAPIKeyRequest represents the request body for PUT/PATCH /api-keys/:id.
type UpdateAPIKeyRequest struct {
	Name     *string `json:"name,omitempty"`
	Key      *string `json:"key,omitempty"`
	Type     *string `json:"type,omitempty"`
	Model    *string `json:"model,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// CreatePlanRequest represents the request body for POST /plans.
type CreatePlanRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	RateLimit   int      `json:"rate_limit"`
	DailyLimit  *int     `json:"daily_limit,omitempty"`
	Features    []string `json:"features,omitempty"`
	IsPopular   bool     `json:"is_popular"`
	CTA         string   `json:"cta"`
}

// UpdatePlanRequest represents the request body for PUT/PATCH /plans/:id and
// one entry of PUT /plans/bulk-update, where ID is required.
// ClearDailyLimit removes the daily limit.
type UpdatePlanRequest struct {
	ID              string    `json:"id,omitempty"`
	Name            *string   `json:"name,omitempty"`
	Description     *string   `json:"description,omitempty"`
	Price           *float64  `json:"price,omitempty"`
	RateLimit       *int      `json:"rate_limit,omitempty"`
	DailyLimit      *int      `json:"daily_limit,omitempty"`
	ClearDailyLimit bool      `json:"clear_daily_limit,omitempty"`
	Features        *[]string `json:"features,omitempty"`
	IsPopular       *bool     `json:"is_popular,omitempty"`
	CTA             *string   `json:"cta,omitempty"`
}

// CreateFlowRequest represents the request body for POST /flows.
type CreateFlowRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	JSONData    json.RawMessage `json:"json_data"`
}

// UpdateFlowRequest represents the request body for PUT/PATCH /flows/:id.
type UpdateFlowRequest struct {
	Name        *string         `json:"name,omitempty"`
	Description *string         `json:"description,omitempty"`
	JSONData    json.RawMessage `json:"json_data,omitempty"`
}

// CreateUserRequest represents the request body for POST /users (signup) and
// POST /admin/users.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

// UpdateUserRequest represents the request body for PUT/PATCH /users/:id.
type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	IsAdmin  *bool   `json:"is_admin,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// LoginRequest represents the JSON body for POST /user-login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SendMessageRequest represents the request body for POST /messages.
type SendMessageRequest struct {
	Email     *string `json:"email,omitempty"`
	SessionID *string `json:"session_id,omitempty"`
	Plan      string  `json:"plan,omitempty"`
	Text      string  `json:"text"`
}

// CreateFeedbackRequest represents the request body for POST /feedback.
type CreateFeedbackRequest struct {
	UserID  *string `json:"user_id,omitempty"`
	Message string  `json:"message"`
	Rating  *int    `json:"rating,omitempty"`
}

// CreatePromptRequest represents the request body for POST /prompts.
type CreatePromptRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Tags     string `json:"tags"`
}

// UpdatePromptRequest represents the request body for PUT/PATCH /prompts/:id.
type UpdatePromptRequest struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	Category *string `json:"category,omitempty"`
	Tags     *string `json:"tags,omitempty"`
}

// ExecuteHostedToolRequest represents the request body for
// POST /tools/hosted/:name/execute.
type ExecuteHostedToolRequest struct {
	Params map[string]any `json:"params"`
	Input  string         `json:"input"`
	Args   map[string]any `json:"args"`
}
