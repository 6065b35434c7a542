package dto

import (
	"encoding/json"
	"time"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/tools"
)

// ListResponse is the paginated envelope returned by list endpoints.
type ListResponse[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// NewListResponse converts a page of domain records with conv.
func NewListResponse[D any, T any](records []D, total, limit, offset int, conv func(D) T) ListResponse[T] {
	items := make([]T, 0, len(records))
	for _, rec := range records {
		items = append(items, conv(rec))
	}
	return ListResponse[T]{Items: items, Total: total, Limit: limit, Offset: offset}
}

// AgentResponse represents an agent record.
type AgentResponse struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	Instructions   string               `json:"instructions"`
	Version        string               `json:"version"`
	Status         string               `json:"status"`
	Type           string               `json:"type"`
	Model          string               `json:"model"`
	ModelSettings  domain.ModelSettings `json:"model_settings"`
	Tools          []string             `json:"tools"`
	Guardrails     []string             `json:"guardrails"`
	Handoffs       []string             `json:"handoffs"`
	FlowIDs        []string             `json:"flow_ids"`
	OpenAIAPIKeyID *string              `json:"openai_api_key_id"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// ChatAgentResponse is the public view of an agent offered in the chat.
type ChatAgentResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// RunAgentResponse represents the result of POST /agents/:id/run.
type RunAgentResponse struct {
	Output string `json:"output"`
	LogID  string `json:"log_id,omitempty"`
}

// ToolResponse represents a tool record.
type ToolResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Config      *string   `json:"config"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FunctionInfoResponse describes a registered function tool.
type FunctionInfoResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HostedToolResponse describes a hosted tool and its configuration fields.
type HostedToolResponse struct {
	Value       string   `json:"value"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Required    []string `json:"required"`
	Optional    []string `json:"optional"`
}

// GuardrailResponse represents a guardrail record.
type GuardrailResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Logic       string    `json:"logic"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"created_at"`
}

// APIKeyResponse represents a stored API key. The secret is always masked.
type APIKeyResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Key       string     `json:"key"`
	Type      string     `json:"type"`
	Model     string     `json:"model"`
	IsActive  bool       `json:"is_active"`
	LastUsed  *time.Time `json:"last_used"`
	CreatedAt time.Time  `json:"created_at"`
}

// PlanResponse represents a pricing plan.
type PlanResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	RateLimit   int       `json:"rate_limit"`
	DailyLimit  *int      `json:"daily_limit"`
	Features    []string  `json:"features"`
	IsPopular   bool      `json:"is_popular"`
	CTA         string    `json:"cta"`
	CreatedAt   time.Time `json:"created_at"`
}

// FlowResponse represents a stored flow graph.
type FlowResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	JSONData    json.RawMessage `json:"json_data" swaggertype:"object"`
	CreatedAt   time.Time       `json:"created_at"`
}

// UserResponse represents an account without its password hash.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenResponse represents a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// MessageResponse represents a stored chat message.
type MessageResponse struct {
	ID        string    `json:"id"`
	Email     *string   `json:"email"`
	SessionID *string   `json:"session_id"`
	Plan      string    `json:"plan"`
	Text      string    `json:"text"`
	IsUser    bool      `json:"is_user"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackResponse represents a feedback entry.
type FeedbackResponse struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id"`
	Message   string    `json:"message"`
	Rating    *int      `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// PromptResponse represents a prompt library entry.
type PromptResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Tags      string    `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// RunLogResponse represents one recorded agent invocation.
type RunLogResponse struct {
	ID         string    `json:"id"`
	AgentID    string    `json:"agent_id"`
	UserID     *string   `json:"user_id"`
	InputText  string    `json:"input_text"`
	OutputText string    `json:"output_text"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// StatsResponse represents usage statistics for a period.
type StatsResponse struct {
	Period      string       `json:"period"`
	PeriodStart time.Time    `json:"period_start"`
	PeriodEnd   time.Time    `json:"period_end"`
	Agents      []AgentStats `json:"agents"`
	Totals      UsageTotals  `json:"totals"`
}

// AgentStats contains run counts for a single agent.
type AgentStats struct {
	AgentID            string  `json:"agent_id"`
	AgentName          string  `json:"agent_name"`
	Runs               int     `json:"runs"`
	Succeeded          int     `json:"succeeded"`
	Failed             int     `json:"failed"`
	Blocked            int     `json:"blocked"`
	SuccessRatePercent float64 `json:"success_rate_percent"`
}

// UsageTotals contains usage across all agents and chat sessions.
type UsageTotals struct {
	Runs         int            `json:"runs"`
	RunsByStatus map[string]int `json:"runs_by_status"`
	UserMessages int            `json:"user_messages"`
	BotMessages  int            `json:"bot_messages"`
	ActiveUsers  int            `json:"active_users"`
}

// HealthResponse represents GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// ToAgentResponse converts domain.Agent to AgentResponse.
func ToAgentResponse(a *domain.Agent) AgentResponse {
	return AgentResponse{
		ID:             a.ID,
		Name:           a.Name,
		Description:    a.Description,
		Instructions:   a.Instructions,
		Version:        a.Version,
		Status:         string(a.Status),
		Type:           string(a.Type),
		Model:          a.Model,
		ModelSettings:  a.ModelSettings,
		Tools:          nonNil(a.Tools),
		Guardrails:     nonNil(a.Guardrails),
		Handoffs:       nonNil(a.Handoffs),
		FlowIDs:        nonNil(a.FlowIDs),
		OpenAIAPIKeyID: a.APIKeyID,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// ToChatAgentResponse converts domain.Agent to its public chat view.
func ToChatAgentResponse(a *domain.Agent) ChatAgentResponse {
	return ChatAgentResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Type:        string(a.Type),
	}
}

// ToToolResponse converts domain.Tool to ToolResponse.
func ToToolResponse(t *domain.Tool) ToolResponse {
	return ToolResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Type:        string(t.Type),
		Config:      t.Config,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ToFunctionInfoResponse converts tools.FunctionInfo to FunctionInfoResponse.
func ToFunctionInfoResponse(f tools.FunctionInfo) FunctionInfoResponse {
	return FunctionInfoResponse{Name: string(f.Name), Description: f.Description}
}

// ToHostedToolResponse converts tools.HostedInfo to HostedToolResponse.
func ToHostedToolResponse(info tools.HostedInfo) HostedToolResponse {
	return HostedToolResponse{
		Value:       string(info.Kind),
		Label:       info.Alias,
		Description: info.Description,
		Required:    nonNil(info.Required),
		Optional:    nonNil(info.Optional),
	}
}

// ToGuardrailResponse converts domain.Guardrail to GuardrailResponse.
func ToGuardrailResponse(g *domain.Guardrail) GuardrailResponse {
	return GuardrailResponse{
		ID:          g.ID,
		Name:        g.Name,
		Type:        string(g.Type),
		Description: g.Description,
		Logic:       g.Logic,
		Enabled:     g.Enabled,
		CreatedAt:   g.CreatedAt,
	}
}

// ToAPIKeyResponse converts domain.APIKey to APIKeyResponse, masking the secret.
func ToAPIKeyResponse(k *domain.APIKey) APIKeyResponse {
	return APIKeyResponse{
		ID:        k.ID,
		Name:      k.Name,
		Key:       k.MaskedKey(),
		Type:      string(k.Type),
		Model:     k.Model,
		IsActive:  k.IsActive,
		LastUsed:  k.LastUsed,
		CreatedAt: k.CreatedAt,
	}
}

// ToPlanResponse converts domain.Plan to PlanResponse.
func ToPlanResponse(p *domain.Plan) PlanResponse {
	return PlanResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		RateLimit:   p.RateLimit,
		DailyLimit:  p.DailyLimit,
		Features:    nonNil(p.Features),
		IsPopular:   p.IsPopular,
		CTA:         p.CTA,
		CreatedAt:   p.CreatedAt,
	}
}

// ToFlowResponse converts domain.Flow to FlowResponse.
func ToFlowResponse(f *domain.Flow) FlowResponse {
	return FlowResponse{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		JSONData:    f.Data,
		CreatedAt:   f.CreatedAt,
	}
}

// ToUserResponse converts domain.User to UserResponse.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// ToMessageResponse converts domain.Message to MessageResponse.
func ToMessageResponse(m *domain.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		Email:     m.Email,
		SessionID: m.SessionID,
		Plan:      m.Plan,
		Text:      m.Text,
		IsUser:    m.IsUser,
		CreatedAt: m.CreatedAt,
	}
}

// ToFeedbackResponse converts domain.Feedback to FeedbackResponse.
func ToFeedbackResponse(f *domain.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:        f.ID,
		UserID:    f.UserID,
		Message:   f.Message,
		Rating:    f.Rating,
		CreatedAt: f.CreatedAt,
	}
}

// ToPromptResponse converts domain.Prompt to PromptResponse.
func ToPromptResponse(p *domain.Prompt) PromptResponse {
	return PromptResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Category:  p.Category,
		Tags:      p.Tags,
		CreatedAt: p.CreatedAt,
	}
}

// ToRunLogResponse converts domain.RunLog to RunLogResponse.
func ToRunLogResponse(l *domain.RunLog) RunLogResponse {
	return RunLogResponse{
		ID:         l.ID,
		AgentID:    l.AgentID,
		UserID:     l.UserID,
		InputText:  l.InputText,
		OutputText: l.OutputText,
		Status:     string(l.Status),
		CreatedAt:  l.CreatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
