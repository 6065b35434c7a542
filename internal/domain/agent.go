package domain

import "time"

// AgentStatus is the lifecycle state of an agent record.
type AgentStatus string

const (
	AgentStatusActive   AgentStatus = "active"
	AgentStatusArchived AgentStatus = "archived"
	AgentStatusDisabled AgentStatus = "disabled"
)

// IsValid checks if the status is one of the allowed values.
func (s AgentStatus) IsValid() bool {
	switch s {
	case AgentStatusActive, AgentStatusArchived, AgentStatusDisabled:
		return true
	default:
		return false
	}
}

// AgentType classifies what an agent is used for.
type AgentType string

const (
	AgentTypeGeneral   AgentType = "general"
	AgentTypeTool      AgentType = "tool"
	AgentTypeGuardrail AgentType = "guardrail"
	AgentTypeTutor     AgentType = "tutor"
)

// IsValid checks if the type is one of the allowed values.
func (t AgentType) IsValid() bool {
	switch t {
	case AgentTypeGeneral, AgentTypeTool, AgentTypeGuardrail, AgentTypeTutor:
		return true
	default:
		return false
	}
}

const (
	DefaultAgentModel   = "gpt-4o-mini"
	DefaultAgentVersion = "1.0.0"
)

// ModelSettings overrides sampling parameters for an agent. Nil fields fall
// back to the invocation defaults.
type ModelSettings struct {
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}

// Agent is a persisted LLM configuration: a model, a system prompt and
// references (by id) to tools, guardrails, handoff targets and an API key.
type Agent struct {
	ID            string
	Name          string
	Description   string
	Instructions  string
	Version       string
	Status        AgentStatus
	Type          AgentType
	Model         string
	ModelSettings ModelSettings
	Tools         []string
	Guardrails    []string
	Handoffs      []string
	FlowIDs       []string
	APIKeyID      *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ApplyDefaults fills zero-valued fields with their defaults.
func (a *Agent) ApplyDefaults() {
	if a.Version == "" {
		a.Version = DefaultAgentVersion
	}
	if a.Status == "" {
		a.Status = AgentStatusActive
	}
	if a.Type == "" {
		a.Type = AgentTypeGeneral
	}
	if a.Model == "" {
		a.Model = DefaultAgentModel
	}
	if a.Tools == nil {
		a.Tools = []string{}
	}
	if a.Guardrails == nil {
		a.Guardrails = []string{}
	}
	if a.Handoffs == nil {
		a.Handoffs = []string{}
	}
	if a.FlowIDs == nil {
		a.FlowIDs = []string{}
	}
}

// IsActive reports whether the agent may be listed for chat.
func (a *Agent) IsActive() bool {
	return a.Status == AgentStatusActive
}
