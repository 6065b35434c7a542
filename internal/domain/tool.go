package domain

import "time"

// ToolType is the family a tool record belongs to.
type ToolType string

const (
	ToolTypeFunction  ToolType = "function"
	ToolTypeFunctions ToolType = "functions"
	ToolTypeHosted    ToolType = "hosted"
	ToolTypeAgent     ToolType = "agent"
)

// IsValid checks if the type is one of the allowed values.
func (t ToolType) IsValid() bool {
	switch t {
	case ToolTypeFunction, ToolTypeFunctions, ToolTypeHosted, ToolTypeAgent:
		return true
	default:
		return false
	}
}

// Tool is a named capability an agent may reference. Config holds the raw
// JSON document; its shape depends on Type.
type Tool struct {
	ID          string
	Name        string
	Description string
	Type        ToolType
	Config      *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
