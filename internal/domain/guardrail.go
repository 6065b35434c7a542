package domain

import "time"

// GuardrailType says whether a guardrail checks user input or model output.
type GuardrailType string

const (
	GuardrailTypeInput  GuardrailType = "Input"
	GuardrailTypeOutput GuardrailType = "Output"
)

// IsValid checks if the type is one of the allowed values.
func (t GuardrailType) IsValid() bool {
	return t == GuardrailTypeInput || t == GuardrailTypeOutput
}

// Guardrail is a named check bound to a registered logic function.
type Guardrail struct {
	ID          string
	Name        string
	Type        GuardrailType
	Description string
	Logic       string
	Enabled     bool
	CreatedAt   time.Time
}
