package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mtlprog/agentdesk/internal/domain"
)

type toolConfig struct {
	FunctionName  string         `json:"function_name"`
	FunctionNames []string       `json:"function_names"`
	ToolName      string         `json:"tool_name"`
	Params        map[string]any `json:"params"`
	AgentID       string         `json:"agent_id"`
}

// ValidateConfig checks a stored tool config against the tool type:
// function tools must name a registered function, hosted tools must name a
// known hosted tool and pass its parameter schema.
func ValidateConfig(toolType domain.ToolType, raw *string) error {
	var cfg toolConfig
	if raw != nil && *raw != "" {
		if err := json.Unmarshal([]byte(*raw), &cfg); err != nil {
			return fmt.Errorf("%w: config must be a JSON object", domain.ErrInvalidToolConfig)
		}
	}

	switch toolType {
	case domain.ToolTypeFunction:
		if cfg.FunctionName == "" {
			return fmt.Errorf("%w: Missing required field 'function_name' for function tool", domain.ErrInvalidToolConfig)
		}
		if !IsFunction(cfg.FunctionName) {
			return fmt.Errorf("%w: %w: %s", domain.ErrInvalidToolConfig, domain.ErrUnknownFunction, cfg.FunctionName)
		}
	case domain.ToolTypeFunctions:
		if len(cfg.FunctionNames) == 0 {
			return fmt.Errorf("%w: Missing required field 'function_names' for functions tool", domain.ErrInvalidToolConfig)
		}
		for _, name := range cfg.FunctionNames {
			if !IsFunction(name) {
				return fmt.Errorf("%w: %w: %s", domain.ErrInvalidToolConfig, domain.ErrUnknownFunction, name)
			}
		}
	case domain.ToolTypeHosted:
		if cfg.ToolName == "" {
			return fmt.Errorf("%w: Missing required field 'tool_name' for hosted tool", domain.ErrInvalidToolConfig)
		}
		if _, err := ParseHostedKind(cfg.ToolName); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidToolConfig, err)
		}
		if _, err := Configure(cfg.ToolName, cfg.Params); err != nil {
			return err
		}
	case domain.ToolTypeAgent:
		// agent tools delegate to another agent; config is free-form
	default:
		return fmt.Errorf("%w: %s", domain.ErrInvalidToolType, toolType)
	}
	return nil
}
