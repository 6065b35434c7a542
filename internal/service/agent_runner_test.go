package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/guardrail"
	"github.com/mtlprog/agentdesk/internal/service"
)

func ptr[T any](v T) *T { return &v }

func TestBuildRequest_Defaults(t *testing.T) {
	req := service.BuildRequest(&domain.Agent{}, nil, "hi")

	assert.Equal(t, service.DefaultSystemPrompt, req.System)
	assert.Equal(t, domain.DefaultAgentModel, req.Model)
	assert.Equal(t, service.DefaultTemperature, req.Temperature)
	assert.Equal(t, service.DefaultMaxTokens, req.MaxTokens)
	assert.Equal(t, "hi", req.Input)
	assert.False(t, req.JSON)
}

func TestBuildRequest_KeyModelAndSettings(t *testing.T) {
	agent := &domain.Agent{
		Instructions: "Talk like a pirate.",
		ModelSettings: domain.ModelSettings{
			Temperature: ptr(0.2),
			MaxTokens:   ptr(64),
		},
	}
	key := &domain.APIKey{Model: "claude-3-5-haiku-latest"}

	req := service.BuildRequest(agent, key, "ahoy")

	assert.Equal(t, "Talk like a pirate.", req.System)
	assert.Equal(t, "claude-3-5-haiku-latest", req.Model)
	assert.Equal(t, 0.2, req.Temperature)
	assert.Equal(t, 64, req.MaxTokens)
}

func TestBuildRequest_AgentModelWins(t *testing.T) {
	req := service.BuildRequest(&domain.Agent{Model: "gpt-4o"}, &domain.APIKey{Model: "gpt-3.5-turbo"}, "x")

	assert.Equal(t, "gpt-4o", req.Model)
}

// Input and id checks run before any repository is touched, so a runner
// without storage is enough here.
func TestRun_RejectsBeforeStorage(t *testing.T) {
	runner := service.NewAgentRunner(nil, nil, nil, nil, nil, guardrail.NewRegistry())

	_, err := runner.Run(context.Background(), "not-a-uuid", "  \n", nil)
	require.ErrorIs(t, err, domain.ErrEmptyInput)

	_, err = runner.Run(context.Background(), "not-a-uuid", "hello", nil)
	require.ErrorIs(t, err, domain.ErrInvalidID)
}
