package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/guardrail"
	"github.com/mtlprog/agentdesk/internal/llm"
	"github.com/mtlprog/agentdesk/internal/repository"
	"github.com/mtlprog/agentdesk/internal/telemetry"
)

const (
	DefaultSystemPrompt = "You are a helpful assistant."
	DefaultTemperature  = 0.7
	DefaultMaxTokens    = 2000
)

// RunResult is the outcome of one agent invocation.
type RunResult struct {
	Output   string
	RunLogID string
}

// AgentRunner performs single-turn agent invocations.
type AgentRunner struct {
	agentRepo     *repository.AgentRepository
	apiKeyRepo    *repository.APIKeyRepository
	guardrailRepo *repository.GuardrailRepository
	runLogRepo    *repository.RunLogRepository
	factory       llm.Factory
	guardrails    *guardrail.Registry
	tracer        trace.Tracer
}

// NewAgentRunner creates a new AgentRunner.
func NewAgentRunner(
	agentRepo *repository.AgentRepository,
	apiKeyRepo *repository.APIKeyRepository,
	guardrailRepo *repository.GuardrailRepository,
	runLogRepo *repository.RunLogRepository,
	factory llm.Factory,
	guardrails *guardrail.Registry,
) *AgentRunner {
	return &AgentRunner{
		agentRepo:     agentRepo,
		apiKeyRepo:    apiKeyRepo,
		guardrailRepo: guardrailRepo,
		runLogRepo:    runLogRepo,
		factory:       factory,
		guardrails:    guardrails,
		tracer:        telemetry.Tracer(),
	}
}

// BuildRequest assembles the model request for an agent. The agent's model
// falls back to the key's model, and model_settings override the sampling
// defaults.
func BuildRequest(agent *domain.Agent, key *domain.APIKey, input string) llm.Request {
	req := llm.Request{
		Model:       agent.Model,
		System:      agent.Instructions,
		Input:       input,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
	if strings.TrimSpace(req.System) == "" {
		req.System = DefaultSystemPrompt
	}
	if req.Model == "" && key != nil {
		req.Model = key.Model
	}
	if req.Model == "" {
		req.Model = domain.DefaultAgentModel
	}
	if t := agent.ModelSettings.Temperature; t != nil {
		req.Temperature = *t
	}
	if m := agent.ModelSettings.MaxTokens; m != nil {
		req.MaxTokens = *m
	}
	return req
}

// Run invokes the agent once with input. Input guardrails attached to the
// agent are evaluated first; a tripped guardrail stops the call.
func (r *AgentRunner) Run(ctx context.Context, agentID, input string, userID *string) (result *RunResult, err error) {
	if strings.TrimSpace(input) == "" {
		return nil, domain.ErrEmptyInput
	}
	if _, err := uuid.Parse(agentID); err != nil {
		return nil, fmt.Errorf("%w: agent id %q", domain.ErrInvalidID, agentID)
	}

	ctx, span := r.tracer.Start(ctx, "agent.run", trace.WithAttributes(attribute.String("agent.id", agentID)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	agent, err := r.agentRepo.GetByID(ctx, agentID)
	if err != nil {
		return nil, err
	}

	key, err := r.resolveKey(ctx, agent)
	if err != nil {
		return nil, err
	}

	client, err := r.factory.ForKey(key)
	if err != nil {
		return nil, err
	}

	req := BuildRequest(agent, key, input)
	span.SetAttributes(
		attribute.String("llm.model", req.Model),
		attribute.String("llm.vendor", string(key.Type)),
	)

	if err := r.checkGuardrails(ctx, agent, client, req.Model, input, userID); err != nil {
		return nil, err
	}

	output, err := client.Complete(ctx, req)
	if err != nil {
		r.writeLog(ctx, agent.ID, userID, input, err.Error(), domain.RunStatusError)
		slog.Warn("model call failed", "agent_id", agent.ID, "model", req.Model, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrModelCall, err)
	}

	logID := r.writeLog(ctx, agent.ID, userID, input, output, domain.RunStatusSuccess)
	if err := r.apiKeyRepo.TouchLastUsed(ctx, key.ID); err != nil {
		slog.Error("failed to record api key use", "api_key_id", key.ID, "error", err)
	}

	slog.Info("agent run completed", "agent_id", agent.ID, "model", req.Model, "run_log_id", logID)

	return &RunResult{Output: output, RunLogID: logID}, nil
}

// resolveKey loads the API key bound to the agent. Any missing or unusable
// key is reported as ErrInvalidAPIKey.
func (r *AgentRunner) resolveKey(ctx context.Context, agent *domain.Agent) (*domain.APIKey, error) {
	if agent.APIKeyID == nil || *agent.APIKeyID == "" {
		return nil, fmt.Errorf("%w: agent %s has no api key", domain.ErrInvalidAPIKey, agent.ID)
	}

	key, err := r.apiKeyRepo.GetByID(ctx, *agent.APIKeyID)
	if err != nil {
		if errors.Is(err, domain.ErrAPIKeyNotFound) {
			return nil, fmt.Errorf("%w: api key %s not found", domain.ErrInvalidAPIKey, *agent.APIKeyID)
		}
		return nil, err
	}
	if !key.Usable() {
		return nil, fmt.Errorf("%w: api key %s is inactive or empty", domain.ErrInvalidAPIKey, key.ID)
	}
	return key, nil
}

func (r *AgentRunner) checkGuardrails(ctx context.Context, agent *domain.Agent, client llm.Client, model, input string, userID *string) error {
	if len(agent.Guardrails) == 0 {
		return nil
	}

	checks, err := r.guardrailRepo.GetEnabledByIDs(ctx, agent.Guardrails, domain.GuardrailTypeInput)
	if err != nil {
		return err
	}

	for _, g := range checks {
		fn, err := r.guardrails.Lookup(g.Logic)
		if err != nil {
			return err
		}

		res, err := fn(ctx, client, model, input)
		if err != nil {
			r.writeLog(ctx, agent.ID, userID, input, err.Error(), domain.RunStatusError)
			return fmt.Errorf("%w: guardrail %s: %v", domain.ErrModelCall, g.Name, err)
		}
		if res.Tripwire {
			r.writeLog(ctx, agent.ID, userID, input, "blocked by guardrail "+g.Name, domain.RunStatusBlocked)
			slog.Info("guardrail tripped", "agent_id", agent.ID, "guardrail_id", g.ID, "logic", g.Logic)
			return fmt.Errorf("%w: %s", domain.ErrGuardrailTripped, g.Name)
		}
	}
	return nil
}

// writeLog records the invocation. Failures are logged, not returned.
func (r *AgentRunner) writeLog(ctx context.Context, agentID string, userID *string, input, output string, status domain.RunStatus) string {
	entry := &domain.RunLog{
		AgentID:    agentID,
		UserID:     userID,
		InputText:  input,
		OutputText: output,
		Status:     status,
	}
	if err := r.runLogRepo.Create(ctx, entry); err != nil {
		slog.Error("failed to write run log", "agent_id", agentID, "error", err)
		return ""
	}
	return entry.ID
}
