package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/repository"
)

// AgentService validates agent records and the resources they reference.
type AgentService struct {
	agentRepo     *repository.AgentRepository
	toolRepo      *repository.ToolRepository
	guardrailRepo *repository.GuardrailRepository
	apiKeyRepo    *repository.APIKeyRepository
}

// NewAgentService creates a new AgentService.
func NewAgentService(
	agentRepo *repository.AgentRepository,
	toolRepo *repository.ToolRepository,
	guardrailRepo *repository.GuardrailRepository,
	apiKeyRepo *repository.APIKeyRepository,
) *AgentService {
	return &AgentService{
		agentRepo:     agentRepo,
		toolRepo:      toolRepo,
		guardrailRepo: guardrailRepo,
		apiKeyRepo:    apiKeyRepo,
	}
}

// AgentPatch holds a partial agent update. Nil fields are left unchanged.
// An empty APIKeyID clears the key binding.
type AgentPatch struct {
	Name          *string
	Description   *string
	Instructions  *string
	Version       *string
	Status        *domain.AgentStatus
	Type          *domain.AgentType
	Model         *string
	ModelSettings *domain.ModelSettings
	Tools         *[]string
	Guardrails    *[]string
	Handoffs      *[]string
	FlowIDs       *[]string
	APIKeyID      *string
}

func (p AgentPatch) isEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Instructions == nil &&
		p.Version == nil && p.Status == nil && p.Type == nil && p.Model == nil &&
		p.ModelSettings == nil && p.Tools == nil && p.Guardrails == nil &&
		p.Handoffs == nil && p.FlowIDs == nil && p.APIKeyID == nil
}

func (p AgentPatch) apply(a *domain.Agent) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Instructions != nil {
		a.Instructions = *p.Instructions
	}
	if p.Version != nil {
		a.Version = *p.Version
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Model != nil {
		a.Model = *p.Model
	}
	if p.ModelSettings != nil {
		a.ModelSettings = *p.ModelSettings
	}
	if p.Tools != nil {
		a.Tools = *p.Tools
	}
	if p.Guardrails != nil {
		a.Guardrails = *p.Guardrails
	}
	if p.Handoffs != nil {
		a.Handoffs = *p.Handoffs
	}
	if p.FlowIDs != nil {
		a.FlowIDs = *p.FlowIDs
	}
	if p.APIKeyID != nil {
		if *p.APIKeyID == "" {
			a.APIKeyID = nil
		} else {
			id := *p.APIKeyID
			a.APIKeyID = &id
		}
	}
}

// validateAgent checks the fields of an agent that do not need the database.
func validateAgent(a *domain.Agent) error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: name", domain.ErrRequiredField)
	}
	if !a.Status.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidAgentStatus, a.Status)
	}
	if !a.Type.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidAgentType, a.Type)
	}
	if t := a.ModelSettings.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("%w: model_settings.temperature must be between 0 and 2", domain.ErrInvalidModelSettings)
	}
	if m := a.ModelSettings.MaxTokens; m != nil && *m <= 0 {
		return fmt.Errorf("%w: model_settings.max_tokens must be positive", domain.ErrInvalidModelSettings)
	}
	return nil
}

// uniqueIDs parses ids as UUIDs and removes duplicates, keeping order.
func uniqueIDs(field string, ids []string) ([]string, error) {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("%w: %s contains malformed id %q", domain.ErrInvalidReference, field, id)
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, nil
}

type existenceCounter func(ctx context.Context, ids []string) (int, error)

func (s *AgentService) checkExist(ctx context.Context, field string, ids []string, countFn existenceCounter) ([]string, error) {
	ids, err := uniqueIDs(field, ids)
	if err != nil {
		return nil, err
	}
	n, err := countFn(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", field, err)
	}
	if n != len(ids) {
		return nil, fmt.Errorf("%w: %s references %d unknown id(s)", domain.ErrInvalidReference, field, len(ids)-n)
	}
	return ids, nil
}

// resolveReferences verifies that every referenced tool, guardrail, handoff
// target and API key exists, and normalizes the id lists.
func (s *AgentService) resolveReferences(ctx context.Context, a *domain.Agent) error {
	var err error
	if a.Tools, err = s.checkExist(ctx, "tools", a.Tools, s.toolRepo.CountExisting); err != nil {
		return err
	}
	if a.Guardrails, err = s.checkExist(ctx, "guardrails", a.Guardrails, s.guardrailRepo.CountExisting); err != nil {
		return err
	}
	if a.Handoffs, err = s.checkExist(ctx, "handoffs", a.Handoffs, s.agentRepo.CountExisting); err != nil {
		return err
	}
	if a.ID != "" {
		for _, id := range a.Handoffs {
			if id == a.ID {
				return fmt.Errorf("%w: agent cannot hand off to itself", domain.ErrInvalidReference)
			}
		}
	}
	if a.FlowIDs, err = uniqueIDs("flow_ids", a.FlowIDs); err != nil {
		return err
	}

	if a.APIKeyID != nil {
		if _, err := uuid.Parse(*a.APIKeyID); err != nil {
			return fmt.Errorf("%w: openai_api_key_id is malformed", domain.ErrInvalidReference)
		}
		if _, err := s.apiKeyRepo.GetByID(ctx, *a.APIKeyID); err != nil {
			if errors.Is(err, domain.ErrAPIKeyNotFound) {
				return fmt.Errorf("%w: openai_api_key_id %s does not exist", domain.ErrInvalidReference, *a.APIKeyID)
			}
			return fmt.Errorf("check api key: %w", err)
		}
	}
	return nil
}

// CreateAgent validates and stores a new agent.
func (s *AgentService) CreateAgent(ctx context.Context, agent *domain.Agent) (*domain.Agent, error) {
	agent.ApplyDefaults()

	if err := validateAgent(agent); err != nil {
		return nil, err
	}
	if err := s.resolveReferences(ctx, agent); err != nil {
		return nil, err
	}

	created, err := s.agentRepo.Create(ctx, agent)
	if err != nil {
		return nil, err
	}

	slog.Info("agent created", "agent_id", created.ID, "name", created.Name)

	return created, nil
}

// UpdateAgent applies a partial update to an agent.
func (s *AgentService) UpdateAgent(ctx context.Context, agentID string, patch AgentPatch) (*domain.Agent, error) {
	if patch.isEmpty() {
		return nil, domain.ErrNoFieldsToUpdate
	}

	agent, err := s.agentRepo.GetByID(ctx, agentID)
	if err != nil {
		return nil, err
	}

	patch.apply(agent)
	agent.ApplyDefaults()

	if err := validateAgent(agent); err != nil {
		return nil, err
	}
	if err := s.resolveReferences(ctx, agent); err != nil {
		return nil, err
	}

	if err := s.agentRepo.Update(ctx, agent); err != nil {
		return nil, err
	}

	slog.Info("agent updated", "agent_id", agent.ID)

	return agent, nil
}

// DeleteAgent removes an agent. Agents that hand off to it keep a dangling
// reference, which the runner does not follow.
func (s *AgentService) DeleteAgent(ctx context.Context, agentID string) error {
	if err := s.agentRepo.Delete(ctx, agentID); err != nil {
		return err
	}

	slog.Info("agent deleted", "agent_id", agentID)

	return nil
}

// ensureUnreferenced fails with ErrResourceInUse when names is non-empty.
func ensureUnreferenced(kind, id string, names []string) error {
	if len(names) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s %s is used by %s", domain.ErrResourceInUse, kind, id, strings.Join(names, ", "))
}
