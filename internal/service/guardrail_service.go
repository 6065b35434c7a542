package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/guardrail"
	"github.com/mtlprog/agentdesk/internal/repository"
)

// GuardrailService manages guardrail records. Logic names are resolved
// against the registry when a guardrail is created or changed.
type GuardrailService struct {
	guardrailRepo *repository.GuardrailRepository
	agentRepo     *repository.AgentRepository
	registry      *guardrail.Registry
}

// NewGuardrailService creates a new GuardrailService.
func NewGuardrailService(
	guardrailRepo *repository.GuardrailRepository,
	agentRepo *repository.AgentRepository,
	registry *guardrail.Registry,
) *GuardrailService {
	return &GuardrailService{guardrailRepo: guardrailRepo, agentRepo: agentRepo, registry: registry}
}

// GuardrailPatch holds a partial guardrail update.
type GuardrailPatch struct {
	Name        *string
	Type        *domain.GuardrailType
	Description *string
	Logic       *string
	Enabled     *bool
}

func (s *GuardrailService) validate(g *domain.Guardrail) error {
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("%w: name", domain.ErrRequiredField)
	}
	if !g.Type.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidGuardrailType, g.Type)
	}
	if _, err := s.registry.Lookup(g.Logic); err != nil {
		return err
	}
	return nil
}

// CreateGuardrail validates and stores a new guardrail.
func (s *GuardrailService) CreateGuardrail(ctx context.Context, g *domain.Guardrail) (*domain.Guardrail, error) {
	if g.Type == "" {
		g.Type = domain.GuardrailTypeInput
	}
	if err := s.validate(g); err != nil {
		return nil, err
	}

	created, err := s.guardrailRepo.Create(ctx, g)
	if err != nil {
		return nil, err
	}

	slog.Info("guardrail created", "guardrail_id", created.ID, "logic", created.Logic)

	return created, nil
}

// UpdateGuardrail applies a partial update.
func (s *GuardrailService) UpdateGuardrail(ctx context.Context, guardrailID string, patch GuardrailPatch) (*domain.Guardrail, error) {
	if patch.Name == nil && patch.Type == nil && patch.Description == nil && patch.Logic == nil && patch.Enabled == nil {
		return nil, domain.ErrNoFieldsToUpdate
	}

	g, err := s.guardrailRepo.GetByID(ctx, guardrailID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		g.Name = *patch.Name
	}
	if patch.Type != nil {
		g.Type = *patch.Type
	}
	if patch.Description != nil {
		g.Description = *patch.Description
	}
	if patch.Logic != nil {
		g.Logic = *patch.Logic
	}
	if patch.Enabled != nil {
		g.Enabled = *patch.Enabled
	}

	if err := s.validate(g); err != nil {
		return nil, err
	}
	if err := s.guardrailRepo.Update(ctx, g); err != nil {
		return nil, err
	}

	slog.Info("guardrail updated", "guardrail_id", g.ID)

	return g, nil
}

// DeleteGuardrail removes a guardrail unless an agent still references it.
func (s *GuardrailService) DeleteGuardrail(ctx context.Context, guardrailID string) error {
	names, err := s.agentRepo.NamesReferencingGuardrail(ctx, guardrailID)
	if err != nil {
		return err
	}
	if err := ensureUnreferenced("guardrail", guardrailID, names); err != nil {
		return err
	}

	if err := s.guardrailRepo.Delete(ctx, guardrailID); err != nil {
		return err
	}

	slog.Info("guardrail deleted", "guardrail_id", guardrailID)

	return nil
}
