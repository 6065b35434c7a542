package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/repository"
	"github.com/mtlprog/agentdesk/internal/tools"
)

// ToolService manages tool records and checks their config against the
// tool registry before anything is stored.
type ToolService struct {
	toolRepo  *repository.ToolRepository
	agentRepo *repository.AgentRepository
}

// NewToolService creates a new ToolService.
func NewToolService(toolRepo *repository.ToolRepository, agentRepo *repository.AgentRepository) *ToolService {
	return &ToolService{toolRepo: toolRepo, agentRepo: agentRepo}
}

// ToolPatch holds a partial tool update. An empty Config clears it.
type ToolPatch struct {
	Name        *string
	Description *string
	Type        *domain.ToolType
	Config      *string
}

func validateTool(t *domain.Tool) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name", domain.ErrRequiredField)
	}
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidToolType, t.Type)
	}
	return tools.ValidateConfig(t.Type, t.Config)
}

// CreateTool validates and stores a new tool.
func (s *ToolService) CreateTool(ctx context.Context, tool *domain.Tool) (*domain.Tool, error) {
	if tool.Config != nil && *tool.Config == "" {
		tool.Config = nil
	}
	if err := validateTool(tool); err != nil {
		return nil, err
	}

	created, err := s.toolRepo.Create(ctx, tool)
	if err != nil {
		return nil, err
	}

	slog.Info("tool created", "tool_id", created.ID, "type", created.Type)

	return created, nil
}

// UpdateTool applies a partial update, re-validating the resulting config.
func (s *ToolService) UpdateTool(ctx context.Context, toolID string, patch ToolPatch) (*domain.Tool, error) {
	if patch.Name == nil && patch.Description == nil && patch.Type == nil && patch.Config == nil {
		return nil, domain.ErrNoFieldsToUpdate
	}

	tool, err := s.toolRepo.GetByID(ctx, toolID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		tool.Name = *patch.Name
	}
	if patch.Description != nil {
		tool.Description = *patch.Description
	}
	if patch.Type != nil {
		tool.Type = *patch.Type
	}
	if patch.Config != nil {
		if *patch.Config == "" {
			tool.Config = nil
		} else {
			cfg := *patch.Config
			tool.Config = &cfg
		}
	}

	if err := validateTool(tool); err != nil {
		return nil, err
	}
	if err := s.toolRepo.Update(ctx, tool); err != nil {
		return nil, err
	}

	slog.Info("tool updated", "tool_id", tool.ID)

	return tool, nil
}

// DeleteTool removes a tool unless an agent still references it.
func (s *ToolService) DeleteTool(ctx context.Context, toolID string) error {
	names, err := s.agentRepo.NamesReferencingTool(ctx, toolID)
	if err != nil {
		return err
	}
	if err := ensureUnreferenced("tool", toolID, names); err != nil {
		return err
	}

	if err := s.toolRepo.Delete(ctx, toolID); err != nil {
		return err
	}

	slog.Info("tool deleted", "tool_id", toolID)

	return nil
}
