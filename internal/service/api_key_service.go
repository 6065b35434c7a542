package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/repository"
)

// APIKeyService manages stored vendor credentials.
type APIKeyService struct {
	apiKeyRepo *repository.APIKeyRepository
	agentRepo  *repository.AgentRepository
}

// NewAPIKeyService creates a new APIKeyService.
func NewAPIKeyService(apiKeyRepo *repository.APIKeyRepository, agentRepo *repository.AgentRepository) *APIKeyService {
	return &APIKeyService{apiKeyRepo: apiKeyRepo, agentRepo: agentRepo}
}

// APIKeyPatch holds a partial API key update.
type APIKeyPatch struct {
	Name     *string
	Key      *string
	Type     *domain.APIKeyType
	Model    *string
	IsActive *bool
}

func validateAPIKey(k *domain.APIKey) error {
	if strings.TrimSpace(k.Name) == "" {
		return fmt.Errorf("%w: name", domain.ErrRequiredField)
	}
	if k.Key == "" {
		return fmt.Errorf("%w: key", domain.ErrRequiredField)
	}
	if !k.Type.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidAPIKeyType, k.Type)
	}
	return nil
}

// CreateAPIKey validates and stores a new key.
func (s *APIKeyService) CreateAPIKey(ctx context.Context, k *domain.APIKey) (*domain.APIKey, error) {
	if k.Type == "" {
		k.Type = domain.APIKeyTypeOpenAI
	}
	if k.Model == "" {
		k.Model = domain.DefaultAPIKeyModel
	}
	if err := validateAPIKey(k); err != nil {
		return nil, err
	}

	created, err := s.apiKeyRepo.Create(ctx, k)
	if err != nil {
		return nil, err
	}

	slog.Info("api key created", "api_key_id", created.ID, "type", created.Type)

	return created, nil
}

// UpdateAPIKey applies a partial update.
func (s *APIKeyService) UpdateAPIKey(ctx context.Context, keyID string, patch APIKeyPatch) (*domain.APIKey, error) {
	if patch.Name == nil && patch.Key == nil && patch.Type == nil && patch.Model == nil && patch.IsActive == nil {
		return nil, domain.ErrNoFieldsToUpdate
	}

	k, err := s.apiKeyRepo.GetByID(ctx, keyID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		k.Name = *patch.Name
	}
	if patch.Key != nil {
		k.Key = *patch.Key
	}
	if patch.Type != nil {
		k.Type = *patch.Type
	}
	if patch.Model != nil {
		k.Model = *patch.Model
	}
	if patch.IsActive != nil {
		k.IsActive = *patch.IsActive
	}

	if err := validateAPIKey(k); err != nil {
		return nil, err
	}
	if err := s.apiKeyRepo.Update(ctx, k); err != nil {
		return nil, err
	}

	slog.Info("api key updated", "api_key_id", k.ID)

	return k, nil
}

// DeleteAPIKey removes a key unless an agent is still bound to it.
func (s *APIKeyService) DeleteAPIKey(ctx context.Context, keyID string) error {
	names, err := s.agentRepo.NamesReferencingAPIKey(ctx, keyID)
	if err != nil {
		return err
	}
	if err := ensureUnreferenced("api key", keyID, names); err != nil {
		return err
	}

	if err := s.apiKeyRepo.Delete(ctx, keyID); err != nil {
		return err
	}

	slog.Info("api key deleted", "api_key_id", keyID)

	return nil
}
