package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/repository"
)

// SettingsService reads and writes the admin settings sections. Stored
// documents are layered over the section defaults.
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(settingsRepo *repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

func parseSection(section string) (domain.SettingsSection, error) {
	s := domain.SettingsSection(section)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownSettingsSection, section)
	}
	return s, nil
}

// GetSettings returns the typed document of a section.
func (s *SettingsService) GetSettings(ctx context.Context, section string) (any, error) {
	sec, err := parseSection(section)
	if err != nil {
		return nil, err
	}

	doc := domain.DefaultSettings(sec)
	data, err := s.settingsRepo.Get(ctx, sec)
	if err != nil {
		return nil, err
	}
	if data != nil {
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, fmt.Errorf("decode stored settings %s: %w", sec, err)
		}
	}
	return doc, nil
}

// SaveSettings merges raw over the current document of a section and stores
// the result. Unknown fields are rejected.
func (s *SettingsService) SaveSettings(ctx context.Context, section string, raw json.RawMessage) (any, error) {
	sec, err := parseSection(section)
	if err != nil {
		return nil, err
	}

	doc, err := s.GetSettings(ctx, section)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSettings, err)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode settings %s: %w", sec, err)
	}
	if err := s.settingsRepo.Upsert(ctx, sec, data); err != nil {
		return nil, err
	}

	slog.Info("settings saved", "section", sec)

	return doc, nil
}
