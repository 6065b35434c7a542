package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/repository"
)

// FlowService stores flow graphs.
type FlowService struct {
	flowRepo *repository.FlowRepository
}

// NewFlowService creates a new FlowService.
func NewFlowService(flowRepo *repository.FlowRepository) *FlowService {
	return &FlowService{flowRepo: flowRepo}
}

// FlowPatch holds a partial flow update. A nil Data leaves the graph unchanged.
type FlowPatch struct {
	Name        *string
	Description *string
	Data        json.RawMessage
}

// flowData accepts only a JSON object.
func flowData(raw json.RawMessage) error {
	if len(raw) == 0 || string(raw) == "null" {
		return fmt.Errorf("%w: json_data", domain.ErrRequiredField)
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return domain.ErrInvalidFlowData
	}
	return nil
}

// CreateFlow validates and stores a flow.
func (s *FlowService) CreateFlow(ctx context.Context, f *domain.Flow) (*domain.Flow, error) {
	if strings.TrimSpace(f.Name) == "" {
		return nil, fmt.Errorf("%w: name", domain.ErrRequiredField)
	}
	if err := flowData(f.Data); err != nil {
		return nil, err
	}

	created, err := s.flowRepo.Create(ctx, f)
	if err != nil {
		return nil, err
	}

	slog.Info("flow created", "flow_id", created.ID)

	return created, nil
}

// UpdateFlow applies a partial update to a flow.
func (s *FlowService) UpdateFlow(ctx context.Context, flowID string, patch FlowPatch) (*domain.Flow, error) {
	if patch.Name == nil && patch.Description == nil && patch.Data == nil {
		return nil, domain.ErrNoFieldsToUpdate
	}

	f, err := s.flowRepo.GetByID(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, fmt.Errorf("%w: name", domain.ErrRequiredField)
		}
		f.Name = *patch.Name
	}
	if patch.Description != nil {
		f.Description = *patch.Description
	}
	if patch.Data != nil {
		if err := flowData(patch.Data); err != nil {
			return nil, err
		}
		f.Data = patch.Data
	}

	if err := s.flowRepo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// FeedbackService stores user feedback.
type FeedbackService struct {
	feedbackRepo *repository.FeedbackRepository
}

// NewFeedbackService creates a new FeedbackService.
func NewFeedbackService(feedbackRepo *repository.FeedbackRepository) *FeedbackService {
	return &FeedbackService{feedbackRepo: feedbackRepo}
}

// SubmitFeedback validates and stores feedback. Rating is optional.
func (s *FeedbackService) SubmitFeedback(ctx context.Context, f *domain.Feedback) (*domain.Feedback, error) {
	if strings.TrimSpace(f.Message) == "" && f.Rating == nil {
		return nil, fmt.Errorf("%w: message or rating", domain.ErrRequiredField)
	}
	if f.Rating != nil && (*f.Rating < 1 || *f.Rating > 5) {
		return nil, domain.ErrInvalidRating
	}
	if f.UserID != nil && *f.UserID == "" {
		f.UserID = nil
	}

	created, err := s.feedbackRepo.Create(ctx, f)
	if err != nil {
		return nil, err
	}

	slog.Info("feedback received", "feedback_id", created.ID)

	return created, nil
}

// PromptService manages the prompt library.
type PromptService struct {
	promptRepo *repository.PromptRepository
}

// NewPromptService creates a new PromptService.
func NewPromptService(promptRepo *repository.PromptRepository) *PromptService {
	return &PromptService{promptRepo: promptRepo}
}

// PromptPatch holds a partial prompt update.
type PromptPatch struct {
	Title    *string
	Content  *string
	Category *string
	Tags     *string
}

func validatePrompt(p *domain.Prompt) error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title", domain.ErrRequiredField)
	}
	if strings.TrimSpace(p.Content) == "" {
		return fmt.Errorf("%w: content", domain.ErrRequiredField)
	}
	return nil
}

// CreatePrompt validates and stores a prompt.
func (s *PromptService) CreatePrompt(ctx context.Context, p *domain.Prompt) (*domain.Prompt, error) {
	if err := validatePrompt(p); err != nil {
		return nil, err
	}
	return s.promptRepo.Create(ctx, p)
}

// UpdatePrompt applies a partial update to a prompt.
func (s *PromptService) UpdatePrompt(ctx context.Context, promptID string, patch PromptPatch) (*domain.Prompt, error) {
	if patch.Title == nil && patch.Content == nil && patch.Category == nil && patch.Tags == nil {
		return nil, domain.ErrNoFieldsToUpdate
	}

	p, err := s.promptRepo.GetByID(ctx, promptID)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Tags != nil {
		p.Tags = *patch.Tags
	}
	if err := validatePrompt(p); err != nil {
		return nil, err
	}

	if err := s.promptRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
