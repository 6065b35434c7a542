package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/service"
)

func TestFlowService_ValidatesBeforeStorage(t *testing.T) {
	flows := service.NewFlowService(nil)
	ctx := context.Background()

	_, err := flows.CreateFlow(ctx, &domain.Flow{Data: []byte(`{}`)})
	assert.ErrorIs(t, err, domain.ErrRequiredField)

	_, err = flows.CreateFlow(ctx, &domain.Flow{Name: "f"})
	assert.ErrorIs(t, err, domain.ErrRequiredField)

	_, err = flows.CreateFlow(ctx, &domain.Flow{Name: "f", Data: []byte(`"graph"`)})
	assert.ErrorIs(t, err, domain.ErrInvalidFlowData)

	_, err = flows.UpdateFlow(ctx, "00000000-0000-0000-0000-000000000001", service.FlowPatch{})
	assert.ErrorIs(t, err, domain.ErrNoFieldsToUpdate)
}

func TestFeedbackService_ValidatesBeforeStorage(t *testing.T) {
	feedback := service.NewFeedbackService(nil)
	ctx := context.Background()

	_, err := feedback.SubmitFeedback(ctx, &domain.Feedback{Message: "  "})
	assert.ErrorIs(t, err, domain.ErrRequiredField)

	for _, rating := range []int{0, 6, -1} {
		_, err = feedback.SubmitFeedback(ctx, &domain.Feedback{Rating: ptr(rating)})
		assert.ErrorIs(t, err, domain.ErrInvalidRating, "rating %d", rating)
	}
}

func TestPromptService_ValidatesBeforeStorage(t *testing.T) {
	prompts := service.NewPromptService(nil)
	ctx := context.Background()

	_, err := prompts.CreatePrompt(ctx, &domain.Prompt{Title: "t"})
	assert.ErrorIs(t, err, domain.ErrRequiredField)

	_, err = prompts.UpdatePrompt(ctx, "00000000-0000-0000-0000-000000000001", service.PromptPatch{})
	assert.ErrorIs(t, err, domain.ErrNoFieldsToUpdate)
}
