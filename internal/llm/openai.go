package llm

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI calls the chat completions API.
type OpenAI struct {
	client *openai.Client
}

// NewOpenAI creates an OpenAI client. An empty baseURL uses the public API.
func NewOpenAI(apiKey, baseURL string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg)}
}

// isReasoningModel reports whether the model rejects temperature and max_tokens.
func isReasoningModel(model string) bool {
	return strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4")
}

// Complete sends the system and user messages and returns the first choice.
func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	chat := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Input},
		},
	}

	if isReasoningModel(req.Model) {
		chat.MaxCompletionTokens = req.MaxTokens
	} else {
		chat.MaxTokens = req.MaxTokens
		chat.Temperature = float32(req.Temperature)
	}

	if req.JSON {
		chat.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
