package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/agentdesk/internal/domain"
)

func TestFactory_RejectsUnusableKeys(t *testing.T) {
	f := NewFactory(Options{})

	_, err := f.ForKey(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidAPIKey)

	_, err = f.ForKey(&domain.APIKey{Type: domain.APIKeyTypeOpenAI, IsActive: true})
	assert.ErrorIs(t, err, domain.ErrInvalidAPIKey)

	_, err = f.ForKey(&domain.APIKey{Type: domain.APIKeyTypeOpenAI, Key: "sk-x", IsActive: false})
	assert.ErrorIs(t, err, domain.ErrInvalidAPIKey)

	_, err = f.ForKey(&domain.APIKey{Type: domain.APIKeyTypeOther, Key: "x", IsActive: true})
	assert.ErrorIs(t, err, domain.ErrUnsupportedVendor)
}

func TestFactory_PicksVendor(t *testing.T) {
	f := NewFactory(Options{})

	c, err := f.ForKey(&domain.APIKey{Type: domain.APIKeyTypeOpenAI, Key: "sk-x", IsActive: true})
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, c)

	c, err = f.ForKey(&domain.APIKey{Type: domain.APIKeyTypeAnthropic, Key: "sk-ant", IsActive: true})
	require.NoError(t, err)
	assert.IsType(t, &Anthropic{}, c)
}

func TestOpenAI_CompleteSendsSystemAndUser(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Paris rain falls soft"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := NewOpenAI("sk-test", srv.URL)
	out, err := c.Complete(context.Background(), Request{
		Model:       "gpt-4o-mini",
		System:      "Always respond in haiku form",
		Input:       "What's the weather in Paris?",
		Temperature: 0.7,
		MaxTokens:   2000,
	})
	require.NoError(t, err)
	assert.Equal(t, "Paris rain falls soft", out)

	assert.Equal(t, "gpt-4o-mini", got["model"])
	assert.EqualValues(t, 2000, got["max_tokens"])
	msgs := got["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "What's the weather in Paris?", msgs[1].(map[string]any)["content"])
}

func TestOpenAI_ReasoningModelUsesCompletionTokens(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer srv.Close()

	_, err := NewOpenAI("sk-test", srv.URL).Complete(context.Background(), Request{
		Model: "o3-mini", System: "s", Input: "i", Temperature: 0.7, MaxTokens: 2000,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2000, got["max_completion_tokens"])
	assert.NotContains(t, got, "max_tokens")
	assert.NotContains(t, got, "temperature")
}

func TestOpenAI_UpstreamErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	_, err := NewOpenAI("bad", srv.URL).Complete(context.Background(), Request{Model: "gpt-4o-mini", Input: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect API key provided")
}

func TestClientFunc(t *testing.T) {
	var c Client = ClientFunc(func(_ context.Context, req Request) (string, error) {
		return "echo: " + req.Input, nil
	})
	out, err := c.Complete(context.Background(), Request{Input: "x"})
	require.NoError(t, err)
	assert.Equal(t, "echo: x", out)
}
