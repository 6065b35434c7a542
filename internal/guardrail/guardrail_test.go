package guardrail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/llm"
)

func reply(out string) llm.Client {
	return llm.ClientFunc(func(context.Context, llm.Request) (string, error) {
		return out, nil
	})
}

func TestLookup(t *testing.T) {
	r := NewRegistry()

	fn, err := r.Lookup("check_for_homework")
	require.NoError(t, err)
	assert.NotNil(t, fn)

	_, err = r.Lookup("check_for_profanity")
	assert.ErrorIs(t, err, domain.ErrUnknownGuardrail)

	assert.Equal(t, []string{"check_for_homework"}, r.Names())
}

func TestCheckForHomework(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		tripwire bool
	}{
		{"homework passes", `{"is_homework": true, "reasoning": "algebra exercise"}`, false},
		{"non-homework trips", `{"is_homework": false, "reasoning": "asks for a poem"}`, true},
		{"fenced json", "```json\n{\"is_homework\": true, \"reasoning\": \"math\"}\n```", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := checkForHomework(context.Background(), reply(tt.reply), "gpt-4o-mini", "solve 2x+3=7")
			require.NoError(t, err)
			assert.Equal(t, tt.tripwire, res.Tripwire)
			assert.IsType(t, HomeworkCheck{}, res.Info)
		})
	}
}

func TestCheckForHomework_SendsJSONRequest(t *testing.T) {
	var got llm.Request
	client := llm.ClientFunc(func(_ context.Context, req llm.Request) (string, error) {
		got = req
		return `{"is_homework": true, "reasoning": ""}`, nil
	})

	_, err := checkForHomework(context.Background(), client, "gpt-4o-mini", "what is 7*8?")
	require.NoError(t, err)
	assert.True(t, got.JSON)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, "what is 7*8?", got.Input)
	assert.Contains(t, got.System, "homework question")
	assert.Greater(t, got.Temperature, 0.0)
}

func TestCheckForHomework_Errors(t *testing.T) {
	_, err := checkForHomework(context.Background(), reply("not json"), "m", "x")
	assert.Error(t, err)

	boom := errors.New("upstream down")
	failing := llm.ClientFunc(func(context.Context, llm.Request) (string, error) { return "", boom })
	_, err = checkForHomework(context.Background(), failing, "m", "x")
	assert.ErrorIs(t, err, boom)
}
