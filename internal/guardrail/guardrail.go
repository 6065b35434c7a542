// Package guardrail holds the registry of named guardrail logic that can be
// attached to agents and evaluated before a model call.
package guardrail

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/llm"
)

// LogicName identifies a registered guardrail function.
type LogicName string

const CheckForHomework LogicName = "check_for_homework"

// Result is the outcome of a guardrail check.
type Result struct {
	Tripwire bool
	Info     any
}

// Func evaluates input with a model client. model is the model name the
// calling agent resolved.
type Func func(ctx context.Context, client llm.Client, model, input string) (*Result, error)

// Registry maps logic names to guardrail functions.
type Registry struct {
	funcs map[LogicName]Func
}

// NewRegistry returns a registry with the built-in guardrails.
func NewRegistry() *Registry {
	return &Registry{funcs: map[LogicName]Func{
		CheckForHomework: checkForHomework,
	}}
}

// Register adds or replaces a guardrail function.
func (r *Registry) Register(name LogicName, fn Func) {
	r.funcs[name] = fn
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (Func, error) {
	fn, ok := r.funcs[LogicName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownGuardrail, name)
	}
	return fn, nil
}

// Names lists registered logic names in order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}

// HomeworkCheck is the structured answer of the homework guardrail model.
type HomeworkCheck struct {
	IsHomework bool   `json:"is_homework"`
	Reasoning  string `json:"reasoning"`
}

const homeworkInstructions = `Check if the user is asking a homework question.
Respond only with a JSON object of the form {"is_homework": boolean, "reasoning": string}.`

// homeworkTemperature is kept above zero: a zero temperature is omitted from
// OpenAI requests and the API default of 1 would apply.
const homeworkTemperature = 0.01

// checkForHomework lets only homework questions through: the tripwire fires
// when the model says the input is not homework.
func checkForHomework(ctx context.Context, client llm.Client, model, input string) (*Result, error) {
	out, err := client.Complete(ctx, llm.Request{
		Model:       model,
		System:      homeworkInstructions,
		Input:       input,
		Temperature: homeworkTemperature,
		MaxTokens:   300,
		JSON:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("homework check: %w", err)
	}

	var check HomeworkCheck
	if err := json.Unmarshal([]byte(stripCodeFence(out)), &check); err != nil {
		return nil, fmt.Errorf("parse homework check %q: %w", out, err)
	}

	return &Result{Tripwire: !check.IsHomework, Info: check}, nil
}

// stripCodeFence removes a surrounding markdown code fence, if any.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
