// Package llm wraps the hosted model APIs behind a single-turn chat contract.
package llm

import (
	"context"
	"fmt"

	"github.com/mtlprog/agentdesk/internal/domain"
)

// Request is one system + user exchange.
type Request struct {
	Model       string
	System      string
	Input       string
	Temperature float64
	MaxTokens   int
	// JSON asks the model to answer with a single JSON object.
	JSON bool
}

// Client performs one request/response exchange with a hosted model.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f ClientFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Factory builds a client bound to a stored API key.
type Factory interface {
	ForKey(key *domain.APIKey) (Client, error)
}

// Options configures the vendor clients.
type Options struct {
	OpenAIBaseURL    string
	AnthropicBaseURL string
}

// VendorFactory picks the vendor client from the key type.
type VendorFactory struct {
	opts Options
}

// NewFactory creates a VendorFactory.
func NewFactory(opts Options) *VendorFactory {
	return &VendorFactory{opts: opts}
}

// ForKey returns a client for the key's vendor.
func (f *VendorFactory) ForKey(key *domain.APIKey) (Client, error) {
	if key == nil || !key.Usable() {
		return nil, domain.ErrInvalidAPIKey
	}

	switch key.Type {
	case domain.APIKeyTypeOpenAI, "":
		return NewOpenAI(key.Key, f.opts.OpenAIBaseURL), nil
	case domain.APIKeyTypeAnthropic:
		return NewAnthropic(key.Key, f.opts.AnthropicBaseURL), nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedVendor, key.Type)
	}
}
