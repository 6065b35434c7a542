package domain

import "time"

// APIKeyType names the vendor a stored secret belongs to.
type APIKeyType string

const (
	APIKeyTypeOpenAI    APIKeyType = "openai"
	APIKeyTypeAnthropic APIKeyType = "anthropic"
	APIKeyTypeOther     APIKeyType = "other"
)

// IsValid checks if the type is one of the allowed values.
func (t APIKeyType) IsValid() bool {
	switch t {
	case APIKeyTypeOpenAI, APIKeyTypeAnthropic, APIKeyTypeOther:
		return true
	default:
		return false
	}
}

const DefaultAPIKeyModel = "gpt-4"

// APIKey is a stored vendor credential.
type APIKey struct {
	ID        string
	Name      string
	Key       string
	Type      APIKeyType
	Model     string
	IsActive  bool
	LastUsed  *time.Time
	CreatedAt time.Time
}

// Usable reports whether the key can be handed to a model client.
func (k *APIKey) Usable() bool {
	return k.IsActive && k.Key != ""
}

// MaskedKey returns the secret with everything except the last four
// characters hidden.
func (k *APIKey) MaskedKey() string {
	if len(k.Key) <= 4 {
		return "****"
	}
	return "****" + k.Key[len(k.Key)-4:]
}
