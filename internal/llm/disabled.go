package llm

import (
	"context"

	"fjacquet/money-backward/internal/parsererror"
)

// DisabledClient is the "none" provider: every call fails.
type DisabledClient struct{}

// Provider implements Client.
func (DisabledClient) Provider() Provider {
	return ProviderNone
}

// GenerateJSON always returns ExtractionUnavailable.
func (DisabledClient) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	return "", &parsererror.ExtractionUnavailableError{
		Provider: string(ProviderNone),
		Reason:   "LLM provider is disabled",
		Hint:     EnableHint,
	}
}
