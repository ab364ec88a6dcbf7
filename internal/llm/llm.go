// Package llm provides the text-extraction service used to turn free-text
// statements into JSON. A Client answers one prompt with one JSON document;
// there are no retries.
package llm

import (
	"context"
	"regexp"
	"strings"
	"time"

	"fjacquet/money-backward/internal/config"
	"fjacquet/money-backward/internal/logging"
	"fjacquet/money-backward/internal/parsererror"
)

// Provider identifies an extraction backend.
type Provider string

const (
	ProviderNone      Provider = config.ProviderNone
	ProviderClaudeCLI Provider = config.ProviderClaudeCLI
	ProviderGemini    Provider = config.ProviderGemini
)

// EnableHint tells the operator how to turn extraction on.
const EnableHint = "Use CSV mode or set MONEY_BACKWARD_LLM_PROVIDER=claude-cli (or gemini with GEMINI_API_KEY)."

// Client sends a system instruction and a prompt and returns the raw JSON text.
type Client interface {
	Provider() Provider
	GenerateJSON(ctx context.Context, system, prompt string) (string, error)
}

// CheckAvailable fails with ExtractionUnavailable for nil or disabled clients.
// Callers run it before doing any expensive work.
func CheckAvailable(c Client) error {
	if c == nil {
		return &parsererror.ExtractionUnavailableError{
			Provider: string(ProviderNone),
			Reason:   "no extraction client configured",
			Hint:     EnableHint,
		}
	}
	if c.Provider() == ProviderNone {
		return &parsererror.ExtractionUnavailableError{
			Provider: string(ProviderNone),
			Reason:   "LLM provider is disabled",
			Hint:     EnableHint,
		}
	}
	return nil
}

// NewClient selects the provider named in cfg.
func NewClient(ctx context.Context, cfg config.LLMConfig, logger logging.Logger) (Client, error) {
	logger = logging.OrDefault(logger)
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	switch Provider(cfg.Provider) {
	case ProviderNone, "":
		return &DisabledClient{}, nil
	case ProviderClaudeCLI:
		return NewCLIClient(cfg.Bin, cfg.Model, timeout, nil, logger), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model, timeout, logger)
	default:
		return nil, &parsererror.ExtractionUnavailableError{
			Provider: cfg.Provider,
			Reason:   "unknown LLM provider",
			Hint:     EnableHint,
		}
	}
}

var (
	fenceOpen  = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	fenceClose = regexp.MustCompile("\\s*```$")
)

// CleanJSON trims whitespace and strips a surrounding markdown code fence.
func CleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = fenceOpen.ReplaceAllString(s, "")
	return fenceClose.ReplaceAllString(s, "")
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
