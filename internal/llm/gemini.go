package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fjacquet/money-backward/internal/logging"
	"fjacquet/money-backward/internal/parsererror"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// generateFunc sends parts through a configured model.
type generateFunc func(ctx context.Context, model *genai.GenerativeModel, parts ...genai.Part) (*genai.GenerateContentResponse, error)

func generateContent(ctx context.Context, model *genai.GenerativeModel, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	return model.GenerateContent(ctx, parts...)
}

// GeminiClient calls the hosted Gemini API.
type GeminiClient struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	generate generateFunc
	timeout  time.Duration
	logger   logging.Logger
}

// configureModel asks for deterministic JSON output.
func configureModel(model *genai.GenerativeModel) *genai.GenerativeModel {
	model.SetTemperature(0)
	model.ResponseMIMEType = "application/json"
	return model
}

// NewGeminiClient creates a Gemini client. A missing API key is reported as
// ExtractionUnavailable rather than a configuration error so that CSV runs
// never need a key.
func NewGeminiClient(ctx context.Context, apiKey, model string, timeout time.Duration, logger logging.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, &parsererror.ExtractionUnavailableError{
			Provider: string(ProviderGemini),
			Reason:   "GEMINI_API_KEY is not set",
			Hint:     "Export GEMINI_API_KEY or set llm.api_key.",
		}
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &parsererror.ExtractionUnavailableError{
			Provider: string(ProviderGemini),
			Reason:   "failed to create Gemini client",
			Err:      err,
		}
	}

	return &GeminiClient{
		client:   client,
		model:    configureModel(client.GenerativeModel(model)),
		generate: generateContent,
		timeout:  timeout,
		logger:   logging.OrDefault(logger),
	}, nil
}

// Provider implements Client.
func (c *GeminiClient) Provider() Provider {
	return ProviderGemini
}

// GenerateJSON sends system as the model's system instruction and prompt as
// the user turn, and returns the concatenated text of the first candidate.
func (c *GeminiClient) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	// Per-call copy: the instruction differs between calls.
	model := *c.model
	model.SystemInstruction = genai.NewUserContent(genai.Text(system))

	start := time.Now()
	resp, err := c.generate(ctx, &model, genai.Text(prompt))
	if err != nil {
		return "", &parsererror.ExtractionUnavailableError{
			Provider: string(ProviderGemini),
			Reason:   "Gemini API error",
			Err:      err,
		}
	}

	text := responseText(resp)
	if text == "" {
		return "", &parsererror.ExtractionUnavailableError{
			Provider: string(ProviderGemini),
			Reason:   "no response from Gemini API",
		}
	}

	c.logger.Debug("Gemini extraction finished",
		logging.Field{Key: logging.FieldProvider, Value: string(ProviderGemini)},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
	return CleanJSON(text), nil
}

// Close releases the underlying API client.
func (c *GeminiClient) Close() error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("failed to close Gemini client: %w", err)
	}
	return nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}
