package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIClient implements Client for OpenAI chat completions through langchaingo.
type OpenAIClient struct {
	model  llms.Model
	config *Config
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(config *Config, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	model, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(config.GetModel(TierStandard)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	return newOpenAIClientWithModel(model, config), nil
}

func newOpenAIClientWithModel(model llms.Model, config *Config) *OpenAIClient {
	return &OpenAIClient{model: model, config: config}
}

func (c *OpenAIClient) call(ctx context.Context, prompt Prompt, tier ModelTier, extra ...llms.CallOption) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	messages := make([]llms.MessageContent, 0, 2)
	if prompt.System != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, prompt.System))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, prompt.User))

	opts := []llms.CallOption{
		llms.WithModel(modelName),
		llms.WithTemperature(c.config.Temperature),
	}
	if c.config.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(c.config.MaxTokens))
	}
	opts = append(opts, extra...)

	resp, err := c.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", &ProviderError{Provider: ProviderOpenAI, Err: err}
	}
	return firstChoice(resp)
}

// GenerateContent generates text content using the specified model tier.
func (c *OpenAIClient) GenerateContent(ctx context.Context, prompt Prompt, tier ModelTier) (string, error) {
	return c.call(ctx, prompt, tier)
}

// GenerateJSON generates JSON content using the specified model tier.
func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt Prompt, tier ModelTier) (string, error) {
	text, err := c.call(ctx, prompt, tier, llms.WithJSONMode())
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// GetModel returns the model name for a tier.
func (c *OpenAIClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the HTTP client has nothing to release.
func (c *OpenAIClient) Close() error {
	return nil
}

func firstChoice(resp *llms.ContentResponse) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return resp.Choices[0].Content, nil
}
