// Package llm provides model configuration and a provider-neutral client
// for the text generation calls DevApply makes.
package llm

// ModelTier represents the capability level requested for a call.
type ModelTier string

const (
	// TierLite is for short classification-style calls such as language detection.
	TierLite ModelTier = "lite"
	// TierStandard is for question generation and answer critique.
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long-form output such as solutions and resume rewrites.
	TierAdvanced ModelTier = "advanced"
)

// Provider identifies an LLM vendor.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// Config holds the per-tier models and sampling settings for a provider.
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float64
	MaxTokens   int
}

// DefaultOpenAIConfig returns the OpenAI model table.
func DefaultOpenAIConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Models: map[ModelTier]string{
			TierLite:     "gpt-4o-mini",
			TierStandard: "gpt-4o",
			TierAdvanced: "gpt-4o",
		},
		Temperature: 0.7,
		MaxTokens:   2000,
	}
}

// DefaultGeminiConfig returns the Gemini model table.
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: 0.7,
		MaxTokens:   2000,
	}
}

// DefaultConfig returns the default table for a provider name, falling back to OpenAI.
func DefaultConfig(provider Provider) *Config {
	if provider == ProviderGemini {
		return DefaultGeminiConfig()
	}
	return DefaultOpenAIConfig()
}

// GetModel returns the model name for a given tier.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of c with model assigned to tier.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}
