// Package config loads DevApply runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LLM provider names accepted in LLM_PROVIDER.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// ServerConfig holds everything the API server needs to start.
// Values come from the environment (optionally seeded by a .env file);
// CLI flags may override individual fields after loading.
type ServerConfig struct {
	Port        int
	DatabaseURL string

	LLMProvider  string
	OpenAIAPIKey string
	OpenAIModel  string
	GeminiAPIKey string

	// RedisURL enables the Redis-backed mock session store when set.
	RedisURL   string
	SessionTTL time.Duration

	LogMode      string
	AllowOrigin  string
	UseBrowser   bool
	FetchTimeout time.Duration
}

// LoadServerConfig reads the server configuration from environment variables.
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{
		Port:         EnvInt("PORT", 3001),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		LLMProvider:  strings.ToLower(EnvString("LLM_PROVIDER", ProviderOpenAI)),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  EnvString("OPENAI_MODEL", "gpt-4o"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		RedisURL:     os.Getenv("REDIS_URL"),
		SessionTTL:   EnvDuration("SESSION_TTL", 2*time.Hour),
		LogMode:      EnvString("LOG_MODE", "dev"),
		AllowOrigin:  EnvString("CORS_ALLOWED_ORIGIN", "*"),
		UseBrowser:   EnvBool("FETCH_USE_BROWSER", false),
		FetchTimeout: EnvDuration("FETCH_TIMEOUT", 30*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields and value ranges.
func (c *ServerConfig) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: DATABASE_URL is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: port out of range: %d", c.Port)
	}
	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("config error: OPENAI_API_KEY is required for provider %q", c.LLMProvider)
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("config error: GEMINI_API_KEY is required for provider %q", c.LLMProvider)
		}
	default:
		return fmt.Errorf("config error: unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config error: SESSION_TTL must be positive")
	}
	return nil
}

// APIKey returns the key for the configured LLM provider.
func (c *ServerConfig) APIKey() string {
	if c.LLMProvider == ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

// EnvString returns the value of key, or defaultValue when unset.
func EnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// EnvInt parses key as an integer, falling back to defaultValue.
func EnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// EnvBool parses key with strconv.ParseBool, falling back to defaultValue.
func EnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// EnvDuration parses key with time.ParseDuration, falling back to defaultValue.
func EnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
