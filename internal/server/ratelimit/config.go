package ratelimit

import (
	"strings"
	"time"

	"github.com/devapply/devapply/internal/config"
)

// EndpointConfig limits one route group. Paths ending in "/" match by prefix;
// Method "*" matches any method. Burst defaults to Limit.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// LoadConfig reads RATE_LIMIT_* environment variables.
func LoadConfig() *Config {
	if !config.EnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    config.EnvInt("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   config.EnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: config.EnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(config.EnvString("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(config.EnvString("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-route limits. Routes that call the
// LLM or fetch remote pages are the strictest.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Model calls
		{Path: "/api/ai/", Method: "POST", Limit: 60, Window: time.Hour, Burst: 10},
		{Path: "/api/mock-sessions/", Method: "POST", Limit: 120, Window: time.Hour, Burst: 15},

		// Remote page fetch
		{Path: "/api/applications/", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		// Credentials
		{Path: "/auth/login", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/auth/register", Method: "POST", Limit: 5, Window: time.Minute, Burst: 3},
		{Path: "/api/auth/password", Method: "PUT", Limit: 5, Window: time.Minute, Burst: 3},

		// Writes
		{Path: "/api/", Method: "POST", Limit: 100, Window: time.Minute, Burst: 20},
		{Path: "/api/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 20},
		{Path: "/api/", Method: "PATCH", Limit: 100, Window: time.Minute, Burst: 20},
		{Path: "/api/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 20},
	}
}

func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
