package ratelimit

import "strings"

// MatchEndpoint returns the configuration governing method path, or nil when
// the default limit applies. Exact paths win over prefixes (paths ending in
// "/"), and the longest matching prefix wins. GET /health is unlimited.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		return &EndpointConfig{Path: path, Method: method}
	}

	for i := range configs {
		if configs[i].Path == path && methodMatches(configs[i].Method, method) {
			return &configs[i]
		}
	}

	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if !strings.HasSuffix(c.Path, "/") || !methodMatches(c.Method, method) || !strings.HasPrefix(path, c.Path) {
			continue
		}
		if best == nil || len(c.Path) > len(best.Path) {
			best = c
		}
	}
	return best
}

func methodMatches(want, got string) bool {
	return want == "*" || want == got
}
