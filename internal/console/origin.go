// Package console normalizes and validates HTTP origins for console
// WebSocket requests to enforce configured access control.
package console

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

func normalizeOrigins(origins []string, log *slog.Logger) (map[string]struct{}, bool) {
	allowed := make(map[string]struct{}, len(origins))
	allowAll := false

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}

		if trimmed == "*" {
			allowAll = true
			continue
		}

		normalized, ok := normalizeOrigin(trimmed)
		if !ok {
			log.Warn("ignoring invalid origin in configuration", "origin", origin)
			continue
		}

		allowed[normalized] = struct{}{}
	}

	return allowed, allowAll
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil {
		return "", false
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}

	normalized := strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host)
	return normalized, true
}

// checkOrigin accepts requests without an Origin header (non-browser console
// clients such as websocat) and browser requests from configured origins.
func (c *Console) checkOrigin(r *http.Request) bool {
	originHeader := r.Header.Get("Origin")
	if originHeader == "" {
		return true
	}

	if c.allowAll {
		return true
	}

	normalized, ok := normalizeOrigin(originHeader)
	if !ok {
		c.log.Warn("blocked console connection with malformed origin", "origin", originHeader)
		return false
	}

	if _, exists := c.allowed[normalized]; exists {
		return true
	}

	c.log.Warn("blocked console connection from disallowed origin", "origin", originHeader)
	return false
}
