package config

import (
	"fmt"
	"strings"
	"time"
)

// DurationOrDefault parses a configured duration such as
// server.request_timeout, substituting defaultValue when the configured
// value is blank. Durations must be positive.
func DurationOrDefault(value, defaultValue string) (time.Duration, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		raw = strings.TrimSpace(defaultValue)
	}
	if raw == "" {
		return 0, fmt.Errorf("no duration configured")
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", raw)
	}
	return d, nil
}
