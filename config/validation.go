package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/Ethsim12/Discourse-Auto-Deactivate-Users-by-REST-API/reverify"
)

func Validate(cfg *Config) error {
	if err := validateDiscourse(&cfg.Discourse); err != nil {
		return fmt.Errorf("discourse config: %w", err)
	}

	if err := validateRetry(&cfg.Retry); err != nil {
		return fmt.Errorf("retry config: %w", err)
	}

	if err := validateSelection(&cfg.Selection); err != nil {
		return fmt.Errorf("selection config: %w", err)
	}

	if err := validateLog(&cfg.Log); err != nil {
		return fmt.Errorf("log config: %w", err)
	}

	return nil
}

// validateDiscourse requires a well-formed http(s) base URL and an API key.
// It also normalizes the base URL by trimming trailing slashes.
func validateDiscourse(cfg *DiscourseConfig) error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("base URL is required (DISCOURSE_BASE_URL)")
	}

	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("base URL %q must use http or https", cfg.BaseURL)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.APIKey == "" {
		return fmt.Errorf("API key is required (DISCOURSE_API_KEY)")
	}

	return nil
}

func validateRetry(cfg *RetryConfig) error {
	if cfg.MaxRetries < 0 {
		return fmt.Errorf("max retries must be zero or positive")
	}

	if cfg.BaseBackoffSeconds <= 0 {
		return fmt.Errorf("base backoff must be positive")
	}

	if cfg.MaxBackoffSeconds < cfg.BaseBackoffSeconds {
		return fmt.Errorf("max backoff (%g) must be at least base backoff (%g)",
			cfg.MaxBackoffSeconds, cfg.BaseBackoffSeconds)
	}

	if cfg.TimeoutSeconds <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}

	if cfg.RateLimit < 0 {
		return fmt.Errorf("rate limit must be zero or positive")
	}

	return nil
}

func validateSelection(cfg *SelectionConfig) error {
	if cfg.Filter == "" {
		return fmt.Errorf("user filter is required")
	}

	if cfg.LastSeenBeforeDays <= 0 {
		return fmt.Errorf("last seen cutoff must be a positive number of days")
	}

	if _, err := reverify.ParseTrustLevels(cfg.IncludeTrustLevels); err != nil {
		return fmt.Errorf("include trust levels: %w", err)
	}

	return nil
}

// validateLog validates that cfg.Level is one of the supported log levels.
func validateLog(cfg *LogConfig) error {
	validLevels := []string{"trace", "debug", "info", "warn", "error", "fatal", "panic"}
	if !slices.Contains(validLevels, cfg.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)",
			cfg.Level, strings.Join(validLevels, ", "))
	}

	return nil
}
