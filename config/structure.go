// Package config loads and validates the batch job configuration from
// defaults, an optional YAML file, and environment variables. Environment
// variables keep the operational names the job has always used
// (DISCOURSE_BASE_URL, MAX_RETRIES, DRY_RUN, ...) and take highest priority.
package config

import "time"

type Config struct {
	Discourse DiscourseConfig `koanf:"discourse"`
	Retry     RetryConfig     `koanf:"retry"`
	Selection SelectionConfig `koanf:"selection"`
	Run       RunConfig       `koanf:"run"`
	Log       LogConfig       `koanf:"log"`
}

// DiscourseConfig holds the endpoint and static credentials.
type DiscourseConfig struct {
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`
	APIUser string `koanf:"api_user"`
}

// RetryConfig are the executor knobs. Backoff values are plain seconds
// (floats), matching the environment variables the job is driven by.
type RetryConfig struct {
	MaxRetries         int     `koanf:"max_retries"`
	BaseBackoffSeconds float64 `koanf:"base_backoff"`
	MaxBackoffSeconds  float64 `koanf:"max_backoff"`
	TimeoutSeconds     float64 `koanf:"timeout"`
	// RateLimit is the maximum requests per second; 0 disables pacing
	RateLimit float64 `koanf:"rate_limit"`
}

// BaseBackoff returns the base backoff as a duration
func (c *RetryConfig) BaseBackoff() time.Duration {
	return secondsToDuration(c.BaseBackoffSeconds)
}

// MaxBackoff returns the backoff cap as a duration
func (c *RetryConfig) MaxBackoff() time.Duration {
	return secondsToDuration(c.MaxBackoffSeconds)
}

// Timeout returns the per-attempt timeout as a duration
func (c *RetryConfig) Timeout() time.Duration {
	return secondsToDuration(c.TimeoutSeconds)
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// SelectionConfig drives the retention predicate.
type SelectionConfig struct {
	Filter             string `koanf:"filter"`
	LastSeenBeforeDays int    `koanf:"last_seen_before_days"`
	IncludeTrustLevels string `koanf:"include_trust_levels"`
	ExcludeStaff       bool   `koanf:"exclude_staff"`
}

// LastSeenCutoff returns the activity cutoff relative to now
func (c *SelectionConfig) LastSeenCutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -c.LastSeenBeforeDays)
}

// RunConfig holds run-mode switches.
type RunConfig struct {
	// DryRun reports what would be deactivated without touching anything;
	// on by default so the batch never destroys accounts by accident
	DryRun bool `koanf:"dry_run"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}
