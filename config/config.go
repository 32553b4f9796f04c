package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigFile is the optional YAML file loaded when present.
const DefaultConfigFile = "config.yaml"

// envAliases maps the job's environment variables to configuration keys.
// Unlisted variables are ignored, so unrelated environment noise cannot
// leak into the configuration.
var envAliases = map[string]string{
	"DISCOURSE_BASE_URL":    "discourse.base_url",
	"DISCOURSE_API_KEY":     "discourse.api_key",
	"DISCOURSE_API_USER":    "discourse.api_user",
	"DRY_RUN":               "run.dry_run",
	"USER_FILTER":           "selection.filter",
	"LAST_SEEN_BEFORE_DAYS": "selection.last_seen_before_days",
	"INCLUDE_TL":            "selection.include_trust_levels",
	"EXCLUDE_STAFF":         "selection.exclude_staff",
	"MAX_RETRIES":           "retry.max_retries",
	"BASE_BACKOFF":          "retry.base_backoff",
	"MAX_BACKOFF":           "retry.max_backoff",
	"REQUEST_TIMEOUT":       "retry.timeout",
	"RATE_LIMIT":            "retry.rate_limit",
	"LOG_LEVEL":             "log.level",
	"LOG_PRETTY":            "log.pretty",
}

// Load loads configuration with priority: environment variables over the
// optional config.yaml over built-in defaults.
func Load() (*Config, error) {
	return load(DefaultConfigFile, os.Environ)
}

func load(configFile string, environ func() []string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// The YAML file is optional; a missing file is not an error.
	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", configFile, err)
			}
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		EnvironFunc: environ,
		TransformFunc: func(key, value string) (string, any) {
			if mapped, ok := envAliases[key]; ok {
				return mapped, value
			}
			return "", nil
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"discourse.api_user": "system",

		"retry.max_retries":  8,
		"retry.base_backoff": 1.0,
		"retry.max_backoff":  60.0,
		"retry.timeout":      30.0,
		"retry.rate_limit":   0.0,

		"selection.filter":                "active",
		"selection.last_seen_before_days": 365,
		"selection.include_trust_levels":  "0,1,2,3,4",
		"selection.exclude_staff":         true,

		"run.dry_run": true,

		"log.level":  "info",
		"log.pretty": false,
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}
