package logger

import "strings"

// DefaultMaskValue replaces sensitive values in log output.
const DefaultMaskValue = "***"

// FilterConfig defines which field names are considered sensitive.
type FilterConfig struct {
	SensitiveFields []string
	MaskValue       string
}

// DefaultFilterConfig covers the credential fields this tool handles: the
// Discourse API key travels in headers and configuration, and must never
// reach log output.
func DefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		SensitiveFields: []string{
			"api_key", "apikey", "api-key",
			"key", "secret", "token",
			"password", "authorization",
		},
		MaskValue: DefaultMaskValue,
	}
}

// SensitiveDataFilter masks values of sensitive fields before they are
// written to a log event.
type SensitiveDataFilter struct {
	config *FilterConfig
}

// NewSensitiveDataFilter creates a filter with the given configuration,
// falling back to DefaultFilterConfig when config is nil.
func NewSensitiveDataFilter(config *FilterConfig) *SensitiveDataFilter {
	if config == nil {
		config = DefaultFilterConfig()
	}
	if config.MaskValue == "" {
		config.MaskValue = DefaultMaskValue
	}
	return &SensitiveDataFilter{config: config}
}

// FilterString returns the mask value when key names a sensitive field.
func (f *SensitiveDataFilter) FilterString(key, value string) string {
	if f.isSensitive(key) {
		return f.config.MaskValue
	}
	return value
}

// FilterValue masks arbitrary values attached under a sensitive key.
func (f *SensitiveDataFilter) FilterValue(key string, value any) any {
	if f.isSensitive(key) {
		return f.config.MaskValue
	}
	if m, ok := value.(map[string]string); ok {
		return f.filterStringMap(m)
	}
	return value
}

// FilterFields returns a copy of fields with sensitive values masked.
func (f *SensitiveDataFilter) FilterFields(fields map[string]any) map[string]any {
	filtered := make(map[string]any, len(fields))
	for k, v := range fields {
		filtered[k] = f.FilterValue(k, v)
	}
	return filtered
}

func (f *SensitiveDataFilter) filterStringMap(m map[string]string) map[string]string {
	filtered := make(map[string]string, len(m))
	for k, v := range m {
		filtered[k] = f.FilterString(k, v)
	}
	return filtered
}

func (f *SensitiveDataFilter) isSensitive(key string) bool {
	lower := strings.ToLower(key)
	for _, field := range f.config.SensitiveFields {
		if lower == field || strings.HasSuffix(lower, "_"+field) || strings.HasSuffix(lower, "-"+field) {
			return true
		}
	}
	return false
}
