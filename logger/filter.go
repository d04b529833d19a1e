package logger

import "strings"

const (
	// DefaultMaskValue replaces secrets that are too short to elide safely.
	DefaultMaskValue = "***"

	// elideThreshold is the minimum secret length for prefix/suffix eliding.
	// Anything shorter is fully masked.
	elideThreshold = 8
)

// FilterConfig configures sensitive-data filtering of log fields.
type FilterConfig struct {
	// SensitiveFields lists field-name substrings whose values are masked.
	SensitiveFields []string
	// MaskValue replaces values that cannot be partially elided.
	MaskValue string
}

// DefaultFilterConfig returns the field names the Bria client treats as
// sensitive.
func DefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		SensitiveFields: []string{
			"api_key", "apikey", "api_token",
			"token", "access_token",
			"auth", "authorization",
			"secret", "credential", "credentials",
			"password", "passwd",
		},
		MaskValue: DefaultMaskValue,
	}
}

// SensitiveDataFilter masks values of sensitive fields before they reach
// log output. Credential-shaped values keep a short prefix and suffix so
// operators can correlate keys across log lines without disclosure.
type SensitiveDataFilter struct {
	config *FilterConfig
}

// NewSensitiveDataFilter creates a filter with the given configuration.
// A nil configuration falls back to DefaultFilterConfig.
func NewSensitiveDataFilter(config *FilterConfig) *SensitiveDataFilter {
	if config == nil {
		config = DefaultFilterConfig()
	}
	if config.MaskValue == "" {
		config.MaskValue = DefaultMaskValue
	}
	return &SensitiveDataFilter{config: config}
}

// FilterString masks string values of sensitive fields.
func (f *SensitiveDataFilter) FilterString(key, value string) string {
	if value == "" || !f.isSensitiveField(key) {
		return value
	}
	return f.elide(value)
}

// FilterValue masks arbitrary values of sensitive fields. Non-string
// values of sensitive fields are replaced entirely.
func (f *SensitiveDataFilter) FilterValue(key string, value any) any {
	if !f.isSensitiveField(key) {
		return value
	}
	if s, ok := value.(string); ok {
		if s == "" {
			return s
		}
		return f.elide(s)
	}
	return f.config.MaskValue
}

// FilterFields masks sensitive entries in a field map.
func (f *SensitiveDataFilter) FilterFields(fields map[string]any) map[string]any {
	filtered := make(map[string]any, len(fields))
	for key, value := range fields {
		filtered[key] = f.FilterValue(key, value)
	}
	return filtered
}

func (f *SensitiveDataFilter) isSensitiveField(fieldName string) bool {
	lower := strings.ToLower(fieldName)
	for _, sensitive := range f.config.SensitiveFields {
		if strings.Contains(lower, sensitive) {
			return true
		}
	}
	return false
}

func (f *SensitiveDataFilter) elide(value string) string {
	return ElideSecret(value, f.config.MaskValue)
}

// ElideSecret reduces a secret to its first and last four runes
// ("abcd...efgh"). Secrets shorter than eight runes return mask instead;
// an empty mask falls back to DefaultMaskValue.
func ElideSecret(value, mask string) string {
	if mask == "" {
		mask = DefaultMaskValue
	}
	r := []rune(value)
	if len(r) < elideThreshold {
		return mask
	}
	return string(r[:4]) + "..." + string(r[len(r)-4:])
}
