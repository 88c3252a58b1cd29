package logging

import (
	"fmt"
	"log/slog"
	"strings"
)

// secretKeyPatterns mark attribute keys whose values are always masked.
var secretKeyPatterns = []string{
	"PASSWORD",
	"PASSWD",
	"SECRET",
	"TOKEN",
	"API_KEY",
	"APIKEY",
	"CREDENTIAL",
	"PRIVATE",
}

// tokenPrefixes mark values that are credentials regardless of their key.
var tokenPrefixes = []string{
	"ghp_",
	"gho_",
	"github_pat_",
	"glpat-",
	"xoxb-",
	"xoxp-",
	"sk-",
	"AKIA",
}

// shouldMask reports whether values logged under key must be masked.
func shouldMask(key string) bool {
	upper := strings.ToUpper(key)
	for _, pattern := range secretKeyPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

// hasTokenPrefix reports whether value starts with a known credential prefix.
func hasTokenPrefix(value string) bool {
	for _, prefix := range tokenPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// maskValue keeps the last four characters of value.
func maskValue(value string) string {
	if len(value) <= 4 {
		return "********"
	}
	return "****" + value[len(value)-4:]
}

// redact returns the masked form of a credential value. The second result
// is false when value is printed as is.
func redact(key string, value any) (string, bool) {
	if shouldMask(key) {
		return maskValue(fmt.Sprint(value)), true
	}
	if s, ok := value.(string); ok && hasTokenPrefix(s) {
		return maskValue(s), true
	}
	return "", false
}

// redactAttr masks credential values for the standard library handlers.
func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		return a
	}
	if masked, ok := redact(a.Key, a.Value.Any()); ok {
		return slog.String(a.Key, masked)
	}
	return a
}
