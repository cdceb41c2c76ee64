package instrument

import (
	"strings"
	"unicode"
)

// MakeLabelValue converts an event type or service name, such as
// "START_ENTITLEMENT" or "entitlement+billing-service", to a string suitable
// for use in a Prometheus label value.
func MakeLabelValue(name string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			underscore = false
			continue
		}
		// Collapse runs of separators into a single underscore.
		if !underscore && b.Len() > 0 {
			b.WriteRune('_')
			underscore = true
		}
	}
	result := strings.TrimSuffix(b.String(), "_")
	if result == "" {
		result = "unknown"
	}
	return result
}
