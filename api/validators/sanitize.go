package validators

import (
	"strings"
	"unicode"
)

// SanitizeString normalizes free-text input before it reaches a service:
// surrounding whitespace is trimmed, control characters (except newline and
// tab) are stripped, and the result is truncated to maxLen runes when
// maxLen > 0. Truncation operates on runes so a multi-byte character is
// never split.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, strings.TrimSpace(input))

	if maxLen <= 0 {
		return cleaned
	}
	runes := []rune(cleaned)
	if len(runes) <= maxLen {
		return cleaned
	}
	return string(runes[:maxLen])
}
