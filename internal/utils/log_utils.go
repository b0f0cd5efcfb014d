package utils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxLogStringLength defines the maximum length in runes for user-provided strings in logs
const MaxLogStringLength = 100

var unprintable = regexp.MustCompile(`[^\p{L}\p{N}\p{P}\p{S}\p{Z}]`)

// SanitizeLogString makes a request value safe to attach to a log field.
// Control characters become spaces, invisible runes are dropped and the
// result is capped at MaxLogStringLength runes.
func SanitizeLogString(input string) string {
	if input == "" {
		return ""
	}

	if !utf8.ValidString(input) {
		input = strings.ToValidUTF8(input, "")
	}

	truncated := false
	if utf8.RuneCountInString(input) > MaxLogStringLength {
		input = string([]rune(input)[:MaxLogStringLength])
		truncated = true
	}

	input = strings.ReplaceAll(input, "\r\n", "\n")
	sanitized := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, input)
	sanitized = unprintable.ReplaceAllString(sanitized, "")

	if truncated {
		sanitized += "...(truncated)"
	}
	return sanitized
}
