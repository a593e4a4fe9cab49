package security

import "strings"

// DefaultMaxTextLength bounds free-text fields (notes, clock labels) accepted
// from either side of the security boundary.
const DefaultMaxTextLength = 1000

var freeTextStripper = strings.NewReplacer(
	"<", "",
	">", "",
	`"`, "",
	"'", "",
	"&", "",
)

// SanitizeFreeText deletes characters significant to markup or script
// injection. Characters are removed, not HTML-escaped, which is lossy: the
// mobile clients depend on this exact stripping, so if rendered markup is ever
// required this must become proper escaping instead. Idempotent by
// construction.
func SanitizeFreeText(s string) string {
	return freeTextStripper.Replace(s)
}

// ValidateFreeText reports whether s is acceptable as untrusted text input.
// Empty strings, strings longer than maxLen and strings containing NUL are
// rejected. A non-positive maxLen falls back to DefaultMaxTextLength.
func ValidateFreeText(s string, maxLen int) bool {
	if maxLen <= 0 {
		maxLen = DefaultMaxTextLength
	}
	if s == "" || len(s) > maxLen {
		return false
	}
	return !strings.ContainsRune(s, '\x00')
}
