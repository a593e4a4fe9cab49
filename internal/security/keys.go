package security

import (
	"errors"
	"regexp"
	"strings"
)

// KeyKind classifies a validated API key by its vendor prefix.
type KeyKind string

const (
	// KindAnthropic marks keys carrying the Anthropic vendor prefix.
	KindAnthropic KeyKind = "anthropic"
	// KindGeneric marks keys matching the broader secret-key pattern.
	KindGeneric KeyKind = "generic"
	// KindUnknown is returned alongside a validation error.
	KindUnknown KeyKind = ""
)

const (
	// MinKeyLength is the minimum accepted key length after trimming.
	MinKeyLength = 20
	// MaxKeyLength is the maximum accepted key length.
	MaxKeyLength = 200

	anthropicKeyPrefix = "sk-ant-"
	genericKeyPrefix   = "sk-"
)

var (
	ErrEmptyKey         = errors.New("api key is empty")
	ErrInvalidKeyLength = errors.New("api key length out of bounds")
	ErrInvalidKeyFormat = errors.New("api key format is invalid")
)

// keyCharset is the full grammar for a key: ASCII letters, digits and hyphens
// only. Anything else, including whitespace and non-ASCII codepoints, fails.
var keyCharset = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// Sanitize strips leading and trailing whitespace from a raw key. Interior
// content is never altered; interior whitespace must fail validation, not be
// papered over here.
func Sanitize(raw string) string {
	return strings.TrimSpace(raw)
}

// ValidateKeyFormat checks raw against the key grammar and classifies it.
// Callers are expected to Sanitize first; any remaining whitespace is treated
// as a format violation.
func ValidateKeyFormat(raw string) (KeyKind, error) {
	if strings.TrimSpace(raw) == "" {
		return KindUnknown, ErrEmptyKey
	}
	if len(raw) < MinKeyLength || len(raw) > MaxKeyLength {
		return KindUnknown, ErrInvalidKeyLength
	}
	if !keyCharset.MatchString(raw) {
		return KindUnknown, ErrInvalidKeyFormat
	}
	if strings.HasPrefix(raw, anthropicKeyPrefix) {
		return KindAnthropic, nil
	}
	if strings.HasPrefix(raw, genericKeyPrefix) {
		return KindGeneric, nil
	}
	return KindUnknown, ErrInvalidKeyFormat
}
