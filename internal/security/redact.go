package security

import (
	"regexp"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// secretPattern matches any substring shaped like an API key per the key
// grammar, so secrets embedded in error text never reach persisted logs.
var secretPattern = regexp.MustCompile(`\bsk-[A-Za-z0-9-]{8,}`)

const redactedPlaceholder = "sk-[REDACTED]"

// Redact replaces every credential-shaped substring in s with a placeholder.
func Redact(s string) string {
	return secretPattern.ReplaceAllString(s, redactedPlaceholder)
}

// RedactError returns the redacted message of err, or "" for nil.
func RedactError(err error) string {
	if err == nil {
		return ""
	}
	return Redact(err.Error())
}

// LogRedacted logs msg at the given level after stripping credential-shaped
// substrings. Fields are passed through untouched; callers must not put raw
// secrets in fields.
func LogRedacted(log *zap.Logger, level zapcore.Level, msg string, fields ...zap.Field) {
	if log == nil {
		return
	}
	if ce := log.Check(level, Redact(msg)); ce != nil {
		ce.Write(fields...)
	}
}
