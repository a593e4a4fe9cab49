package utils

import "regexp"

var dsnPasswordRegex = regexp.MustCompile(`(:)([^:@]+)(@)`)

// MaskDSN hides the password portion of a connection string for logging.
func MaskDSN(dsn string) string {
	return dsnPasswordRegex.ReplaceAllString(dsn, ":***@")
}

// MaskTail keeps only the last n characters of s, replacing the rest with "***".
// Used for logging key fingerprints without exposing the secret itself.
func MaskTail(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return "***"
	}
	return "***" + s[len(s)-n:]
}
