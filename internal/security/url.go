package security

import (
	"net/url"
	"strings"
)

// allowedAPIHosts is the fixed allow-list of upstream analysis hosts.
// Lookalike domains (e.g. "api.anthropic.com.evil.io") do not match.
var allowedAPIHosts = map[string]struct{}{
	"api.anthropic.com": {},
}

// ValidateURL reports whether raw is an HTTPS URL whose host is on the
// allow-list. Any other scheme, embedded userinfo, or unknown host is
// rejected.
func ValidateURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "https" || u.User != nil {
		return false
	}
	_, ok := allowedAPIHosts[strings.ToLower(u.Hostname())]
	return ok
}
