package models

import (
	"regexp"
	"strings"
)

// One or more dot-separated labels of [a-z0-9-]. Hyphen placement is only
// checked at the edges of the whole string, not per label, matching the
// validation the provisioner applies on its side.
var domainPattern = regexp.MustCompile(`^[a-z0-9-]+(\.[a-z0-9-]+)+$`)

// NormalizeDomain lowercases and trims a user-supplied hostname.
func NormalizeDomain(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// IsValidDomain reports whether value looks like a usable hostname
// (e.g. "example.com"). Input is normalized first.
func IsValidDomain(value string) bool {
	v := NormalizeDomain(value)
	return domainPattern.MatchString(v) && !strings.HasPrefix(v, "-") && !strings.HasSuffix(v, "-")
}
