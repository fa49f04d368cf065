package checker

import (
	"strings"

	"golang.org/x/net/idna"
)

// NormalizeDomain reduces user input such as "HTTPS://WWW.Example.com/path?x=1" to the bare
// lowercase host "example.com". It never fails and is idempotent: the single pass is
// repeated until it reaches a fixed point, so stacked prefixes like "www.www." collapse too.
func NormalizeDomain(input string) string {
	domain := input
	for {
		next := normalizeOnce(domain)
		if next == domain {
			return next
		}
		domain = next
	}
}

func normalizeOnce(input string) string {
	domain := strings.ToLower(strings.TrimSpace(input))

	// Only a leading scheme; "://" inside a path or query is left for the path cut below.
	if i := strings.Index(domain, "://"); i >= 0 && !strings.ContainsAny(domain[:i], "/?#") {
		domain = domain[i+3:]
	}
	domain = strings.TrimPrefix(domain, "www.")

	if i := strings.IndexAny(domain, "/?#"); i >= 0 {
		domain = domain[:i]
	}
	domain = strings.TrimRight(strings.TrimSpace(domain), ".")

	if !isASCII(domain) {
		if ascii, err := idna.Lookup.ToASCII(domain); err == nil {
			domain = ascii
		}
	}

	return domain
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
