package assess

import (
	"encoding/json"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/leozw/domain-intel/internal/core"
)

const (
	ConfidenceHigh = "high"
	ConfidenceLow  = "low"
)

// PrivacyServices is scanned in order; the first fragment found in the serialized record
// names the service.
var PrivacyServices = []string{
	"whoisguard",
	"domains by proxy",
	"perfect privacy",
	"private whois",
	"contact privacy",
	"redacted for privacy",
	"data protected",
	"privacy service",
	"whois privacy",
	"private registration",
}

var privacyEmailMarkers = []string{"privacy", "whoisguard", "proxy"}

// AnalyzePrivacy reports whether the record looks privacy protected and, if so, which contact
// domain may lead to the real registrant. It never fails; a nil record is not private.
func AnalyzePrivacy(rec *core.WhoisRecord) core.PrivacyAssessment {
	result := core.PrivacyAssessment{Confidence: ConfidenceLow}
	if rec == nil {
		return result
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return result
	}
	text := strings.ToLower(string(payload))

	for _, service := range PrivacyServices {
		if strings.Contains(text, service) {
			s := service
			result.IsPrivate = true
			result.PrivacyService = &s
			result.Confidence = ConfidenceHigh
			break
		}
	}

	if !result.IsPrivate {
		return result
	}

	for _, email := range rec.Emails {
		_, host, ok := strings.Cut(email, "@")
		if !ok || host == "" {
			continue
		}
		lower := strings.ToLower(host)
		for _, marker := range privacyEmailMarkers {
			if strings.Contains(lower, marker) {
				result.PrivacyDomain = &host
				return result
			}
		}
	}

	return result
}

// LookupDomain reduces a privacy contact domain to the registrable domain worth a WHOIS
// query, e.g. "mail.whoisguard.com" becomes "whoisguard.com".
func LookupDomain(privacyDomain string) string {
	d := strings.ToLower(strings.TrimSuffix(privacyDomain, "."))
	if etld1, err := publicsuffix.EffectiveTLDPlusOne(d); err == nil {
		return etld1
	}
	return d
}
