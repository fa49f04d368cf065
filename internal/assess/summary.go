package assess

import "github.com/leozw/domain-intel/internal/core"

const (
	FlagUSRegistrar        = "US_REGISTRAR"
	FlagPrivacyProtected   = "PRIVACY_PROTECTED"
	FlagCheckPrivacyDomain = "CHECK_PRIVACY_DOMAIN"
	FlagUSHosted           = "US_HOSTED"

	PriorityHigh   = "high"
	PriorityNormal = "normal"

	DefaultRecommendation = "Standard domain registration"
)

// recommendations is evaluated top to bottom; the first flag present picks the text.
var recommendations = []struct {
	flag string
	text string
}{
	{FlagCheckPrivacyDomain, "Check privacy contact domain for actual registrant details"},
	{FlagPrivacyProtected, "Domain uses privacy protection - limited public info"},
	{FlagUSRegistrar, "US-based registrar - UDRP procedures available"},
}

// Summarize flattens an analysis into the summary shown to investigators. Missing parts of
// the analysis read as their empty defaults.
func Summarize(a *core.DomainAnalysis) core.Summary {
	whois := a.WhoisData
	if whois == nil {
		whois = &core.WhoisRecord{}
	}
	registrar := core.RegistrarProfile{Name: core.Unknown, Category: CategoryOther}
	if a.RegistrarInfo != nil {
		registrar = *a.RegistrarInfo
	}
	var privacy core.PrivacyAssessment
	if a.PrivacyAnalysis != nil {
		privacy = *a.PrivacyAnalysis
	}

	s := core.Summary{
		Domain:                  a.Domain,
		IsUSRegistrar:           registrar.IsUSBased,
		Registrar:               core.OrUnknown(registrar.Name),
		RegistrarCategory:       registrar.Category,
		IsPrivacyProtected:      privacy.IsPrivate,
		PrivacyService:          privacy.PrivacyService,
		PrivacyDomain:           privacy.PrivacyDomain,
		RegistrantCountry:       core.OrUnknown(whois.RegistrantCountry),
		CreationDate:            core.OrUnknown(whois.CreationDate),
		ExpirationDate:          core.OrUnknown(whois.ExpirationDate),
		NameServers:             []string{},
		NeedsPrivacyDomainCheck: privacy.IsPrivate && privacy.PrivacyDomain != nil,
	}

	if a.DNSData != nil {
		if len(a.DNSData.NS) > 0 {
			s.NameServers = a.DNSData.NS
		}
		if len(a.DNSData.A) > 0 {
			ip := a.DNSData.A[0]
			s.PrimaryIP = &ip
		}
	}
	if a.GeoData != nil {
		s.GeoLocation = a.GeoData.PrimaryLocation
	}

	s.QuickAssessment = Assess(registrar, privacy, s.GeoLocation)
	return s
}

// Assess derives the signal flags and the recommendation they lead to.
func Assess(registrar core.RegistrarProfile, privacy core.PrivacyAssessment, location *core.Location) core.QuickAssessment {
	flags := []string{}
	if registrar.IsUSBased {
		flags = append(flags, FlagUSRegistrar)
	}
	if privacy.IsPrivate {
		flags = append(flags, FlagPrivacyProtected)
	}
	if privacy.PrivacyDomain != nil {
		flags = append(flags, FlagCheckPrivacyDomain)
	}
	if location != nil && location.Country == "US" {
		flags = append(flags, FlagUSHosted)
	}

	qa := core.QuickAssessment{
		Flags:          flags,
		Priority:       PriorityNormal,
		Recommendation: DefaultRecommendation,
	}

	for _, r := range recommendations {
		if hasFlag(flags, r.flag) {
			qa.Recommendation = r.text
			break
		}
	}
	if hasFlag(flags, FlagCheckPrivacyDomain) {
		qa.Priority = PriorityHigh
	}

	return qa
}

func hasFlag(flags []string, flag string) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}
