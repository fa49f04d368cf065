package core

import "time"

// Unknown is reported for any WHOIS-derived field the upstream source did not provide.
const Unknown = "Unknown"

// OrUnknown maps an unset field to the Unknown sentinel.
func OrUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}

// DomainAnalysis is the root report produced for one domain.
type DomainAnalysis struct {
	Domain          string             `json:"domain"`
	Timestamp       time.Time          `json:"timestamp"`
	Success         bool               `json:"success"`
	ProcessingTime  int64              `json:"processingTime"`
	Error           string             `json:"error,omitempty"`
	WhoisData       *WhoisRecord       `json:"whoisData"`
	DNSData         *DnsRecordSet      `json:"dnsData"`
	PrivacyAnalysis *PrivacyAssessment `json:"privacyAnalysis"`
	RegistrarInfo   *RegistrarProfile  `json:"registrarInfo"`
	GeoData         *GeoSummary        `json:"geoData"`
	Summary         *Summary           `json:"summary"`
	FromCache       bool               `json:"fromCache,omitempty"`
}

// NewFailedAnalysis builds the error entry used when a domain never reached the analyzer.
func NewFailedAnalysis(domain string, err error) *DomainAnalysis {
	return &DomainAnalysis{
		Domain:    domain,
		Timestamp: time.Now().UTC(),
		Success:   false,
		Error:     err.Error(),
	}
}

type PrivacyAssessment struct {
	IsPrivate          bool         `json:"isPrivate"`
	PrivacyService     *string      `json:"privacyService"`
	PrivacyDomain      *string      `json:"privacyDomain"`
	Confidence         string       `json:"confidence"`
	PrivacyDomainWhois *WhoisRecord `json:"privacyDomainWhois,omitempty"`
}

type RegistrarProfile struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	IsUSBased bool   `json:"isUSBased"`
	Country   string `json:"country"`
}

// Location is the coarse geo-ip metadata for a single address.
type Location struct {
	IP       string `json:"ip"`
	Country  string `json:"country"`
	Region   string `json:"region"`
	City     string `json:"city"`
	Timezone string `json:"timezone,omitempty"`
}

type GeoSummary struct {
	Countries       []string  `json:"countries"`
	Regions         []string  `json:"regions"`
	Cities          []string  `json:"cities"`
	PrimaryLocation *Location `json:"primaryLocation"`
	TotalIPs        int       `json:"totalIPs"`
}

type Summary struct {
	Domain                  string          `json:"domain"`
	IsUSRegistrar           bool            `json:"isUSRegistrar"`
	Registrar               string          `json:"registrar"`
	RegistrarCategory       string          `json:"registrarCategory"`
	IsPrivacyProtected      bool            `json:"isPrivacyProtected"`
	PrivacyService          *string         `json:"privacyService"`
	PrivacyDomain           *string         `json:"privacyDomain"`
	RegistrantCountry       string          `json:"registrantCountry"`
	CreationDate            string          `json:"creationDate"`
	ExpirationDate          string          `json:"expirationDate"`
	NameServers             []string        `json:"nameServers"`
	PrimaryIP               *string         `json:"primaryIP"`
	GeoLocation             *Location       `json:"geoLocation"`
	NeedsPrivacyDomainCheck bool            `json:"needsPrivacyDomainCheck"`
	QuickAssessment         QuickAssessment `json:"quickAssessment"`
}

type QuickAssessment struct {
	Flags          []string `json:"flags"`
	Priority       string   `json:"priority"`
	Recommendation string   `json:"recommendation"`
}
