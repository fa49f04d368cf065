package assess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leozw/domain-intel/internal/core"
)

func strPtr(s string) *string { return &s }

func TestAssess_Precedence(t *testing.T) {
	us := &core.Location{IP: "93.184.216.34", Country: "US"}
	de := &core.Location{IP: "1.2.3.4", Country: "DE"}

	tests := []struct {
		name      string
		registrar core.RegistrarProfile
		privacy   core.PrivacyAssessment
		location  *core.Location
		flags     []string
		priority  string
		text      string
	}{
		{
			name:      "privacy domain beats everything",
			registrar: core.RegistrarProfile{IsUSBased: true},
			privacy:   core.PrivacyAssessment{IsPrivate: true, PrivacyDomain: strPtr("whoisguard.com")},
			location:  us,
			flags:     []string{FlagUSRegistrar, FlagPrivacyProtected, FlagCheckPrivacyDomain, FlagUSHosted},
			priority:  PriorityHigh,
			text:      "Check privacy contact domain for actual registrant details",
		},
		{
			name:      "privacy without contact domain",
			registrar: core.RegistrarProfile{IsUSBased: true},
			privacy:   core.PrivacyAssessment{IsPrivate: true},
			flags:     []string{FlagUSRegistrar, FlagPrivacyProtected},
			priority:  PriorityNormal,
			text:      "Domain uses privacy protection - limited public info",
		},
		{
			name:      "us registrar only",
			registrar: core.RegistrarProfile{IsUSBased: true},
			location:  de,
			flags:     []string{FlagUSRegistrar},
			priority:  PriorityNormal,
			text:      "US-based registrar - UDRP procedures available",
		},
		{
			name:     "hosted in the us is not enough for a recommendation",
			location: us,
			flags:    []string{FlagUSHosted},
			priority: PriorityNormal,
			text:     DefaultRecommendation,
		},
		{
			name:     "nothing",
			flags:    []string{},
			priority: PriorityNormal,
			text:     DefaultRecommendation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qa := Assess(tt.registrar, tt.privacy, tt.location)

			assert.Equal(t, tt.flags, qa.Flags)
			assert.Equal(t, tt.priority, qa.Priority)
			assert.Equal(t, tt.text, qa.Recommendation)
		})
	}
}

func TestSummarize(t *testing.T) {
	analysis := &core.DomainAnalysis{
		Domain: "example.com",
		WhoisData: &core.WhoisRecord{
			Registrar:    "GoDaddy.com, LLC",
			CreationDate: "2001-05-14",
		},
		DNSData: &core.DnsRecordSet{
			A:  []string{"93.184.216.34", "93.184.216.35"},
			NS: []string{"a.iana-servers.net"},
		},
		PrivacyAnalysis: &core.PrivacyAssessment{Confidence: ConfidenceLow},
		RegistrarInfo:   &core.RegistrarProfile{Name: "GoDaddy.com, LLC", Category: "Major US Commercial", IsUSBased: true, Country: core.Unknown},
		GeoData:         &core.GeoSummary{PrimaryLocation: &core.Location{IP: "93.184.216.34", Country: "US"}},
	}

	s := Summarize(analysis)

	assert.Equal(t, "example.com", s.Domain)
	assert.True(t, s.IsUSRegistrar)
	assert.Equal(t, "GoDaddy.com, LLC", s.Registrar)
	assert.Equal(t, "Major US Commercial", s.RegistrarCategory)
	assert.Equal(t, core.Unknown, s.RegistrantCountry)
	assert.Equal(t, "2001-05-14", s.CreationDate)
	assert.Equal(t, core.Unknown, s.ExpirationDate)
	assert.Equal(t, []string{"a.iana-servers.net"}, s.NameServers)
	require.NotNil(t, s.PrimaryIP)
	assert.Equal(t, "93.184.216.34", *s.PrimaryIP)
	require.NotNil(t, s.GeoLocation)
	assert.False(t, s.NeedsPrivacyDomainCheck)
	assert.Equal(t, []string{FlagUSRegistrar, FlagUSHosted}, s.QuickAssessment.Flags)
}

func TestSummarize_EmptyAnalysis(t *testing.T) {
	s := Summarize(&core.DomainAnalysis{Domain: "example.com"})

	assert.Equal(t, core.Unknown, s.Registrar)
	assert.Equal(t, CategoryOther, s.RegistrarCategory)
	assert.Equal(t, []string{}, s.NameServers)
	assert.Nil(t, s.PrimaryIP)
	assert.Nil(t, s.GeoLocation)
	assert.Equal(t, DefaultRecommendation, s.QuickAssessment.Recommendation)
}
