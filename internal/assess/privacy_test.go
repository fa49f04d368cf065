package assess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leozw/domain-intel/internal/core"
)

func TestAnalyzePrivacy_WhoisGuard(t *testing.T) {
	rec := &core.WhoisRecord{
		Domain:                 "hidden.com",
		RegistrantOrganization: "WhoisGuard, Inc.",
		Emails:                 []string{"registrar@namecheap.com", "abc@whoisguard.com"},
	}

	got := AnalyzePrivacy(rec)

	assert.True(t, got.IsPrivate)
	require.NotNil(t, got.PrivacyService)
	assert.Equal(t, "whoisguard", *got.PrivacyService)
	require.NotNil(t, got.PrivacyDomain)
	assert.Equal(t, "whoisguard.com", *got.PrivacyDomain)
	assert.Equal(t, ConfidenceHigh, got.Confidence)
}

func TestAnalyzePrivacy_TableOrder(t *testing.T) {
	rec := &core.WhoisRecord{RawData: "Registrant: REDACTED FOR PRIVACY via Contact Privacy Inc."}

	got := AnalyzePrivacy(rec)

	require.NotNil(t, got.PrivacyService)
	assert.Equal(t, "contact privacy", *got.PrivacyService, "earlier table entries win over later ones")
	assert.Nil(t, got.PrivacyDomain, "no email with a privacy marker")
}

func TestAnalyzePrivacy_NotPrivate(t *testing.T) {
	rec := &core.WhoisRecord{
		Domain:    "example.com",
		Registrar: "GoDaddy.com, LLC",
		Emails:    []string{"admin@proxy-hosting.example"},
	}

	got := AnalyzePrivacy(rec)

	assert.False(t, got.IsPrivate)
	assert.Nil(t, got.PrivacyService)
	assert.Nil(t, got.PrivacyDomain, "emails are only inspected once a service matched")
	assert.Equal(t, ConfidenceLow, got.Confidence)

	assert.False(t, AnalyzePrivacy(nil).IsPrivate)
}

func TestLookupDomain(t *testing.T) {
	assert.Equal(t, "whoisguard.com", LookupDomain("mail.whoisguard.com"))
	assert.Equal(t, "withheldforprivacy.com", LookupDomain("withheldforprivacy.com"))
	assert.Equal(t, "privacy.co.uk", LookupDomain("contact.privacy.co.uk."))
	assert.Equal(t, "localhost", LookupDomain("localhost"))
}
