package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leozw/domain-intel/internal/core"
)

func testLocator(t *testing.T) *StaticLocator {
	t.Helper()
	l, err := NewStaticLocator(
		StaticEntry{CIDR: "93.184.216.0/24", Country: "US", Region: "MA", City: "Norwell", Timezone: "America/New_York"},
		StaticEntry{CIDR: "104.16.0.0/13", Country: "US", Region: "CA", City: "San Francisco"},
		StaticEntry{CIDR: "185.15.58.0/24", Country: "NL", Region: "NH", City: "Amsterdam"},
	)
	require.NoError(t, err)
	return l
}

func TestNewStaticLocator_InvalidCIDR(t *testing.T) {
	_, err := NewStaticLocator(StaticEntry{CIDR: "not-a-cidr"})
	assert.Error(t, err)
}

func TestGeoResolver_Locate(t *testing.T) {
	set := core.NewDnsRecordSet()
	set.A = []string{"10.0.0.1", "93.184.216.34", "185.15.58.224", "104.16.1.1", "104.16.1.2"}

	geo := NewGeoResolver(testLocator(t), 3).Locate(set)

	assert.Equal(t, 5, geo.TotalIPs, "counts every A record, not just the sample")
	assert.Equal(t, []string{"US", "NL"}, geo.Countries)
	assert.Equal(t, []string{"MA", "NH"}, geo.Regions)
	assert.Equal(t, []string{"Norwell", "Amsterdam"}, geo.Cities)

	require.NotNil(t, geo.PrimaryLocation)
	assert.Equal(t, "93.184.216.34", geo.PrimaryLocation.IP, "first address with geo data wins")
	assert.Equal(t, "America/New_York", geo.PrimaryLocation.Timezone)
}

func TestGeoResolver_NoData(t *testing.T) {
	set := core.NewDnsRecordSet()
	set.A = []string{"garbage", "10.0.0.1"}

	geo := NewGeoResolver(testLocator(t), 3).Locate(set)

	assert.Equal(t, 2, geo.TotalIPs)
	assert.Empty(t, geo.Countries)
	assert.Nil(t, geo.PrimaryLocation)

	empty := NewGeoResolver(testLocator(t), 3).Locate(nil)
	assert.Equal(t, 0, empty.TotalIPs)
	assert.NotNil(t, empty.Countries)
}
