package checker

import (
	"fmt"
	"net"
	"slices"

	"github.com/oschwald/geoip2-golang"

	"github.com/leozw/domain-intel/internal/core"
)

// GeoLocator maps one address to its coarse location. ok is false when the address has no
// entry.
type GeoLocator interface {
	Lookup(ip net.IP) (core.Location, bool)
}

// MaxMindLocator reads an offline GeoLite2/GeoIP2 City database.
type MaxMindLocator struct {
	reader *geoip2.Reader
}

func NewMaxMindLocator(path string) (*MaxMindLocator, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip database: %w", err)
	}
	return &MaxMindLocator{reader: reader}, nil
}

func (m *MaxMindLocator) Lookup(ip net.IP) (core.Location, bool) {
	record, err := m.reader.City(ip)
	if err != nil || record.Country.IsoCode == "" {
		return core.Location{}, false
	}

	loc := core.Location{
		IP:       ip.String(),
		Country:  record.Country.IsoCode,
		City:     record.City.Names["en"],
		Timezone: record.Location.TimeZone,
	}
	if len(record.Subdivisions) > 0 {
		loc.Region = record.Subdivisions[0].IsoCode
	}
	return loc, true
}

func (m *MaxMindLocator) Close() error {
	return m.reader.Close()
}

type StaticEntry struct {
	CIDR     string
	Country  string
	Region   string
	City     string
	Timezone string
}

type staticNetwork struct {
	network *net.IPNet
	entry   StaticEntry
}

// StaticLocator answers from an in-memory CIDR table; the first matching network wins.
type StaticLocator struct {
	networks []staticNetwork
}

func NewStaticLocator(entries ...StaticEntry) (*StaticLocator, error) {
	s := &StaticLocator{networks: make([]staticNetwork, 0, len(entries))}
	for _, e := range entries {
		_, network, err := net.ParseCIDR(e.CIDR)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR %q: %w", e.CIDR, err)
		}
		s.networks = append(s.networks, staticNetwork{network: network, entry: e})
	}
	return s, nil
}

func (s *StaticLocator) Lookup(ip net.IP) (core.Location, bool) {
	for _, n := range s.networks {
		if n.network.Contains(ip) {
			return core.Location{
				IP:       ip.String(),
				Country:  n.entry.Country,
				Region:   n.entry.Region,
				City:     n.entry.City,
				Timezone: n.entry.Timezone,
			}, true
		}
	}
	return core.Location{}, false
}

// GeoResolver summarises the locations of a sample of a domain's A records.
type GeoResolver struct {
	locator    GeoLocator
	sampleSize int
}

func NewGeoResolver(locator GeoLocator, sampleSize int) *GeoResolver {
	if sampleSize < 1 {
		sampleSize = 1
	}
	return &GeoResolver{locator: locator, sampleSize: sampleSize}
}

func (g *GeoResolver) Locate(set *core.DnsRecordSet) *core.GeoSummary {
	summary := &core.GeoSummary{
		Countries: []string{},
		Regions:   []string{},
		Cities:    []string{},
	}
	if set == nil {
		return summary
	}
	summary.TotalIPs = len(set.A)

	sample := set.A
	if len(sample) > g.sampleSize {
		sample = sample[:g.sampleSize]
	}

	for _, raw := range sample {
		ip := net.ParseIP(raw)
		if ip == nil {
			continue
		}
		loc, ok := g.locator.Lookup(ip)
		if !ok {
			continue
		}

		summary.Countries = appendDistinct(summary.Countries, loc.Country)
		summary.Regions = appendDistinct(summary.Regions, loc.Region)
		summary.Cities = appendDistinct(summary.Cities, loc.City)

		if summary.PrimaryLocation == nil {
			primary := loc
			summary.PrimaryLocation = &primary
		}
	}

	return summary
}

func appendDistinct(list []string, v string) []string {
	if v == "" || slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}
