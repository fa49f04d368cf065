package checker

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/leozw/domain-intel/internal/config"
	"github.com/leozw/domain-intel/internal/metrics"
)

// Pipeline bundles the collaborators built from configuration so binaries can use the
// analyzer as a whole or its parts on their own.
type Pipeline struct {
	Analyzer *Analyzer
	Whois    *WhoisResolver
	DNS      *DNSCollector
	Geo      *GeoResolver

	closers []func() error
}

func NewPipeline(cfg *config.Config, logger *zap.Logger, m *metrics.Collector) (*Pipeline, error) {
	strategies := make([]WhoisStrategy, 0, len(cfg.Whois.StrategyOrder))
	for _, name := range cfg.Whois.StrategyOrder {
		switch name {
		case StrategyAPI:
			strategies = append(strategies, NewAPIStrategy(cfg.Whois.APIURL, cfg.Whois.APIKey, cfg.Whois.UserAgent, cfg.Whois.APITimeout))
		case StrategyProtocol:
			strategies = append(strategies, NewProtocolStrategy(cfg.Whois.ProtocolTimeout))
		default:
			return nil, fmt.Errorf("unknown whois strategy %q", name)
		}
	}

	p := &Pipeline{}

	var locator GeoLocator
	if cfg.GeoIP.DatabasePath != "" {
		mm, err := NewMaxMindLocator(cfg.GeoIP.DatabasePath)
		if err != nil {
			return nil, err
		}
		p.closers = append(p.closers, mm.Close)
		locator = mm
	} else {
		logger.Warn("No geoip database configured, geolocation will be empty")
		static, err := NewStaticLocator()
		if err != nil {
			return nil, err
		}
		locator = static
	}

	p.Whois = NewWhoisResolver(logger, m, strategies...)
	p.DNS = NewDNSCollector(cfg.DNS.Server, cfg.DNS.Timeout, logger, m)
	p.Geo = NewGeoResolver(locator, cfg.Analysis.GeoSampleSize)
	p.Analyzer = NewAnalyzer(p.Whois, p.DNS, p.Geo, Options{
		WhoisDeadline:   cfg.Analysis.WhoisDeadline,
		DNSDeadline:     cfg.Analysis.DNSDeadline,
		PrivacyDeadline: cfg.Analysis.PrivacyDeadline,
	}, logger, m)

	return p, nil
}

func (p *Pipeline) Close() error {
	var firstErr error
	for _, closeFn := range p.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
