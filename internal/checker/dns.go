package checker

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/leozw/domain-intel/internal/core"
	"github.com/leozw/domain-intel/internal/metrics"
)

const fallbackResolver = "8.8.8.8:53"

type exchanger interface {
	ExchangeContext(ctx context.Context, m *dns.Msg, address string) (*dns.Msg, time.Duration, error)
}

// DNSCollector fetches the six record types of a domain in parallel. A failing record type
// never fails the set; it keeps its empty default.
type DNSCollector struct {
	udp     exchanger
	tcp     exchanger
	server  string
	logger  *zap.Logger
	metrics *metrics.Collector
}

func NewDNSCollector(server string, timeout time.Duration, logger *zap.Logger, m *metrics.Collector) *DNSCollector {
	if server == "" {
		server = systemResolver()
	}

	return &DNSCollector{
		udp:     &dns.Client{Net: "udp", Timeout: timeout},
		tcp:     &dns.Client{Net: "tcp", Timeout: timeout},
		server:  server,
		logger:  logger,
		metrics: m,
	}
}

func systemResolver() string {
	conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(conf.Servers) == 0 {
		return fallbackResolver
	}
	return net.JoinHostPort(conf.Servers[0], conf.Port)
}

func (d *DNSCollector) Collect(ctx context.Context, domain string) *core.DnsRecordSet {
	set := core.NewDnsRecordSet()
	start := time.Now()

	// Every goroutine returns nil and owns exactly one field of set.
	var g errgroup.Group

	g.Go(func() error {
		for _, rr := range d.query(ctx, domain, dns.TypeA) {
			if a, ok := rr.(*dns.A); ok {
				set.A = append(set.A, a.A.String())
			}
		}
		return nil
	})

	g.Go(func() error {
		for _, rr := range d.query(ctx, domain, dns.TypeAAAA) {
			if aaaa, ok := rr.(*dns.AAAA); ok {
				set.AAAA = append(set.AAAA, aaaa.AAAA.String())
			}
		}
		return nil
	})

	g.Go(func() error {
		for _, rr := range d.query(ctx, domain, dns.TypeMX) {
			if mx, ok := rr.(*dns.MX); ok {
				set.MX = append(set.MX, core.MXRecord{
					Priority: int(mx.Preference),
					Exchange: trimDot(mx.Mx),
				})
			}
		}
		return nil
	})

	g.Go(func() error {
		for _, rr := range d.query(ctx, domain, dns.TypeNS) {
			if ns, ok := rr.(*dns.NS); ok {
				set.NS = append(set.NS, trimDot(ns.Ns))
			}
		}
		return nil
	})

	g.Go(func() error {
		for _, rr := range d.query(ctx, domain, dns.TypeTXT) {
			if txt, ok := rr.(*dns.TXT); ok {
				set.TXT = append(set.TXT, strings.Join(txt.Txt, ""))
			}
		}
		return nil
	})

	g.Go(func() error {
		for _, rr := range d.query(ctx, domain, dns.TypeSOA) {
			if soa, ok := rr.(*dns.SOA); ok {
				set.SOA = &core.SOARecord{
					PrimaryNS:  trimDot(soa.Ns),
					Hostmaster: trimDot(soa.Mbox),
					Serial:     soa.Serial,
					Refresh:    soa.Refresh,
					Retry:      soa.Retry,
					Expire:     soa.Expire,
					Minimum:    soa.Minttl,
				}
				break
			}
		}
		return nil
	})

	_ = g.Wait()

	elapsed := time.Since(start)
	set.QueryTime = elapsed.Milliseconds()
	d.metrics.ObserveDNSBatch(elapsed)

	return set
}

// query returns the answer section for one record type, or nil on any failure.
func (d *DNSCollector) query(ctx context.Context, domain string, qtype uint16) []dns.RR {
	typeName := dns.TypeToString[qtype]

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(domain), qtype)

	r, _, err := d.udp.ExchangeContext(ctx, m, d.server)
	if err == nil && r != nil && r.Truncated {
		r, _, err = d.tcp.ExchangeContext(ctx, m, d.server)
	}

	if err == nil && r == nil {
		err = fmt.Errorf("empty response")
	}
	if err == nil && r.Rcode != dns.RcodeSuccess {
		err = fmt.Errorf("rcode %s", dns.RcodeToString[r.Rcode])
	}
	if err != nil {
		d.metrics.RecordDNSFailure(typeName)
		d.logger.Debug("DNS query failed",
			zap.String("domain", domain),
			zap.String("record_type", typeName),
			zap.Error(err),
		)
		return nil
	}

	return r.Answer
}

func trimDot(s string) string {
	return strings.TrimSuffix(s, ".")
}
