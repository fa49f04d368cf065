package checker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/leozw/domain-intel/internal/assess"
	"github.com/leozw/domain-intel/internal/core"
	"github.com/leozw/domain-intel/internal/metrics"
)

type WhoisLookup interface {
	Resolve(ctx context.Context, domain string) (*core.WhoisRecord, error)
}

type RecordCollector interface {
	Collect(ctx context.Context, domain string) *core.DnsRecordSet
}

type Locator interface {
	Locate(set *core.DnsRecordSet) *core.GeoSummary
}

type Options struct {
	WhoisDeadline   time.Duration
	DNSDeadline     time.Duration
	PrivacyDeadline time.Duration
}

func DefaultOptions() Options {
	return Options{
		WhoisDeadline:   15 * time.Second,
		DNSDeadline:     10 * time.Second,
		PrivacyDeadline: 10 * time.Second,
	}
}

// Analyzer runs the full pipeline for one domain: WHOIS, DNS, derived assessments, the
// optional privacy contact lookup and the summary.
type Analyzer struct {
	whois   WhoisLookup
	dns     RecordCollector
	geo     Locator
	opts    Options
	logger  *zap.Logger
	metrics *metrics.Collector
}

func NewAnalyzer(whois WhoisLookup, dns RecordCollector, geo Locator, opts Options, logger *zap.Logger, m *metrics.Collector) *Analyzer {
	return &Analyzer{
		whois:   whois,
		dns:     dns,
		geo:     geo,
		opts:    opts,
		logger:  logger,
		metrics: m,
	}
}

// Analyze always returns a report for a valid domain; upstream failures are reported inside
// it with Success false. An error is returned only for an empty domain or a context that is
// already done.
func (a *Analyzer) Analyze(ctx context.Context, domain string) (*core.DomainAnalysis, error) {
	domain = NormalizeDomain(domain)
	if domain == "" {
		return nil, ErrInvalidDomain
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	analysis := &core.DomainAnalysis{
		Domain:    domain,
		Timestamp: start.UTC(),
		Success:   true,
	}

	defer func() {
		elapsed := time.Since(start)
		analysis.ProcessingTime = elapsed.Milliseconds()
		a.metrics.RecordAnalysis(analysis.Success, elapsed)
		a.logger.Info("Domain analysis finished",
			zap.String("domain", domain),
			zap.Bool("success", analysis.Success),
			zap.Duration("duration", elapsed),
			zap.String("error", analysis.Error),
		)
	}()

	whois, err := runWithDeadline(ctx, "WHOIS", a.opts.WhoisDeadline, func(ctx context.Context) (*core.WhoisRecord, error) {
		return a.whois.Resolve(ctx, domain)
	})
	if err != nil {
		a.fail(analysis, err)
		return analysis, nil
	}
	analysis.WhoisData = whois

	records, err := runWithDeadline(ctx, "DNS", a.opts.DNSDeadline, func(ctx context.Context) (*core.DnsRecordSet, error) {
		return a.dns.Collect(ctx, domain), nil
	})
	if err != nil {
		a.fail(analysis, err)
		return analysis, nil
	}
	if records == nil {
		records = core.NewDnsRecordSet()
	}
	analysis.DNSData = records

	privacy := assess.AnalyzePrivacy(whois)
	registrar := assess.ClassifyRegistrar(whois)
	analysis.PrivacyAnalysis = &privacy
	analysis.RegistrarInfo = &registrar
	analysis.GeoData = a.geo.Locate(records)

	if privacy.IsPrivate {
		a.metrics.RecordPrivacyDetection(*privacy.PrivacyService)
	}

	if privacy.IsPrivate && privacy.PrivacyDomain != nil {
		a.lookupPrivacyDomain(ctx, domain, &privacy)
	}

	summary := assess.Summarize(analysis)
	analysis.Summary = &summary

	return analysis, nil
}

// lookupPrivacyDomain attaches the WHOIS record of the privacy contact's domain. Failure only
// gets logged.
func (a *Analyzer) lookupPrivacyDomain(ctx context.Context, domain string, privacy *core.PrivacyAssessment) {
	target := assess.LookupDomain(*privacy.PrivacyDomain)

	rec, err := runWithDeadline(ctx, "Privacy", a.opts.PrivacyDeadline, func(ctx context.Context) (*core.WhoisRecord, error) {
		return a.whois.Resolve(ctx, target)
	})
	if err != nil {
		a.logger.Info("Privacy domain analysis failed",
			zap.String("domain", domain),
			zap.String("privacy_domain", target),
			zap.Error(err),
		)
		return
	}

	privacy.PrivacyDomainWhois = rec
}

func (a *Analyzer) fail(analysis *core.DomainAnalysis, err error) {
	analysis.Success = false
	analysis.Error = err.Error()
	a.logger.Warn("Domain analysis failed",
		zap.String("domain", analysis.Domain),
		zap.Error(err),
	)
}
