package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/leozw/domain-intel/internal/config"
)

// Collector owns every service metric. All methods are safe on a nil *Collector so
// components can run without instrumentation.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry
	logger   *zap.Logger

	// WHOIS
	whoisAttempts *prometheus.CounterVec

	// DNS
	dnsBatchDuration prometheus.Histogram
	dnsFailures      *prometheus.CounterVec

	// Analysis
	analysesTotal     *prometheus.CounterVec
	analysisDuration  *prometheus.HistogramVec
	privacyDetections *prometheus.CounterVec

	// Cache
	cacheLookups *prometheus.CounterVec
	cacheKeys    prometheus.Gauge

	// HTTP
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewCollector registers the service metrics on reg. A nil reg gets a fresh registry with
// the Go and process collectors attached.
func NewCollector(cfg config.MetricsConfig, reg *prometheus.Registry, logger *zap.Logger) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := promauto.With(reg)

	return &Collector{
		config:   &cfg,
		registry: reg,
		logger:   logger,

		whoisAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "domainintel_whois_attempts_total",
				Help: "WHOIS strategy attempts by outcome",
			},
			[]string{"strategy", "result"},
		),

		dnsBatchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "domainintel_dns_batch_duration_seconds",
				Help:    "Wall-clock duration of a full DNS record collection",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
		),

		dnsFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "domainintel_dns_query_failures_total",
				Help: "DNS queries that failed and fell back to an empty default",
			},
			[]string{"record_type"},
		),

		analysesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "domainintel_analyses_total",
				Help: "Completed domain analyses",
			},
			[]string{"success"},
		),

		analysisDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "domainintel_analysis_duration_seconds",
				Help:    "Duration of domain analyses in seconds",
				Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 15, 20, 30},
			},
			[]string{"success"},
		),

		privacyDetections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "domainintel_privacy_detections_total",
				Help: "Privacy protection services detected in WHOIS data",
			},
			[]string{"service"},
		),

		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "domainintel_cache_lookups_total",
				Help: "Analysis cache lookups by result",
			},
			[]string{"result"},
		),

		cacheKeys: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "domainintel_cache_keys",
				Help: "Entries currently held in the analysis cache",
			},
		),

		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "domainintel_http_requests_total",
				Help: "HTTP requests served",
			},
			[]string{"method", "route", "status"},
		),

		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "domainintel_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

func (c *Collector) RecordWhoisAttempt(strategy, result string) {
	if c == nil {
		return
	}
	c.whoisAttempts.WithLabelValues(strategy, result).Inc()
}

func (c *Collector) ObserveDNSBatch(d time.Duration) {
	if c == nil {
		return
	}
	c.dnsBatchDuration.Observe(d.Seconds())
}

func (c *Collector) RecordDNSFailure(recordType string) {
	if c == nil {
		return
	}
	c.dnsFailures.WithLabelValues(recordType).Inc()
}

func (c *Collector) RecordAnalysis(success bool, d time.Duration) {
	if c == nil {
		return
	}
	label := strconv.FormatBool(success)
	c.analysesTotal.WithLabelValues(label).Inc()
	c.analysisDuration.WithLabelValues(label).Observe(d.Seconds())
}

func (c *Collector) RecordPrivacyDetection(service string) {
	if c == nil {
		return
	}
	c.privacyDetections.WithLabelValues(service).Inc()
}

func (c *Collector) RecordCacheLookup(hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(result).Inc()
}

func (c *Collector) SetCacheKeys(n int) {
	if c == nil {
		return
	}
	c.cacheKeys.Set(float64(n))
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
