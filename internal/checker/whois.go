package checker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/leozw/domain-intel/internal/core"
	"github.com/leozw/domain-intel/internal/metrics"
)

// WhoisStrategy is one way of obtaining registration data for a domain.
type WhoisStrategy interface {
	Name() string
	Timeout() time.Duration
	Lookup(ctx context.Context, domain string) (*core.WhoisRecord, error)
}

// WhoisResolver tries its strategies one after another until one yields a record. They are
// never run concurrently so a struggling registry is not hit twice at once.
type WhoisResolver struct {
	strategies []WhoisStrategy
	logger     *zap.Logger
	metrics    *metrics.Collector
}

func NewWhoisResolver(logger *zap.Logger, m *metrics.Collector, strategies ...WhoisStrategy) *WhoisResolver {
	return &WhoisResolver{
		strategies: strategies,
		logger:     logger,
		metrics:    m,
	}
}

// Resolve returns the first record any strategy produces, or a *WhoisUnavailableError.
func (r *WhoisResolver) Resolve(ctx context.Context, domain string) (*core.WhoisRecord, error) {
	var attempts []error

	for _, s := range r.strategies {
		if err := ctx.Err(); err != nil {
			attempts = append(attempts, err)
			break
		}

		start := time.Now()
		rec, err := runWithDeadline(ctx, "WHOIS "+s.Name(), s.Timeout(), func(ctx context.Context) (*core.WhoisRecord, error) {
			return s.Lookup(ctx, domain)
		})
		if err == nil && rec == nil {
			err = fmt.Errorf("no record returned")
		}

		if err != nil {
			result := "failure"
			if errors.Is(err, ErrTimeout) {
				result = "timeout"
			}
			r.metrics.RecordWhoisAttempt(s.Name(), result)
			r.logger.Warn("WHOIS strategy failed",
				zap.String("strategy", s.Name()),
				zap.String("domain", domain),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err),
			)
			attempts = append(attempts, &StrategyError{Strategy: s.Name(), Domain: domain, Err: err})
			continue
		}

		r.metrics.RecordWhoisAttempt(s.Name(), "success")
		r.logger.Debug("WHOIS resolved",
			zap.String("strategy", s.Name()),
			zap.String("domain", domain),
			zap.Duration("elapsed", time.Since(start)),
		)
		if rec.Emails == nil {
			rec.Emails = []string{}
		}
		if rec.NameServers == nil {
			rec.NameServers = []string{}
		}
		return rec, nil
	}

	return nil, &WhoisUnavailableError{Domain: domain, Attempts: attempts}
}
