package checker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/likexian/whois"

	"github.com/leozw/domain-intel/internal/core"
)

const StrategyProtocol = "protocol"

type whoisQuerier interface {
	Whois(domain string, servers ...string) (string, error)
}

// ProtocolStrategy queries the registry directly over the WHOIS protocol (port 43).
type ProtocolStrategy struct {
	client  whoisQuerier
	timeout time.Duration
}

func NewProtocolStrategy(timeout time.Duration) *ProtocolStrategy {
	client := whois.NewClient()
	client.SetTimeout(timeout)

	return &ProtocolStrategy{
		client:  client,
		timeout: timeout,
	}
}

func (p *ProtocolStrategy) Name() string {
	return StrategyProtocol
}

func (p *ProtocolStrategy) Timeout() time.Duration {
	return p.timeout
}

// Lookup has no way to cancel the underlying socket read beyond the client timeout; the
// resolver stops waiting on ctx and discards a late answer.
func (p *ProtocolStrategy) Lookup(ctx context.Context, domain string) (*core.WhoisRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := p.client.Whois(domain)
	if err != nil {
		return nil, fmt.Errorf("whois lookup failed: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("whois lookup failed: empty response")
	}

	rec := ParseWhoisText(domain, raw)
	rec.Source = StrategyProtocol
	return rec, nil
}
