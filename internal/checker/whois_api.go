package checker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/leozw/domain-intel/internal/core"
)

const (
	StrategyAPI = "api"

	DefaultWhoisAPIURL = "https://whoisjson.com/api/v1/whois"
	defaultUserAgent   = "DomainIntel/1.0"
	maxAPIBody         = 1024 * 1024
)

// APIStrategy fetches structured WHOIS JSON from a third-party HTTPS API.
type APIStrategy struct {
	client    *http.Client
	endpoint  string
	apiKey    string
	userAgent string
	timeout   time.Duration
}

func NewAPIStrategy(endpoint, apiKey, userAgent string, timeout time.Duration) *APIStrategy {
	if endpoint == "" {
		endpoint = DefaultWhoisAPIURL
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &APIStrategy{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		endpoint:  endpoint,
		apiKey:    apiKey,
		userAgent: userAgent,
		timeout:   timeout,
	}
}

func (a *APIStrategy) Name() string {
	return StrategyAPI
}

func (a *APIStrategy) Timeout() time.Duration {
	return a.timeout
}

func (a *APIStrategy) Lookup(ctx context.Context, domain string) (*core.WhoisRecord, error) {
	u, err := url.Parse(a.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid whois api url: %w", err)
	}
	q := u.Query()
	q.Set("domain", domain)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAPIBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	rec, err := ParseWhoisJSON(domain, body)
	if err != nil {
		return nil, err
	}
	rec.Source = StrategyAPI
	return rec, nil
}
