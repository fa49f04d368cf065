package checker

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrWhoisUnavailable is matched by every error returned once all WHOIS strategies failed.
	ErrWhoisUnavailable = errors.New("whois unavailable")

	// ErrTimeout is matched by every deadline failure of an analysis step.
	ErrTimeout = errors.New("timeout exceeded")

	ErrInvalidDomain = errors.New("invalid domain")

	// errErrorEnvelope marks an upstream response that answered but flagged its own failure.
	errErrorEnvelope = errors.New("upstream reported an error")
)

// StrategyError is a soft failure of a single WHOIS strategy.
type StrategyError struct {
	Strategy string
	Domain   string
	Err      error
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("whois strategy %s failed for %s: %v", e.Strategy, e.Domain, e.Err)
}

func (e *StrategyError) Unwrap() error {
	return e.Err
}

// WhoisUnavailableError reports that every configured strategy failed for Domain.
type WhoisUnavailableError struct {
	Domain   string
	Attempts []error
}

func (e *WhoisUnavailableError) Error() string {
	if len(e.Attempts) == 0 {
		return fmt.Sprintf("All WHOIS methods failed for %s", e.Domain)
	}
	msgs := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		msgs = append(msgs, a.Error())
	}
	return fmt.Sprintf("All WHOIS methods failed for %s (%s)", e.Domain, strings.Join(msgs, "; "))
}

func (e *WhoisUnavailableError) Is(target error) bool {
	return target == ErrWhoisUnavailable
}

func (e *WhoisUnavailableError) Unwrap() []error {
	return e.Attempts
}

// TimeoutError reports that Step did not finish within After.
type TimeoutError struct {
	Step  string
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timeout after %s", e.Step, e.After)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}
