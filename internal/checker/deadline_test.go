package checker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithDeadline_ReturnsValue(t *testing.T) {
	v, err := runWithDeadline(context.Background(), "Step", time.Second, func(context.Context) (int, error) {
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestRunWithDeadline_AbandonsStuckCall(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	start := time.Now()
	_, err := runWithDeadline(context.Background(), "WHOIS", 20*time.Millisecond, func(context.Context) (int, error) {
		<-release
		return 1, nil
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Equal(t, "WHOIS timeout after 20ms", err.Error())
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestRunWithDeadline_CancelsCallee(t *testing.T) {
	cancelled := make(chan struct{})

	_, err := runWithDeadline(context.Background(), "DNS", 20*time.Millisecond, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		close(cancelled)
		return 0, ctx.Err()
	})

	assert.True(t, errors.Is(err, ErrTimeout))
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("callee context was never cancelled")
	}
}

func TestRunWithDeadline_ParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runWithDeadline(ctx, "WHOIS", time.Second, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})

	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestRunWithDeadline_ParentDeadlineKeepsOuterLabel(t *testing.T) {
	outer, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := runWithDeadline(outer, "WHOIS api", time.Minute, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})

	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.False(t, errors.Is(err, ErrTimeout), "the inner step must not claim the parent's deadline")

	_, err = runWithDeadline(context.Background(), "WHOIS", 20*time.Millisecond, func(ctx context.Context) (int, error) {
		return runWithDeadline(ctx, "WHOIS api", time.Minute, func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		})
	})
	require.Error(t, err)
	assert.Equal(t, "WHOIS timeout after 20ms", err.Error())
}

func TestRunWithDeadline_PassesErrors(t *testing.T) {
	boom := errors.New("boom")

	_, err := runWithDeadline(context.Background(), "WHOIS", 0, func(context.Context) (int, error) {
		return 0, boom
	})

	assert.Same(t, boom, err)
}
