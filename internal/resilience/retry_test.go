package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/OldStager01/sentinel-console/internal/resilience"
)

func TestRetry(t *testing.T) {
	tests := []struct {
		name          string
		attempts      int
		failures      int
		err           error
		expectedCalls int
		expectErr     bool
	}{
		{name: "single attempt no retry", attempts: 1, failures: 5, err: errUpstream, expectedCalls: 1, expectErr: true},
		{name: "zero attempts means one", attempts: 0, failures: 5, err: errUpstream, expectedCalls: 1, expectErr: true},
		{name: "succeeds on second try", attempts: 3, failures: 1, err: errUpstream, expectedCalls: 2},
		{name: "exhausts attempts", attempts: 3, failures: 5, err: errUpstream, expectedCalls: 3, expectErr: true},
		{name: "open breaker is not retried", attempts: 3, failures: 5, err: resilience.ErrCircuitOpen, expectedCalls: 1, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := resilience.Retry(context.Background(), resilience.RetryConfig{
				Attempts: tt.attempts,
				Delay:    time.Millisecond,
			}, func(ctx context.Context) error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})

			assert.Equal(t, tt.expectedCalls, calls)
			if tt.expectErr {
				assert.True(t, errors.Is(err, tt.err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRetry_StopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := resilience.Retry(ctx, resilience.RetryConfig{Attempts: 5, Delay: time.Hour}, func(ctx context.Context) error {
		calls++
		cancel()
		return errUpstream
	})

	assert.ErrorIs(t, err, errUpstream)
	assert.Equal(t, 1, calls)
}
