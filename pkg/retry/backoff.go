package retry

import (
	"context"
	"math/rand"
	"time"
)

// BackoffStrategy defines the interface for different backoff strategies
type BackoffStrategy interface {
	// NextDelay returns the next delay duration
	NextDelay(attempt int) time.Duration
	// Reset resets the backoff strategy to initial state
	Reset()
}

// UniformBackoff draws each delay uniformly from [Min, Max]. The jitter
// de-synchronizes concurrent batch workers so their retries never land on
// the source at the same moment.
type UniformBackoff struct {
	Min time.Duration
	Max time.Duration
}

// DefaultUniformBackoff returns a uniform backoff over 3-7 seconds
func DefaultUniformBackoff() *UniformBackoff {
	return &UniformBackoff{
		Min: 3 * time.Second,
		Max: 7 * time.Second,
	}
}

// NextDelay returns a delay drawn uniformly from the configured range
func (ub *UniformBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	if ub.Max <= ub.Min {
		return ub.Min
	}
	return ub.Min + time.Duration(rand.Int63n(int64(ub.Max-ub.Min)))
}

// Reset resets the backoff (no-op, the distribution is stateless)
func (ub *UniformBackoff) Reset() {}

// ConstantBackoff implements constant delay backoff
type ConstantBackoff struct {
	Delay time.Duration
}

// NextDelay returns a constant delay
func (cb *ConstantBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return cb.Delay
}

// Reset resets the backoff (no-op for constant backoff)
func (cb *ConstantBackoff) Reset() {}

// Wait waits for the specified duration or until context is cancelled
func Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
