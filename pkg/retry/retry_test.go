package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	errs "malscraper/pkg/errors"
)

func TestUniformBackoffRange(t *testing.T) {
	backoff := &UniformBackoff{
		Min: 100 * time.Millisecond,
		Max: 500 * time.Millisecond,
	}

	for attempt := 1; attempt <= 10; attempt++ {
		delay := backoff.NextDelay(attempt)
		if delay < backoff.Min || delay > backoff.Max {
			t.Errorf("Attempt %d: delay %v outside [%v, %v]", attempt, delay, backoff.Min, backoff.Max)
		}
	}

	if delay := backoff.NextDelay(0); delay != 0 {
		t.Errorf("Expected zero delay for attempt 0, got %v", delay)
	}
}

func TestUniformBackoffJitter(t *testing.T) {
	backoff := &UniformBackoff{
		Min: 0,
		Max: time.Hour,
	}

	delays := make(map[time.Duration]bool)
	for i := 0; i < 10; i++ {
		delays[backoff.NextDelay(1)] = true
	}

	if len(delays) < 2 {
		t.Error("Expected multiple different delays from a wide range, but got consistent delays")
	}
}

func TestUniformBackoffDegenerateRange(t *testing.T) {
	backoff := &UniformBackoff{
		Min: 50 * time.Millisecond,
		Max: 50 * time.Millisecond,
	}

	if delay := backoff.NextDelay(1); delay != 50*time.Millisecond {
		t.Errorf("Expected fixed 50ms delay, got %v", delay)
	}
}

func TestRetryWithSuccess(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	}

	cfg := &Config{
		MaxAttempts: 5,
		Backoff:     &ConstantBackoff{Delay: time.Millisecond},
		RetryIf:     func(err error) bool { return true },
		Context:     context.Background(),
	}

	if err := Do(op, cfg); err != nil {
		t.Errorf("Expected success after retries, got error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestRetryBound(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		return errs.New(errs.KindExtraction, "list table not available")
	}

	cfg := &Config{
		MaxAttempts: 3,
		Backoff:     &ConstantBackoff{Delay: time.Millisecond},
		RetryIf:     DefaultRetryIf,
		Context:     context.Background(),
	}

	err := Do(op, cfg)
	if err == nil {
		t.Fatal("Expected error after exhausting attempts")
	}
	if attempts != 3 {
		t.Errorf("Expected exactly 3 attempts, got %d", attempts)
	}

	// The last failure stays reachable through the wrapper
	var kindErr *errs.Error
	if !errors.As(err, &kindErr) || kindErr.Kind != errs.KindExtraction {
		t.Errorf("Expected wrapped extraction error, got %v", err)
	}
}

func TestNoRetryAfterEmptySuccess(t *testing.T) {
	attempts := 0
	op := func() ([]string, error) {
		attempts++
		return nil, nil
	}

	cfg := &Config{
		MaxAttempts: 3,
		Backoff:     &ConstantBackoff{Delay: time.Millisecond},
		RetryIf:     DefaultRetryIf,
		Context:     context.Background(),
	}

	// An empty result is still a success and must not be retried
	result, err := DoWithResult(op, cfg)
	if err != nil {
		t.Errorf("Expected success, got %v", err)
	}
	if result != nil {
		t.Errorf("Expected empty result, got %v", result)
	}
	if attempts != 1 {
		t.Errorf("Expected exactly 1 attempt, got %d", attempts)
	}
}

func TestNonRetryableError(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		return errs.New(errs.KindRemoteSync, "upload failed")
	}

	cfg := &Config{
		MaxAttempts: 3,
		Backoff:     &ConstantBackoff{Delay: time.Millisecond},
		RetryIf:     DefaultRetryIf,
		Context:     context.Background(),
	}

	if err := Do(op, cfg); err == nil {
		t.Fatal("Expected error")
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt for non-retryable error, got %d", attempts)
	}
}

func TestRetryContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	op := func() error {
		attempts++
		cancel()
		return errors.New("failing")
	}

	cfg := &Config{
		MaxAttempts: 5,
		Backoff:     &ConstantBackoff{Delay: time.Minute},
		RetryIf:     func(err error) bool { return true },
		Context:     ctx,
	}

	err := Do(op, cfg)
	if err == nil {
		t.Fatal("Expected cancellation error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt before cancellation, got %d", attempts)
	}
}
