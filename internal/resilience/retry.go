package resilience

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrRetryExhausted matches any *RetryExhaustedError via errors.Is.
var ErrRetryExhausted = eris.New("retry exhausted")

// RetryExhaustedError reports that every attempt failed. Err is the error
// returned by the final attempt.
type RetryExhaustedError struct {
	Attempts int
	Err      error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("retry exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrRetryExhausted) hold for any exhaustion.
func (e *RetryExhaustedError) Is(target error) bool {
	return target == ErrRetryExhausted
}

// SleepFunc waits for d or until ctx is done, returning ctx.Err() in the
// latter case.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Policy controls bounded retries with exponential backoff and jitter.
type Policy struct {
	// MaxAttempts is the total number of attempts including the first.
	// Default: 3.
	MaxAttempts int

	// BaseDelay is the wait before the second attempt. Attempt n+1 waits
	// BaseDelay * Multiplier^(n-1). Default: 1s.
	BaseDelay time.Duration

	// MaxDelay caps a single wait. Default: 30s.
	MaxDelay time.Duration

	// Multiplier scales the delay after each attempt. Default: 2.0.
	Multiplier float64

	// JitterFraction randomizes each delay by ±fraction (0.2 = ±20%).
	JitterFraction float64

	// ShouldRetry decides whether a failure is worth another attempt.
	// If nil, every error except a PermanentError is retried.
	ShouldRetry func(err error) bool

	// OnRetry is called before each backoff sleep.
	OnRetry func(attempt int, err error, delay time.Duration)

	// Sleep replaces the real timer, mainly for tests.
	Sleep SleepFunc

	// Rand returns a value in [0, 1) used for jitter. Default: math/rand/v2.
	Rand func() float64
}

// DefaultPolicy returns the policy used for source calls: three attempts,
// 1s base delay doubling each time, ±20% jitter.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		BaseDelay:      time.Second,
		MaxDelay:       30 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.2,
	}
}

// Execute runs op until it succeeds, the policy gives up, or ctx is done.
// Attempt 1 runs immediately. When every attempt fails the result is a
// *RetryExhaustedError carrying the last error. A failure that ShouldRetry
// rejects is returned as is. Cancellation is checked before each attempt and
// before each sleep, and returns the context error.
func Execute[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	p = p.withDefaults()

	var zero T
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, eris.Wrap(err, "retry: cancelled")
		}

		val, err := op(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if !p.ShouldRetry(err) {
			return zero, err
		}

		// Don't sleep after the last attempt.
		if attempt == p.MaxAttempts {
			break
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, eris.Wrap(ctxErr, "retry: cancelled")
		}

		delay := p.Backoff(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt, err, delay)
		}
		if sleepErr := p.Sleep(ctx, delay); sleepErr != nil {
			return zero, eris.Wrap(sleepErr, "retry: cancelled during backoff")
		}
	}

	return zero, &RetryExhaustedError{Attempts: p.MaxAttempts, Err: lastErr}
}

// Do is Execute for operations without a result.
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	_, err := Execute(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// Backoff returns the jittered delay to wait after the given failed attempt
// (1-based).
func (p Policy) Backoff(attempt int) time.Duration {
	p = p.withDefaults()
	if attempt < 1 {
		attempt = 1
	}

	delay := float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt-1))
	if delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}

	// Apply jitter: ±JitterFraction of delay.
	if p.JitterFraction > 0 {
		jitterRange := delay * p.JitterFraction
		delay += (p.Rand()*2 - 1) * jitterRange
	}

	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}

func (p Policy) withDefaults() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = time.Second
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = 30 * time.Second
	}
	if p.Multiplier <= 0 {
		p.Multiplier = 2.0
	}
	if p.JitterFraction < 0 {
		p.JitterFraction = 0
	}
	if p.ShouldRetry == nil {
		p.ShouldRetry = func(err error) bool { return !IsPermanent(err) }
	}
	if p.Sleep == nil {
		p.Sleep = sleep
	}
	if p.Rand == nil {
		p.Rand = rand.Float64
	}
	return p
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryLogger returns an OnRetry callback that logs each retry attempt.
func RetryLogger(service, operation string) func(int, error, time.Duration) {
	return func(attempt int, err error, delay time.Duration) {
		zap.L().Warn("retrying operation",
			zap.String("service", service),
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)
	}
}
