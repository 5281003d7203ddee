package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

// recordingSleep returns a SleepFunc that records requested delays without
// waiting.
func recordingSleep(delays *[]time.Duration) SleepFunc {
	return func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return ctx.Err()
	}
}

func noJitterPolicy(delays *[]time.Duration) Policy {
	p := DefaultPolicy()
	p.JitterFraction = 0
	p.Sleep = recordingSleep(delays)
	return p
}

func TestExecute_SuccessOnFirstAttempt(t *testing.T) {
	var delays []time.Duration
	var calls int
	got, err := Execute(context.Background(), noJitterPolicy(&delays), func(_ context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("expected ok, got %q", got)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if len(delays) != 0 {
		t.Errorf("expected no sleep, got %v", delays)
	}
}

func TestExecute_SuccessAfterRetry(t *testing.T) {
	var delays []time.Duration
	var calls int
	got, err := Execute(context.Background(), noJitterPolicy(&delays), func(_ context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("temporary")
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 || calls != 3 {
		t.Errorf("expected 42 after 3 calls, got %d after %d", got, calls)
	}
}

func TestExecute_AlwaysFailsInvokesExactlyMaxAttempts(t *testing.T) {
	var delays []time.Duration
	var calls int
	last := errors.New("source down")

	_, err := Execute(context.Background(), noJitterPolicy(&delays), func(_ context.Context) (int, error) {
		calls++
		return 0, last
	})

	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if !errors.Is(err, ErrRetryExhausted) {
		t.Fatalf("expected ErrRetryExhausted, got %v", err)
	}
	var re *RetryExhaustedError
	if !errors.As(err, &re) {
		t.Fatalf("expected *RetryExhaustedError, got %T", err)
	}
	if re.Attempts != 3 {
		t.Errorf("expected Attempts=3, got %d", re.Attempts)
	}
	if !errors.Is(err, last) {
		t.Error("exhaustion should carry the last error")
	}
}

func TestExecute_ExponentialDelays(t *testing.T) {
	var delays []time.Duration
	p := noJitterPolicy(&delays)
	p.MaxAttempts = 4
	p.BaseDelay = time.Second

	_ = Do(context.Background(), p, func(_ context.Context) error {
		return errors.New("fail")
	})

	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("expected %d sleeps, got %v", len(want), delays)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("sleep %d: expected %v, got %v", i, want[i], delays[i])
		}
	}
}

func TestBackoff_JitterWithinBounds(t *testing.T) {
	p := DefaultPolicy()
	p.BaseDelay = time.Second

	for _, r := range []float64{0, 0.25, 0.5, 0.75, 0.999} {
		p.Rand = func() float64 { return r }
		for attempt := 1; attempt <= 3; attempt++ {
			nominal := float64(time.Second) * float64(int(1)<<(attempt-1))
			d := float64(p.Backoff(attempt))
			if d < nominal*0.8-1 || d > nominal*1.2+1 {
				t.Errorf("attempt %d rand %.3f: delay %v outside ±20%% of %v",
					attempt, r, time.Duration(d), time.Duration(nominal))
			}
		}
	}
}

func TestBackoff_Capped(t *testing.T) {
	p := DefaultPolicy()
	p.JitterFraction = 0
	p.BaseDelay = time.Second
	p.MaxDelay = 3 * time.Second
	if got := p.Backoff(5); got != 3*time.Second {
		t.Errorf("expected cap 3s, got %v", got)
	}
}

func TestExecute_PermanentErrorNotRetried(t *testing.T) {
	var delays []time.Duration
	var calls int
	_, err := Execute(context.Background(), noJitterPolicy(&delays), func(_ context.Context) (int, error) {
		calls++
		return 0, Permanent(errors.New("unauthorized"))
	})
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if errors.Is(err, ErrRetryExhausted) {
		t.Error("permanent errors should not report exhaustion")
	}
	if !IsPermanent(err) {
		t.Errorf("expected permanent error, got %v", err)
	}
}

func TestExecute_CustomShouldRetry(t *testing.T) {
	var delays []time.Duration
	p := noJitterPolicy(&delays)
	p.ShouldRetry = func(err error) bool { return err.Error() == "retry me" }

	var calls int
	err := Do(context.Background(), p, func(_ context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("retry me")
		}
		return errors.New("stop")
	})
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
	if err == nil || err.Error() != "stop" {
		t.Errorf("expected stop error, got %v", err)
	}
}

func TestExecute_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var delays []time.Duration
	var calls int
	err := Do(ctx, noJitterPolicy(&delays), func(_ context.Context) error {
		calls++
		return nil
	})
	if calls != 0 {
		t.Errorf("expected no calls, got %d", calls)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestExecute_CancelledBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var delays []time.Duration
	p := noJitterPolicy(&delays)
	p.MaxAttempts = 5

	var calls int
	err := Do(ctx, p, func(_ context.Context) error {
		calls++
		if calls == 2 {
			cancel()
		}
		return errors.New("fail")
	})
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
	if len(delays) != 1 {
		t.Errorf("expected 1 sleep before cancel, got %d", len(delays))
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestExecute_CancelledDuringSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := DefaultPolicy()
	p.Sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}

	var calls int
	err := Do(ctx, p, func(_ context.Context) error {
		calls++
		return errors.New("fail")
	})
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestExecute_RealSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	p := DefaultPolicy()
	p.BaseDelay = time.Hour
	p.MaxDelay = time.Hour

	start := time.Now()
	err := Do(ctx, p, func(_ context.Context) error { return errors.New("fail") })
	if time.Since(start) > 5*time.Second {
		t.Error("sleep did not stop on context deadline")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestExecute_OnRetryCallback(t *testing.T) {
	var delays []time.Duration
	p := noJitterPolicy(&delays)
	var attempts []int
	p.OnRetry = func(attempt int, _ error, _ time.Duration) {
		attempts = append(attempts, attempt)
	}

	_ = Do(context.Background(), p, func(_ context.Context) error { return errors.New("fail") })

	if len(attempts) != 2 || attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("expected retry callbacks [1 2], got %v", attempts)
	}
}

func TestPolicyFrom(t *testing.T) {
	p := PolicyFrom(5, 200*time.Millisecond, time.Second, 0.1)
	if p.MaxAttempts != 5 || p.BaseDelay != 200*time.Millisecond || p.MaxDelay != time.Second || p.JitterFraction != 0.1 {
		t.Errorf("unexpected policy: %+v", p)
	}

	d := PolicyFrom(0, 0, 0, -1)
	if d.MaxAttempts != 3 || d.BaseDelay != time.Second || d.JitterFraction != 0 {
		t.Errorf("expected defaults, got %+v", d)
	}
}
