package resilience

import (
	"time"
)

// PolicyFrom converts config values to a Policy. Non-positive values keep
// the DefaultPolicy setting; a negative jitter disables jitter.
func PolicyFrom(maxAttempts int, baseDelay, maxDelay time.Duration, jitterFraction float64) Policy {
	p := DefaultPolicy()
	if maxAttempts > 0 {
		p.MaxAttempts = maxAttempts
	}
	if baseDelay > 0 {
		p.BaseDelay = baseDelay
	}
	if maxDelay > 0 {
		p.MaxDelay = maxDelay
	}
	if jitterFraction >= 0 {
		p.JitterFraction = jitterFraction
	} else {
		p.JitterFraction = 0
	}
	return p
}
