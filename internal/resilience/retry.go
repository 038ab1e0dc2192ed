package resilience

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy is a named exponential backoff configuration.
type RetryPolicy struct {
	Name       string
	MaxRetries int           // retries after the first attempt
	InitDelay  time.Duration // delay before the first retry
	MaxDelay   time.Duration // cap on any single delay
	Multiplier float64       // backoff growth per retry
	Jitter     float64       // 0.0 to 1.0

	// ShouldRetry overrides the default !IsPermanentError check.
	ShouldRetry func(error) bool
}

var (
	// NoRetry runs the operation exactly once.
	NoRetry = RetryPolicy{Name: "no-retry"}

	// ReloadRetry rides out editors that write a suite file in several
	// steps, so the first read after a change may see a partial file.
	ReloadRetry = RetryPolicy{
		Name:       "reload-retry",
		MaxRetries: 4,
		InitDelay:  50 * time.Millisecond,
		MaxDelay:   1 * time.Second,
		Multiplier: 2.0,
		Jitter:     0.1,
	}
)

// RetryFunc is an operation that can be retried.
type RetryFunc func(ctx context.Context) error

// RetryCallback is called before each retry with the failed attempt number
// (starting at 1), its error, and the delay about to be taken.
type RetryCallback func(attempt int, err error, nextDelay time.Duration)

// Execute runs fn under the policy.
func (p RetryPolicy) Execute(ctx context.Context, fn RetryFunc) error {
	return p.ExecuteWithCallback(ctx, fn, nil)
}

// ExecuteWithCallback runs fn under the policy and reports every retry.
// It returns nil on success, the first non-retryable error, ctx.Err() on
// cancellation, or the last error once retries are exhausted.
func (p RetryPolicy) ExecuteWithCallback(ctx context.Context, fn RetryFunc, callback RetryCallback) error {
	shouldRetry := p.ShouldRetry
	if shouldRetry == nil {
		shouldRetry = func(err error) bool { return !IsPermanentError(err) }
	}

	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !shouldRetry(err) || attempt >= p.MaxRetries {
			break
		}

		delay := p.delay(attempt)
		if callback != nil {
			callback(attempt+1, err, delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}

// delay computes InitDelay * Multiplier^attempt, capped and jittered.
func (p RetryPolicy) delay(attempt int) time.Duration {
	d := float64(p.InitDelay) * math.Pow(p.Multiplier, float64(attempt))
	if p.MaxDelay > 0 && d > float64(p.MaxDelay) {
		d = float64(p.MaxDelay)
	}
	if p.Jitter > 0 {
		spread := d * p.Jitter
		d = d - spread + rand.Float64()*2*spread
	}
	return time.Duration(d)
}
