// Package reliability retries operations that fail for transient reasons.
package reliability

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Backoff describes an exponential delay schedule. Zero fields take the
// DefaultBackoff value; Jitter 0 disables jitter.
type Backoff struct {
	// MaxAttempts counts the first attempt.
	MaxAttempts int
	Initial     time.Duration
	Max         time.Duration
	Multiplier  float64
	// Jitter is the fraction of each delay randomly added or removed, in [0, 1].
	Jitter float64
}

// DefaultBackoff suits short local waits such as a locked database file.
var DefaultBackoff = Backoff{
	MaxAttempts: 5,
	Initial:     10 * time.Millisecond,
	Max:         time.Second,
	Multiplier:  2,
	Jitter:      0.1,
}

func (b Backoff) withDefaults() Backoff {
	if b.MaxAttempts <= 0 {
		b.MaxAttempts = DefaultBackoff.MaxAttempts
	}
	if b.Initial <= 0 {
		b.Initial = DefaultBackoff.Initial
	}
	if b.Max <= 0 {
		b.Max = DefaultBackoff.Max
	}
	if b.Multiplier <= 0 {
		b.Multiplier = DefaultBackoff.Multiplier
	}
	if b.Jitter < 0 || b.Jitter > 1 {
		b.Jitter = DefaultBackoff.Jitter
	}
	return b
}

// Delay returns the wait after the given failed attempt (0-indexed).
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 0 {
		return 0
	}
	b = b.withDefaults()

	d := math.Min(float64(b.Initial)*math.Pow(b.Multiplier, float64(attempt)), float64(b.Max))
	if b.Jitter > 0 {
		d += (2*rand.Float64() - 1) * d * b.Jitter
	}
	return time.Duration(math.Max(d, 0))
}

// Retrier runs an operation until it succeeds, the error is not Retryable,
// the attempts run out or the context is done.
type Retrier struct {
	Backoff Backoff
	// Retryable classifies errors. Nil retries every error.
	Retryable func(error) bool
	// OnRetry runs before each wait with the upcoming attempt number
	// (1-indexed), the delay and the error that caused it.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// Do runs op under r and returns the last error op returned, or the context
// error when ctx ends first.
func (r Retrier) Do(ctx context.Context, op func(context.Context) error) error {
	b := r.Backoff.withDefaults()

	var err error
	for attempt := 0; attempt < b.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err = op(ctx); err == nil {
			return nil
		}
		if attempt == b.MaxAttempts-1 || (r.Retryable != nil && !r.Retryable(err)) {
			return err
		}

		delay := b.Delay(attempt)
		if r.OnRetry != nil {
			r.OnRetry(attempt+1, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}
