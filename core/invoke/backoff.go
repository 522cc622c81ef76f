package invoke

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// BackoffConfig shapes the wait between failed attempts. Zero fields take
// the defaults noted below. Without WithBackoff the invoker retries
// immediately.
type BackoffConfig struct {
	// Initial is the wait before the second attempt. Default: 1s.
	Initial time.Duration

	// Max caps the computed wait. Default: 30s.
	Max time.Duration

	// Factor is the exponential growth multiplier. Default: 2.0.
	Factor float64

	// Jitter adds up to Jitter*wait of random noise. Default: 0.1; a negative
	// value disables jitter.
	Jitter float64
}

// WithDefaults returns c with zero fields replaced by defaults.
func (c BackoffConfig) WithDefaults() BackoffConfig {
	if c.Initial <= 0 {
		c.Initial = time.Second
	}
	if c.Max <= 0 {
		c.Max = 30 * time.Second
	}
	if c.Factor <= 0 {
		c.Factor = 2.0
	}
	if c.Jitter == 0 {
		c.Jitter = 0.1
	}
	return c
}

// Delay returns the wait before retry n (0-indexed):
// min(Initial * Factor^n, Max) + jitter.
func (c BackoffConfig) Delay(n int) time.Duration {
	c = c.WithDefaults()
	base := float64(c.Initial) * math.Pow(c.Factor, float64(n))
	if base > float64(c.Max) {
		base = float64(c.Max)
	}

	if c.Jitter > 0 {
		base += base * c.Jitter * rand.Float64() //nolint:gosec // non-cryptographic jitter
	}
	return time.Duration(base)
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
