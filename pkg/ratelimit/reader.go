// Package ratelimit throttles file reads so content hashing does not starve
// the disks it is inspecting.
package ratelimit

import (
	"context"
	"io"
	"sync"
	"time"
)

// minBucketSize keeps bursts at least one hash chunk wide so low limits do
// not degenerate into byte-at-a-time reads.
const minBucketSize = 65536

// Limiter is a token bucket shared by all readers of one operation. A nil
// Limiter means unlimited.
type Limiter struct {
	bytesPerSecond int64

	mu         sync.Mutex
	tokens     int64
	bucketSize int64
	lastRefill time.Time
}

// NewLimiter creates a limiter for the given rate. Zero or negative rates
// return nil, which disables limiting entirely.
func NewLimiter(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}

	bucketSize := bytesPerSecond
	if bucketSize < minBucketSize {
		bucketSize = minBucketSize
	}

	return &Limiter{
		bytesPerSecond: bytesPerSecond,
		tokens:         bucketSize,
		bucketSize:     bucketSize,
		lastRefill:     time.Now(),
	}
}

// refill adds tokens for the elapsed time. Caller holds mu.
func (l *Limiter) refill() {
	now := time.Now()
	elapsed := now.Sub(l.lastRefill)
	added := int64(elapsed.Seconds() * float64(l.bytesPerSecond))
	if added > 0 {
		l.tokens = min(l.tokens+added, l.bucketSize)
		l.lastRefill = now
	}
}

// wait blocks until n tokens are available or the context is cancelled.
func (l *Limiter) wait(ctx context.Context, n int64) error {
	for {
		l.mu.Lock()
		l.refill()
		if l.tokens >= n {
			l.tokens -= n
			l.mu.Unlock()
			return nil
		}
		deficit := n - l.tokens
		l.mu.Unlock()

		pause := time.Duration(float64(deficit) / float64(l.bytesPerSecond) * float64(time.Second))
		if pause < time.Millisecond {
			pause = time.Millisecond
		}

		timer := time.NewTimer(pause)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// reader applies a Limiter to an io.Reader.
type reader struct {
	ctx     context.Context
	inner   io.Reader
	limiter *Limiter
}

// NewReader wraps r so that reads consume tokens from the limiter. With a nil
// limiter r is returned unchanged.
func NewReader(ctx context.Context, r io.Reader, limiter *Limiter) io.Reader {
	if limiter == nil {
		return r
	}
	return &reader{ctx: ctx, inner: r, limiter: limiter}
}

func (r *reader) Read(p []byte) (int, error) {
	want := int64(len(p))
	if want > r.limiter.bucketSize {
		want = r.limiter.bucketSize
	}
	if err := r.limiter.wait(r.ctx, want); err != nil {
		return 0, err
	}

	n, err := r.inner.Read(p[:want])

	// Tokens were reserved for the full request; hand back what the short
	// read did not use.
	if shortfall := want - int64(n); shortfall > 0 {
		r.limiter.mu.Lock()
		r.limiter.tokens = min(r.limiter.tokens+shortfall, r.limiter.bucketSize)
		r.limiter.mu.Unlock()
	}

	return n, err
}
