package ratelimit

import (
	"context"
	"io"
	"sync"
	"time"
)

// minBucket keeps bursts large enough for smooth transfers on slow
// limits.
const minBucket = 64 * 1024

// Limiter is a token bucket shared by one or more readers. A nil
// Limiter disables limiting.
type Limiter struct {
	bytesPerSecond int64
	bucketSize     int64

	mu         sync.Mutex
	tokens     int64
	lastRefill time.Time
}

// NewLimiter creates a Limiter capped at bytesPerSecond. Zero or
// negative values return nil, meaning unlimited.
func NewLimiter(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}

	bucket := bytesPerSecond
	if bucket < minBucket {
		bucket = minBucket
	}

	return &Limiter{
		bytesPerSecond: bytesPerSecond,
		bucketSize:     bucket,
		tokens:         bucket,
		lastRefill:     time.Now(),
	}
}

// take blocks until n tokens are available, then consumes them.
// Returns early with the context error on cancellation.
func (l *Limiter) take(ctx context.Context, n int64) error {
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

		wait := time.Duration(float64(deficit) / float64(l.bytesPerSecond) * float64(time.Second))
		if wait < time.Millisecond {
			wait = time.Millisecond
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// refill credits tokens for elapsed time. Caller holds the lock.
func (l *Limiter) refill() {
	now := time.Now()
	elapsed := now.Sub(l.lastRefill)
	credit := int64(float64(elapsed) / float64(time.Second) * float64(l.bytesPerSecond))
	if credit > 0 {
		l.tokens += credit
		if l.tokens > l.bucketSize {
			l.tokens = l.bucketSize
		}
		l.lastRefill = now
	}
}

// Reader wraps an io.Reader so reads never exceed the limiter's rate.
type Reader struct {
	reader  io.Reader
	limiter *Limiter
	ctx     context.Context
}

// NewReader wraps r with rate limiting. A nil limiter returns r
// unchanged.
func NewReader(ctx context.Context, r io.Reader, limiter *Limiter) io.Reader {
	if limiter == nil {
		return r
	}
	return &Reader{reader: r, limiter: limiter, ctx: ctx}
}

// Read implements io.Reader, waiting for bucket tokens before each
// chunk.
func (r *Reader) Read(p []byte) (int, error) {
	chunk := int64(len(p))
	if chunk > r.limiter.bucketSize {
		chunk = r.limiter.bucketSize
	}

	if err := r.limiter.take(r.ctx, chunk); err != nil {
		return 0, err
	}

	n, err := r.reader.Read(p[:chunk])
	if n > 0 && int64(n) < chunk {
		// Return unused tokens so short reads do not over-throttle.
		r.limiter.mu.Lock()
		r.limiter.tokens += chunk - int64(n)
		if r.limiter.tokens > r.limiter.bucketSize {
			r.limiter.tokens = r.limiter.bucketSize
		}
		r.limiter.mu.Unlock()
	}
	return n, err
}

// ReadCloser wraps an io.ReadCloser with rate limiting.
type ReadCloser struct {
	Reader
	closer io.Closer
}

// NewReadCloser wraps rc with rate limiting. A nil limiter returns rc
// unchanged.
func NewReadCloser(ctx context.Context, rc io.ReadCloser, limiter *Limiter) io.ReadCloser {
	if limiter == nil {
		return rc
	}
	return &ReadCloser{
		Reader: Reader{reader: rc, limiter: limiter, ctx: ctx},
		closer: rc,
	}
}

// Close implements io.Closer.
func (rc *ReadCloser) Close() error {
	return rc.closer.Close()
}
