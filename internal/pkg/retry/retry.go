package retry

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"time"
)

// BackoffFunc returns how long to wait after the given zero-based attempt.
type BackoffFunc func(attempt int) time.Duration

// RetryableFunc reports whether an error is worth another attempt.
// Business errors must return false so they surface immediately.
type RetryableFunc func(err error) bool

// AlwaysRetry treats every error as transient.
func AlwaysRetry(error) bool { return true }

// ExponentialBackoff doubles the base wait per attempt and adds up to 20%
// jitter to avoid synchronized retries from concurrent callers.
func ExponentialBackoff(base time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		wait := time.Duration(1<<attempt) * base
		return wait + time.Duration(cryptoRandInt63n(int64(wait/5)))
	}
}

// ConstantBackoff waits the same duration between every attempt.
func ConstantBackoff(d time.Duration) BackoffFunc {
	return func(int) time.Duration { return d }
}

// Do runs op up to maxAttempts times, waiting backoff(attempt) between
// attempts while retryable(err) holds. The last error is returned as-is;
// callers decide how to classify it. Context cancellation wins over the
// backoff timer.
func Do(ctx context.Context, maxAttempts int, backoff BackoffFunc, retryable RetryableFunc, op func(ctx context.Context) error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err = op(ctx); err == nil {
			return nil
		}
		if retryable != nil && !retryable(err) {
			return err
		}
		if attempt == maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff(attempt)):
		}
	}
	return err
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- high bit masked off above
	return int64(uval) % n
}
