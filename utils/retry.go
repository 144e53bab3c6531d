package utils

import (
	"context"
	"fmt"
	"time"
)

// RetryWithBackoff runs fn up to attempts times with quadratic backoff between tries.
// attempts below 1 are treated as 1. It stops early when ctx is done.
func RetryWithBackoff(ctx context.Context, attempts int, fn func(ctx context.Context) error, logger *Logger) error {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*attempt) * time.Second
			logger.Warn("Retrying (attempt %d/%d) after %v...", attempt+1, attempts, backoff)
			select {
			case <-ctx.Done():
				return fmt.Errorf("retry aborted: %w", ctx.Err())
			case <-time.After(backoff):
			}
		}
		if err := fn(ctx); err != nil {
			lastErr = err
			logger.Error("Attempt %d failed: %v", attempt+1, err)
			continue
		}
		return nil
	}
	if attempts == 1 {
		return lastErr
	}
	return fmt.Errorf("all %d attempts failed, last error: %w", attempts, lastErr)
}
