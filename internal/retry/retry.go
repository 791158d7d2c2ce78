package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	// DefaultMaxAttempts bounds how many times an operation runs before
	// the conflict is surfaced to the caller.
	DefaultMaxAttempts = 3
	// DefaultBaseDelay is the unit used for linear backoff between attempts.
	DefaultBaseDelay = 50 * time.Millisecond
)

// Config tunes the retry loop.
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultConfig returns the production retry settings.
func DefaultConfig() Config {
	return Config{MaxAttempts: DefaultMaxAttempts, BaseDelay: DefaultBaseDelay}
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = DefaultBaseDelay
	}
	return c
}

// ExhaustedError reports that every attempt ended in a retryable conflict.
type ExhaustedError struct {
	Label    string
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s: conflict persisted after %d attempts: %v", e.Label, e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// InterruptedError reports that the caller's context was cancelled while
// waiting between attempts.
type InterruptedError struct {
	Label string
	Cause error
}

func (e *InterruptedError) Error() string {
	return fmt.Sprintf("%s: interrupted between attempts: %v", e.Label, e.Cause)
}

func (e *InterruptedError) Unwrap() error { return e.Cause }

// Do runs op up to cfg.MaxAttempts times, sleeping BaseDelay×attempt between
// attempts. Only errors accepted by the retryable predicate are retried;
// anything else propagates immediately. Cancellation is observed only while
// waiting, never mid-attempt, so a single versioned write is never torn.
func Do[T any](ctx context.Context, cfg Config, logger *slog.Logger, label string, retryable func(error) bool, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	cfg = cfg.withDefaults()

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if !retryable(err) {
			return zero, err
		}
		lastErr = err

		if attempt == cfg.MaxAttempts {
			break
		}

		logger.Warn("retrying after conflict",
			slog.String("operation", label),
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)

		delay := cfg.BaseDelay * time.Duration(attempt)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, &InterruptedError{Label: label, Cause: ctx.Err()}
		case <-timer.C:
		}
	}

	logger.Error("retry budget exhausted",
		slog.String("operation", label),
		slog.Int("attempts", cfg.MaxAttempts),
		slog.Any("error", lastErr),
	)
	return zero, &ExhaustedError{Label: label, Attempts: cfg.MaxAttempts, Last: lastErr}
}
