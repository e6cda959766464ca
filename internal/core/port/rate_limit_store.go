package port

import (
	"context"
	"time"
)

// RateLimitStore gates photo creation with a sliding-window allowance.
type RateLimitStore interface {
	// TryConsume checks the allowance for the window ending at the provided
	// time and records the consumption in the same atomic step, so concurrent
	// callers can never over-admit past the limit. When denied, the returned
	// time is the oldest attempt still holding the window (zero when unknown).
	TryConsume(ctx context.Context, identifier string, limit int, window time.Duration, at time.Time) (bool, time.Time, error)
}
