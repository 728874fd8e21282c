package ports

import (
	"context"
	"time"
)

// RateDecision is the outcome of charging one request against a budget.
type RateDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateDecision, error)
}
